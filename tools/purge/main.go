package main

import (
	"fmt"
	"log"

	"github.com/mdouchement/itemstore/internal/database"
	"github.com/muesli/coral"
	"github.com/pkg/errors"
)

func main() {
	var driver, codec string

	c := &coral.Command{
		Use:   "purge DATABASE STUDENT_ID",
		Short: "Remove all the items of a student (live queries of a running server are not notified)",
		Long: `Remove all the items of a student directly from the database file.

The live-update feed lives in the server process, so clients already
listening keep showing the purged items until the next write through the API.`,
		Args: coral.ExactArgs(2),
		RunE: func(_ *coral.Command, args []string) error {
			fmt.Println("Opening", args[0])
			db, err := database.Open(database.Options{
				Driver: driver,
				Path:   args[0],
				Codec:  codec,
			})
			if err != nil {
				return errors.Wrap(err, "could not open database")
			}
			defer db.Close()

			n, err := db.DeleteStudentItems(args[1])
			if err != nil {
				return err
			}
			if n == 0 {
				fmt.Println("No items for this student")
				return nil
			}
			fmt.Println("Items removed:", n)

			return nil
		},
	}
	c.Flags().StringVar(&driver, "driver", database.DriverStorm, "Database driver (storm, sqlite)")
	c.Flags().StringVar(&codec, "codec", "", "Storm codec of the database (msgpack, json, cbor, binc)")

	if err := c.Execute(); err != nil {
		log.Fatalf("%+v", err)
	}
}
