package main

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/asdine/storm/v3"
	"github.com/mdouchement/itemstore/internal/database"
	"github.com/mdouchement/itemstore/internal/model"
	"github.com/mdouchement/itemstore/pkg/stormsql"
	"github.com/mdouchement/itemstore/pkg/structs"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// go run tools/console/main.go items.db " SELECT count(*) FROM items WHERE student_id = 'A01282356' AND created_at > '2024-02-16 20:52:55';  "

var columns = map[string]string{
	"id":          "ID",
	"title":       "Title",
	"description": "Description",
	"student_id":  "StudentID",
	"created_at":  "CreatedAt",
	"updated_at":  "UpdatedAt",
}

func main() {
	var codec string

	c := &cobra.Command{
		Use:   "console DATABASE SQL",
		Short: "SQL console for storm items database",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			//
			//
			sc, err := stormsql.ParseSelect(args[1], columns)
			if err != nil {
				return err
			}
			if sc.Tablename != "items" {
				return errors.Errorf("unknown tablename: %s", sc.Tablename)
			}

			//
			//
			fmt.Println("Opening", args[0])
			db, err := database.StormOpenRaw(args[0], codec)
			if err != nil {
				return errors.Wrap(err, "could not open database")
			}
			defer db.Close()

			//
			// Prepare request
			//

			query := db.Select(sc.Matcher)
			if sc.Skip > 0 {
				query.Skip(sc.Skip)
			}
			if sc.Limit > 0 {
				query.Limit(sc.Limit)
			}
			if len(sc.OrderBy) > 0 {
				query.OrderBy(sc.OrderBy...)
				if sc.OrderByReversed {
					query.Reverse()
				}
			}

			// Execute

			if sc.Count {
				return count(query)
			}

			return list(sc, query)
		},
	}
	c.Flags().StringVar(&codec, "codec", "", "Storm codec of the database (msgpack, json, cbor, binc)")

	if err := c.Execute(); err != nil {
		log.Fatalf("%+v", err)
	}
}

func count(query storm.Query) error {
	n, err := query.Count(&model.Item{})
	if err != nil {
		return errors.Wrap(err, "could not perform query")
	}

	fmt.Println("Count:", n)
	return nil
}

func list(sc *stormsql.SelectClause, query storm.Query) error {
	var items []*model.Item
	err := query.Find(&items)
	if err == storm.ErrNotFound {
		fmt.Println("[]")
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "could not perform query")
	}

	if len(sc.SelectedFields) == 0 {
		return jsondump(items)
	}

	rows := make([]map[string]any, 0, len(items))
	for _, item := range items {
		row, err := structs.Pick(item, sc.SelectedFields...)
		if err != nil {
			return errors.Wrap(err, "could not select fields")
		}
		rows = append(rows, row)
	}
	return jsondump(rows)
}

func jsondump(v any) error {
	d, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "could not serialize result")
	}
	fmt.Println(string(d))
	return nil
}
