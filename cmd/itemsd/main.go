package main

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/mdouchement/itemstore/internal/database"
	"github.com/mdouchement/itemstore/internal/logger"
	"github.com/mdouchement/itemstore/internal/server"
	"github.com/mdouchement/itemstore/pkg/stormcodec"
	"github.com/muesli/coral"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var (
	version  = "dev"
	revision = "none"
	date     = "unknown"

	cfg string
	log = logger.New(logger.Config{})
)

func main() {
	c := &coral.Command{
		Use:     "itemsd",
		Short:   "Items document store server",
		Version: fmt.Sprintf("%s - build %.7s @ %s - %s", version, revision, date, runtime.Version()),
		Args:    coral.ExactArgs(0),
	}
	initCmd.Flags().StringVarP(&cfg, "config", "c", "", "Configuration file")
	c.AddCommand(initCmd)

	reindexCmd.Flags().StringVarP(&cfg, "config", "c", "", "Configuration file")
	c.AddCommand(reindexCmd)

	serverCmd.Flags().StringVarP(&cfg, "config", "c", "", "Configuration file")
	c.AddCommand(serverCmd)

	if err := c.Execute(); err != nil {
		log.Fatalf("%+v", err)
	}
}

func load() (*koanf.Koanf, error) {
	konf := koanf.New(".")
	err := konf.Load(confmap.Provider(map[string]any{
		"address":          "localhost:5000",
		"database.driver":  database.DriverStorm,
		"database.codec":   stormcodec.Default,
		"listen.heartbeat": server.DefaultHeartbeat.String(),
		"log.level":        "info",
	}, "."), nil)
	if err != nil {
		return nil, err
	}

	if cfg != "" {
		if err := konf.Load(file.Provider(cfg), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "could not load config %s", cfg)
		}
	}

	if level, err := logrus.ParseLevel(konf.String("log.level")); err == nil {
		log.SetLevel(level)
	}
	return konf, nil
}

func options(konf *koanf.Koanf) database.Options {
	driver := konf.String("database.driver")
	path := konf.String("database.path")

	if path == "" || strings.HasSuffix(path, string(filepath.Separator)) {
		name := "items.db"
		if driver == database.DriverSQLite {
			name = "items.sqlite"
		}
		path = filepath.Join(path, name)
	}

	return database.Options{
		Driver: driver,
		Path:   path,
		Codec:  konf.String("database.codec"),
	}
}

var (
	initCmd = &coral.Command{
		Use:   "init",
		Short: "Init the database",
		Args:  coral.ExactArgs(0),
		RunE: func(_ *coral.Command, _ []string) error {
			konf, err := load()
			if err != nil {
				return err
			}

			opts := options(konf)
			log.WithField("driver", opts.Driver).Infof("Initializing %s", opts.Path)
			return database.Init(opts)
		},
	}

	//
	reindexCmd = &coral.Command{
		Use:   "reindex",
		Short: "Reindex the database (storm only)",
		Args:  coral.ExactArgs(0),
		RunE: func(_ *coral.Command, _ []string) error {
			konf, err := load()
			if err != nil {
				return err
			}

			opts := options(konf)
			if opts.Driver != database.DriverStorm {
				return errors.Errorf("reindex is not supported by %s driver", opts.Driver)
			}
			return database.StormReIndex(opts.Path, opts.Codec)
		},
	}

	//
	//
	serverCmd = &coral.Command{
		Use:   "server",
		Short: "Start server",
		Args:  coral.ExactArgs(0),
		RunE: func(_ *coral.Command, _ []string) error {
			konf, err := load()
			if err != nil {
				return err
			}

			heartbeat, err := time.ParseDuration(konf.String("listen.heartbeat"))
			if err != nil {
				return errors.Wrap(err, "invalid listen.heartbeat")
			}

			db, err := database.Open(options(konf))
			if err != nil {
				return errors.Wrap(err, "could not open database")
			}
			defer db.Close()

			engine := server.EchoEngine(server.IOC{
				Version:   version,
				Database:  db,
				Logger:    log,
				APIToken:  konf.String("api_token"),
				Heartbeat: heartbeat,
			})
			server.PrintRoutes(engine)

			address := konf.String("address")
			message := "could not run server"
			log.Infof("Server listening on %s", address)
			parts := strings.Split(address, ":")
			if len(parts) == 2 && parts[0] == "unix" {
				socketFile := parts[1]
				if _, err := os.Stat(socketFile); err == nil {
					log.Infof("Removing existing %s", socketFile)
					os.Remove(socketFile)
				}
				defer os.Remove(socketFile)
				listener, err := net.Listen(parts[0], socketFile)
				if err != nil {
					return err
				}
				return errors.Wrap(engine.Server.Serve(listener), message)
			}
			return errors.Wrap(engine.Start(address), message)
		},
	}
)
