package client

import (
	"os"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/mdouchement/itemstore/internal/client/store"
	"github.com/mdouchement/itemstore/internal/logger"
	"github.com/mdouchement/itemstore/pkg/libitems"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Defaults
const (
	ConfigFile = "items.yml"
	Endpoint   = "http://localhost:5000"
	StudentID  = "A01282356"
	LogFile    = "items.log"
)

// A Config holds client's configuration.
type Config struct {
	Endpoint  string
	APIToken  string
	StudentID string
	Log       logger.Config
}

// Load reads the configuration from the given YAML file.
// When filename is empty, ConfigFile is read if it exists in the current directory.
func Load(filename string) (Config, error) {
	konf := koanf.New(".")
	err := konf.Load(confmap.Provider(map[string]any{
		"endpoint":   Endpoint,
		"student_id": StudentID,
		"log.file":   LogFile,
		"log.level":  "info",
	}, "."), nil)
	if err != nil {
		return Config{}, errors.Wrap(err, "could not load default config")
	}

	if filename == "" {
		if _, err := os.Stat(ConfigFile); err == nil {
			filename = ConfigFile
		}
	}

	if filename != "" {
		if err := konf.Load(file.Provider(filename), yaml.Parser()); err != nil {
			return Config{}, errors.Wrapf(err, "could not load config %s", filename)
		}
	}

	return Config{
		Endpoint:  konf.String("endpoint"),
		APIToken:  konf.String("api_token"),
		StudentID: konf.String("student_id"),
		Log: logger.Config{
			Filename: konf.String("log.file"),
			Level:    konf.String("log.level"),
		},
	}, nil
}

// NewStore returns a data access layer connected to the configured endpoint.
func NewStore(cfg Config, log logrus.FieldLogger) (*store.Store, error) {
	client, err := libitems.NewDefaultClient(cfg.Endpoint)
	if err != nil {
		return nil, errors.Wrap(err, "could not reach items endpoint")
	}
	client.SetBearerToken(cfg.APIToken)

	return store.New(client, cfg.StudentID, log), nil
}
