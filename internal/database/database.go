package database

import (
	"github.com/mdouchement/itemstore/internal/model"
	"github.com/pkg/errors"
)

// Supported drivers.
const (
	DriverStorm  = "storm"
	DriverSQLite = "sqlite"
)

type (
	// A Client can interacts with the database.
	Client interface {
		// Save inserts or updates the entry in database with the given model.
		// A model without ID gets a generated one.
		Save(m model.Model) error
		// Delete deletes the entry in database with the given model.
		Delete(m model.Model) error
		// Close the database.
		Close() error
		// IsNotFound returns true if err is a not found error.
		IsNotFound(err error) bool

		ItemInteraction
	}

	// An ItemInteraction defines all the methods used to interact with item records.
	ItemInteraction interface {
		// FindItem returns the item for the given id (UUID).
		FindItem(id string) (*model.Item, error)
		// FindItems returns all the items, newest first (by creation date).
		FindItems() ([]*model.Item, error)
		// DeleteItem deletes the item for the given id.
		// Deleting an unknown id is not an error.
		DeleteItem(id string) error
		// DeleteStudentItems deletes all the items of the given student id
		// and returns how many were removed.
		DeleteStudentItems(studentID string) (int, error)
	}

	// Options are the parameters used to open a database.
	Options struct {
		Driver string
		Path   string
		// Codec is the storm serialization format (storm driver only).
		Codec string
	}
)

// Open returns a new database connection according the given options.
func Open(opts Options) (Client, error) {
	switch opts.Driver {
	case "", DriverStorm:
		return StormOpen(opts.Path, opts.Codec)
	case DriverSQLite:
		return SQLiteOpen(opts.Path)
	}
	return nil, errors.Errorf("unsupported database driver: %s", opts.Driver)
}

// Init initializes the database indexes or schema according the given options.
func Init(opts Options) error {
	switch opts.Driver {
	case "", DriverStorm:
		return StormInit(opts.Path, opts.Codec)
	case DriverSQLite:
		return SQLiteInit(opts.Path)
	}
	return errors.Errorf("unsupported database driver: %s", opts.Driver)
}
