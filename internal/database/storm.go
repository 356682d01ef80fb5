package database

import (
	"time"

	"github.com/asdine/storm/v3"
	"github.com/asdine/storm/v3/q"
	"github.com/gofrs/uuid"
	"github.com/mdouchement/itemstore/internal/model"
	"github.com/mdouchement/itemstore/pkg/stormcodec"
	"github.com/pkg/errors"
)

type strm struct {
	db *storm.DB
}

// StormOpenRaw opens the storm database with the given codec.
// It is meant for tools working directly with storm queries.
func StormOpenRaw(database, codec string) (*storm.DB, error) {
	c, err := stormcodec.ByName(codec)
	if err != nil {
		return nil, err
	}

	db, err := storm.Open(database, storm.Codec(c))
	return db, errors.Wrap(err, "could not get database connection")
}

// StormInit initializes Storm database.
func StormInit(database, codec string) error {
	db, err := StormOpenRaw(database, codec)
	if err != nil {
		return err
	}
	defer db.Close()

	err = db.Init(&model.Item{})
	return errors.Wrap(err, "could not init item index")
}

// StormReIndex reindex Storm database.
func StormReIndex(database, codec string) error {
	db, err := StormOpenRaw(database, codec)
	if err != nil {
		return err
	}
	defer db.Close()

	err = db.ReIndex(&model.Item{})
	return errors.Wrap(err, "could not ReIndex items")
}

// StormOpen returns a new Storm database connection.
func StormOpen(database, codec string) (Client, error) {
	db, err := StormOpenRaw(database, codec)
	if err != nil {
		return nil, err
	}

	return &strm{
		db: db,
	}, nil
}

// Save inserts or updates the entry in database with the given model.
func (c *strm) Save(m model.Model) error {
	if m.GetID() == "" {
		m.SetID(uuid.Must(uuid.NewV4()).String())
	}
	m.Stamp(time.Now())

	return errors.Wrap(c.db.Save(m), "could not save the model")
}

// Delete deletes the entry in database with the given model.
func (c *strm) Delete(m model.Model) error {
	return errors.Wrap(c.db.DeleteStruct(m), "could not delete the model")
}

// Close the database.
func (c *strm) Close() error {
	return c.db.Close()
}

// IsNotFound returns true if err is a not found error.
func (c *strm) IsNotFound(err error) bool {
	return errors.Cause(err) == storm.ErrNotFound
}

// FindItem returns the item for the given id (UUID).
func (c *strm) FindItem(id string) (*model.Item, error) {
	var item model.Item
	if err := c.db.One("ID", id, &item); err != nil {
		return nil, errors.Wrap(err, "could not find item")
	}
	return &item, nil
}

// FindItems returns all the items, newest first.
func (c *strm) FindItems() ([]*model.Item, error) {
	items := make([]*model.Item, 0)
	err := c.db.Select().OrderBy("CreatedAt").Reverse().Find(&items)
	if err != nil && !c.IsNotFound(err) {
		return nil, errors.Wrap(err, "could not find items")
	}
	return items, nil
}

// DeleteItem deletes the item for the given id.
func (c *strm) DeleteItem(id string) error {
	err := c.db.Select(q.Eq("ID", id)).Delete(&model.Item{})
	if c.IsNotFound(err) {
		return nil
	}
	return errors.Wrap(err, "could not delete item")
}

// DeleteStudentItems deletes all the items of the given student id.
func (c *strm) DeleteStudentItems(studentID string) (int, error) {
	query := c.db.Select(q.Eq("StudentID", studentID))

	n, err := query.Count(&model.Item{})
	if err != nil {
		return 0, errors.Wrap(err, "could not count student items")
	}
	if n == 0 {
		return 0, nil
	}

	err = query.Delete(&model.Item{})
	if err != nil && !c.IsNotFound(err) {
		return 0, errors.Wrap(err, "could not delete student items")
	}
	return n, nil
}
