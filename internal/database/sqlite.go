package database

import (
	"database/sql"
	"time"

	"github.com/gofrs/uuid"
	"github.com/mdouchement/itemstore/internal/model"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite" // SQL driver
)

// sqliteSchema is the full database schema.
// Dates are stored as UTC unix nanoseconds so ordering is exact.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS items (
    id          TEXT PRIMARY KEY,
    title       TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    student_id  TEXT NOT NULL DEFAULT '',
    created_at  INTEGER NOT NULL,
    updated_at  INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_items_created_at ON items(created_at);
CREATE INDEX IF NOT EXISTS idx_items_student_id ON items(student_id);
`

type sqlite struct {
	db *sql.DB
}

func sqliteConnect(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "could not get database connection")
	}

	// An in-memory database only lives as long as its single connection.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, errors.Wrapf(err, "could not set pragma %q", p)
		}
	}

	return db, nil
}

// SQLiteInit creates the SQLite schema.
func SQLiteInit(path string) error {
	db, err := sqliteConnect(path)
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.Exec(sqliteSchema)
	return errors.Wrap(err, "could not create schema")
}

// SQLiteOpen returns a new SQLite database connection.
// The schema is created if missing.
func SQLiteOpen(path string) (Client, error) {
	db, err := sqliteConnect(path)
	if err != nil {
		return nil, err
	}

	if _, err = db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "could not create schema")
	}

	return &sqlite{db: db}, nil
}

// Save inserts or updates the entry in database with the given model.
func (c *sqlite) Save(m model.Model) error {
	item, ok := m.(*model.Item)
	if !ok {
		return errors.Errorf("unsupported model %T", m)
	}

	if item.ID == "" {
		item.SetID(uuid.Must(uuid.NewV4()).String())
	}
	item.Stamp(time.Now())

	_, err := c.db.Exec(`
		INSERT INTO items (id, title, description, student_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			student_id = excluded.student_id,
			updated_at = excluded.updated_at`,
		item.ID, item.Title, item.Description, item.StudentID,
		item.CreatedAt.UnixNano(), item.UpdatedAt.UnixNano(),
	)
	return errors.Wrap(err, "could not save the model")
}

// Delete deletes the entry in database with the given model.
func (c *sqlite) Delete(m model.Model) error {
	return c.DeleteItem(m.GetID())
}

// Close the database.
func (c *sqlite) Close() error {
	return c.db.Close()
}

// IsNotFound returns true if err is a not found error.
func (c *sqlite) IsNotFound(err error) bool {
	return errors.Cause(err) == sql.ErrNoRows
}

// FindItem returns the item for the given id (UUID).
func (c *sqlite) FindItem(id string) (*model.Item, error) {
	row := c.db.QueryRow(`
		SELECT id, title, description, student_id, created_at, updated_at
		FROM items WHERE id = ?`, id)

	item, err := scanItem(row)
	if err != nil {
		return nil, errors.Wrap(err, "could not find item")
	}
	return item, nil
}

// FindItems returns all the items, newest first.
func (c *sqlite) FindItems() ([]*model.Item, error) {
	rows, err := c.db.Query(`
		SELECT id, title, description, student_id, created_at, updated_at
		FROM items ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, errors.Wrap(err, "could not find items")
	}
	defer rows.Close()

	items := make([]*model.Item, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, errors.Wrap(err, "could not scan item")
		}
		items = append(items, item)
	}
	return items, errors.Wrap(rows.Err(), "could not find items")
}

// DeleteItem deletes the item for the given id.
func (c *sqlite) DeleteItem(id string) error {
	_, err := c.db.Exec(`DELETE FROM items WHERE id = ?`, id)
	return errors.Wrap(err, "could not delete item")
}

// DeleteStudentItems deletes all the items of the given student id.
func (c *sqlite) DeleteStudentItems(studentID string) (int, error) {
	res, err := c.db.Exec(`DELETE FROM items WHERE student_id = ?`, studentID)
	if err != nil {
		return 0, errors.Wrap(err, "could not delete student items")
	}
	n, err := res.RowsAffected()
	return int(n), errors.Wrap(err, "could not delete student items")
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(s scanner) (*model.Item, error) {
	var item model.Item
	var created, updated int64
	err := s.Scan(&item.ID, &item.Title, &item.Description, &item.StudentID, &created, &updated)
	if err != nil {
		return nil, err
	}
	item.CreatedAt = time.Unix(0, created).UTC()
	item.UpdatedAt = time.Unix(0, updated).UTC()
	return &item, nil
}
