package service

import (
	"strings"
	"sync"

	"github.com/mdouchement/itemstore/internal/apierror"
	"github.com/mdouchement/itemstore/internal/database"
	"github.com/mdouchement/itemstore/internal/model"
	"github.com/pkg/errors"
)

type (
	// CreateParams are the fields accepted when an item is created.
	CreateParams struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		StudentID   string `json:"student_id"`
	}

	// PatchParams are the fields accepted when an item is updated.
	// A nil field is left untouched.
	PatchParams struct {
		Title       *string
		Description *string
	}

	// An Items is the service used to manage the items collection.
	// Every successful write notifies its Feed.
	Items struct {
		db   database.Client
		feed *Feed
		// Serializes writes, a patch reads the document before saving it.
		mu sync.Mutex
	}
)

// NewItems returns a new Items service.
func NewItems(db database.Client, feed *Feed) *Items {
	return &Items{
		db:   db,
		feed: feed,
	}
}

// Feed returns the feed notified on each change.
func (s *Items) Feed() *Feed {
	return s.feed
}

// List returns all the items, newest first.
func (s *Items) List() ([]*model.Item, error) {
	return s.db.FindItems()
}

// Find returns the item for the given id.
func (s *Items) Find(id string) (*model.Item, error) {
	item, err := s.db.FindItem(id)
	if err != nil {
		if s.db.IsNotFound(err) {
			return nil, apierror.NotFound("Item not found.")
		}
		return nil, err
	}
	return item, nil
}

// Create persists a new item.
func (s *Items) Create(params CreateParams) (*model.Item, error) {
	title := strings.TrimSpace(params.Title)
	if title == "" {
		return nil, apierror.Validation("Title is required.")
	}

	item := model.NewItem(title, params.Description, strings.TrimSpace(params.StudentID))

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.Save(item); err != nil {
		return nil, errors.Wrap(err, "could not create item")
	}
	s.feed.Notify()

	return item, nil
}

// Patch updates the given fields of an item.
// The modification date is always refreshed.
func (s *Items) Patch(id string, params PatchParams) (*model.Item, error) {
	if params.Title != nil {
		title := strings.TrimSpace(*params.Title)
		if title == "" {
			return nil, apierror.Validation("Title can't be empty.")
		}
		params.Title = &title
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.Find(id)
	if err != nil {
		return nil, err
	}

	if params.Title != nil {
		item.Title = *params.Title
	}
	if params.Description != nil {
		item.Description = *params.Description
	}

	if err = s.db.Save(item); err != nil {
		return nil, errors.Wrap(err, "could not update item")
	}
	s.feed.Notify()

	return item, nil
}

// Delete removes the item for the given id.
// Removing an unknown item is not an error and does not notify the feed.
func (s *Items) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.FindItem(id); err != nil {
		if s.db.IsNotFound(err) {
			return nil
		}
		return errors.Wrap(err, "could not delete item")
	}

	if err := s.db.DeleteItem(id); err != nil {
		return errors.Wrap(err, "could not delete item")
	}
	s.feed.Notify()

	return nil
}
