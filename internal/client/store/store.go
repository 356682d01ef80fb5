// Package store is the data access layer of the items client.
// It validates inputs, talks to the remote store and maps its documents to Item records.
package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/mdouchement/itemstore/pkg/libitems"
	"github.com/sirupsen/logrus"
)

type (
	// A Remote is the remote store the data access layer relies on.
	// libitems.Client satisfies it.
	Remote interface {
		List(ctx context.Context) ([]*libitems.Item, error)
		Add(ctx context.Context, item libitems.NewItem) (*libitems.Item, error)
		Patch(ctx context.Context, id string, patch libitems.ItemPatch) (*libitems.Item, error)
		Delete(ctx context.Context, id string) error
		Listen(onSnapshot func([]*libitems.Item), onError func(error)) libitems.Subscription
	}

	// An Item is a record as displayed by the screens.
	Item struct {
		ID          string
		Title       string
		Description string
		StudentID   string
		CreatedAt   time.Time
		UpdatedAt   time.Time
	}

	// CreateInput holds the fields of a new item.
	// A blank StudentID falls back on the store's default owner.
	CreateInput struct {
		Title       string
		Description string
		StudentID   string
	}

	// UpdateInput holds the fields to change, nil fields are left untouched.
	UpdateInput struct {
		Title       *string
		Description *string
	}

	// A Store gives access to the items of a remote store.
	Store struct {
		remote    Remote
		studentID string
		log       logrus.FieldLogger
	}
)

// New returns a new Store.
// studentID is the owner identifier used when a CreateInput does not provide one.
func New(remote Remote, studentID string, log logrus.FieldLogger) *Store {
	return &Store{
		remote:    remote,
		studentID: strings.TrimSpace(studentID),
		log:       log,
	}
}

// DefaultStudentID returns the owner identifier used for new items.
func (s *Store) DefaultStudentID() string {
	return s.studentID
}

// Subscribe opens a live query of the items ordered by creation time, newest first.
// onData receives the whole collection on each change.
// onError receives a RemoteError when the live query fails, nothing is delivered afterwards.
func (s *Store) Subscribe(onData func([]Item), onError func(error)) *Subscription {
	sub := new(Subscription)

	remote := s.remote.Listen(
		func(items []*libitems.Item) {
			if !sub.active() {
				return
			}
			onData(records(items))
		},
		func(err error) {
			if !sub.active() {
				return
			}
			rerr := s.remoteError("subscribe", err)
			if onError != nil {
				onError(rerr)
			}
		},
	)

	sub.mu.Lock()
	sub.remote = remote
	sub.mu.Unlock()

	return sub
}

// List returns the items once, newest first.
func (s *Store) List(ctx context.Context) ([]Item, error) {
	items, err := s.remote.List(ctx)
	if err != nil {
		return nil, s.remoteError("list", err)
	}
	return records(items), nil
}

// Create stores a new item and returns its id.
func (s *Store) Create(ctx context.Context, in CreateInput) (string, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return "", &ValidationError{Field: "title", Message: "Title is required."}
	}

	studentID := strings.TrimSpace(in.StudentID)
	if studentID == "" {
		studentID = s.studentID
	}

	item, err := s.remote.Add(ctx, libitems.NewItem{
		Title:       title,
		Description: in.Description,
		StudentID:   studentID,
	})
	if err != nil {
		return "", s.remoteError("create", err)
	}

	s.log.WithField("id", item.ID).Debug("item created")
	return item.ID, nil
}

// Update changes the given fields of an item.
// Its updated_at is refreshed even when no field is given.
func (s *Store) Update(ctx context.Context, id string, in UpdateInput) error {
	if id == "" {
		return &ValidationError{Field: "id", Message: "Item id is required."}
	}

	var patch libitems.ItemPatch
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return &ValidationError{Field: "title", Message: "Title is required."}
		}
		patch.Title = &title
	}
	if in.Description != nil {
		description := *in.Description
		patch.Description = &description
	}

	if _, err := s.remote.Patch(ctx, id, patch); err != nil {
		return s.remoteError("update", err)
	}

	s.log.WithField("id", id).Debug("item updated")
	return nil
}

// Delete removes an item. Removing an unknown item is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	if id == "" {
		return &ValidationError{Field: "id", Message: "Item id is required."}
	}

	if err := s.remote.Delete(ctx, id); err != nil {
		return s.remoteError("delete", err)
	}

	s.log.WithField("id", id).Debug("item deleted")
	return nil
}

func (s *Store) remoteError(op string, err error) error {
	s.log.WithError(err).WithField("op", op).Error("remote store failure")
	return &RemoteError{Op: op, Err: err}
}

func records(items []*libitems.Item) []Item {
	records := make([]Item, 0, len(items))
	for _, item := range items {
		records = append(records, Item{
			ID:          item.ID,
			Title:       item.Title,
			Description: item.Description,
			StudentID:   item.StudentID,
			CreatedAt:   item.CreatedAt,
			UpdatedAt:   item.UpdatedAt,
		})
	}
	return records
}

////////////////////
//                //
// Subscription   //
//                //
////////////////////

// A Subscription is a running live query.
// mu is never held while a callback runs.
type Subscription struct {
	mu     sync.Mutex
	closed bool
	remote libitems.Subscription
}

// Close terminates the live query. It can be called several times,
// including from within onData or onError, and never blocks.
// Once Close has returned, no callback starts; one already running may complete.
func (s *Subscription) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	remote := s.remote
	s.mu.Unlock()

	if remote != nil {
		remote.Close()
	}
}

func (s *Subscription) active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed
}
