// Package storetest provides an in-memory remote store for tests.
package storetest

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/uuid"
	"github.com/mdouchement/itemstore/pkg/libitems"
)

type (
	// A Remote is an in-memory remote store.
	// Live queries are delivered synchronously from the goroutine performing the change.
	Remote struct {
		mu        sync.Mutex
		items     []*libitems.Item // newest first
		listeners map[int]*listener
		seq       int
		now       time.Time
		writes    int
		fail      error
	}

	listener struct {
		onSnapshot func([]*libitems.Item)
		onError    func(error)
	}

	subscription struct {
		once   sync.Once
		remote *Remote
		id     int
	}
)

// New returns a new Remote.
func New() *Remote {
	return &Remote{
		listeners: map[int]*listener{},
		now:       time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
}

// FailWith makes every following call fail with err until it is called with nil.
func (r *Remote) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fail = err
}

// Break ends all live queries with err.
func (r *Remote) Break(err error) {
	r.mu.Lock()
	listeners := r.listeners
	r.listeners = map[int]*listener{}
	r.mu.Unlock()

	for _, l := range listeners {
		if l.onError != nil {
			l.onError(err)
		}
	}
}

// Writes returns the number of changes applied to the collection.
func (r *Remote) Writes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.writes
}

// Listeners returns the number of running live queries.
func (r *Remote) Listeners() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.listeners)
}

// List implements store.Remote.
func (r *Remote) List(ctx context.Context) ([]*libitems.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.fail != nil {
		return nil, r.fail
	}
	return r.snapshot(), nil
}

// Add implements store.Remote.
func (r *Remote) Add(ctx context.Context, item libitems.NewItem) (*libitems.Item, error) {
	r.mu.Lock()

	if r.fail != nil {
		r.mu.Unlock()
		return nil, r.fail
	}

	title := strings.TrimSpace(item.Title)
	if title == "" {
		r.mu.Unlock()
		return nil, apiError(http.StatusUnprocessableEntity, "validation", "Title is required.")
	}

	now := r.tick()
	created := &libitems.Item{
		ID:          uuid.Must(uuid.NewV4()).String(),
		Title:       title,
		Description: item.Description,
		StudentID:   strings.TrimSpace(item.StudentID),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.items = append([]*libitems.Item{created}, r.items...)

	v := *created
	r.changed()
	return &v, nil
}

// Patch implements store.Remote.
func (r *Remote) Patch(ctx context.Context, id string, patch libitems.ItemPatch) (*libitems.Item, error) {
	r.mu.Lock()

	if r.fail != nil {
		r.mu.Unlock()
		return nil, r.fail
	}

	item := r.find(id)
	if item == nil {
		r.mu.Unlock()
		return nil, apiError(http.StatusNotFound, "not-found", "Item not found.")
	}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			r.mu.Unlock()
			return nil, apiError(http.StatusUnprocessableEntity, "validation", "Title can't be empty.")
		}
		item.Title = title
	}
	if patch.Description != nil {
		item.Description = *patch.Description
	}
	item.UpdatedAt = r.tick()

	v := *item
	r.changed()
	return &v, nil
}

// Delete implements store.Remote.
func (r *Remote) Delete(ctx context.Context, id string) error {
	r.mu.Lock()

	if r.fail != nil {
		r.mu.Unlock()
		return r.fail
	}

	for i, item := range r.items {
		if item.ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			r.changed()
			return nil
		}
	}

	r.mu.Unlock()
	return nil
}

// Listen implements store.Remote.
// The current collection is delivered before Listen returns.
func (r *Remote) Listen(onSnapshot func([]*libitems.Item), onError func(error)) libitems.Subscription {
	r.mu.Lock()

	r.seq++
	s := &subscription{remote: r, id: r.seq}

	if r.fail != nil {
		err := r.fail
		r.mu.Unlock()
		if onError != nil {
			onError(err)
		}
		return s
	}

	r.listeners[s.id] = &listener{onSnapshot: onSnapshot, onError: onError}
	snapshot := r.snapshot()
	r.mu.Unlock()

	onSnapshot(snapshot)
	return s
}

func (s *subscription) Close() {
	s.once.Do(func() {
		s.remote.mu.Lock()
		defer s.remote.mu.Unlock()
		delete(s.remote.listeners, s.id)
	})
}

// changed must be called with the lock held, it releases it before notifying listeners.
func (r *Remote) changed() {
	r.writes++

	listeners := make([]*listener, 0, len(r.listeners))
	for _, l := range r.listeners {
		listeners = append(listeners, l)
	}
	snapshot := r.snapshot()
	r.mu.Unlock()

	for _, l := range listeners {
		l.onSnapshot(snapshot)
	}
}

// tick returns a strictly increasing creation time.
func (r *Remote) tick() time.Time {
	r.now = r.now.Add(time.Millisecond)
	return r.now
}

func (r *Remote) find(id string) *libitems.Item {
	for _, item := range r.items {
		if item.ID == id {
			return item
		}
	}
	return nil
}

func (r *Remote) snapshot() []*libitems.Item {
	items := make([]*libitems.Item, 0, len(r.items))
	for _, item := range r.items {
		v := *item
		items = append(items, &v)
	}
	return items
}

func apiError(code int, tag, message string) error {
	err := &libitems.APIError{StatusCode: code}
	err.Err.Tag = tag
	err.Err.Message = message
	return err
}
