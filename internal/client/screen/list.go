package screen

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/mdouchement/itemstore/internal/client/store"
	"github.com/sirupsen/logrus"
)

// A State is the state of the list screen.
type State int

// List screen states.
const (
	Loading State = iota
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// A List is the screen listing the items, newest first.
// Its content is kept up to date by a live query while it is mounted.
type List struct {
	store  *store.Store
	nav    Navigator
	notify Notifier
	log    logrus.FieldLogger

	mu       sync.Mutex
	mounted  bool
	sub      *store.Subscription
	state    State
	items    []store.Item
	err      error
	onChange func()
}

// NewList returns a new List.
func NewList(s *store.Store, nav Navigator, notify Notifier, log logrus.FieldLogger) *List {
	return &List{
		store:  s,
		nav:    nav,
		notify: notify,
		log:    log,
		items:  []store.Item{},
	}
}

// OnChange registers fn to be called after each state change.
// fn may be called from any goroutine.
func (l *List) OnChange(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onChange = fn
}

// Mount starts the live query, the list is loading until the first snapshot.
func (l *List) Mount() {
	l.mu.Lock()
	if l.mounted {
		l.mu.Unlock()
		return
	}
	l.mounted = true
	l.state = Loading
	l.err = nil
	l.mu.Unlock()
	l.changed()

	sub := l.store.Subscribe(l.apply, l.fail)

	l.mu.Lock()
	if !l.mounted {
		l.mu.Unlock()
		sub.Close()
		return
	}
	l.sub = sub
	l.mu.Unlock()
}

// Unmount stops the live query. Pending deliveries are dropped.
func (l *List) Unmount() {
	l.mu.Lock()
	l.mounted = false
	sub := l.sub
	l.sub = nil
	l.mu.Unlock()

	if sub != nil {
		sub.Close()
	}
}

// State returns the current state.
func (l *List) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Items returns the displayed items.
func (l *List) Items() []store.Item {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]store.Item(nil), l.items...)
}

// Err returns the failure of the live query when the list is failed.
func (l *List) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// Create opens an empty form.
func (l *List) Create() {
	l.nav.OpenForm(FormParams{})
}

// Edit opens the form filled with the given item.
func (l *List) Edit(item store.Item) {
	l.nav.OpenForm(FormParams{
		ID:          item.ID,
		Title:       item.Title,
		Description: item.Description,
		CreatedAt:   strconv.FormatInt(item.CreatedAt.UnixMilli(), 10),
		StudentID:   item.StudentID,
	})
}

// RequestDelete asks for a confirmation before deleting the given item in background.
func (l *List) RequestDelete(item store.Item) {
	message := fmt.Sprintf("Delete %q?", item.Title)
	l.notify.Confirm("Delete item", message, func() {
		go l.Delete(context.Background(), item.ID)
	})
}

// Delete removes an item. A failure is reported with an alert,
// the list itself is only changed by the live query.
func (l *List) Delete(ctx context.Context, id string) {
	if err := l.store.Delete(ctx, id); err != nil {
		l.log.WithError(err).WithField("id", id).Error("could not delete item")
		l.notify.Alert(fmt.Sprintf("Could not delete item: %s", err))
	}
}

func (l *List) apply(items []store.Item) {
	l.mu.Lock()
	if !l.mounted || l.state == Failed {
		l.mu.Unlock()
		return
	}
	l.state = Ready
	l.items = items
	l.mu.Unlock()

	l.changed()
}

func (l *List) fail(err error) {
	l.mu.Lock()
	if !l.mounted {
		l.mu.Unlock()
		return
	}
	l.state = Failed
	l.err = err
	l.mu.Unlock()

	l.log.WithError(err).Error("live query failed")
	l.changed()
}

func (l *List) changed() {
	l.mu.Lock()
	fn := l.onChange
	l.mu.Unlock()

	if fn != nil {
		fn()
	}
}
