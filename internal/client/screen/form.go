package screen

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/araddon/dateparse"
	"github.com/mdouchement/itemstore/internal/client/store"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ErrSaving is returned by Submit while a previous submit is running.
var ErrSaving = errors.New("item is being saved")

// CreatedAtLayout is the layout of the creation time label.
const CreatedAtLayout = "2006-01-02 15:04"

// A Mode is the mode of the form screen.
type Mode int

// Form modes.
const (
	CreateMode Mode = iota
	EditMode
)

// A Form is the screen creating or editing an item.
type Form struct {
	store  *store.Store
	nav    Navigator
	notify Notifier
	log    logrus.FieldLogger

	mode      Mode
	id        string
	createdAt string

	mu          sync.Mutex
	title       string
	description string
	studentID   string
	saving      bool
	onChange    func()
}

// NewForm returns a new Form, its mode depends on the presence of params.ID.
func NewForm(s *store.Store, nav Navigator, notify Notifier, log logrus.FieldLogger, params FormParams) *Form {
	f := &Form{
		store:  s,
		nav:    nav,
		notify: notify,
		log:    log,
	}

	if params.ID == "" {
		f.mode = CreateMode
		f.studentID = s.DefaultStudentID()
		return f
	}

	f.mode = EditMode
	f.id = params.ID
	f.title = params.Title
	f.description = params.Description
	f.studentID = params.StudentID
	f.createdAt = params.CreatedAt
	return f
}

// OnChange registers fn to be called after each change of the saving flag.
// fn may be called from any goroutine.
func (f *Form) OnChange(fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onChange = fn
}

// Mode returns the mode of the form.
func (f *Form) Mode() Mode {
	return f.mode
}

// ID returns the id of the edited item.
func (f *Form) ID() string {
	return f.id
}

func (f *Form) Title() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.title
}

func (f *Form) SetTitle(title string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.title = title
}

func (f *Form) Description() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.description
}

func (f *Form) SetDescription(description string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.description = description
}

func (f *Form) StudentID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.studentID
}

// SetStudentID sets the owner identifier, it is read-only in edit mode.
func (f *Form) SetStudentID(id string) {
	if !f.StudentIDEditable() {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.studentID = id
}

// StudentIDEditable reports whether the owner identifier can be changed.
func (f *Form) StudentIDEditable() bool {
	return f.mode == CreateMode
}

// CreatedAtLabel returns the creation time of the edited item in local time.
// Values that are not unix milliseconds are parsed as any known date format
// and returned untouched when they cannot be parsed.
func (f *Form) CreatedAtLabel() string {
	if f.createdAt == "" {
		return ""
	}

	if ms, err := strconv.ParseInt(f.createdAt, 10, 64); err == nil {
		return time.UnixMilli(ms).Local().Format(CreatedAtLayout)
	}

	t, err := dateparse.ParseAny(f.createdAt)
	if err != nil {
		return f.createdAt
	}
	return t.Local().Format(CreatedAtLayout)
}

// Saving reports whether a submit is running.
func (f *Form) Saving() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saving
}

// Submit validates the form then creates or updates the item and navigates back.
// Validation failures are shown in a dialog, remote failures in an alert;
// in both cases the input is kept.
func (f *Form) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.saving {
		f.mu.Unlock()
		return ErrSaving
	}

	title := f.title
	description := f.description
	studentID := f.studentID

	if err := f.validate(title, studentID); err != nil {
		f.mu.Unlock()
		f.notify.Dialog("Invalid item", err.Error())
		return err
	}

	f.saving = true
	f.mu.Unlock()
	f.changed()

	var err error
	switch f.mode {
	case CreateMode:
		_, err = f.store.Create(ctx, store.CreateInput{
			Title:       title,
			Description: description,
			StudentID:   studentID,
		})
	case EditMode:
		err = f.store.Update(ctx, f.id, store.UpdateInput{
			Title:       &title,
			Description: &description,
		})
	}

	f.mu.Lock()
	f.saving = false
	f.mu.Unlock()
	f.changed()

	if err != nil {
		if store.IsValidation(err) {
			f.notify.Dialog("Invalid item", err.Error())
			return err
		}

		f.log.WithError(err).WithField("id", f.id).Error("could not save item")
		f.notify.Alert(fmt.Sprintf("Could not save item: %s", err))
		return err
	}

	f.nav.Back()
	return nil
}

func (f *Form) validate(title, studentID string) error {
	if strings.TrimSpace(title) == "" {
		return &store.ValidationError{Field: "title", Message: "Title is required."}
	}
	if f.mode == CreateMode && strings.TrimSpace(studentID) == "" {
		return &store.ValidationError{Field: "student_id", Message: "Student ID is required."}
	}
	return nil
}

func (f *Form) changed() {
	f.mu.Lock()
	fn := f.onChange
	f.mu.Unlock()

	if fn != nil {
		fn()
	}
}
