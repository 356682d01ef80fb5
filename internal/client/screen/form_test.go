package screen_test

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/mdouchement/itemstore/internal/client/screen"
	"github.com/mdouchement/itemstore/internal/client/store"
	"github.com/mdouchement/itemstore/internal/client/store/storetest"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForm_Create(t *testing.T) {
	s, _, nav, notify := setup()
	log, _ := test.NewNullLogger()

	form := screen.NewForm(s, nav, notify, log, screen.FormParams{})
	assert.Equal(t, screen.CreateMode, form.Mode())
	assert.Equal(t, "", form.Title())
	assert.Equal(t, "A01282356", form.StudentID())
	assert.True(t, form.StudentIDEditable())
	assert.Equal(t, "", form.CreatedAtLabel())

	form.SetTitle(" Buy milk ")
	form.SetDescription("2 liters")
	form.SetStudentID("A00000001")
	require.NoError(t, form.Submit(context.Background()))
	assert.Equal(t, 1, nav.Backs())
	assert.False(t, form.Saving())

	items, err := s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Buy milk", items[0].Title)
	assert.Equal(t, "2 liters", items[0].Description)
	assert.Equal(t, "A00000001", items[0].StudentID)
}

func TestForm_Validation(t *testing.T) {
	s, remote, nav, notify := setup()
	log, _ := test.NewNullLogger()

	form := screen.NewForm(s, nav, notify, log, screen.FormParams{})
	form.SetTitle("   ")
	form.SetDescription("kept")

	err := form.Submit(context.Background())
	require.Error(t, err)
	assert.True(t, store.IsValidation(err))
	assert.Equal(t, []string{"Title is required."}, notify.dialogs)

	form.SetTitle("t")
	form.SetStudentID(" ")
	err = form.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, "student_id", err.(*store.ValidationError).Field)

	assert.Equal(t, 0, remote.Writes())
	assert.Equal(t, 0, nav.Backs())
	assert.Equal(t, "kept", form.Description())
}

func TestForm_Edit(t *testing.T) {
	s, _, nav, notify := setup()
	log, _ := test.NewNullLogger()
	ctx := context.Background()

	id, err := s.Create(ctx, store.CreateInput{Title: "Buy milk", Description: "2 liters", StudentID: "A00000001"})
	require.NoError(t, err)
	items, err := s.List(ctx)
	require.NoError(t, err)

	created := items[0].CreatedAt
	form := screen.NewForm(s, nav, notify, log, screen.FormParams{
		ID:          id,
		Title:       "Buy milk",
		Description: "2 liters",
		CreatedAt:   strconv.FormatInt(created.UnixMilli(), 10),
		StudentID:   "A00000001",
	})
	assert.Equal(t, screen.EditMode, form.Mode())
	assert.Equal(t, id, form.ID())
	assert.False(t, form.StudentIDEditable())
	assert.Equal(t, created.Local().Format(screen.CreatedAtLayout), form.CreatedAtLabel())

	form.SetStudentID("ignored")
	assert.Equal(t, "A00000001", form.StudentID())

	form.SetDescription("")
	require.NoError(t, form.Submit(ctx))
	assert.Equal(t, 1, nav.Backs())

	items, err = s.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Buy milk", items[0].Title)
	assert.Equal(t, "", items[0].Description)
	assert.Equal(t, "A00000001", items[0].StudentID)
}

func TestForm_CreatedAtLabel(t *testing.T) {
	s, _, nav, notify := setup()
	log, _ := test.NewNullLogger()

	form := screen.NewForm(s, nav, notify, log, screen.FormParams{ID: "id", CreatedAt: "2021-03-04T05:06:07Z"})
	expected := time.Date(2021, time.March, 4, 5, 6, 7, 0, time.UTC).Local().Format(screen.CreatedAtLayout)
	assert.Equal(t, expected, form.CreatedAtLabel())

	form = screen.NewForm(s, nav, notify, log, screen.FormParams{ID: "id", CreatedAt: "yesterday-ish"})
	assert.Equal(t, "yesterday-ish", form.CreatedAtLabel())
}

func TestForm_RemoteFailure(t *testing.T) {
	s, remote, nav, notify := setup()
	log, _ := test.NewNullLogger()
	remote.FailWith(errors.New("connection refused"))

	form := screen.NewForm(s, nav, notify, log, screen.FormParams{})
	form.SetTitle("Buy milk")

	err := form.Submit(context.Background())
	require.Error(t, err)
	assert.True(t, store.IsRemote(err))
	require.Len(t, notify.Alerts(), 1)
	assert.Contains(t, notify.Alerts()[0], "connection refused")
	assert.Equal(t, 0, nav.Backs())
	assert.False(t, form.Saving())
	assert.Equal(t, "Buy milk", form.Title())

	// The form can be submitted again.
	remote.FailWith(nil)
	require.NoError(t, form.Submit(context.Background()))
	assert.Equal(t, 1, nav.Backs())
}

func TestForm_SavingGuard(t *testing.T) {
	remote := &gated{
		Remote:  storetest.New(),
		entered: make(chan struct{}),
		gate:    make(chan struct{}),
	}
	s, nav, notify := setupWith(remote)
	log, _ := test.NewNullLogger()

	form := screen.NewForm(s, nav, notify, log, screen.FormParams{})
	form.SetTitle("Buy milk")

	var changes []bool
	form.OnChange(func() { changes = append(changes, form.Saving()) })

	done := make(chan error)
	go func() {
		done <- form.Submit(context.Background())
	}()

	<-remote.entered
	assert.True(t, form.Saving())
	assert.Equal(t, screen.ErrSaving, form.Submit(context.Background()))

	close(remote.gate)
	require.NoError(t, <-done)
	assert.False(t, form.Saving())
	assert.Equal(t, []bool{true, false}, changes)
	assert.Equal(t, 1, nav.Backs())
	assert.Equal(t, 1, remote.Writes())
}
