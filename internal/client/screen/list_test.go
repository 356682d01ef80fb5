package screen_test

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/mdouchement/itemstore/internal/client/screen"
	"github.com/mdouchement/itemstore/internal/client/store"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestList_States(t *testing.T) {
	s, remote, nav, notify := setup()
	log, _ := test.NewNullLogger()

	list := screen.NewList(s, nav, notify, log)
	assert.Equal(t, screen.Loading, list.State())

	var changes int
	list.OnChange(func() { changes++ })

	list.Mount()
	defer list.Unmount()
	assert.Equal(t, screen.Ready, list.State())
	assert.Empty(t, list.Items())
	assert.Equal(t, 2, changes) // loading + first snapshot

	_, err := s.Create(context.Background(), store.CreateInput{Title: "t1"})
	require.NoError(t, err)
	_, err = s.Create(context.Background(), store.CreateInput{Title: "t2"})
	require.NoError(t, err)

	items := list.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "t2", items[0].Title)
	assert.Equal(t, "t1", items[1].Title)

	remote.Break(errors.New("stream reset"))
	assert.Equal(t, screen.Failed, list.State())
	assert.True(t, store.IsRemote(list.Err()))
	assert.Len(t, list.Items(), 2)
	assert.Equal(t, "failed", list.State().String())
}

func TestList_FailedOnMount(t *testing.T) {
	s, remote, nav, notify := setup()
	log, _ := test.NewNullLogger()
	remote.FailWith(errors.New("connection refused"))

	list := screen.NewList(s, nav, notify, log)
	list.Mount()
	defer list.Unmount()

	assert.Equal(t, screen.Failed, list.State())
	assert.Error(t, list.Err())

	// Remounting recovers.
	remote.FailWith(nil)
	list.Unmount()
	list.Mount()
	assert.Equal(t, screen.Ready, list.State())
	assert.NoError(t, list.Err())
}

func TestList_Unmount(t *testing.T) {
	s, remote, nav, notify := setup()
	log, _ := test.NewNullLogger()

	list := screen.NewList(s, nav, notify, log)
	list.Mount()
	list.Unmount()
	list.Unmount()
	assert.Equal(t, 0, remote.Listeners())

	_, err := s.Create(context.Background(), store.CreateInput{Title: "t1"})
	require.NoError(t, err)
	assert.Empty(t, list.Items())
}

func TestList_CreateEdit(t *testing.T) {
	s, _, nav, notify := setup()
	log, _ := test.NewNullLogger()

	list := screen.NewList(s, nav, notify, log)
	list.Mount()
	defer list.Unmount()

	list.Create()
	require.Len(t, nav.forms, 1)
	assert.Equal(t, screen.FormParams{}, nav.forms[0])

	_, err := s.Create(context.Background(), store.CreateInput{Title: "Buy milk", Description: "2 liters"})
	require.NoError(t, err)
	item := list.Items()[0]

	list.Edit(item)
	require.Len(t, nav.forms, 2)
	params := nav.forms[1]
	assert.Equal(t, item.ID, params.ID)
	assert.Equal(t, "Buy milk", params.Title)
	assert.Equal(t, "2 liters", params.Description)
	assert.Equal(t, "A01282356", params.StudentID)
	assert.Equal(t, strconv.FormatInt(item.CreatedAt.UnixMilli(), 10), params.CreatedAt)
}

func TestList_RequestDelete(t *testing.T) {
	s, _, nav, notify := setup()
	log, _ := test.NewNullLogger()

	list := screen.NewList(s, nav, notify, log)
	list.Mount()
	defer list.Unmount()

	_, err := s.Create(context.Background(), store.CreateInput{Title: "Buy milk"})
	require.NoError(t, err)
	item := list.Items()[0]

	// Declined
	list.RequestDelete(item)
	assert.Equal(t, []string{`Delete "Buy milk"?`}, notify.confirms)
	assert.Len(t, list.Items(), 1)

	// Approved
	notify.approve = true
	list.RequestDelete(item)
	assert.Eventually(t, func() bool {
		return len(list.Items()) == 0
	}, time.Second, 5*time.Millisecond)
	assert.Empty(t, notify.Alerts())
}

func TestList_DeleteFailure(t *testing.T) {
	s, remote, nav, notify := setup()
	log, _ := test.NewNullLogger()

	list := screen.NewList(s, nav, notify, log)
	list.Mount()
	defer list.Unmount()

	_, err := s.Create(context.Background(), store.CreateInput{Title: "Buy milk"})
	require.NoError(t, err)

	remote.FailWith(errors.New("connection refused"))
	list.Delete(context.Background(), list.Items()[0].ID)

	require.Len(t, notify.Alerts(), 1)
	assert.Contains(t, notify.Alerts()[0], "connection refused")
	assert.Equal(t, screen.Ready, list.State())
	assert.Len(t, list.Items(), 1)
}
