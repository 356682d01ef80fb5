package store_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/mdouchement/itemstore/internal/client/store"
	"github.com/mdouchement/itemstore/internal/client/store/storetest"
	"github.com/mdouchement/itemstore/pkg/libitems"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup() (*store.Store, *storetest.Remote) {
	log, _ := test.NewNullLogger()
	remote := storetest.New()
	return store.New(remote, "A01282356", log), remote
}

func strptr(s string) *string {
	return &s
}

// recorder collects the snapshots of a subscription.
type recorder struct {
	sync.Mutex
	snapshots [][]store.Item
	errs      []error
}

func (r *recorder) data(items []store.Item) {
	r.Lock()
	defer r.Unlock()
	r.snapshots = append(r.snapshots, items)
}

func (r *recorder) error(err error) {
	r.Lock()
	defer r.Unlock()
	r.errs = append(r.errs, err)
}

func (r *recorder) last() []store.Item {
	r.Lock()
	defer r.Unlock()
	return r.snapshots[len(r.snapshots)-1]
}

func (r *recorder) count() int {
	r.Lock()
	defer r.Unlock()
	return len(r.snapshots)
}

func TestCreate(t *testing.T) {
	s, _ := setup()
	ctx := context.Background()

	id, err := s.Create(ctx, store.CreateInput{Title: "  Buy milk  ", Description: "2 liters"})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	items, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, id, items[0].ID)
	assert.Equal(t, "Buy milk", items[0].Title)
	assert.Equal(t, "2 liters", items[0].Description)
	assert.Equal(t, "A01282356", items[0].StudentID)
	assert.False(t, items[0].CreatedAt.IsZero())
	assert.Equal(t, items[0].CreatedAt, items[0].UpdatedAt)
}

func TestCreate_StudentID(t *testing.T) {
	s, _ := setup()
	ctx := context.Background()

	_, err := s.Create(ctx, store.CreateInput{Title: "t", StudentID: " A00000001 "})
	require.NoError(t, err)
	_, err = s.Create(ctx, store.CreateInput{Title: "t", StudentID: "   "})
	require.NoError(t, err)

	items, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "A01282356", items[0].StudentID)
	assert.Equal(t, "A00000001", items[1].StudentID)
	assert.Equal(t, "A01282356", s.DefaultStudentID())
}

func TestCreate_EmptyTitle(t *testing.T) {
	s, remote := setup()

	for _, title := range []string{"", "   ", "\t\n"} {
		id, err := s.Create(context.Background(), store.CreateInput{Title: title, Description: "d"})
		assert.Empty(t, id)
		require.Error(t, err)
		assert.True(t, store.IsValidation(err))
		assert.Equal(t, "title", err.(*store.ValidationError).Field)
	}
	assert.Equal(t, 0, remote.Writes())
}

func TestCreate_BuyMilkOnce(t *testing.T) {
	s, _ := setup()
	ctx := context.Background()

	_, err := s.Create(ctx, store.CreateInput{Title: "Buy milk"})
	require.NoError(t, err)

	items, err := s.List(ctx)
	require.NoError(t, err)

	var n int
	for _, item := range items {
		if item.Title == "Buy milk" {
			n++
		}
	}
	assert.Equal(t, 1, n)
}

func TestList_NewestFirst(t *testing.T) {
	s, _ := setup()
	ctx := context.Background()

	for _, title := range []string{"t1", "t2", "t3"} {
		_, err := s.Create(ctx, store.CreateInput{Title: title})
		require.NoError(t, err)
	}

	items, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "t3", items[0].Title)
	assert.Equal(t, "t2", items[1].Title)
	assert.Equal(t, "t1", items[2].Title)
}

func TestUpdate(t *testing.T) {
	s, _ := setup()
	ctx := context.Background()

	id, err := s.Create(ctx, store.CreateInput{Title: "Buy milk", Description: "2 liters"})
	require.NoError(t, err)
	before, err := s.List(ctx)
	require.NoError(t, err)

	err = s.Update(ctx, id, store.UpdateInput{Description: strptr("x")})
	require.NoError(t, err)

	after, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, "Buy milk", after[0].Title)
	assert.Equal(t, "x", after[0].Description)
	assert.Equal(t, "A01282356", after[0].StudentID)
	assert.Equal(t, before[0].CreatedAt, after[0].CreatedAt)
	assert.True(t, after[0].UpdatedAt.After(before[0].UpdatedAt))

	err = s.Update(ctx, id, store.UpdateInput{Title: strptr(" Buy bread ")})
	require.NoError(t, err)
	after, err = s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Buy bread", after[0].Title)
	assert.Equal(t, "x", after[0].Description)
}

func TestUpdate_NoFields(t *testing.T) {
	s, _ := setup()
	ctx := context.Background()

	id, err := s.Create(ctx, store.CreateInput{Title: "t"})
	require.NoError(t, err)
	before, err := s.List(ctx)
	require.NoError(t, err)

	require.NoError(t, s.Update(ctx, id, store.UpdateInput{}))

	after, err := s.List(ctx)
	require.NoError(t, err)
	assert.True(t, after[0].UpdatedAt.After(before[0].UpdatedAt))
}

func TestUpdate_Invalid(t *testing.T) {
	s, remote := setup()
	ctx := context.Background()

	id, err := s.Create(ctx, store.CreateInput{Title: "Buy milk"})
	require.NoError(t, err)
	writes := remote.Writes()

	err = s.Update(ctx, id, store.UpdateInput{Title: strptr("   ")})
	require.Error(t, err)
	assert.True(t, store.IsValidation(err))

	err = s.Update(ctx, "", store.UpdateInput{Title: strptr("t")})
	require.Error(t, err)
	assert.Equal(t, "id", err.(*store.ValidationError).Field)

	assert.Equal(t, writes, remote.Writes())
	items, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", items[0].Title)
}

func TestUpdate_Unknown(t *testing.T) {
	s, _ := setup()

	err := s.Update(context.Background(), "unknown", store.UpdateInput{Title: strptr("t")})
	require.Error(t, err)
	assert.True(t, store.IsRemote(err))

	apierr, ok := errors.Cause(err).(*libitems.APIError)
	require.True(t, ok)
	assert.Equal(t, "not-found", apierr.Tag())
}

func TestDelete(t *testing.T) {
	s, _ := setup()
	ctx := context.Background()

	id, err := s.Create(ctx, store.CreateInput{Title: "t"})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, id))

	items, err := s.List(ctx)
	require.NoError(t, err)
	for _, item := range items {
		assert.NotEqual(t, id, item.ID)
	}

	err = s.Delete(ctx, "")
	require.Error(t, err)
	assert.True(t, store.IsValidation(err))
}

func TestRemoteFailure(t *testing.T) {
	s, remote := setup()
	ctx := context.Background()
	remote.FailWith(errors.New("connection refused"))

	_, err := s.Create(ctx, store.CreateInput{Title: "t"})
	require.Error(t, err)
	assert.True(t, store.IsRemote(err))
	assert.Equal(t, "create", err.(*store.RemoteError).Op)
	assert.Equal(t, "create: connection refused", err.Error())

	_, err = s.List(ctx)
	assert.True(t, store.IsRemote(err))
	assert.True(t, store.IsRemote(s.Delete(ctx, "id")))
	assert.True(t, store.IsRemote(s.Update(ctx, "id", store.UpdateInput{})))
}

func TestSubscribe(t *testing.T) {
	s, _ := setup()
	ctx := context.Background()

	r := new(recorder)
	sub := s.Subscribe(r.data, r.error)
	defer sub.Close()

	require.Equal(t, 1, r.count())
	assert.NotNil(t, r.last())
	assert.Empty(t, r.last())

	for _, title := range []string{"t1", "t2", "t3"} {
		_, err := s.Create(ctx, store.CreateInput{Title: title})
		require.NoError(t, err)
	}

	require.Equal(t, 4, r.count())
	items := r.last()
	require.Len(t, items, 3)
	assert.Equal(t, "t3", items[0].Title)
	assert.Equal(t, "t2", items[1].Title)
	assert.Equal(t, "t1", items[2].Title)
	assert.Empty(t, r.errs)
}

func TestSubscribe_DeleteUnknown(t *testing.T) {
	s, _ := setup()
	ctx := context.Background()

	_, err := s.Create(ctx, store.CreateInput{Title: "t"})
	require.NoError(t, err)

	r := new(recorder)
	sub := s.Subscribe(r.data, r.error)
	defer sub.Close()
	before := r.last()

	require.NoError(t, s.Delete(ctx, "unknown"))
	assert.Equal(t, before, r.last())
	assert.Empty(t, r.errs)
}

func TestSubscribe_Close(t *testing.T) {
	s, remote := setup()
	ctx := context.Background()

	r := new(recorder)
	sub := s.Subscribe(r.data, r.error)
	assert.Equal(t, 1, remote.Listeners())

	sub.Close()
	sub.Close()
	assert.Equal(t, 0, remote.Listeners())

	_, err := s.Create(ctx, store.CreateInput{Title: "t"})
	require.NoError(t, err)
	remote.Break(errors.New("boom"))

	assert.Equal(t, 1, r.count())
	assert.Empty(t, r.errs)
}

func TestSubscribe_CloseFromData(t *testing.T) {
	s, remote := setup()
	ctx := context.Background()

	var sub *store.Subscription
	var snapshots int
	sub = s.Subscribe(func([]store.Item) {
		snapshots++
		if snapshots == 2 {
			sub.Close()
		}
	}, nil)

	_, err := s.Create(ctx, store.CreateInput{Title: "t1"})
	require.NoError(t, err)
	assert.Equal(t, 2, snapshots)
	assert.Equal(t, 0, remote.Listeners())

	_, err = s.Create(ctx, store.CreateInput{Title: "t2"})
	require.NoError(t, err)
	assert.Equal(t, 2, snapshots)
}

func TestSubscribe_CloseFromError(t *testing.T) {
	s, remote := setup()

	var sub *store.Subscription
	r := new(recorder)
	sub = s.Subscribe(r.data, func(err error) {
		r.error(err)
		sub.Close()
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		remote.Break(errors.New("stream reset"))
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Close blocked inside onError")
	}

	require.Len(t, r.errs, 1)
	assert.True(t, store.IsRemote(r.errs[0]))
	sub.Close()
}

func TestSubscribe_Error(t *testing.T) {
	s, remote := setup()

	_, err := s.Create(context.Background(), store.CreateInput{Title: "t"})
	require.NoError(t, err)

	r := new(recorder)
	sub := s.Subscribe(r.data, r.error)
	defer sub.Close()

	remote.Break(errors.New("stream reset"))

	require.Len(t, r.errs, 1)
	assert.True(t, store.IsRemote(r.errs[0]))
	assert.Equal(t, "subscribe", r.errs[0].(*store.RemoteError).Op)
	// The last delivered collection is left as is.
	assert.Len(t, r.last(), 1)
}

func TestSubscribe_Logging(t *testing.T) {
	log, hook := test.NewNullLogger()
	remote := storetest.New()
	s := store.New(remote, "A01282356", log)

	remote.FailWith(errors.New("connection refused"))
	sub := s.Subscribe(func([]store.Item) {}, func(error) {})
	defer sub.Close()

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Equal(t, "subscribe", entry.Data["op"])
}
