package server_test

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// nextEvent reads the next server-sent event, skipping comments.
func nextEvent(t *testing.T, r *bufio.Reader) (event, data string) {
	t.Helper()

	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\n")

		switch {
		case line == "":
			if event != "" || data != "" {
				return event, data
			}
		case strings.HasPrefix(line, ":"):
		case strings.HasPrefix(line, "event: "):
			event = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data = strings.TrimPrefix(line, "data: ")
		}
	}
}

func TestRequestItemsListen(t *testing.T) {
	engine, ctrl, _, cleanup := setup("")
	defer cleanup()

	ts := httptest.NewServer(engine)
	defer ts.Close()

	createItem(ctrl, "t1", "")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/items/listen", nil)
	require.NoError(t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "text/event-stream", res.Header.Get("Content-Type"))

	r := bufio.NewReader(res.Body)

	// Initial snapshot
	event, data := nextEvent(t, r)
	assert.Equal(t, "snapshot", event)

	var v itemsResponse
	require.NoError(t, json.Unmarshal([]byte(data), &v))
	require.Len(t, v.Items, 1)
	assert.Equal(t, "t1", v.Items[0].Title)

	// Snapshot after a write through the API
	time.Sleep(2 * time.Millisecond)
	body := strings.NewReader(`{"title":"t2","student_id":"A01282356"}`)
	post, err := http.Post(ts.URL+"/items", "application/json", body)
	require.NoError(t, err)
	post.Body.Close()
	assert.Equal(t, http.StatusCreated, post.StatusCode)

	event, data = nextEvent(t, r)
	assert.Equal(t, "snapshot", event)

	v = itemsResponse{}
	require.NoError(t, json.Unmarshal([]byte(data), &v))
	require.Len(t, v.Items, 2)
	assert.Equal(t, "t2", v.Items[0].Title)
	assert.Equal(t, "t1", v.Items[1].Title)
}
