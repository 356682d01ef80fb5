package libitems

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// ErrStreamClosed is reported when the server ends a live query.
var ErrStreamClosed = errors.New("live query closed by the server")

type (
	// A Subscription is a running live query.
	Subscription interface {
		// Close terminates the live query, it can be called several times.
		// A callback already running may complete but no further snapshot is delivered.
		Close()
	}

	subscription struct {
		once   sync.Once
		cancel context.CancelFunc
		done   chan struct{}
	}
)

func (s *subscription) Close() {
	s.once.Do(s.cancel)
}

// Done is closed when the live query goroutine has returned.
func (s *subscription) Done() <-chan struct{} {
	return s.done
}

func (c *client) Listen(onSnapshot func([]*Item), onError func(error)) Subscription {
	ctx, cancel := context.WithCancel(context.Background())
	s := &subscription{
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(s.done)
		defer cancel()

		err := c.listen(ctx, onSnapshot)
		if err != nil && ctx.Err() == nil && onError != nil {
			onError(err)
		}
	}()

	return s
}

func (c *client) listen(ctx context.Context, onSnapshot func([]*Item)) error {
	req, err := c.request(ctx, http.MethodGet, "/items/listen", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")

	res, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "could not perform request")
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		return parseAPIError(res.Body, res.StatusCode)
	}

	r := bufio.NewReader(res.Body)
	for {
		event, data, err := readEvent(r)
		if err != nil {
			if err == io.EOF {
				return ErrStreamClosed
			}
			return errors.Wrap(err, "could not read live query")
		}

		switch event {
		case "snapshot":
			var snapshot struct {
				Items []*Item `json:"items"`
			}
			if err = json.Unmarshal([]byte(data), &snapshot); err != nil {
				return errors.Wrap(err, "could not parse snapshot")
			}
			if snapshot.Items == nil {
				snapshot.Items = []*Item{}
			}

			if ctx.Err() != nil {
				return nil
			}
			onSnapshot(snapshot.Items)
		case "error":
			return parseAPIError(strings.NewReader(data), http.StatusInternalServerError)
		}
	}
}

// readEvent reads the next server-sent event.
// Comments (heartbeats) are skipped and multi-line data fields are joined.
func readEvent(r *bufio.Reader) (event, data string, err error) {
	var lines []string
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return "", "", err
		}
		line = strings.TrimRight(line, "\r\n")

		switch {
		case line == "":
			if event != "" || len(lines) > 0 {
				return event, strings.Join(lines, "\n"), nil
			}
		case strings.HasPrefix(line, ":"):
			// comment
		case strings.HasPrefix(line, "event:"):
			event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			lines = append(lines, strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		}
	}
}
