package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/mdouchement/itemstore/internal/apierror"
	"github.com/mdouchement/itemstore/internal/server/serializer"
	"github.com/pkg/errors"
)

// Server-sent event names.
const (
	EventSnapshot = "snapshot"
	EventError    = "error"
)

///// Listen
////
//

// Listen streams the ordered items collection as server-sent events.
// A full snapshot is sent on connection and after each change, until the client goes away.
func (h *item) Listen(c echo.Context) error {
	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set(echo.HeaderCacheControl, "no-cache")
	res.Header().Set("Connection", "keep-alive")
	res.WriteHeader(http.StatusOK)

	changes, unsubscribe := h.items.Feed().Subscribe()
	defer unsubscribe()

	heartbeat := time.NewTicker(h.heartbeat)
	defer heartbeat.Stop()

	log := h.log.WithField("remote_addr", c.RealIP())
	log.Debug("live query opened")
	defer log.Debug("live query closed")

	if err := h.snapshot(res); err != nil {
		log.Warnf("%+v", err)
		return nil
	}

	for {
		select {
		case <-c.Request().Context().Done():
			return nil
		case <-changes:
			if err := h.snapshot(res); err != nil {
				log.Warnf("%+v", err)
				return nil
			}
		case <-heartbeat.C:
			if _, err := fmt.Fprint(res, ": ping\n\n"); err != nil {
				return nil
			}
			res.Flush()
		}
	}
}

// snapshot sends the current collection.
// When the collection can't be queried, an error event is sent and the stream must end.
func (h *item) snapshot(res *echo.Response) error {
	items, err := h.items.List()
	if err != nil {
		if werr := writeEvent(res, EventError, apierror.New("Could not query items.")); werr != nil {
			return werr
		}
		return errors.Wrap(err, "live query")
	}

	return writeEvent(res, EventSnapshot, serializer.Items(items))
}

func writeEvent(res *echo.Response, event string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "could not serialize event")
	}

	if _, err = fmt.Fprintf(res, "event: %s\ndata: %s\n\n", event, payload); err != nil {
		return errors.Wrap(err, "could not write event")
	}
	res.Flush()
	return nil
}
