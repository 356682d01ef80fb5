package client

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/mdouchement/itemstore/internal/client/screen"
	"github.com/mdouchement/itemstore/internal/client/store"
	"github.com/sanity-io/litter"
	"github.com/sirupsen/logrus"
)

// List prints the items, newest first.
// In debug mode, the raw records are dumped.
func List(ctx context.Context, s *store.Store, w io.Writer, debug bool) error {
	items, err := s.List(ctx)
	if err != nil {
		return err
	}

	if debug {
		_, err = fmt.Fprintln(w, litter.Sdump(items))
		return err
	}
	return printItems(w, items)
}

// Watch prints the items each time the collection changes until ctx is done.
func Watch(ctx context.Context, s *store.Store, w io.Writer, log logrus.FieldLogger) error {
	var (
		mu     sync.Mutex
		once   sync.Once
		failed = make(chan struct{})
	)

	list := screen.NewList(s, nil, &lineNotifier{w: w}, log)
	list.OnChange(func() {
		mu.Lock()
		defer mu.Unlock()

		switch list.State() {
		case screen.Loading:
			fmt.Fprintln(w, "Loading items...")
		case screen.Ready:
			fmt.Fprintf(w, "--- %s\n", time.Now().Format(time.RFC3339))
			printItems(w, list.Items()) // nolint:errcheck
		case screen.Failed:
			once.Do(func() { close(failed) })
		}
	})

	list.Mount()
	defer list.Unmount()

	select {
	case <-ctx.Done():
		return nil
	case <-failed:
		return list.Err()
	}
}

func printItems(w io.Writer, items []store.Item) error {
	if len(items) == 0 {
		_, err := fmt.Fprintln(w, "No items yet.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tTITLE\tDESCRIPTION\tSTUDENT ID")
	for _, item := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			item.ID,
			item.CreatedAt.Local().Format(screen.CreatedAtLayout),
			item.Title,
			strings.ReplaceAll(item.Description, "\n", " "),
			item.StudentID,
		)
	}
	return tw.Flush()
}
