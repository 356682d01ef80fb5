package client

import (
	"fmt"
	"runtime"

	"github.com/mdouchement/itemstore/internal/client/store"
	"github.com/mdouchement/itemstore/internal/client/tui"
	"github.com/sirupsen/logrus"
)

// TUI runs the text-based items application.
func TUI(s *store.Store, log logrus.FieldLogger) error {
	defer func() {
		if r := recover(); r != nil {
			var err error
			switch r := r.(type) {
			case error:
				err = r
			default:
				err = fmt.Errorf("%v", r)
			}
			stack := make([]byte, 4<<10)
			length := runtime.Stack(stack, true)

			log.Errorf("[PANIC RECOVER] %s %s\n", err, stack[:length])
		}
	}()

	ui, err := tui.New(s, log)
	if err != nil {
		return err
	}
	defer ui.Cleanup()

	ui.Run()
	return nil
}
