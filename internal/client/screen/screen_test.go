package screen_test

import (
	"context"
	"sync"

	"github.com/mdouchement/itemstore/internal/client/screen"
	"github.com/mdouchement/itemstore/internal/client/store"
	"github.com/mdouchement/itemstore/internal/client/store/storetest"
	"github.com/mdouchement/itemstore/pkg/libitems"
	"github.com/sirupsen/logrus/hooks/test"
)

type navigator struct {
	sync.Mutex
	forms []screen.FormParams
	backs int
}

func (n *navigator) OpenForm(params screen.FormParams) {
	n.Lock()
	defer n.Unlock()
	n.forms = append(n.forms, params)
}

func (n *navigator) Back() {
	n.Lock()
	defer n.Unlock()
	n.backs++
}

func (n *navigator) Backs() int {
	n.Lock()
	defer n.Unlock()
	return n.backs
}

type notifier struct {
	sync.Mutex
	approve  bool
	dialogs  []string
	alerts   []string
	confirms []string
}

func (n *notifier) Dialog(title, message string) {
	n.Lock()
	defer n.Unlock()
	n.dialogs = append(n.dialogs, message)
}

func (n *notifier) Alert(message string) {
	n.Lock()
	defer n.Unlock()
	n.alerts = append(n.alerts, message)
}

func (n *notifier) Confirm(title, message string, onConfirm func()) {
	n.Lock()
	n.confirms = append(n.confirms, message)
	approve := n.approve
	n.Unlock()

	if approve {
		onConfirm()
	}
}

func (n *notifier) Alerts() []string {
	n.Lock()
	defer n.Unlock()
	return append([]string(nil), n.alerts...)
}

func setup() (*store.Store, *storetest.Remote, *navigator, *notifier) {
	log, _ := test.NewNullLogger()
	remote := storetest.New()
	return store.New(remote, "A01282356", log), remote, new(navigator), new(notifier)
}

func setupWith(remote store.Remote) (*store.Store, *navigator, *notifier) {
	log, _ := test.NewNullLogger()
	return store.New(remote, "A01282356", log), new(navigator), new(notifier)
}

// gated blocks additions until its gate is opened.
type gated struct {
	*storetest.Remote
	entered chan struct{}
	gate    chan struct{}
}

func (g *gated) Add(ctx context.Context, item libitems.NewItem) (*libitems.Item, error) {
	g.entered <- struct{}{}
	<-g.gate
	return g.Remote.Add(ctx, item)
}
