// Package tui renders the list and form screens in a terminal.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/bep/debounce"
	"github.com/gcla/gowid"
	"github.com/gcla/gowid/widgets/framed"
	"github.com/gcla/gowid/widgets/null"
	"github.com/gcla/gowid/widgets/pile"
	"github.com/gcla/gowid/widgets/styled"
	"github.com/gcla/gowid/widgets/text"
	"github.com/gdamore/tcell/v2"
	"github.com/mdouchement/itemstore/internal/client/screen"
	"github.com/mdouchement/itemstore/internal/client/store"
	"github.com/mdouchement/itemstore/internal/logger"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type page int

const (
	listPage page = iota
	formPage
)

// A TUI is a text-based interface.
// It implements screen.Navigator and screen.Notifier.
//
// Screens can be updated from any goroutine, so every change of the widgets
// is posted on the application's event loop.
type TUI struct {
	App   *gowid.App
	store *store.Store
	log   logrus.FieldLogger

	list     *screen.List
	listView *ItemList
	form     *screen.Form
	formView *FormView
	page     page
	modal    *modal

	body        *framed.Widget
	status      *text.Widget
	clearStatus func(func())
}

// New returns a new TUI.
func New(s *store.Store, log logrus.FieldLogger) (*TUI, error) {
	ui := &TUI{
		store:       s,
		log:         log,
		clearStatus: debounce.New(3 * time.Second),
	}
	ui.list = screen.NewList(s, ui, ui, log)
	ui.list.OnChange(ui.refresh)

	app, err := gowid.NewApp(layout(ui))
	if err != nil {
		return ui, errors.Wrap(err, "could not create application widgets")
	}

	ui.App = app
	return ui, nil
}

// Run starts the live query and the event loop until the user quits.
func (ui *TUI) Run() {
	ui.list.Mount()
	defer ui.list.Unmount()

	ui.App.MainLoop(gowid.UnhandledInputFunc(ui.unhandled))
}

// Cleanup cleans the application properly (in case of panic).
func (ui *TUI) Cleanup() {
	ui.App.GetScreen().Fini() // Cleanup tcell screen's objects
}

// post runs fn on the event loop.
func (ui *TUI) post(fn func(app gowid.IApp)) {
	go ui.App.Run(gowid.RunFunction(fn)) // nolint:errcheck
}

func (ui *TUI) refresh() {
	ui.post(ui.render)
}

////////////////////
//                //
// Navigator      //
//                //
////////////////////

// OpenForm implements screen.Navigator.
func (ui *TUI) OpenForm(params screen.FormParams) {
	logger.Dump(ui.log, "open form", params)
	ui.post(func(app gowid.IApp) {
		ui.form = screen.NewForm(ui.store, ui, ui, ui.log, params)
		ui.form.OnChange(ui.refresh)
		ui.formView = NewFormView(ui.form)
		ui.page = formPage
		ui.render(app)
	})
}

// Back implements screen.Navigator.
func (ui *TUI) Back() {
	ui.post(func(app gowid.IApp) {
		ui.form = nil
		ui.formView = nil
		ui.page = listPage
		ui.render(app)
	})
}

////////////////////
//                //
// Notifier       //
//                //
////////////////////

// Dialog implements screen.Notifier.
func (ui *TUI) Dialog(title, message string) {
	ui.post(func(app gowid.IApp) {
		ui.modal = &modal{title: title, message: message}
		ui.render(app)
	})
}

// Alert implements screen.Notifier.
func (ui *TUI) Alert(message string) {
	ui.post(func(app gowid.IApp) {
		ui.status.SetText(message, app)
	})
	ui.clearStatus(func() {
		ui.post(func(app gowid.IApp) {
			ui.status.SetText("", app)
		})
	})
}

// Confirm implements screen.Notifier.
func (ui *TUI) Confirm(title, message string, onConfirm func()) {
	ui.post(func(app gowid.IApp) {
		ui.modal = &modal{title: title, message: message, onConfirm: onConfirm}
		ui.render(app)
	})
}

////////////////////
//                //
// Layout         //
//                //
////////////////////

func layout(ui *TUI) gowid.AppArgs {
	ui.listView = NewItemList()
	ui.body = framed.NewUnicode(null.New())
	ui.status = text.New("")

	main := pile.New([]gowid.IContainerWidget{
		&gowid.ContainerWidget{
			IWidget: styled.New(ui.body, gowid.MakePaletteRef("mainpane")),
			D:       gowid.RenderWithWeight{W: 20},
		},
		&gowid.ContainerWidget{
			IWidget: styled.New(framed.NewUnicode(ui.status), gowid.MakePaletteRef("mainpane")),
			D:       gowid.RenderWithWeight{W: 2},
		},
	})

	return gowid.AppArgs{
		View: main,
		Palette: &gowid.Palette{
			"mainpane": gowid.MakePaletteEntry(gowid.ColorLightGray, gowid.ColorBlack),
			// List style
			"normal":  gowid.MakePaletteEntry(gowid.ColorLightGray, gowid.ColorBlack),
			"focused": gowid.MakePaletteEntry(gowid.ColorBlack, gowid.ColorRed),
			"hint":    gowid.MakePaletteEntry(gowid.ColorDarkGray, gowid.ColorBlack),
		},
		Log: ui.log,
	}
}

// render must be called from the event loop.
func (ui *TUI) render(app gowid.IApp) {
	if ui.modal != nil {
		ui.body.SetTitle(ui.modal.title, app)
		ui.body.SetSubWidget(ui.modal.widget(), app)
		return
	}

	if ui.page == formPage && ui.formView != nil {
		title := "New item"
		if ui.form.Mode() == screen.EditMode {
			title = "Edit item"
		}
		ui.body.SetTitle(title, app)
		ui.formView.Refresh(app)
		ui.body.SetSubWidget(ui.formView, app)
		return
	}

	ui.body.SetTitle("Items", app)
	switch ui.list.State() {
	case screen.Loading:
		ui.body.SetSubWidget(text.New("Loading items..."), app)
	case screen.Failed:
		message := fmt.Sprintf("Could not load items: %s\n\n[r] retry  [ctrl-q] quit", ui.list.Err())
		ui.body.SetSubWidget(text.New(message), app)
	case screen.Ready:
		items := ui.list.Items()
		if len(items) == 0 {
			ui.body.SetSubWidget(text.New("No items yet.\n\n[n] new  [ctrl-q] quit"), app)
			return
		}
		ui.listView.Replace(items)
		ui.body.SetSubWidget(ui.listView, app)
	}
}

////////////////////
//                //
// Events         //
//                //
////////////////////

func (ui *TUI) unhandled(app gowid.IApp, ev any) bool {
	evk, ok := ev.(*tcell.EventKey)
	if !ok {
		return false
	}

	if evk.Key() == tcell.KeyCtrlQ {
		app.Quit()
		return true
	}

	switch {
	case ui.modal != nil:
		return ui.modalInput(app, evk)
	case ui.page == formPage:
		return ui.formInput(app, evk)
	default:
		return ui.listInput(app, evk)
	}
}

func (ui *TUI) listInput(app gowid.IApp, evk *tcell.EventKey) bool {
	item, selected := ui.listView.Focused()

	switch {
	case evk.Key() == tcell.KeyRune && evk.Rune() == 'n':
		ui.list.Create()
	case evk.Key() == tcell.KeyRune && evk.Rune() == 'r':
		ui.list.Unmount()
		ui.list.Mount()
	case evk.Key() == tcell.KeyRune && evk.Rune() == 'e', evk.Key() == tcell.KeyEnter:
		if selected && ui.list.State() == screen.Ready {
			ui.list.Edit(item)
		}
	case evk.Key() == tcell.KeyRune && evk.Rune() == 'd':
		if selected && ui.list.State() == screen.Ready {
			ui.list.RequestDelete(item)
		}
	default:
		return false
	}
	return true
}

func (ui *TUI) formInput(app gowid.IApp, evk *tcell.EventKey) bool {
	switch evk.Key() {
	case tcell.KeyCtrlS:
		if ui.form.Saving() {
			return true
		}
		ui.formView.Sync()
		go ui.form.Submit(context.Background()) // nolint:errcheck
	case tcell.KeyEscape:
		if !ui.form.Saving() {
			ui.Back()
		}
	default:
		return false
	}
	return true
}

func (ui *TUI) modalInput(app gowid.IApp, evk *tcell.EventKey) bool {
	m := ui.modal

	switch {
	case evk.Key() == tcell.KeyEnter, evk.Key() == tcell.KeyRune && evk.Rune() == 'y':
		ui.modal = nil
		if m.onConfirm != nil {
			m.onConfirm()
		}
	case evk.Key() == tcell.KeyEscape, evk.Key() == tcell.KeyRune && evk.Rune() == 'n':
		ui.modal = nil
	default:
		return true // The modal captures all the keys.
	}

	ui.render(app)
	return true
}

////////////////////
//                //
// Modal          //
//                //
////////////////////

type modal struct {
	title     string
	message   string
	onConfirm func()
}

func (m *modal) widget() gowid.IWidget {
	hint := "[enter] ok"
	if m.onConfirm != nil {
		hint = "[y] yes  [n] no"
	}

	return pile.New([]gowid.IContainerWidget{
		&gowid.ContainerWidget{IWidget: text.New(m.message), D: gowid.RenderFlow{}},
		&gowid.ContainerWidget{IWidget: text.New(""), D: gowid.RenderFlow{}},
		&gowid.ContainerWidget{
			IWidget: styled.New(text.New(hint), gowid.MakePaletteRef("hint")),
			D:       gowid.RenderFlow{},
		},
	})
}
