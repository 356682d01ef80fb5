package tui

import (
	"github.com/gcla/gowid"
	"github.com/gcla/gowid/widgets/list"
	"github.com/gdamore/tcell/v2"
	"github.com/mdouchement/itemstore/internal/client/store"
)

// An ItemList is a list of Items to interract with.
// It implements gowid.IWidget by delegating to its presentation.
type ItemList struct {
	presentation list.IWidget
	abstraction  *itemListAbstraction
}

// NewItemList returns a new ItemList.
func NewItemList() *ItemList {
	abs := newItemListAbstraction()

	return &ItemList{
		presentation: list.New(abs),
		abstraction:  abs,
	}
}

// Replace replaces the displayed items, the focus stays on the same item when it still exists.
func (w *ItemList) Replace(items []store.Item) {
	w.abstraction.Replace(items)
}

// Focused returns the focused item.
func (w *ItemList) Focused() (store.Item, bool) {
	if item, ok := w.abstraction.At(w.abstraction.Focus()).(*Item); ok {
		return item.Record(), true
	}
	return store.Item{}, false
}

////////////////////
//                //
// Delegates      //
//                //
////////////////////

// Render implements gowid.IWidget
func (w *ItemList) Render(size gowid.IRenderSize, focus gowid.Selector, app gowid.IApp) gowid.ICanvas {
	return w.presentation.Render(size, focus, app)
}

// RenderSize implements gowid.IWidget
func (w *ItemList) RenderSize(size gowid.IRenderSize, focus gowid.Selector, app gowid.IApp) gowid.IRenderBox {
	return w.presentation.RenderSize(size, focus, app)
}

// UserInput implements gowid.IWidget
func (w *ItemList) UserInput(ev any, size gowid.IRenderSize, focus gowid.Selector, app gowid.IApp) bool {
	if evk, ok := ev.(*tcell.EventKey); ok && evk.Key() == tcell.KeyEnter {
		return false // Handled by the application as an edit
	}
	return w.presentation.UserInput(ev, size, focus, app)
}

// Selectable implements gowid.IWidget
func (w *ItemList) Selectable() bool {
	return w.presentation.Selectable()
}

////////////////////
//                //
// Abstraction    //
//                //
////////////////////

// A itemListAbstraction is a list of Items to interract with.
// It implements list.IWalker interface.
type itemListAbstraction struct {
	widgets []*Item
	focus   list.ListPos
}

func newItemListAbstraction() *itemListAbstraction {
	return &itemListAbstraction{
		widgets: make([]*Item, 0),
		focus:   0,
	}
}

func (w *itemListAbstraction) Replace(items []store.Item) {
	var focused string
	if ipos := int(w.focus); ipos >= 0 && ipos < len(w.widgets) {
		focused = w.widgets[ipos].ID
	}

	w.widgets = make([]*Item, 0, len(items))
	w.focus = 0
	for i, item := range items {
		w.widgets = append(w.widgets, NewItem(item))
		if item.ID == focused {
			w.focus = list.ListPos(i)
		}
	}
}

func (w *itemListAbstraction) First() list.IWalkerPosition {
	if len(w.widgets) == 0 {
		return nil
	}
	return list.ListPos(0)
}

func (w *itemListAbstraction) Last() list.IWalkerPosition {
	if len(w.widgets) == 0 {
		return nil
	}
	return list.ListPos(len(w.widgets) - 1)
}

func (w *itemListAbstraction) Length() int {
	return len(w.widgets)
}

func (w *itemListAbstraction) At(pos list.IWalkerPosition) gowid.IWidget {
	var res gowid.IWidget
	ipos := int(pos.(list.ListPos))
	if ipos >= 0 && ipos < w.Length() {
		res = w.widgets[ipos]
	}
	return res
}

func (w *itemListAbstraction) Focus() list.IWalkerPosition {
	return w.focus
}

func (w *itemListAbstraction) SetFocus(focus list.IWalkerPosition, app gowid.IApp) {
	w.focus = focus.(list.ListPos)
}

func (w *itemListAbstraction) Next(ipos list.IWalkerPosition) list.IWalkerPosition {
	pos := ipos.(list.ListPos)
	if int(pos) == w.Length()-1 {
		return list.ListPos(-1)
	}
	return pos + 1
}

func (w *itemListAbstraction) Previous(ipos list.IWalkerPosition) list.IWalkerPosition {
	pos := ipos.(list.ListPos)
	if pos-1 == -1 {
		return list.ListPos(-1)
	}
	return pos - 1
}
