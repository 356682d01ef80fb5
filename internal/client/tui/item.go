package tui

import (
	"fmt"
	"strings"

	"github.com/gcla/gowid"
	"github.com/gcla/gowid/widgets/columns"
	"github.com/gcla/gowid/widgets/selectable"
	"github.com/gcla/gowid/widgets/styled"
	"github.com/gcla/gowid/widgets/text"
	"github.com/mdouchement/itemstore/internal/client/screen"
	"github.com/mdouchement/itemstore/internal/client/store"
)

// An Item is the graphical representation of a store.Item as a list row.
type Item struct {
	ID           string
	presentation gowid.IWidget
	abstraction  store.Item
}

// NewItem returns a new Item.
func NewItem(item store.Item) *Item {
	description := strings.ReplaceAll(item.Description, "\n", " ")
	row := columns.New([]gowid.IContainerWidget{
		&gowid.ContainerWidget{IWidget: text.New(item.CreatedAt.Local().Format(screen.CreatedAtLayout)), D: gowid.RenderWithUnits{U: 18}},
		&gowid.ContainerWidget{IWidget: text.New(item.Title), D: gowid.RenderWithWeight{W: 2}},
		&gowid.ContainerWidget{IWidget: text.New(description), D: gowid.RenderWithWeight{W: 3}},
		&gowid.ContainerWidget{IWidget: text.New(fmt.Sprintf(" %s", item.StudentID)), D: gowid.RenderWithUnits{U: 12}},
	})

	return &Item{
		ID: item.ID,
		presentation: selectable.New(
			styled.NewExt(
				row,
				gowid.MakePaletteRef("normal"), gowid.MakePaletteRef("focused"),
			),
		),
		abstraction: item,
	}
}

// Record returns the displayed record.
func (w *Item) Record() store.Item {
	return w.abstraction
}

////////////////////
//                //
// Delegates      //
//                //
////////////////////

// Render implements gowid.IWidget
func (w *Item) Render(size gowid.IRenderSize, focus gowid.Selector, app gowid.IApp) gowid.ICanvas {
	return w.presentation.Render(size, focus, app)
}

// RenderSize implements gowid.IWidget
func (w *Item) RenderSize(size gowid.IRenderSize, focus gowid.Selector, app gowid.IApp) gowid.IRenderBox {
	return w.presentation.RenderSize(size, focus, app)
}

// UserInput implements gowid.IWidget
func (w *Item) UserInput(ev any, size gowid.IRenderSize, focus gowid.Selector, app gowid.IApp) bool {
	return w.presentation.UserInput(ev, size, focus, app)
}

// Selectable implements gowid.IWidget
func (w *Item) Selectable() bool {
	return w.presentation.Selectable()
}
