package tui

import (
	"fmt"

	"github.com/gcla/gowid"
	"github.com/gcla/gowid/gwutil"
	"github.com/gcla/gowid/widgets/columns"
	"github.com/gcla/gowid/widgets/edit"
	"github.com/gcla/gowid/widgets/framed"
	"github.com/gcla/gowid/widgets/pile"
	"github.com/gcla/gowid/widgets/styled"
	"github.com/gcla/gowid/widgets/text"
	"github.com/gcla/gowid/widgets/vscroll"
	"github.com/gdamore/tcell/v2"
	"github.com/mdouchement/itemstore/internal/client/screen"
)

// A FormView is the graphical representation of a screen.Form.
type FormView struct {
	*pile.Widget
	form        *screen.Form
	title       *edit.Widget
	description *edit.Widget
	studentID   *edit.Widget
	hint        *text.Widget
}

// NewFormView returns a new FormView.
func NewFormView(form *screen.Form) *FormView {
	w := &FormView{
		form:        form,
		title:       edit.New(edit.Options{Caption: "Title: ", Text: form.Title()}),
		description: edit.New(edit.Options{Text: form.Description()}),
		hint:        text.New(""),
	}

	rows := []gowid.IContainerWidget{
		&gowid.ContainerWidget{IWidget: w.title, D: gowid.RenderFlow{}},
	}

	if form.StudentIDEditable() {
		w.studentID = edit.New(edit.Options{Caption: "Student ID: ", Text: form.StudentID()})
		rows = append(rows, &gowid.ContainerWidget{IWidget: w.studentID, D: gowid.RenderFlow{}})
	} else {
		rows = append(rows,
			&gowid.ContainerWidget{IWidget: text.New(fmt.Sprintf("Student ID: %s", form.StudentID())), D: gowid.RenderFlow{}},
			&gowid.ContainerWidget{IWidget: text.New(fmt.Sprintf("Created:    %s", form.CreatedAtLabel())), D: gowid.RenderFlow{}},
		)
	}

	description := framed.NewUnicode(newDescriptionEditor(w.description))
	description.SetTitle("Description", nil)

	rows = append(rows,
		&gowid.ContainerWidget{IWidget: description, D: gowid.RenderWithWeight{W: 1}},
		&gowid.ContainerWidget{
			IWidget: styled.New(w.hint, gowid.MakePaletteRef("hint")),
			D:       gowid.RenderFlow{},
		},
	)

	w.Widget = pile.New(rows)
	return w
}

// Sync copies the edited values into the form.
func (w *FormView) Sync() {
	w.form.SetTitle(w.title.Text())
	w.form.SetDescription(w.description.Text())
	if w.studentID != nil {
		w.form.SetStudentID(w.studentID.Text())
	}
}

// Refresh updates the save indicator.
func (w *FormView) Refresh(app gowid.IApp) {
	if w.form.Saving() {
		w.hint.SetText("Saving...", app)
		return
	}
	w.hint.SetText("[ctrl-s] save  [esc] back  [up/down] move", app)
}

// UserInput implements gowid.IWidget
func (w *FormView) UserInput(ev any, size gowid.IRenderSize, focus gowid.Selector, app gowid.IApp) bool {
	if w.form.Saving() {
		return false // Inputs are frozen while saving
	}
	return w.Widget.UserInput(ev, size, focus, app)
}

//
//
//
//
//
//

// A descriptionEditor is a scrollable multi-line editor.
type descriptionEditor struct {
	*columns.Widget
	e        *edit.Widget
	sb       *vscroll.Widget
	goUpDown int // positive means down
	pgUpDown int // positive means down
}

func newDescriptionEditor(e *edit.Widget) *descriptionEditor {
	sb := vscroll.NewExt(vscroll.VerticalScrollbarUnicodeRunes)
	de := &descriptionEditor{
		Widget: columns.New([]gowid.IContainerWidget{
			&gowid.ContainerWidget{IWidget: e, D: gowid.RenderWithWeight{W: 1}},
			&gowid.ContainerWidget{IWidget: sb, D: gowid.RenderWithUnits{U: 1}},
		}),
		e:  e,
		sb: sb,
	}
	sb.OnClickAbove(gowid.WidgetCallback{Name: "cb", WidgetChangedFunction: func(gowid.IApp, gowid.IWidget) { de.pgUpDown-- }})
	sb.OnClickBelow(gowid.WidgetCallback{Name: "cb", WidgetChangedFunction: func(gowid.IApp, gowid.IWidget) { de.pgUpDown++ }})
	sb.OnClickUpArrow(gowid.WidgetCallback{Name: "cb", WidgetChangedFunction: func(gowid.IApp, gowid.IWidget) { de.goUpDown-- }})
	sb.OnClickDownArrow(gowid.WidgetCallback{Name: "cb", WidgetChangedFunction: func(gowid.IApp, gowid.IWidget) { de.goUpDown++ }})
	return de
}

// UserInput implements gowid.IWidget
func (w *descriptionEditor) UserInput(ev any, size gowid.IRenderSize, focus gowid.Selector, app gowid.IApp) bool {
	box, _ := size.(gowid.IRenderBox)
	w.sb.Top, w.sb.Middle, w.sb.Bottom = w.e.CalculateTopMiddleBottom(gowid.MakeRenderBox(box.BoxColumns()-1, box.BoxRows()))

	// Remap events
	if k, ok := ev.(*tcell.EventKey); ok {
		switch k.Key() {
		case tcell.KeyHome:
			ev = tcell.NewEventKey(tcell.KeyCtrlA, ' ', tcell.ModNone) // Start of line defined by edit widget
		case tcell.KeyEnd:
			ev = tcell.NewEventKey(tcell.KeyCtrlE, ' ', tcell.ModNone) // End of line defined by edit widget
		}
	}

	handled := w.Widget.UserInput(ev, size, focus, app)
	if handled {
		w.Widget.SetFocus(app, 0)
	}

	return handled
}

// Render implements gowid.IWidget
func (w *descriptionEditor) Render(size gowid.IRenderSize, focus gowid.Selector, app gowid.IApp) gowid.ICanvas {
	box, _ := size.(gowid.IRenderBox)
	ecols := box.BoxColumns() - 1
	ebox := gowid.MakeRenderBox(ecols, box.BoxRows())
	if w.goUpDown != 0 || w.pgUpDown != 0 {
		w.e.SetLinesFromTop(gwutil.Max(0, w.e.LinesFromTop()+w.goUpDown+(w.pgUpDown*box.BoxRows())), app)
		txt := w.e.MakeText()
		layout := text.MakeTextLayout(txt.Content(), ecols, txt.Wrap(), gowid.HAlignLeft{})
		_, y := text.GetCoordsFromCursorPos(w.e.CursorPos(), ecols, layout, w.e)
		if y < w.e.LinesFromTop() {
			for i := y; i < w.e.LinesFromTop(); i++ {
				w.e.DownLines(ebox, false, app)
			}
		} else if y >= w.e.LinesFromTop()+box.BoxRows() {
			for i := w.e.LinesFromTop() + box.BoxRows(); i <= y; i++ {
				w.e.UpLines(ebox, false, app)
			}
		}
	}
	w.goUpDown = 0
	w.pgUpDown = 0
	w.sb.Top, w.sb.Middle, w.sb.Bottom = w.e.CalculateTopMiddleBottom(ebox)

	return w.Widget.Render(size, focus, app)
}
