package client

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/mdouchement/itemstore/internal/client/screen"
	"github.com/mdouchement/itemstore/internal/client/store"
	"github.com/sirupsen/logrus"
)

// A LineReader reads a line of input after displaying prompt.
type LineReader func(prompt string) (string, error)

// Add creates an item.
func Add(ctx context.Context, s *store.Store, w io.Writer, in store.CreateInput) error {
	id, err := s.Create(ctx, in)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, id)
	return err
}

// Prompt creates an item from a line-mode form.
// The form is asked again until the input is valid.
func Prompt(ctx context.Context, s *store.Store, w io.Writer, read LineReader, log logrus.FieldLogger) error {
	if read == nil {
		read = readline.Line
	}

	notifier := &lineNotifier{w: w, read: read}
	form := screen.NewForm(s, &lineNavigator{w: w}, notifier, log, screen.FormParams{})

	for {
		title, err := read("Title: ")
		if err != nil {
			return err
		}
		description, err := read("Description: ")
		if err != nil {
			return err
		}
		studentID, err := read(fmt.Sprintf("Student ID [%s]: ", form.StudentID()))
		if err != nil {
			return err
		}

		form.SetTitle(title)
		form.SetDescription(description)
		if strings.TrimSpace(studentID) != "" {
			form.SetStudentID(studentID)
		}

		err = form.Submit(ctx)
		if store.IsValidation(err) {
			continue
		}
		return err
	}
}

// Edit updates the given fields of an item.
func Edit(ctx context.Context, s *store.Store, w io.Writer, id string, in store.UpdateInput) error {
	if err := s.Update(ctx, id, in); err != nil {
		return err
	}

	_, err := fmt.Fprintln(w, "Item updated.")
	return err
}

// Remove deletes an item.
func Remove(ctx context.Context, s *store.Store, w io.Writer, id string) error {
	if err := s.Delete(ctx, id); err != nil {
		return err
	}

	_, err := fmt.Fprintln(w, "Item removed.")
	return err
}

////////////////////
//                //
// Line mode      //
//                //
////////////////////

// lineNavigator implements screen.Navigator for line-mode commands.
type lineNavigator struct {
	w io.Writer
}

func (n *lineNavigator) OpenForm(screen.FormParams) {}

func (n *lineNavigator) Back() {
	fmt.Fprintln(n.w, "Item saved.")
}

// lineNotifier implements screen.Notifier for line-mode commands.
// Confirmations are declined when there is no reader.
type lineNotifier struct {
	w    io.Writer
	read LineReader
}

func (n *lineNotifier) Dialog(title, message string) {
	fmt.Fprintf(n.w, "%s: %s\n", title, message)
}

func (n *lineNotifier) Alert(message string) {
	fmt.Fprintln(n.w, message)
}

func (n *lineNotifier) Confirm(title, message string, onConfirm func()) {
	if n.read == nil {
		return
	}

	answer, err := n.read(fmt.Sprintf("%s [y/N] ", message))
	if err != nil {
		return
	}
	if strings.EqualFold(strings.TrimSpace(answer), "y") {
		onConfirm()
	}
}
