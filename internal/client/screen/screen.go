// Package screen holds the list and form screens as toolkit independent state machines.
// A renderer observes them through OnChange and drives them with their actions.
package screen

type (
	// A Navigator moves between screens.
	Navigator interface {
		// OpenForm shows the form screen with the given parameters.
		OpenForm(params FormParams)
		// Back returns to the previous screen.
		Back()
	}

	// A Notifier shows messages to the user.
	Notifier interface {
		// Dialog shows a message the user must acknowledge.
		Dialog(title, message string)
		// Alert shows a message without interrupting the user.
		Alert(message string)
		// Confirm asks the user for a confirmation, onConfirm is only called on approval.
		Confirm(title, message string, onConfirm func())
	}

	// FormParams are the parameters given to the form screen.
	// An empty ID opens the form in creation mode.
	// CreatedAt is formatted in unix milliseconds.
	FormParams struct {
		ID          string
		Title       string
		Description string
		CreatedAt   string
		StudentID   string
	}
)
