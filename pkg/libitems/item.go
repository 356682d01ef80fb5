package libitems

import "time"

type (
	// An Item is a record of the items collection.
	Item struct {
		ID          string    `json:"id"`
		Title       string    `json:"title"`
		Description string    `json:"description"`
		StudentID   string    `json:"student_id"`
		CreatedAt   time.Time `json:"created_at"`
		UpdatedAt   time.Time `json:"updated_at"`
	}

	// A NewItem holds the fields sent when an item is added.
	// The server assigns the ID and the dates.
	NewItem struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		StudentID   string `json:"student_id"`
	}

	// An ItemPatch holds the fields sent when an item is patched.
	// Nil fields are not sent and left untouched by the server.
	ItemPatch struct {
		Title       *string `json:"title,omitempty"`
		Description *string `json:"description,omitempty"`
	}
)
