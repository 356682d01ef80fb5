package model

import "time"

type (
	// A Model defines a document that can be stored in database.
	Model interface {
		// GetID returns the document's ID.
		GetID() string
		// SetID defines the document's ID.
		SetID(string)
		// Stamp records a write at the given time.
		// The creation date is only set once.
		Stamp(time.Time)
	}

	// A Base contains the fields every stored document carries.
	// Both dates are assigned by the store, never by the caller.
	Base struct {
		ID        string    `json:"id"         msgpack:"id"         storm:"id"`
		CreatedAt time.Time `json:"created_at" msgpack:"created_at" storm:"index"`
		UpdatedAt time.Time `json:"updated_at" msgpack:"updated_at" storm:"index"`
	}
)

// GetID returns the document's ID.
func (m *Base) GetID() string {
	return m.ID
}

// SetID defines the document's ID.
func (m *Base) SetID(id string) {
	m.ID = id
}

// Stamp refreshes UpdatedAt and sets CreatedAt on first write.
func (m *Base) Stamp(t time.Time) {
	t = t.UTC()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = t
	}
	m.UpdatedAt = t
}
