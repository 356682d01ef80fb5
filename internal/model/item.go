package model

// An Item is a short text record owned by a student.
// It is both the database record and the rendered API response.
type Item struct {
	Base `msgpack:",inline" storm:"inline"`

	Title       string `json:"title"       msgpack:"title"`
	Description string `json:"description" msgpack:"description"`
	StudentID   string `json:"student_id"  msgpack:"student_id"  storm:"index"`
}

// NewItem returns a new Item, not yet persisted.
func NewItem(title, description, studentID string) *Item {
	return &Item{
		Title:       title,
		Description: description,
		StudentID:   studentID,
	}
}
