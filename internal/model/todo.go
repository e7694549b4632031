package model

import "time"

// Todo is a task record as the todo service returns it.
// The client never edits one in place; it re-fetches after every mutation.
type Todo struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Category  string     `json:"category"`
	Priority  int        `json:"priority"`
	Done      bool       `json:"done"`
	CreatedAt time.Time  `json:"created_at"`
	DoneAt    *time.Time `json:"done_at,omitempty"`
}

// Draft is the new-todo form state, sent to the service as-is.
type Draft struct {
	Title    string `json:"title"`
	Category string `json:"category"`
	Priority int    `json:"priority"`
}

const (
	DefaultCategory = "Work"
	DefaultPriority = 1
)

// Categories offered by the draft form, in display order.
var Categories = []string{"Work", "Personal", "Shopping", "Health", "Other"}

// DefaultDraft is the form value after startup and after every successful submit.
func DefaultDraft() Draft {
	return Draft{Title: "", Category: DefaultCategory, Priority: DefaultPriority}
}

// PriorityLabel maps a priority to its display name.
func PriorityLabel(priority int) string {
	switch priority {
	case 1:
		return "Low"
	case 2:
		return "Medium"
	case 3:
		return "High"
	default:
		return "Unknown"
	}
}
