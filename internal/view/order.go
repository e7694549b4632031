// Package view derives render-ready data from the view state.
package view

import (
	"cmp"
	"slices"

	"github.com/idilsaglam/tododash/internal/model"
)

// DisplayOrder returns a new slice ordered for display: priority high to
// low, then open before done, then newest first. Items equal on all three
// keep their input order. todos is not modified.
func DisplayOrder(todos []model.Todo) []model.Todo {
	out := slices.Clone(todos)
	slices.SortStableFunc(out, compareForDisplay)
	return out
}

func compareForDisplay(a, b model.Todo) int {
	if c := cmp.Compare(b.Priority, a.Priority); c != 0 {
		return c
	}
	if a.Done != b.Done {
		if a.Done {
			return 1
		}
		return -1
	}
	return b.CreatedAt.Compare(a.CreatedAt)
}

// Stats counts done and pending todos.
func Stats(todos []model.Todo) (done, pending int) {
	for _, it := range todos {
		if it.Done {
			done++
		} else {
			pending++
		}
	}
	return
}
