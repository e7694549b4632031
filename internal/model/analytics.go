package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Analytics is the aggregate snapshot computed by the todo service.
// It is replaced wholesale on every fetch.
type Analytics struct {
	TotalTodos     int            `json:"total_todos"`
	CompletedTodos int            `json:"completed_todos"`
	CompletionRate float64        `json:"completion_rate"` // percent, 0-100
	AverageTime    float64        `json:"average_time"`    // hours from creation to completion
	CategoryCounts CategoryCounts `json:"category_counts"`
	PriorityCounts map[int]int    `json:"priority_counts"`
}

// EmptyAnalytics is the zeroed snapshot shown before the first fetch.
func EmptyAnalytics() Analytics {
	return Analytics{
		CategoryCounts: CategoryCounts{},
		PriorityCounts: map[int]int{},
	}
}

// Pending is the number of todos not yet completed.
func (a Analytics) Pending() int {
	return a.TotalTodos - a.CompletedTodos
}

// Clone returns a deep copy.
func (a Analytics) Clone() Analytics {
	out := a
	out.CategoryCounts = append(CategoryCounts{}, a.CategoryCounts...)
	out.PriorityCounts = make(map[int]int, len(a.PriorityCounts))
	for k, v := range a.PriorityCounts {
		out.PriorityCounts[k] = v
	}
	return out
}

// CategoryCount is one entry of the per-category breakdown.
type CategoryCount struct {
	Category string
	Count    int
}

// CategoryCounts is a JSON object of category -> count that keeps the
// key order it was decoded with.
type CategoryCounts []CategoryCount

// Labels returns the category names in order.
func (c CategoryCounts) Labels() []string {
	out := make([]string, 0, len(c))
	for _, e := range c {
		out = append(out, e.Category)
	}
	return out
}

// Values returns the counts in label order.
func (c CategoryCounts) Values() []int {
	out := make([]int, 0, len(c))
	for _, e := range c {
		out = append(out, e.Count)
	}
	return out
}

func (c CategoryCounts) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range c {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(e.Category)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		fmt.Fprintf(&buf, ":%d", e.Count)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (c *CategoryCounts) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*c = CategoryCounts{}
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("category_counts: expected object, got %v", tok)
	}
	out := CategoryCounts{}
	seen := map[string]int{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("category_counts: expected key, got %v", tok)
		}
		var n int
		if err := dec.Decode(&n); err != nil {
			return fmt.Errorf("category_counts[%q]: %w", key, err)
		}
		// Duplicate keys: the last value wins, at the first position.
		if i, dup := seen[key]; dup {
			out[i].Count = n
			continue
		}
		seen[key] = len(out)
		out = append(out, CategoryCount{Category: key, Count: n})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*c = out
	return nil
}
