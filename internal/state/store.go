// Package state holds the client's view state: the todo list, the draft
// form and the latest analytics snapshot.
package state

import (
	"slices"
	"sync"

	"github.com/idilsaglam/tododash/internal/model"
	"github.com/idilsaglam/tododash/internal/view"
)

// Change names the part of the store a mutation touched.
type Change int

const (
	TodosChanged Change = iota
	DraftChanged
	AnalyticsChanged
)

func (c Change) String() string {
	switch c {
	case TodosChanged:
		return "todos"
	case DraftChanged:
		return "draft"
	case AnalyticsChanged:
		return "analytics"
	}
	return "unknown"
}

// Snapshot is a point-in-time copy of the whole store.
type Snapshot struct {
	Todos     []model.Todo
	Draft     model.Draft
	Analytics model.Analytics
}

// Store is safe for concurrent use. Writes are last-writer-wins.
type Store struct {
	mu        sync.RWMutex
	todos     []model.Todo
	draft     model.Draft
	analytics model.Analytics

	obsMu     sync.Mutex
	nextObsID int
	observers map[int]func(Change)
}

func New() *Store {
	return &Store{
		todos:     []model.Todo{},
		draft:     model.DefaultDraft(),
		analytics: model.EmptyAnalytics(),
		observers: map[int]func(Change){},
	}
}

func (s *Store) Todos() []model.Todo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.todos)
}

// DisplayTodos is the todo list in display order, computed on every call.
func (s *Store) DisplayTodos() []model.Todo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return view.DisplayOrder(s.todos)
}

func (s *Store) Draft() model.Draft {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.draft
}

func (s *Store) Analytics() model.Analytics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.analytics.Clone()
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Todos:     slices.Clone(s.todos),
		Draft:     s.draft,
		Analytics: s.analytics.Clone(),
	}
}

// ReplaceTodos swaps in a freshly fetched collection.
func (s *Store) ReplaceTodos(todos []model.Todo) {
	if todos == nil {
		todos = []model.Todo{}
	}
	s.mu.Lock()
	s.todos = slices.Clone(todos)
	s.mu.Unlock()
	s.notify(TodosChanged)
}

func (s *Store) SetDraft(d model.Draft) {
	s.mu.Lock()
	s.draft = d
	s.mu.Unlock()
	s.notify(DraftChanged)
}

func (s *Store) ResetDraft() {
	s.SetDraft(model.DefaultDraft())
}

// ReplaceAnalytics replaces the snapshot whole; nothing is merged.
func (s *Store) ReplaceAnalytics(a model.Analytics) {
	a = a.Clone()
	s.mu.Lock()
	s.analytics = a
	s.mu.Unlock()
	s.notify(AnalyticsChanged)
}

// Subscribe registers fn to run after every mutation. Observers run on the
// mutating goroutine, outside the store lock. The returned func removes fn.
func (s *Store) Subscribe(fn func(Change)) (cancel func()) {
	s.obsMu.Lock()
	id := s.nextObsID
	s.nextObsID++
	s.observers[id] = fn
	s.obsMu.Unlock()

	return func() {
		s.obsMu.Lock()
		delete(s.observers, id)
		s.obsMu.Unlock()
	}
}

func (s *Store) notify(c Change) {
	s.obsMu.Lock()
	ids := make([]int, 0, len(s.observers))
	for id := range s.observers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	fns := make([]func(Change), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, s.observers[id])
	}
	s.obsMu.Unlock()

	for _, fn := range fns {
		fn(c)
	}
}
