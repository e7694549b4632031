// Package servicetest runs an in-memory todo service for tests.
package servicetest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gofrs/uuid"

	"github.com/idilsaglam/tododash/internal/model"
)

// Route keys accepted by Fail.
const (
	RouteList      = "GET /api/todos"
	RouteAnalytics = "GET /api/analytics"
	RouteCreate    = "POST /api/todos"
	RouteToggle    = "PUT /api/todos/{id}/toggle"
)

// Service is a fake todo service with failure injection.
type Service struct {
	mu       sync.Mutex
	todos    []model.Todo
	failures map[string]int
	calls    []string
	lastRID  string
	now      func() time.Time

	srv *httptest.Server
}

// New starts the fake and closes it when the test ends.
func New(t testing.TB) *Service {
	t.Helper()
	s := &Service{
		todos:    []model.Todo{},
		failures: map[string]int{},
		now:      time.Now,
	}
	s.srv = httptest.NewServer(s.Router())
	t.Cleanup(s.srv.Close)
	return s
}

func (s *Service) URL() string { return s.srv.URL }

// SetClock fixes the creation and completion time source.
func (s *Service) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Seed replaces the stored todos.
func (s *Service) Seed(todos ...model.Todo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.todos = slices.Clone(todos)
}

func (s *Service) Todos() []model.Todo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.todos)
}

// Fail makes route answer with status until Recover is called.
func (s *Service) Fail(route string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[route] = status
}

func (s *Service) Recover(route string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, route)
}

// Calls lists the route keys served, in order, failed ones included.
func (s *Service) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.calls)
}

// LastRequestID is the X-Request-ID of the most recent request.
func (s *Service) LastRequestID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRID
}

func (s *Service) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.With(s.track(RouteList)).Get("/todos", s.list)
		r.With(s.track(RouteCreate)).Post("/todos", s.create)
		r.With(s.track(RouteToggle)).Put("/todos/{id}/toggle", s.toggle)
		r.With(s.track(RouteAnalytics)).Get("/analytics", s.analytics)
	})
	return r
}

func (s *Service) track(route string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s.mu.Lock()
			s.calls = append(s.calls, route)
			s.lastRID = r.Header.Get("X-Request-ID")
			status, failing := s.failures[route]
			s.mu.Unlock()

			if failing {
				http.Error(w, http.StatusText(status), status)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (s *Service) list(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Todos())
}

func (s *Service) create(w http.ResponseWriter, r *http.Request) {
	var d model.Draft
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	todo := model.Todo{
		ID:        uuid.Must(uuid.NewV4()).String(),
		Title:     d.Title,
		Category:  d.Category,
		Priority:  d.Priority,
		CreatedAt: s.now(),
	}
	s.todos = append(s.todos, todo)
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, todo)
}

func (s *Service) toggle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.todos {
		if s.todos[i].ID != id {
			continue
		}
		s.todos[i].Done = !s.todos[i].Done
		if s.todos[i].Done {
			now := s.now()
			s.todos[i].DoneAt = &now
		} else {
			s.todos[i].DoneAt = nil
		}
		writeJSON(w, http.StatusOK, s.todos[i])
		return
	}
	http.Error(w, "Todo not found", http.StatusNotFound)
}

func (s *Service) analytics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Aggregate(s.Todos()))
}

// Aggregate computes analytics the way the real service does. Categories
// appear in order of first occurrence.
func Aggregate(todos []model.Todo) model.Analytics {
	a := model.EmptyAnalytics()
	a.TotalTodos = len(todos)

	index := map[string]int{}
	var hours float64
	var timed int
	for _, t := range todos {
		if t.Done {
			a.CompletedTodos++
			if t.DoneAt != nil {
				hours += t.DoneAt.Sub(t.CreatedAt).Hours()
				timed++
			}
		}
		if i, ok := index[t.Category]; ok {
			a.CategoryCounts[i].Count++
		} else {
			index[t.Category] = len(a.CategoryCounts)
			a.CategoryCounts = append(a.CategoryCounts, model.CategoryCount{Category: t.Category, Count: 1})
		}
		a.PriorityCounts[t.Priority]++
	}
	if a.TotalTodos > 0 {
		a.CompletionRate = float64(a.CompletedTodos) / float64(a.TotalTodos) * 100
	}
	if timed > 0 {
		a.AverageTime = hours / float64(timed)
	}
	return a
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
