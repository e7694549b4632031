// Package syncer keeps the view state in step with the todo service.
//
// Every mutation is followed by a full re-fetch instead of a local patch;
// the server copy is authoritative. Overlapping loads are not cancelled:
// whichever finishes last writes the store last.
package syncer

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"

	"github.com/idilsaglam/tododash/internal/api"
	"github.com/idilsaglam/tododash/internal/model"
	"github.com/idilsaglam/tododash/internal/state"
)

// Service is the remote todo service. *api.Client implements it.
type Service interface {
	ListTodos(ctx context.Context) ([]model.Todo, error)
	Analytics(ctx context.Context) (model.Analytics, error)
	CreateTodo(ctx context.Context, d model.Draft) error
	ToggleTodo(ctx context.Context, id string) error
}

// ChartRefresher rebuilds charts from a new snapshot. *chart.Board implements it.
type ChartRefresher interface {
	Refresh(a model.Analytics) error
}

type Controller struct {
	svc    Service
	store  *state.Store
	charts ChartRefresher
	log    *log.Logger
}

// New wires a controller. charts may be nil when nothing draws charts.
func New(svc Service, store *state.Store, charts ChartRefresher, logger *log.Logger) *Controller {
	return &Controller{svc: svc, store: store, charts: charts, log: logger}
}

func (c *Controller) Store() *state.Store { return c.store }

// LoadTodos replaces the todo collection and then reloads analytics.
// On failure the store is left as it was.
//
// Each operation returns only its own request failure, already logged.
// Failures further down the chain are logged by the step that hit them.
func (c *Controller) LoadTodos(ctx context.Context) error {
	todos, err := c.svc.ListTodos(ctx)
	if err != nil {
		c.logFailure("Error fetching todos", err)
		return err
	}
	c.store.ReplaceTodos(todos)
	c.log.Debug("todos loaded", "count", len(todos))
	_ = c.LoadAnalytics(ctx)
	return nil
}

// Refresh reloads everything from the service.
func (c *Controller) Refresh(ctx context.Context) error { return c.LoadTodos(ctx) }

// LoadAnalytics replaces the analytics snapshot and redraws the charts.
// A chart failure is logged but does not undo the replacement.
func (c *Controller) LoadAnalytics(ctx context.Context) error {
	a, err := c.svc.Analytics(ctx)
	if err != nil {
		c.logFailure("Error fetching analytics", err)
		return err
	}
	c.store.ReplaceAnalytics(a)
	c.log.Debug("analytics loaded", "total", a.TotalTodos, "completed", a.CompletedTodos)

	if c.charts != nil {
		if err := c.charts.Refresh(a); err != nil {
			c.log.Error("Error updating charts", "err", err)
		}
	}
	return nil
}

// CreateTodo submits d without validation. On success the draft is reset
// and the collection re-fetched; on failure nothing changes.
func (c *Controller) CreateTodo(ctx context.Context, d model.Draft) error {
	if err := c.svc.CreateTodo(ctx, d); err != nil {
		c.logFailure("Error adding todo", err)
		return err
	}
	c.store.ResetDraft()
	return c.afterMutation(ctx)
}

// SubmitDraft creates a todo from the store's current draft.
func (c *Controller) SubmitDraft(ctx context.Context) error {
	return c.CreateTodo(ctx, c.store.Draft())
}

// ToggleTodo flips a todo's done state, then re-fetches.
func (c *Controller) ToggleTodo(ctx context.Context, id string) error {
	if err := c.svc.ToggleTodo(ctx, id); err != nil {
		c.logFailure("Error toggling todo", err, "id", id)
		return err
	}
	return c.afterMutation(ctx)
}

// afterMutation is the single re-fetch run after every successful mutation.
func (c *Controller) afterMutation(ctx context.Context) error {
	_ = c.LoadTodos(ctx)
	return nil
}

func (c *Controller) logFailure(msg string, err error, kv ...any) {
	var rf *api.RequestFailed
	if errors.As(err, &rf) {
		kv = append(kv, "op", rf.Op, "status", rf.Status, "request_id", rf.RequestID)
	}
	kv = append(kv, "err", err)
	c.log.Error(msg, kv...)
}
