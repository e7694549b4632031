// Package chart binds analytics snapshots to chart displays.
//
// A Renderer draws a Config into a named display target and hands back a
// Handle. A Board keeps the latest handle per target and always destroys
// it before binding a new one, so a target never has two live charts.
package chart

import (
	"errors"
	"sync"

	"github.com/idilsaglam/tododash/internal/model"
)

// Display targets used by the dashboard.
const (
	TargetCompletion = "completion"
	TargetCategory   = "category"
)

type Type string

const (
	Doughnut Type = "doughnut"
	Bar      Type = "bar"
)

type Config struct {
	Type    Type
	Data    Data
	Options Options
}

type Data struct {
	Labels   []string
	Datasets []Dataset
}

type Dataset struct {
	Label           string
	Data            []int
	BackgroundColor []string
}

type Options struct {
	Responsive bool
	Legend     Legend
	Y          *Axis
}

type Legend struct {
	Display  bool
	Position string
}

// Axis configures the value axis. A StepSize of 1 gives integer ticks.
type Axis struct {
	BeginAtZero bool
	StepSize    int
}

// Renderer is the drawing collaborator.
type Renderer interface {
	Create(target string, cfg Config) (Handle, error)
}

// Handle is a live chart bound to a target.
type Handle interface {
	Destroy()
}

const (
	colorCompleted = "#22c55e"
	colorPending   = "#e5e7eb"
	colorCategory  = "#6366f1"
)

// CompletionChart is the completed vs pending split of a.
func CompletionChart(a model.Analytics) Config {
	return Config{
		Type: Doughnut,
		Data: Data{
			Labels: []string{"Completed", "Pending"},
			Datasets: []Dataset{{
				Data:            []int{a.CompletedTodos, a.Pending()},
				BackgroundColor: []string{colorCompleted, colorPending},
			}},
		},
		Options: Options{
			Responsive: true,
			Legend:     Legend{Display: true, Position: "bottom"},
		},
	}
}

// CategoryChart has one bar per category of a, in the order the service sent them.
func CategoryChart(a model.Analytics) Config {
	return Config{
		Type: Bar,
		Data: Data{
			Labels: a.CategoryCounts.Labels(),
			Datasets: []Dataset{{
				Label:           "Tasks per Category",
				Data:            a.CategoryCounts.Values(),
				BackgroundColor: []string{colorCategory},
			}},
		},
		Options: Options{
			Responsive: true,
			Legend:     Legend{Display: false},
			Y:          &Axis{BeginAtZero: true, StepSize: 1},
		},
	}
}

// Board owns at most one live handle per target.
type Board struct {
	mu       sync.Mutex
	renderer Renderer
	handles  map[string]Handle
}

func NewBoard(r Renderer) *Board {
	return &Board{renderer: r, handles: map[string]Handle{}}
}

// Bind destroys the handle currently bound to target, if any, then creates
// a new one from cfg. If Create fails the target is left empty.
func (b *Board) Bind(target string, cfg Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.bind(target, cfg)
}

func (b *Board) bind(target string, cfg Config) error {
	if h, ok := b.handles[target]; ok {
		h.Destroy()
		delete(b.handles, target)
	}
	h, err := b.renderer.Create(target, cfg)
	if err != nil {
		return err
	}
	b.handles[target] = h
	return nil
}

// Refresh rebuilds both dashboard charts from a. Both are bound under one
// lock so the pair always comes from the same snapshot.
func (b *Board) Refresh(a model.Analytics) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return errors.Join(
		b.bind(TargetCompletion, CompletionChart(a)),
		b.bind(TargetCategory, CategoryChart(a)),
	)
}

// Live reports whether target currently has a handle.
func (b *Board) Live(target string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.handles[target]
	return ok
}

// Close destroys every handle.
func (b *Board) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for target, h := range b.handles {
		h.Destroy()
		delete(b.handles, target)
	}
}
