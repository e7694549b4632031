package view

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/tododash/internal/model"
)

var base = time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)

func todo(id string, priority int, done bool, age time.Duration) model.Todo {
	return model.Todo{ID: id, Title: id, Priority: priority, Done: done, CreatedAt: base.Add(-age)}
}

func ids(todos []model.Todo) []string {
	out := make([]string, 0, len(todos))
	for _, t := range todos {
		out = append(out, t.ID)
	}
	return out
}

func TestDisplayOrderKeys(t *testing.T) {
	in := []model.Todo{
		todo("low-open", 1, false, time.Hour),
		todo("high-done", 3, true, time.Minute),
		todo("mid-open-old", 2, false, 3*time.Hour),
		todo("high-open", 3, false, 5*time.Hour),
		todo("mid-open-new", 2, false, time.Minute),
		todo("mid-done", 2, true, 0),
	}

	got := DisplayOrder(in)

	assert.Equal(t, []string{
		"high-open",
		"high-done",
		"mid-open-new",
		"mid-open-old",
		"mid-done",
		"low-open",
	}, ids(got))
}

func TestDisplayOrderDoesNotMutateInput(t *testing.T) {
	in := []model.Todo{todo("a", 1, false, 0), todo("b", 3, false, 0)}
	before := ids(in)

	got := DisplayOrder(in)

	assert.Equal(t, before, ids(in))
	assert.Equal(t, []string{"b", "a"}, ids(got))

	got[0].Title = "changed"
	assert.Equal(t, "b", in[1].Title)
}

func TestDisplayOrderStableOnFullTies(t *testing.T) {
	in := []model.Todo{
		todo("first", 2, false, time.Hour),
		todo("second", 2, false, time.Hour),
		todo("third", 2, false, time.Hour),
	}
	assert.Equal(t, []string{"first", "second", "third"}, ids(DisplayOrder(in)))
}

func TestDisplayOrderEmpty(t *testing.T) {
	assert.Empty(t, DisplayOrder(nil))
	assert.Empty(t, DisplayOrder([]model.Todo{}))
}

func TestDisplayOrderProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 200; round++ {
		n := rng.Intn(12)
		in := make([]model.Todo, n)
		for i := range in {
			in[i] = todo(fmt.Sprintf("t%d", i), 1+rng.Intn(3), rng.Intn(2) == 0,
				time.Duration(rng.Intn(5))*time.Hour)
		}

		got := DisplayOrder(in)
		require.Len(t, got, len(in))
		assert.ElementsMatch(t, in, got, "round %d: not a permutation", round)

		for i := 0; i+1 < len(got); i++ {
			a, b := got[i], got[i+1]
			switch {
			case a.Priority != b.Priority:
				assert.Greater(t, a.Priority, b.Priority, "round %d", round)
			case a.Done != b.Done:
				assert.False(t, a.Done, "round %d: done before open", round)
			default:
				assert.False(t, a.CreatedAt.Before(b.CreatedAt), "round %d: older before newer", round)
			}
		}
	}
}

func TestStats(t *testing.T) {
	done, pending := Stats([]model.Todo{
		todo("a", 1, true, 0),
		todo("b", 1, false, 0),
		todo("c", 1, false, 0),
	})
	assert.Equal(t, 1, done)
	assert.Equal(t, 2, pending)
}
