package syncer_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/tododash/internal/api"
	"github.com/idilsaglam/tododash/internal/chart"
	"github.com/idilsaglam/tododash/internal/logging"
	"github.com/idilsaglam/tododash/internal/model"
	"github.com/idilsaglam/tododash/internal/servicetest"
	"github.com/idilsaglam/tododash/internal/state"
	"github.com/idilsaglam/tododash/internal/syncer"
)

// captureRenderer remembers the last config drawn per target.
type captureRenderer struct {
	mu      sync.Mutex
	configs map[string]chart.Config
	creates int
}

type nopHandle struct{}

func (nopHandle) Destroy() {}

func (r *captureRenderer) Create(target string, cfg chart.Config) (chart.Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.configs == nil {
		r.configs = map[string]chart.Config{}
	}
	r.configs[target] = cfg
	r.creates++
	return nopHandle{}, nil
}

type fixture struct {
	svc      *servicetest.Service
	store    *state.Store
	renderer *captureRenderer
	logs     *bytes.Buffer
	ctrl     *syncer.Controller
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	svc := servicetest.New(t)
	client, err := api.New(svc.URL())
	require.NoError(t, err)

	f := &fixture{
		svc:      svc,
		store:    state.New(),
		renderer: &captureRenderer{},
		logs:     &bytes.Buffer{},
	}
	logger := logging.New(f.logs, logging.Options{Level: "debug"})
	f.ctrl = syncer.New(client, f.store, chart.NewBoard(f.renderer), logger)
	return f
}

func TestCreateTodoResetsDraftAndRefetches(t *testing.T) {
	f := newFixture(t)
	f.store.SetDraft(model.Draft{Title: "Buy milk", Category: "Errand", Priority: 2})

	err := f.ctrl.SubmitDraft(context.Background())
	require.NoError(t, err)

	assert.Equal(t, model.Draft{Title: "", Category: "Work", Priority: 1}, f.store.Draft())

	todos := f.store.Todos()
	require.Len(t, todos, 1)
	assert.Equal(t, "Buy milk", todos[0].Title)
	assert.Equal(t, "Errand", todos[0].Category)
	assert.Equal(t, 2, todos[0].Priority)
	assert.NotEmpty(t, todos[0].ID)
	assert.Equal(t, f.svc.Todos()[0].ID, todos[0].ID)

	assert.Equal(t, 1, f.store.Analytics().TotalTodos)
	assert.Equal(t, []string{
		servicetest.RouteCreate,
		servicetest.RouteList,
		servicetest.RouteAnalytics,
	}, f.svc.Calls())
	assert.Equal(t, 2, f.renderer.creates)
}

func TestCreateTodoFailureKeepsDraftAndTodos(t *testing.T) {
	f := newFixture(t)
	f.svc.Seed(model.Todo{ID: "1", Title: "existing", Priority: 1})
	require.NoError(t, f.ctrl.LoadTodos(context.Background()))

	draft := model.Draft{Title: "Buy milk", Category: "Errand", Priority: 2}
	f.store.SetDraft(draft)
	f.svc.Fail(servicetest.RouteCreate, http.StatusInternalServerError)

	err := f.ctrl.SubmitDraft(context.Background())
	assert.True(t, api.IsRequestFailed(err))
	assert.Equal(t, draft, f.store.Draft())
	assert.Len(t, f.store.Todos(), 1)
	assert.Contains(t, f.logs.String(), "Error adding todo")
	assert.Contains(t, f.logs.String(), "status=500")
}

func TestCreateTodoSendsDraftAsIs(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.ctrl.CreateTodo(context.Background(), model.Draft{Title: "", Category: "", Priority: 99}))

	todos := f.svc.Todos()
	require.Len(t, todos, 1)
	assert.Equal(t, "", todos[0].Title)
	assert.Equal(t, 99, todos[0].Priority)
}

func TestToggleTodo(t *testing.T) {
	f := newFixture(t)
	f.svc.Seed(model.Todo{ID: "5", Title: "a", Category: "Work", Priority: 1, CreatedAt: time.Now()})
	require.NoError(t, f.ctrl.LoadTodos(context.Background()))

	require.NoError(t, f.ctrl.ToggleTodo(context.Background(), "5"))
	assert.True(t, f.store.Todos()[0].Done)
	assert.Equal(t, 1, f.store.Analytics().CompletedTodos)
}

func TestRefreshLoadsTodosThenAnalytics(t *testing.T) {
	f := newFixture(t)
	f.svc.Seed(model.Todo{ID: "1", Title: "a", Category: "Home", Priority: 2, CreatedAt: time.Now()})

	require.NoError(t, f.ctrl.Refresh(context.Background()))
	assert.Len(t, f.store.Todos(), 1)
	assert.Equal(t, []string{servicetest.RouteList, servicetest.RouteAnalytics}, f.svc.Calls())
	assert.Equal(t, []string{"Home"}, f.renderer.configs[chart.TargetCategory].Data.Labels)
}

func TestToggleTodoFailureLeavesTodosUnchanged(t *testing.T) {
	f := newFixture(t)
	f.svc.Seed(model.Todo{ID: "5", Title: "a", Priority: 1})
	require.NoError(t, f.ctrl.LoadTodos(context.Background()))
	before := f.store.Todos()
	calls := len(f.svc.Calls())

	f.svc.Fail(servicetest.RouteToggle, http.StatusInternalServerError)
	err := f.ctrl.ToggleTodo(context.Background(), "5")

	assert.True(t, api.IsRequestFailed(err))
	assert.Equal(t, before, f.store.Todos())
	assert.Equal(t, []string{servicetest.RouteToggle}, f.svc.Calls()[calls:])
	assert.Contains(t, f.logs.String(), "Error toggling todo")
}

func TestToggleUnknownIDFails(t *testing.T) {
	f := newFixture(t)
	err := f.ctrl.ToggleTodo(context.Background(), "missing")
	var rf *api.RequestFailed
	require.True(t, errors.As(err, &rf))
	assert.Equal(t, http.StatusNotFound, rf.Status)
}

func TestLoadTodosFailureKeepsPriorState(t *testing.T) {
	f := newFixture(t)
	f.svc.Seed(model.Todo{ID: "1", Category: "Work", Priority: 1})
	require.NoError(t, f.ctrl.LoadTodos(context.Background()))
	prior := f.store.Snapshot()

	f.svc.Seed()
	f.svc.Fail(servicetest.RouteList, http.StatusBadGateway)
	calls := len(f.svc.Calls())

	err := f.ctrl.LoadTodos(context.Background())
	assert.Error(t, err)
	assert.Equal(t, prior, f.store.Snapshot())
	assert.Equal(t, []string{servicetest.RouteList}, f.svc.Calls()[calls:], "analytics must not load after a failed list")
	assert.Contains(t, f.logs.String(), "Error fetching todos")
}

func TestAnalyticsFailureKeepsSnapshotAndCharts(t *testing.T) {
	f := newFixture(t)
	f.svc.Seed(model.Todo{ID: "1", Category: "Work", Priority: 1})
	require.NoError(t, f.ctrl.LoadTodos(context.Background()))
	prior := f.store.Analytics()
	creates := f.renderer.creates

	f.svc.Seed()
	f.svc.Fail(servicetest.RouteAnalytics, http.StatusInternalServerError)

	assert.NoError(t, f.ctrl.LoadTodos(context.Background()), "list succeeded")
	assert.Empty(t, f.store.Todos())
	assert.Equal(t, prior, f.store.Analytics(), "todos and analytics may disagree until both fetches succeed")
	assert.Equal(t, creates, f.renderer.creates)

	assert.Error(t, f.ctrl.LoadAnalytics(context.Background()))
	assert.Contains(t, f.logs.String(), "Error fetching analytics")
}

// stubService serves canned responses.
type stubService struct {
	analytics model.Analytics
	list      func(ctx context.Context) ([]model.Todo, error)
}

func (s *stubService) ListTodos(ctx context.Context) ([]model.Todo, error) { return s.list(ctx) }
func (s *stubService) Analytics(context.Context) (model.Analytics, error)  { return s.analytics, nil }
func (s *stubService) CreateTodo(context.Context, model.Draft) error       { return nil }
func (s *stubService) ToggleTodo(context.Context, string) error            { return nil }

func TestLoadAnalyticsRebuildsCharts(t *testing.T) {
	renderer := &captureRenderer{}
	store := state.New()
	svc := &stubService{analytics: model.Analytics{
		TotalTodos:     10,
		CompletedTodos: 4,
		CategoryCounts: model.CategoryCounts{{Category: "Work", Count: 6}, {Category: "Home", Count: 4}},
	}}
	ctrl := syncer.New(svc, store, chart.NewBoard(renderer), logging.Discard())

	require.NoError(t, ctrl.LoadAnalytics(context.Background()))

	completion := renderer.configs[chart.TargetCompletion]
	assert.Equal(t, []int{4, 6}, completion.Data.Datasets[0].Data)

	category := renderer.configs[chart.TargetCategory]
	assert.Equal(t, []string{"Work", "Home"}, category.Data.Labels)
	assert.Equal(t, []int{6, 4}, category.Data.Datasets[0].Data)

	assert.Equal(t, 10, store.Analytics().TotalTodos)
}

type failingCharts struct{}

func (failingCharts) Refresh(model.Analytics) error { return errors.New("no display") }

func TestChartFailureDoesNotUndoSnapshot(t *testing.T) {
	var logs bytes.Buffer
	store := state.New()
	svc := &stubService{analytics: model.Analytics{TotalTodos: 3}}
	ctrl := syncer.New(svc, store, failingCharts{}, logging.New(&logs, logging.DefaultOptions()))

	require.NoError(t, ctrl.LoadAnalytics(context.Background()))
	assert.Equal(t, 3, store.Analytics().TotalTodos)
	assert.Contains(t, logs.String(), "Error updating charts")
}

func TestNilChartsIsAllowed(t *testing.T) {
	svc := &stubService{analytics: model.Analytics{TotalTodos: 1}}
	ctrl := syncer.New(svc, state.New(), nil, logging.Discard())
	require.NoError(t, ctrl.LoadAnalytics(context.Background()))
	assert.Equal(t, 1, ctrl.Store().Analytics().TotalTodos)
}

func TestOverlappingLoadsLastFinishWins(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var n int
	var mu sync.Mutex
	svc := &stubService{
		analytics: model.EmptyAnalytics(),
		list: func(ctx context.Context) ([]model.Todo, error) {
			mu.Lock()
			n++
			call := n
			mu.Unlock()
			if call == 1 {
				close(started)
				<-release
				return []model.Todo{{ID: "slow"}}, nil
			}
			return []model.Todo{{ID: "fast"}}, nil
		},
	}
	store := state.New()
	ctrl := syncer.New(svc, store, nil, logging.Discard())

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = ctrl.LoadTodos(context.Background())
	}()
	<-started

	require.NoError(t, ctrl.LoadTodos(context.Background()))
	assert.Equal(t, "fast", store.Todos()[0].ID)

	close(release)
	<-done
	assert.Equal(t, "slow", store.Todos()[0].ID)
}
