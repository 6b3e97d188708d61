package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quote-keeper/internal/domain"
	"github.com/jsamuelsen/quote-keeper/internal/view"
)

// discardLogger returns a logger that discards all output.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeAPI implements ports.QuoteAPI with scripted results.
type fakeAPI struct {
	mu sync.Mutex

	quotes     []*domain.Quote
	listErrs   []error // consumed one per ListQuotes call
	filters    []*domain.Filter
	createErr  error
	drafts     []domain.Draft
	deleteOK   bool
	deleteErr  error
	deleteIDs  []int64
	random     *domain.Quote
	randomErr  error
	deleteGate chan struct{}
}

func (f *fakeAPI) ListQuotes(_ context.Context, filter *domain.Filter) ([]*domain.Quote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.filters = append(f.filters, filter)

	if len(f.listErrs) > 0 {
		err := f.listErrs[0]
		f.listErrs = f.listErrs[1:]
		if err != nil {
			return nil, err
		}
	}

	return f.quotes, nil
}

func (f *fakeAPI) CreateQuote(_ context.Context, draft domain.Draft) (*domain.Quote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.drafts = append(f.drafts, draft)
	if f.createErr != nil {
		return nil, f.createErr
	}

	q := &domain.Quote{ID: int64(len(f.quotes) + 1), Text: draft.Text, Author: draft.Author, Tags: draft.Tags}
	f.quotes = append(f.quotes, q)

	return q, nil
}

func (f *fakeAPI) DeleteQuote(_ context.Context, id int64) (bool, error) {
	if f.deleteGate != nil {
		<-f.deleteGate
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.deleteIDs = append(f.deleteIDs, id)
	if f.deleteErr != nil {
		return false, f.deleteErr
	}

	if f.deleteOK {
		kept := f.quotes[:0:0]
		for _, q := range f.quotes {
			if q.ID != id {
				kept = append(kept, q)
			}
		}
		f.quotes = kept
	}

	return f.deleteOK, nil
}

func (f *fakeAPI) RandomQuote(context.Context) (*domain.Quote, error) {
	return f.random, f.randomErr
}

func (f *fakeAPI) GetQuote(_ context.Context, id int64) (*domain.Quote, error) {
	for _, q := range f.quotes {
		if q.ID == id {
			return q, nil
		}
	}

	return nil, domain.NewStatusError("fetch quote", 404, "Quote not found")
}

func (f *fakeAPI) listCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.filters)
}

func sampleQuotes() []*domain.Quote {
	return []*domain.Quote{
		{ID: 1, Text: "Foo", Author: "Bar", Tags: []string{"x", "y"}},
		{ID: 2, Text: "Baz"},
	}
}

func newTestController(api *fakeAPI, doc *view.Document) *Controller {
	return NewController(ControllerConfig{
		API:          api,
		Document:     doc,
		LoadPolicy:   RetryPolicy{MaxAttempts: 3, Delay: time.Millisecond},
		RefreshDelay: 50 * time.Millisecond,
		Logger:       discardLogger(),
	})
}

var errServer = domain.NewStatusError("fetch quotes", 500, "")

func TestNewController_PanicsWithoutDependencies(t *testing.T) {
	assert.Panics(t, func() {
		NewController(ControllerConfig{Document: view.NewPage()})
	})
	assert.Panics(t, func() {
		NewController(ControllerConfig{API: &fakeAPI{}})
	})
}

func TestNewController_Defaults(t *testing.T) {
	c := NewController(ControllerConfig{API: &fakeAPI{}, Document: view.NewPage()})

	assert.Equal(t, DefaultLoadPolicy, c.loadPolicy)
	assert.Equal(t, DefaultRefreshDelay, c.refreshDelay)
	assert.NotNil(t, c.logger)
}

func TestLoadQuotes_Success(t *testing.T) {
	api := &fakeAPI{quotes: sampleQuotes()}
	doc := view.NewPage()
	c := newTestController(api, doc)

	require.NoError(t, c.LoadQuotes(context.Background(), nil))

	page := doc.Snapshot()
	assert.Equal(t, "Showing 2 quotes", page.StatusText())
	require.Len(t, page.Quotes.Children, 2)
	assert.Contains(t, page.Quotes.Children[0].TextContent(), "[x, y]")
	assert.Nil(t, api.filters[0])
}

func TestLoadQuotes_FailsTwiceThenSucceeds(t *testing.T) {
	api := &fakeAPI{quotes: sampleQuotes(), listErrs: []error{errServer, errServer}}
	doc := view.NewPage()
	c := newTestController(api, doc)

	require.NoError(t, c.LoadQuotes(context.Background(), nil))

	assert.Equal(t, 3, api.listCalls())
	page := doc.Snapshot()
	assert.Len(t, page.Quotes.Children, 2)
	assert.NotContains(t, page.StatusText(), "Failed")
}

func TestLoadQuotes_FailsThreeTimes(t *testing.T) {
	api := &fakeAPI{listErrs: []error{errServer, errServer, errServer, nil}}
	doc := view.NewPage()
	c := newTestController(api, doc)

	err := c.LoadQuotes(context.Background(), nil)

	require.ErrorIs(t, err, domain.ErrNetwork)
	assert.Equal(t, 3, api.listCalls())
	assert.Equal(t, "Failed to load quotes: failed to fetch quotes: 500", doc.Snapshot().StatusText())
}

func TestLoadQuotes_NoListElementIsNoop(t *testing.T) {
	api := &fakeAPI{quotes: sampleQuotes()}
	doc := view.New(view.ElementStatus)
	c := newTestController(api, doc)

	require.NoError(t, c.LoadQuotes(context.Background(), nil))

	assert.Zero(t, api.listCalls())
	assert.Empty(t, doc.Snapshot().StatusText())
}

func TestLoadQuotes_NoStatusElement(t *testing.T) {
	api := &fakeAPI{quotes: sampleQuotes()}
	doc := view.New(view.ElementQuotes)
	c := newTestController(api, doc)

	require.NoError(t, c.LoadQuotes(context.Background(), nil))
	assert.Len(t, doc.Snapshot().Quotes.Children, 2)
}

func TestInit_LoadsOnce(t *testing.T) {
	api := &fakeAPI{quotes: sampleQuotes()}
	c := newTestController(api, view.NewPage())

	require.NoError(t, c.Init(context.Background()))
	require.NoError(t, c.Init(context.Background()))

	assert.Equal(t, 1, api.listCalls())
}

func TestSubmit_Success(t *testing.T) {
	api := &fakeAPI{}
	doc := view.NewPage()
	c := newTestController(api, doc)

	err := c.Submit(context.Background(), SubmitEvent{Text: "Hello", Author: "Me", Tags: " a, ,b "})
	require.NoError(t, err)

	require.Len(t, api.drafts, 1)
	assert.Equal(t, domain.Draft{Text: "Hello", Author: "Me", Tags: []string{"a", "b"}}, api.drafts[0])

	page := doc.Snapshot()
	assert.Equal(t, "Showing 1 quotes", page.StatusText())
	assert.Empty(t, page.Form.Text.Value, "form is reset")
	assert.False(t, page.Form.Submit.Disabled)
	assert.Len(t, page.Quotes.Children, 1)
}

func TestSubmit_CreateFails(t *testing.T) {
	api := &fakeAPI{createErr: domain.NewStatusError("create quote", 422, "text: field required")}
	doc := view.NewPage()
	c := newTestController(api, doc)

	err := c.Submit(context.Background(), SubmitEvent{Text: "", Author: "Me", Tags: "a"})
	require.Error(t, err)

	page := doc.Snapshot()
	assert.Equal(t, "Create failed: failed to create quote: 422 (text: field required)", page.StatusText())
	assert.Equal(t, "Me", page.Form.Author.Value, "form keeps its contents")
	assert.Equal(t, "a", page.Form.Tags.Value)
	assert.False(t, page.Form.Submit.Disabled)
	assert.Zero(t, api.listCalls())
}

func TestSubmit_RefreshFailsSchedulesBackgroundReload(t *testing.T) {
	api := &fakeAPI{listErrs: []error{errServer, errServer, errServer}}
	doc := view.NewPage()
	c := newTestController(api, doc)

	err := c.Submit(context.Background(), SubmitEvent{Text: "Hello"})
	require.NoError(t, err, "create succeeded")

	assert.Equal(t,
		"Quote created, but refresh failed: failed to fetch quotes: 500",
		doc.Snapshot().StatusText())
	assert.False(t, doc.Snapshot().Form.Submit.Disabled)

	assert.Eventually(t, func() bool {
		return doc.Snapshot().StatusText() == "Showing 1 quotes"
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 4, api.listCalls(), "exactly one background reload")
}

func TestSubmit_BackgroundReloadSurvivesCanceledRequest(t *testing.T) {
	api := &fakeAPI{listErrs: []error{errServer, errServer, errServer}}
	doc := view.NewPage()
	c := newTestController(api, doc)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, c.Submit(ctx, SubmitEvent{Text: "Hello"}))
	cancel()

	assert.Eventually(t, func() bool {
		return doc.Snapshot().StatusText() == "Showing 1 quotes"
	}, time.Second, 5*time.Millisecond)
}

func TestController_CloseStopsBackgroundReload(t *testing.T) {
	api := &fakeAPI{listErrs: []error{errServer, errServer, errServer}}
	c := NewController(ControllerConfig{
		API:          api,
		Document:     view.NewPage(),
		LoadPolicy:   RetryPolicy{MaxAttempts: 3, Delay: time.Millisecond},
		RefreshDelay: 50 * time.Millisecond,
		Logger:       discardLogger(),
	})

	require.NoError(t, c.Submit(context.Background(), SubmitEvent{Text: "Hello"}))
	c.Close()

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 3, api.listCalls())
}

func TestSubmit_NoFormIsNoop(t *testing.T) {
	api := &fakeAPI{}
	c := newTestController(api, view.New(view.ElementQuotes, view.ElementStatus))

	require.NoError(t, c.Submit(context.Background(), SubmitEvent{Text: "x"}))
	assert.Empty(t, api.drafts)
}

func TestFilter_SendsBothValues(t *testing.T) {
	api := &fakeAPI{quotes: sampleQuotes()}
	doc := view.NewPage()
	c := newTestController(api, doc)

	require.NoError(t, c.Filter(context.Background(), FilterEvent{Author: "Bar"}))

	require.Len(t, api.filters, 1)
	assert.Equal(t, &domain.Filter{Author: "Bar", Tag: ""}, api.filters[0])

	page := doc.Snapshot()
	assert.Equal(t, "Bar", page.FilterAuthor.Value)
	assert.Empty(t, page.FilterTag.Value)
}

func TestFilter_AbsentInputsCountAsEmpty(t *testing.T) {
	api := &fakeAPI{}
	c := newTestController(api, view.New(view.ElementQuotes, view.ElementFilterButton))

	require.NoError(t, c.Filter(context.Background(), FilterEvent{Author: "Bar", Tag: "x"}))

	assert.Equal(t, &domain.Filter{}, api.filters[0])
}

func TestFilter_NoButtonIsNoop(t *testing.T) {
	api := &fakeAPI{}
	c := newTestController(api, view.New(view.ElementQuotes, view.ElementFilterAuthor))

	require.NoError(t, c.Filter(context.Background(), FilterEvent{Author: "Bar"}))
	assert.Zero(t, api.listCalls())
}

func TestRandom(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		api := &fakeAPI{random: &domain.Quote{ID: 9, Text: "Lucky"}}
		doc := view.NewPage()
		c := newTestController(api, doc)

		require.NoError(t, c.Random(context.Background()))

		page := doc.Snapshot()
		assert.Equal(t, StatusRandom, page.StatusText())
		require.Len(t, page.Quotes.Children, 1)
		assert.Contains(t, page.Quotes.Children[0].TextContent(), "Lucky — unknown")
	})

	t.Run("empty store", func(t *testing.T) {
		api := &fakeAPI{randomErr: domain.NewStatusError("fetch random quote", 404, "No quotes found")}
		doc := view.NewPage()
		c := newTestController(api, doc)

		err := c.Random(context.Background())
		require.ErrorIs(t, err, domain.ErrNotFound)

		assert.Equal(t,
			"Random failed: failed to fetch random quote: 404 (No quotes found)",
			doc.Snapshot().StatusText())
	})

	t.Run("without list element", func(t *testing.T) {
		api := &fakeAPI{random: &domain.Quote{ID: 9, Text: "Lucky"}}
		doc := view.New(view.ElementRandomButton, view.ElementStatus)
		c := newTestController(api, doc)

		require.NoError(t, c.Random(context.Background()))
		assert.Equal(t, StatusRandom, doc.Snapshot().StatusText())
	})

	t.Run("no button is noop", func(t *testing.T) {
		api := &fakeAPI{randomErr: errors.New("should not be called")}
		c := newTestController(api, view.New(view.ElementQuotes))

		assert.NoError(t, c.Random(context.Background()))
	})
}

func TestShow(t *testing.T) {
	quotes := []*domain.Quote{{ID: 1, Text: "Foo"}, {ID: 2, Text: "Bar", Author: "Baz"}}

	t.Run("success", func(t *testing.T) {
		doc := view.NewPage()
		c := newTestController(&fakeAPI{quotes: quotes}, doc)

		require.NoError(t, c.Dispatch(context.Background(), ShowEvent{ID: 2}))

		page := doc.Snapshot()
		assert.Equal(t, "Quote 2", page.StatusText())
		require.Len(t, page.Quotes.Children, 1)
		assert.Contains(t, page.Quotes.Children[0].TextContent(), "Bar — Baz")
	})

	t.Run("not found", func(t *testing.T) {
		doc := view.NewPage()
		c := newTestController(&fakeAPI{quotes: quotes}, doc)

		err := c.Show(context.Background(), 7)
		require.ErrorIs(t, err, domain.ErrNotFound)

		status := doc.Snapshot().StatusText()
		assert.Equal(t, "Show failed: failed to fetch quote: 404 (Quote not found)", status)
		assert.True(t, IsFailureStatus(status))
	})

	t.Run("no list is noop", func(t *testing.T) {
		doc := view.New(view.ElementStatus)
		c := newTestController(&fakeAPI{quotes: quotes}, doc)

		require.NoError(t, c.Show(context.Background(), 1))
		assert.Empty(t, doc.Snapshot().StatusText())
	})
}

func TestDelete_Success(t *testing.T) {
	api := &fakeAPI{quotes: sampleQuotes(), deleteOK: true}
	doc := view.NewPage()
	c := newTestController(api, doc)
	require.NoError(t, c.LoadQuotes(context.Background(), nil))

	require.NoError(t, c.Delete(context.Background(), 1))

	assert.Equal(t, []int64{1}, api.deleteIDs)
	page := doc.Snapshot()
	require.Len(t, page.Quotes.Children, 1)
	assert.Contains(t, page.Quotes.Children[0].TextContent(), "Baz")
	assert.Nil(t, api.filters[1], "reload is unfiltered")
	assert.Empty(t, page.Alerts)
}

func TestDelete_Rejected(t *testing.T) {
	api := &fakeAPI{quotes: sampleQuotes(), deleteOK: false}
	doc := view.NewPage()
	c := newTestController(api, doc)
	require.NoError(t, c.LoadQuotes(context.Background(), nil))

	err := c.Delete(context.Background(), 1)
	require.ErrorIs(t, err, ErrDeleteRejected)

	page := doc.Snapshot()
	assert.Equal(t, []string{AlertDeleteFailed}, page.Alerts)
	assert.False(t, page.Quotes.DeleteButton(1).Disabled, "button re-enabled")
	assert.Equal(t, 1, api.listCalls(), "no reload")
}

func TestDelete_TransportError(t *testing.T) {
	api := &fakeAPI{quotes: sampleQuotes(), deleteErr: domain.NewTransportError("delete quote", errors.New("connection refused"))}
	doc := view.NewPage()
	c := newTestController(api, doc)
	require.NoError(t, c.LoadQuotes(context.Background(), nil))

	err := c.Delete(context.Background(), 2)
	require.ErrorIs(t, err, domain.ErrNetwork)

	page := doc.Snapshot()
	assert.Equal(t, []string{"Delete failed: failed to delete quote: connection refused"}, page.Alerts)
	assert.False(t, page.Quotes.DeleteButton(2).Disabled)
}

func TestDelete_ReloadErrorIsNotRetried(t *testing.T) {
	api := &fakeAPI{quotes: sampleQuotes(), deleteOK: true}
	doc := view.NewPage()
	c := newTestController(api, doc)
	require.NoError(t, c.LoadQuotes(context.Background(), nil))

	api.mu.Lock()
	api.listErrs = []error{errServer, nil}
	api.mu.Unlock()

	err := c.Delete(context.Background(), 1)
	require.Error(t, err)

	assert.Equal(t, 2, api.listCalls(), "one reload attempt")
	page := doc.Snapshot()
	assert.Equal(t, []string{"Delete failed: failed to fetch quotes: 500"}, page.Alerts)
	assert.False(t, page.Quotes.DeleteButton(1).Disabled)
}

func TestDelete_IgnoresClickWhileInFlight(t *testing.T) {
	gate := make(chan struct{})
	api := &fakeAPI{quotes: sampleQuotes(), deleteOK: true, deleteGate: gate}
	doc := view.NewPage()
	c := newTestController(api, doc)
	require.NoError(t, c.LoadQuotes(context.Background(), nil))

	done := make(chan error, 1)
	go func() { done <- c.Delete(context.Background(), 1) }()

	require.Eventually(t, func() bool {
		return doc.Snapshot().Quotes.DeleteButton(1).Disabled
	}, time.Second, time.Millisecond)

	require.NoError(t, c.Delete(context.Background(), 1), "second click is ignored")

	close(gate)
	require.NoError(t, <-done)

	api.mu.Lock()
	defer api.mu.Unlock()
	assert.Equal(t, []int64{1}, api.deleteIDs)
}

func TestDispatch_RoutesEvents(t *testing.T) {
	api := &fakeAPI{quotes: sampleQuotes(), deleteOK: true, random: &domain.Quote{ID: 1, Text: "Foo"}}
	doc := view.NewPage()
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)

	c := NewController(ControllerConfig{
		API:      api,
		Document: doc,
		Logger:   discardLogger(),
		Metrics:  metrics,
	})
	ctx := context.Background()

	require.NoError(t, c.Dispatch(ctx, LoadEvent{Filter: &domain.Filter{Tag: "x"}}))
	assert.Equal(t, &domain.Filter{Tag: "x"}, api.filters[0])

	require.NoError(t, c.Dispatch(ctx, FilterEvent{Author: "Bar"}))
	require.NoError(t, c.Dispatch(ctx, SubmitEvent{Text: "New"}))
	require.NoError(t, c.Dispatch(ctx, RandomEvent{}))
	require.NoError(t, c.Dispatch(ctx, DeleteEvent{ID: 2}))

	assert.InDelta(t, 1, counterValue(t, metrics.events.WithLabelValues("load", outcomeOK)), 0)
	assert.InDelta(t, 1, counterValue(t, metrics.events.WithLabelValues("delete", outcomeOK)), 0)

	families, err := reg.Gather()
	require.NoError(t, err)

	series := 0
	for _, mf := range families {
		if mf.GetName() == "quotekeeper_ui_events_total" {
			series = len(mf.GetMetric())
		}
	}
	assert.Equal(t, 5, series)
}

func TestDispatch_RecordsFailures(t *testing.T) {
	api := &fakeAPI{listErrs: []error{errServer, errServer, errServer}}
	metrics := NewMetrics(nil)

	c := NewController(ControllerConfig{
		API:        api,
		Document:   view.NewPage(),
		LoadPolicy: RetryPolicy{MaxAttempts: 3, Delay: time.Millisecond},
		Logger:     discardLogger(),
		Metrics:    metrics,
	})

	require.Error(t, c.Dispatch(context.Background(), LoadEvent{}))

	assert.InDelta(t, 1, counterValue(t, metrics.events.WithLabelValues("load", outcomeError)), 0)
	assert.InDelta(t, 3, counterValue(t, metrics.loadFailures), 0)
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()

	var m dto.Metric
	require.NoError(t, c.Write(&m))

	return m.GetCounter().GetValue()
}

type unknownEvent struct{}

func (unknownEvent) Name() string { return "unknown" }

func TestDispatch_UnknownEvent(t *testing.T) {
	c := newTestController(&fakeAPI{}, view.NewPage())

	err := c.Dispatch(context.Background(), unknownEvent{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported event")
}

func TestIsRefreshFailureStatus(t *testing.T) {
	assert.True(t, IsRefreshFailureStatus("Quote created, but refresh failed: boom"))
	assert.False(t, IsRefreshFailureStatus(StatusCreated))
	assert.False(t, IsRefreshFailureStatus("Create failed: boom"))
	assert.False(t, IsRefreshFailureStatus("Failed to load quotes: boom"))
}

func TestIsFailureStatus(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{"Failed to load quotes: failed to fetch quotes: 500", true},
		{"Create failed: boom", true},
		{"Quote created, but refresh failed: boom", true},
		{"Random failed: boom", true},
		{"Show failed: boom", true},
		{"Showing 2 quotes", false},
		{StatusCreated, false},
		{StatusRandom, false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			assert.Equal(t, tt.want, IsFailureStatus(tt.status))
		})
	}
}
