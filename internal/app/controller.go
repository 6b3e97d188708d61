// Package app contains the application layer: the controller that turns UI
// events into quotes API calls and document transitions.
//
// Application Layer Responsibilities:
//   - Orchestrate use cases (load, submit, filter, random, show, delete)
//   - Report failures to the user through the document (status or alert)
//   - Own the retry policy for list loads
//
// What does NOT belong here:
//   - HTTP specifics (that's adapters/http)
//   - Wire formats of the quotes API (that's adapters/clients/acl)
//   - Markup or terminal output (that's adapters/render)
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/jsamuelsen/quote-keeper/internal/domain"
	"github.com/jsamuelsen/quote-keeper/internal/ports"
	"github.com/jsamuelsen/quote-keeper/internal/view"
)

// Status and alert texts shown to the user.
const (
	StatusLoading       = "Loading..."
	StatusCreated       = "Quote created"
	StatusLoadingRandom = "Loading random quote..."
	StatusRandom        = "Random quote"
	StatusLoadingQuote  = "Loading quote..."
	AlertDeleteFailed   = "Delete failed"
)

// Prefixes of status texts that report a failure. The error text follows.
const (
	prefixLoadFailed    = "Failed to load quotes: "
	prefixCreateFailed  = "Create failed: "
	prefixRefreshFailed = "Quote created, but refresh failed: "
	prefixRandomFailed  = "Random failed: "
	prefixShowFailed    = "Show failed: "
)

var failurePrefixes = []string{
	prefixLoadFailed,
	prefixCreateFailed,
	prefixRefreshFailed,
	prefixRandomFailed,
	prefixShowFailed,
}

// IsFailureStatus reports whether a status text reports a failure.
func IsFailureStatus(status string) bool {
	for _, prefix := range failurePrefixes {
		if strings.HasPrefix(status, prefix) {
			return true
		}
	}

	return false
}

// IsRefreshFailureStatus reports whether a status text reports a create whose
// follow-up refresh failed. The quote itself was stored.
func IsRefreshFailureStatus(status string) bool {
	return strings.HasPrefix(status, prefixRefreshFailed)
}

// DefaultRefreshDelay is the wait before the background reload that follows a
// failed post-create refresh.
const DefaultRefreshDelay = time.Second

// ErrDeleteRejected is returned by Delete when the API answered non-2xx.
var ErrDeleteRejected = errors.New("delete rejected by quotes API")

// ControllerConfig contains the controller's dependencies.
type ControllerConfig struct {
	// API is the quotes service. Required.
	API ports.QuoteAPI

	// Document is the page the controller drives. Required.
	Document *view.Document

	// LoadPolicy bounds list loads. Zero value uses DefaultLoadPolicy.
	LoadPolicy RetryPolicy

	// RefreshDelay is the background reload delay. Zero uses DefaultRefreshDelay.
	RefreshDelay time.Duration

	// Logger is the structured logger. Defaults to slog.Default().
	Logger *slog.Logger

	// Metrics records dispatched events. Optional.
	Metrics *Metrics
}

// Controller binds UI events to the quotes API and one document.
//
// Network calls run outside the document lock. Overlapping loads are not
// serialised; the last render wins.
type Controller struct {
	api          ports.QuoteAPI
	doc          *view.Document
	loadPolicy   RetryPolicy
	refreshDelay time.Duration
	logger       *slog.Logger
	metrics      *Metrics

	initOnce sync.Once

	mu        sync.Mutex
	closed    bool
	refreshes map[*time.Timer]struct{}
}

// NewController creates a controller.
// Panics if API or Document is nil.
func NewController(cfg ControllerConfig) *Controller {
	if cfg.API == nil {
		panic("Controller: API is required")
	}

	if cfg.Document == nil {
		panic("Controller: Document is required")
	}

	policy := cfg.LoadPolicy
	if policy.MaxAttempts == 0 {
		policy = DefaultLoadPolicy
	}

	refreshDelay := cfg.RefreshDelay
	if refreshDelay <= 0 {
		refreshDelay = DefaultRefreshDelay
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Controller{
		api:          cfg.API,
		doc:          cfg.Document,
		loadPolicy:   policy,
		refreshDelay: refreshDelay,
		logger:       logger.With(slog.String("component", "app.Controller")),
		metrics:      cfg.Metrics,
		refreshes:    make(map[*time.Timer]struct{}),
	}
}

// Document returns the document the controller drives.
func (c *Controller) Document() *view.Document {
	return c.doc
}

// Dispatch routes an event to its handler. The returned error has already
// been reported through the document.
func (c *Controller) Dispatch(ctx context.Context, event Event) error {
	var err error

	switch e := event.(type) {
	case LoadEvent:
		err = c.LoadQuotes(ctx, e.Filter)
	case SubmitEvent:
		err = c.Submit(ctx, e)
	case FilterEvent:
		err = c.Filter(ctx, e)
	case RandomEvent:
		err = c.Random(ctx)
	case ShowEvent:
		err = c.Show(ctx, e.ID)
	case DeleteEvent:
		err = c.Delete(ctx, e.ID)
	default:
		return fmt.Errorf("unsupported event %T", event)
	}

	if c.metrics != nil {
		c.metrics.observe(event.Name(), err)
	}

	return err
}

// Init performs the initial load once per controller. Later calls return nil.
func (c *Controller) Init(ctx context.Context) error {
	var err error

	c.initOnce.Do(func() {
		err = c.Dispatch(ctx, LoadEvent{})
	})

	return err
}

// LoadQuotes fetches and renders the quote list under the load policy.
// It is a no-op without a quote list element.
func (c *Controller) LoadQuotes(ctx context.Context, filter *domain.Filter) error {
	if !c.doc.Has(view.ElementQuotes) {
		return nil
	}

	c.doc.Apply(view.SetStatus(StatusLoading))

	quotes, err := Retry(ctx, c.loadPolicy,
		func(ctx context.Context) ([]*domain.Quote, error) {
			return c.api.ListQuotes(ctx, filter)
		},
		func(attempt int, err error) {
			c.logger.WarnContext(ctx, "load attempt failed",
				slog.Int("attempt", attempt),
				slog.Any("error", err),
			)

			if c.metrics != nil {
				c.metrics.loadFailures.Inc()
			}
		},
	)
	if err != nil {
		c.doc.Apply(view.SetStatus(prefixLoadFailed + err.Error()))
		return err
	}

	c.doc.Apply(
		view.ShowQuotes(quotes),
		view.SetStatus(fmt.Sprintf("Showing %d quotes", len(quotes))),
	)

	return nil
}

// Submit creates a quote from the add form and refreshes the list.
// A failed refresh does not fail the submission; it schedules one background
// reload instead. It is a no-op without an add form.
func (c *Controller) Submit(ctx context.Context, event SubmitEvent) error {
	if !c.doc.Has(view.ElementAddForm) {
		return nil
	}

	c.doc.Apply(
		view.SetSubmitDisabled(true),
		view.FillForm(event.Text, event.Author, event.Tags),
	)
	defer c.doc.Apply(view.SetSubmitDisabled(false))

	draft := domain.Draft{
		Text:   event.Text,
		Author: event.Author,
		Tags:   domain.ParseTags(event.Tags),
	}

	created, err := c.api.CreateQuote(ctx, draft)
	if err != nil {
		c.logger.ErrorContext(ctx, "create failed", slog.Any("error", err))
		c.doc.Apply(view.SetStatus(prefixCreateFailed + err.Error()))

		return err
	}

	c.logger.InfoContext(ctx, "quote created", slog.Int64("quote_id", created.ID))
	c.doc.Apply(view.SetStatus(StatusCreated), view.ResetForm())

	if err := c.LoadQuotes(ctx, nil); err != nil {
		c.logger.ErrorContext(ctx, "refresh after create failed", slog.Any("error", err))
		c.doc.Apply(view.SetStatus(prefixRefreshFailed + err.Error()))
		c.scheduleRefresh(ctx)
	}

	return nil
}

// scheduleRefresh reloads the list once after the refresh delay, detached
// from ctx cancellation. Its failure is only logged.
func (c *Controller) scheduleRefresh(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	bg := context.WithoutCancel(ctx)

	var timer *time.Timer
	timer = time.AfterFunc(c.refreshDelay, func() {
		c.mu.Lock()
		delete(c.refreshes, timer)
		c.mu.Unlock()

		if err := c.LoadQuotes(bg, nil); err != nil {
			c.logger.ErrorContext(bg, "background refresh failed", slog.Any("error", err))
		}
	})
	c.refreshes[timer] = struct{}{}
}

// Filter stores the filter inputs and loads the list filtered by them.
// Absent inputs count as empty. It is a no-op without a filter button.
func (c *Controller) Filter(ctx context.Context, event FilterEvent) error {
	if !c.doc.Has(view.ElementFilterButton) {
		return nil
	}

	filter := &domain.Filter{}
	if c.doc.Has(view.ElementFilterAuthor) {
		filter.Author = event.Author
	}

	if c.doc.Has(view.ElementFilterTag) {
		filter.Tag = event.Tag
	}

	c.doc.Apply(view.SetFilter(filter.Author, filter.Tag))

	return c.LoadQuotes(ctx, filter)
}

// Random shows a single quote picked by the API.
// It is a no-op without a random button.
func (c *Controller) Random(ctx context.Context) error {
	if !c.doc.Has(view.ElementRandomButton) {
		return nil
	}

	c.doc.Apply(view.SetStatus(StatusLoadingRandom))

	quote, err := c.api.RandomQuote(ctx)
	if err != nil {
		c.logger.WarnContext(ctx, "random quote failed", slog.Any("error", err))
		c.doc.Apply(view.SetStatus(prefixRandomFailed + err.Error()))

		return err
	}

	c.doc.Apply(
		view.ShowQuotes([]*domain.Quote{quote}),
		view.SetStatus(StatusRandom),
	)

	return nil
}

// Show renders quote id as a single-element list.
// It is a no-op without a quote list element.
func (c *Controller) Show(ctx context.Context, id int64) error {
	if !c.doc.Has(view.ElementQuotes) {
		return nil
	}

	c.doc.Apply(view.SetStatus(StatusLoadingQuote))

	quote, err := c.api.GetQuote(ctx, id)
	if err != nil {
		c.logger.WarnContext(ctx, "show quote failed",
			slog.Int64("quote_id", id),
			slog.Any("error", err),
		)
		c.doc.Apply(view.SetStatus(prefixShowFailed + err.Error()))

		return err
	}

	c.doc.Apply(
		view.ShowQuotes([]*domain.Quote{quote}),
		view.SetStatus(fmt.Sprintf("Quote %d", quote.ID)),
	)

	return nil
}

// Delete removes quote id and re-renders the unfiltered list without retry.
// The entry's delete button stays disabled while the call is in flight, and a
// click on a disabled button is ignored. Failures raise an alert and
// re-enable the button.
func (c *Controller) Delete(ctx context.Context, id int64) error {
	if !c.doc.ApplyIf(view.DeleteAllowed(id), view.SetDeleteDisabled(id, true)) {
		c.logger.DebugContext(ctx, "delete already in flight", slog.Int64("quote_id", id))
		return nil
	}

	ok, err := c.api.DeleteQuote(ctx, id)
	if err == nil && !ok {
		c.logger.WarnContext(ctx, "delete rejected", slog.Int64("quote_id", id))
		c.doc.Apply(view.Alert(AlertDeleteFailed), view.SetDeleteDisabled(id, false))

		return ErrDeleteRejected
	}

	var quotes []*domain.Quote
	if err == nil {
		quotes, err = c.api.ListQuotes(ctx, nil)
	}

	if err != nil {
		c.logger.ErrorContext(ctx, "delete failed",
			slog.Int64("quote_id", id),
			slog.Any("error", err),
		)
		c.doc.Apply(
			view.Alert(AlertDeleteFailed+": "+err.Error()),
			view.SetDeleteDisabled(id, false),
		)

		return err
	}

	c.logger.InfoContext(ctx, "quote deleted", slog.Int64("quote_id", id))
	c.doc.Apply(view.ShowQuotes(quotes))

	return nil
}

// Close cancels pending background reloads. Later failed refreshes schedule
// nothing.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true

	for timer := range c.refreshes {
		timer.Stop()
		delete(c.refreshes, timer)
	}
}
