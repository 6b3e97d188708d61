// Package portstest provides in-memory implementations of the ports for
// tests and benchmarks.
package portstest

import (
	"context"
	"net/http"
	"slices"
	"sync"

	"github.com/jsamuelsen/quote-keeper/internal/domain"
	"github.com/jsamuelsen/quote-keeper/internal/ports"
)

var _ ports.QuoteAPI = (*QuoteAPI)(nil)

// QuoteAPI is an in-memory quotes service. It answers the way the HTTP API
// does: a missing quote is a 404 NetworkError and an unknown delete is
// reported as not ok.
type QuoteAPI struct {
	mu           sync.Mutex
	quotes       []*domain.Quote
	nextID       int64
	err          error
	methodErrs   map[string]error
	rejectDelete bool
	calls        map[string]int
}

// NewQuoteAPI returns a service holding quotes. Ids are kept as given;
// created quotes get ids above the largest one.
func NewQuoteAPI(quotes ...*domain.Quote) *QuoteAPI {
	f := &QuoteAPI{calls: make(map[string]int), methodErrs: make(map[string]error)}
	f.Seed(quotes...)

	return f
}

// Seed stores more quotes, keeping their ids.
func (f *QuoteAPI) Seed(quotes ...*domain.Quote) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, q := range quotes {
		f.quotes = append(f.quotes, clone(q))
		f.nextID = max(f.nextID, q.ID)
	}
}

// FailWith makes every later call return err. Nil restores normal answers.
func (f *QuoteAPI) FailWith(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.err = err
}

// FailMethodWith makes later calls of the named method return err, taking
// precedence over FailWith. Nil restores the method.
func (f *QuoteAPI) FailMethodWith(method string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err == nil {
		delete(f.methodErrs, method)
		return
	}

	f.methodErrs[method] = err
}

// RejectDeletes makes DeleteQuote answer not ok without removing anything.
func (f *QuoteAPI) RejectDeletes(reject bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.rejectDelete = reject
}

// Calls reports how many times the named method was called.
func (f *QuoteAPI) Calls(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.calls[method]
}

// Quotes returns a copy of the stored quotes.
func (f *QuoteAPI) Quotes() []*domain.Quote {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]*domain.Quote, len(f.quotes))
	for i, q := range f.quotes {
		out[i] = clone(q)
	}

	return out
}

func (f *QuoteAPI) begin(method string) error {
	f.calls[method]++

	if err, ok := f.methodErrs[method]; ok {
		return err
	}

	return f.err
}

// ListQuotes returns the stored quotes. A filter keeps quotes by exact
// author and by tag membership; empty fields match everything.
func (f *QuoteAPI) ListQuotes(_ context.Context, filter *domain.Filter) ([]*domain.Quote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.begin("ListQuotes"); err != nil {
		return nil, err
	}

	out := make([]*domain.Quote, 0, len(f.quotes))

	for _, q := range f.quotes {
		if filter != nil {
			if filter.Author != "" && q.Author != filter.Author {
				continue
			}

			if filter.Tag != "" && !slices.Contains(q.Tags, filter.Tag) {
				continue
			}
		}

		out = append(out, clone(q))
	}

	return out, nil
}

// CreateQuote stores the draft under the next id.
func (f *QuoteAPI) CreateQuote(_ context.Context, draft domain.Draft) (*domain.Quote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.begin("CreateQuote"); err != nil {
		return nil, err
	}

	f.nextID++

	q := &domain.Quote{
		ID:     f.nextID,
		Text:   draft.Text,
		Author: draft.Author,
		Tags:   slices.Clone(draft.Tags),
	}
	f.quotes = append(f.quotes, q)

	return clone(q), nil
}

// DeleteQuote removes quote id. Unknown ids are not ok.
func (f *QuoteAPI) DeleteQuote(_ context.Context, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.begin("DeleteQuote"); err != nil {
		return false, err
	}

	if f.rejectDelete {
		return false, nil
	}

	i := f.index(id)
	if i < 0 {
		return false, nil
	}

	f.quotes = slices.Delete(f.quotes, i, i+1)

	return true, nil
}

// RandomQuote returns the first stored quote, so tests stay deterministic.
func (f *QuoteAPI) RandomQuote(_ context.Context) (*domain.Quote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.begin("RandomQuote"); err != nil {
		return nil, err
	}

	if len(f.quotes) == 0 {
		return nil, domain.NewStatusError("fetch random quote", http.StatusNotFound, "No quotes found")
	}

	return clone(f.quotes[0]), nil
}

// GetQuote returns quote id.
func (f *QuoteAPI) GetQuote(_ context.Context, id int64) (*domain.Quote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.begin("GetQuote"); err != nil {
		return nil, err
	}

	i := f.index(id)
	if i < 0 {
		return nil, domain.NewStatusError("fetch quote", http.StatusNotFound, "Quote not found")
	}

	return clone(f.quotes[i]), nil
}

func (f *QuoteAPI) index(id int64) int {
	return slices.IndexFunc(f.quotes, func(q *domain.Quote) bool { return q.ID == id })
}

func clone(q *domain.Quote) *domain.Quote {
	c := *q
	c.Tags = slices.Clone(q.Tags)

	return &c
}
