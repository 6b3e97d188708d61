// Package ports defines interfaces for external dependencies.
// Ports are contracts that adapters implement, allowing the application layer
// to depend on abstractions rather than concrete implementations.
//
// Port Design Principles:
//   - Context as first parameter (always) for cancellation and deadlines
//   - Return domain types, never external DTOs or infrastructure types
//   - Error returns use domain error types (ErrNotFound, ErrNetwork, etc.)
//   - Keep interfaces small and focused
package ports

import (
	"context"

	"github.com/jsamuelsen/quote-keeper/internal/domain"
)

// QuoteAPI is the contract of the remote quotes service.
//
// Implementations perform exactly one request per call: no retry, caching or
// rate limiting. Retry policy belongs to the caller.
type QuoteAPI interface {
	// ListQuotes returns the quotes in server order. A nil filter sends no
	// query string; a non-nil filter sends both author and tag, even if empty.
	// Returns a *domain.NetworkError on transport failure or non-2xx status.
	ListQuotes(ctx context.Context, filter *domain.Filter) ([]*domain.Quote, error)

	// CreateQuote submits a draft and returns the created quote with its id.
	CreateQuote(ctx context.Context, draft domain.Draft) (*domain.Quote, error)

	// DeleteQuote removes a quote. ok reports whether the API answered 2xx;
	// err is only set when no response was received.
	DeleteQuote(ctx context.Context, id int64) (ok bool, err error)

	// RandomQuote returns one quote picked by the server.
	// Returns an error matching domain.ErrNotFound when there are no quotes.
	RandomQuote(ctx context.Context) (*domain.Quote, error)

	// GetQuote returns a single quote by id.
	// Returns an error matching domain.ErrNotFound if it does not exist.
	GetQuote(ctx context.Context, id int64) (*domain.Quote, error)
}
