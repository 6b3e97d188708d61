package acl

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/jsamuelsen/quote-keeper/internal/adapters/clients"
	"github.com/jsamuelsen/quote-keeper/internal/domain"
	"github.com/jsamuelsen/quote-keeper/internal/platform/logging"
)

// Operation names appear in error messages: "failed to <operation>: 500".
const (
	opListQuotes  = "fetch quotes"
	opCreateQuote = "create quote"
	opDeleteQuote = "delete quote"
	opRandomQuote = "fetch random quote"
	opGetQuote    = "fetch quote"
	opHealth      = "check health"
)

// QuoteClientConfig contains configuration for the quote client.
type QuoteClientConfig struct {
	// Client is the HTTP client to use for requests.
	// The client's BaseURL should be set to the quotes API root.
	Client *clients.Client

	// ServiceName names the API in health checks. Defaults to "quotes-api".
	ServiceName string

	// Logger is the structured logger.
	Logger *slog.Logger
}

// QuoteClient implements ports.QuoteAPI and ports.HealthChecker against the
// quotes HTTP API. It performs exactly one logical request per call.
type QuoteClient struct {
	BaseAdapter

	logger *slog.Logger
}

// NewQuoteClient creates a new quote client adapter.
// Panics if Client is nil. Defaults logger to slog.Default() if nil.
func NewQuoteClient(cfg QuoteClientConfig) *QuoteClient {
	if cfg.Client == nil {
		panic("QuoteClient: Client is required")
	}

	name := cfg.ServiceName
	if name == "" {
		name = "quotes-api"
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &QuoteClient{
		BaseAdapter: NewBaseAdapter(cfg.Client, name),
		logger:      logger,
	}
}

// quoteDTO is a quote as serialised by the API.
// This is an internal type - never exposed outside the ACL.
type quoteDTO struct {
	ID     int64    `json:"id"`
	Text   string   `json:"text"`
	Author *string  `json:"author"`
	Tags   []string `json:"tags"`
}

// quoteCreateDTO is the POST /quotes body.
type quoteCreateDTO struct {
	Text   string   `json:"text"`
	Author string   `json:"author"`
	Tags   []string `json:"tags"`
}

// ListQuotes fetches the quote list, optionally filtered.
func (c *QuoteClient) ListQuotes(ctx context.Context, filter *domain.Filter) ([]*domain.Quote, error) {
	path := listPath(filter)
	c.logger.Log(ctx, logging.LevelTrace, "starting request", slog.String("path", path))

	body, err := c.Get(ctx, path, opListQuotes)
	if err != nil {
		return nil, err
	}

	dtos, err := DecodeResponse[[]quoteDTO](body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opListQuotes, err)
	}

	quotes, err := TranslateSlice(*dtos, translateQuote)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opListQuotes, err)
	}

	c.logger.Log(ctx, logging.LevelTrace, "request complete",
		slog.String("path", path),
		slog.Int("count", len(quotes)))

	return quotes, nil
}

// listPath builds /quotes with both filter parameters, or no query at all for
// a nil filter.
func listPath(filter *domain.Filter) string {
	if filter == nil {
		return "/quotes"
	}

	q := url.Values{}
	q.Set("author", filter.Author)
	q.Set("tag", filter.Tag)

	return "/quotes?" + q.Encode()
}

// CreateQuote submits a draft and returns the stored quote.
func (c *QuoteClient) CreateQuote(ctx context.Context, draft domain.Draft) (*domain.Quote, error) {
	tags := draft.Tags
	if tags == nil {
		tags = []string{}
	}

	c.logger.Log(ctx, logging.LevelTrace, "starting request",
		slog.String("path", "/quotes"),
		slog.Int("tags", len(tags)))

	body, err := c.PostJSON(ctx, "/quotes", quoteCreateDTO{
		Text:   draft.Text,
		Author: draft.Author,
		Tags:   tags,
	}, opCreateQuote)
	if err != nil {
		return nil, err
	}

	return c.decodeQuote(ctx, body, opCreateQuote)
}

// DeleteQuote removes a quote. ok is false for any non-2xx answer.
func (c *QuoteClient) DeleteQuote(ctx context.Context, id int64) (bool, error) {
	path := quotePath(id)
	c.logger.Log(ctx, logging.LevelTrace, "starting request", slog.String("path", path))

	ok, err := c.Delete(ctx, path, opDeleteQuote)
	if err != nil {
		return false, err
	}

	if !ok {
		c.logger.DebugContext(ctx, "quotes API refused delete", slog.Int64("quote_id", id))
	}

	return ok, nil
}

// RandomQuote fetches a quote chosen by the API. A 404 (no quotes stored)
// matches domain.ErrNotFound.
func (c *QuoteClient) RandomQuote(ctx context.Context) (*domain.Quote, error) {
	const path = "/quotes/random"
	c.logger.Log(ctx, logging.LevelTrace, "starting request", slog.String("path", path))

	body, err := c.Get(ctx, path, opRandomQuote)
	if err != nil {
		return nil, err
	}

	return c.decodeQuote(ctx, body, opRandomQuote)
}

// GetQuote fetches a single quote by id.
func (c *QuoteClient) GetQuote(ctx context.Context, id int64) (*domain.Quote, error) {
	if err := ValidatePositive(id, "id"); err != nil {
		return nil, err
	}

	path := quotePath(id)
	c.logger.Log(ctx, logging.LevelTrace, "starting request",
		slog.String("path", path),
		slog.Int64("quote_id", id))

	body, err := c.Get(ctx, path, opGetQuote)
	if err != nil {
		return nil, err
	}

	return c.decodeQuote(ctx, body, opGetQuote)
}

func quotePath(id int64) string {
	return "/quotes/" + strconv.FormatInt(id, 10)
}

func (c *QuoteClient) decodeQuote(ctx context.Context, body io.ReadCloser, operation string) (*domain.Quote, error) {
	dto, err := DecodeResponse[quoteDTO](body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}

	quote, err := translateQuote(dto)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}

	c.logger.Log(ctx, logging.LevelTrace, "translated external DTO to domain",
		slog.Int64("quote_id", quote.ID),
		slog.String("author", quote.Author))

	return quote, nil
}

// translateQuote converts the wire quote to a domain Quote.
// A null author becomes "".
func translateQuote(ext *quoteDTO) (*domain.Quote, error) {
	if err := ValidatePositive(ext.ID, "id"); err != nil {
		return nil, err
	}

	var author string
	if ext.Author != nil {
		author = *ext.Author
	}

	return &domain.Quote{
		ID:     ext.ID,
		Text:   ext.Text,
		Author: author,
		Tags:   ext.Tags,
	}, nil
}

// Name returns the health check name for this client.
// Implements ports.HealthChecker.
func (c *QuoteClient) Name() string {
	return c.ServiceName()
}

// Check calls the API root, which answers 200 while the API is up. Any
// failure is reported as the quotes API being unavailable.
// Implements ports.HealthChecker.
func (c *QuoteClient) Check(ctx context.Context) error {
	body, err := c.Get(ctx, "/", opHealth)
	if err != nil {
		return domain.NewUnavailableError(c.ServiceName(), err.Error())
	}

	return body.Close()
}
