//go:build integration

package integration

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jsamuelsen/quote-keeper/internal/adapters/clients"
	"github.com/jsamuelsen/quote-keeper/internal/adapters/clients/acl"
	httpadapter "github.com/jsamuelsen/quote-keeper/internal/adapters/http"
	"github.com/jsamuelsen/quote-keeper/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quote-keeper/internal/app"
	"github.com/jsamuelsen/quote-keeper/internal/platform/config"
	"github.com/jsamuelsen/quote-keeper/internal/ports"
	"github.com/jsamuelsen/quote-keeper/internal/ports/portstest"
	"github.com/jsamuelsen/quote-keeper/internal/view"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stack is the web UI wired to the real quotes API client, talking to an
// in-memory quotes API over HTTP.
type stack struct {
	api      *portstest.QuoteAPI
	apiSrv   *httptest.Server
	ui       *httptest.Server
	client   *acl.QuoteClient
	sessions *handlers.Sessions
	metrics  *prometheus.Registry

	mu      sync.Mutex
	headers []http.Header
}

func newStack() *stack {
	s := &stack{api: portstest.NewQuoteAPI(), metrics: prometheus.NewRegistry()}

	fake := portstest.Handler(s.api)
	s.apiSrv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.headers = append(s.headers, r.Header.Clone())
		s.mu.Unlock()

		fake.ServeHTTP(w, r)
	}))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	httpClient, err := clients.New(&clients.Config{
		BaseURL:     s.apiSrv.URL,
		ServiceName: config.DefaultQuotesServiceName,
		Timeout:     5 * time.Second,
		Retry: config.RetryConfig{
			MaxAttempts:     1,
			InitialInterval: 10 * time.Millisecond,
			MaxInterval:     100 * time.Millisecond,
			Multiplier:      2.0,
		},
		Circuit: config.CircuitBreakerConfig{
			MaxFailures:   50,
			Timeout:       time.Second,
			HalfOpenLimit: 1,
		},
		Logger: logger,
	})
	if err != nil {
		panic(err)
	}

	s.client = acl.NewQuoteClient(acl.QuoteClientConfig{
		Client:      httpClient,
		ServiceName: config.DefaultQuotesServiceName,
		Logger:      logger,
	})

	registry := ports.NewHealthRegistry()
	if err := registry.Register(s.client); err != nil {
		panic(err)
	}

	metrics := app.NewMetrics(s.metrics)

	s.sessions = handlers.NewSessions(64, time.Minute, func() *app.Controller {
		return app.NewController(app.ControllerConfig{
			API:          s.client,
			Document:     view.NewPage(),
			LoadPolicy:   app.RetryPolicy{MaxAttempts: 3, Delay: time.Millisecond},
			RefreshDelay: 10 * time.Millisecond,
			Logger:       logger,
			Metrics:      metrics,
		})
	})

	engine := gin.New()
	httpadapter.SetupRouter(engine, httpadapter.RouterConfig{
		Logger:        logger,
		ServiceName:   "quote-keeper-it",
		HealthHandler: handlers.NewHealthHandler(registry, handlers.NewBuildInfo("it", "it", "it"), s.metrics),
		UIHandler:     handlers.NewUIHandler(s.sessions, ""),
	})

	s.ui = httptest.NewServer(engine)

	return s
}

// received returns the headers of every request the quotes API got.
func (s *stack) received() []http.Header {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]http.Header(nil), s.headers...)
}

func (s *stack) close() {
	s.ui.Close()
	s.sessions.Close()
	s.apiSrv.Close()
}
