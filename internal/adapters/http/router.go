package http

import (
	"log/slog"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quote-keeper/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quote-keeper/internal/adapters/http/middleware"
	"github.com/jsamuelsen/quote-keeper/internal/adapters/render/html"
	"github.com/jsamuelsen/quote-keeper/internal/platform/telemetry"
)

// DefaultActionTimeout bounds one page request, including the controller's
// load retries, once it has been detached from the browser connection.
const DefaultActionTimeout = time.Minute

// faviconPath is requested by every browser and not worth a log line.
const faviconPath = "/favicon.ico"

// RouterConfig contains configuration for setting up the router.
type RouterConfig struct {
	// Logger is the root of every request-scoped logger.
	Logger *slog.Logger

	// ServiceName names the server spans.
	ServiceName string

	// HealthHandler handles the /-/ endpoints.
	HealthHandler *handlers.HealthHandler

	// UIHandler serves the quotes page.
	UIHandler *handlers.UIHandler

	// ActionTimeout bounds page requests. Zero uses DefaultActionTimeout.
	ActionTimeout time.Duration
}

// SetupRouter configures all routes and middleware on the Gin engine.
// Middleware is applied in the following order (first to last):
//  1. Context logger - root request logger
//  2. Recovery - catch panics
//  3. Request ID - generate/extract request ID
//  4. Correlation ID - handle distributed tracing correlation
//  5. OpenTelemetry - tracing and metrics
//  6. Logging - request logging (skips health endpoints)
//  7. Errors - JSON envelope for handler errors
//
// Route groups:
//   - /-/ (internal): health, build info and metrics
//   - / (web UI): the page and its form actions, gzip-compressed,
//     detached from client cancellation and bounded by ActionTimeout
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	engine.SetHTMLTemplate(html.Template())

	engine.Use(
		middleware.ContextLogger(logger),
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.CorrelationID(),
	)
	engine.Use(telemetry.Middleware(cfg.ServiceName)...)
	engine.Use(
		middleware.Logging(faviconPath),
		Errors(),
	)

	engine.NoRoute(NotFound)

	// Probes get no timeout and no detach
	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterRoutes(engine.Group("/-"))
	}

	if cfg.UIHandler == nil {
		return
	}

	timeout := cfg.ActionTimeout
	if timeout <= 0 {
		timeout = DefaultActionTimeout
	}

	ui := engine.Group("",
		gzip.Gzip(gzip.DefaultCompression),
		middleware.Detach(),
		middleware.Deadline(timeout),
	)
	cfg.UIHandler.RegisterRoutes(ui)
}
