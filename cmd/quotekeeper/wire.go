package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/jsamuelsen/quote-keeper/internal/adapters/clients"
	"github.com/jsamuelsen/quote-keeper/internal/adapters/clients/acl"
	"github.com/jsamuelsen/quote-keeper/internal/app"
	"github.com/jsamuelsen/quote-keeper/internal/platform/config"
	"github.com/jsamuelsen/quote-keeper/internal/platform/logging"
	"github.com/jsamuelsen/quote-keeper/internal/view"
)

// deps holds what every command builds before acting.
type deps struct {
	cfg    *config.Config
	logger *slog.Logger
	quotes *acl.QuoteClient
}

// load reads and validates the configuration, applying flag overrides, and
// builds the logger and the quotes API client. Logs go to logOut.
func (o *options) load(logOut io.Writer) (*deps, error) {
	cfg, err := config.Load(o.profile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if o.baseURL != "" {
		cfg.Services.Quotes.BaseURL = o.baseURL
	}

	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := logging.NewWithWriter(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	}, logOut)

	httpClient, err := clients.New(&clients.Config{
		BaseURL:     cfg.Services.Quotes.BaseURL,
		ServiceName: cfg.Services.Quotes.Name,
		Timeout:     cfg.Client.Timeout,
		Retry:       cfg.Client.Retry,
		Circuit:     cfg.Client.CircuitBreaker,
		Transport:   cfg.Client.Transport,
		Logger:      logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating HTTP client: %w", err)
	}

	quotes := acl.NewQuoteClient(acl.QuoteClientConfig{
		Client:      httpClient,
		ServiceName: cfg.Services.Quotes.Name,
		Logger:      logger,
	})

	return &deps{cfg: cfg, logger: logger, quotes: quotes}, nil
}

// newController binds doc to the quotes API under the configured UI policy.
// metrics may be nil.
func (d *deps) newController(doc *view.Document, metrics *app.Metrics) *app.Controller {
	return app.NewController(app.ControllerConfig{
		API:      d.quotes,
		Document: doc,
		LoadPolicy: app.RetryPolicy{
			MaxAttempts: d.cfg.UI.LoadRetry.MaxAttempts,
			Delay:       d.cfg.UI.LoadRetry.Delay,
		},
		RefreshDelay: d.cfg.UI.RefreshDelay,
		Logger:       d.logger,
		Metrics:      metrics,
	})
}
