package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jsamuelsen/quote-keeper/internal/adapters/http"
	"github.com/jsamuelsen/quote-keeper/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quote-keeper/internal/app"
	"github.com/jsamuelsen/quote-keeper/internal/platform/logging"
	"github.com/jsamuelsen/quote-keeper/internal/platform/telemetry"
	"github.com/jsamuelsen/quote-keeper/internal/ports"
	"github.com/jsamuelsen/quote-keeper/internal/view"
)

func newServeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the quotes web UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := opts.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			return serve(cmd.Context(), d)
		},
	}
}

// serve runs the web UI until ctx is done.
func serve(ctx context.Context, d *deps) error {
	cfg := d.cfg
	logger := d.logger
	logging.SetDefault(logger)

	logger.Info("starting quotekeeper",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
		slog.String("quotes_api", cfg.Services.Quotes.BaseURL),
	)

	tel, err := telemetry.New(ctx, telemetry.NewConfig(cfg))
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if err := tel.Shutdown(context.WithoutCancel(ctx)); err != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", err))
		}
	}()

	healthRegistry := ports.NewHealthRegistry(ports.WithCheckTimeout(cfg.Client.Timeout))
	if err := healthRegistry.Register(d.quotes); err != nil {
		return fmt.Errorf("registering quotes API health check: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := app.NewMetrics(reg)

	sessions := handlers.NewSessions(cfg.UI.Session.MaxEntries, cfg.UI.Session.TTL, func() *app.Controller {
		return d.newController(view.NewPage(), metrics)
	})
	defer sessions.Close()

	server := http.New(&cfg.Server, logger)
	http.SetupRouter(server.Engine(), http.RouterConfig{
		Logger:        logger,
		ServiceName:   telemetry.NewConfig(cfg).ServiceName,
		HealthHandler: handlers.NewHealthHandler(healthRegistry, handlers.NewBuildInfo(Version, Commit, BuildTime), reg),
		UIHandler:     handlers.NewUIHandler(sessions, ""),
		ActionTimeout: http.DefaultActionTimeout,
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return server.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down", slog.Int("sessions", sessions.Len()))

		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server: %w", err)
	}

	logger.Info("shutdown complete")

	return nil
}
