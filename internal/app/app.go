// Package app assembles the service from configuration and runs it.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/lotbid-backend/internal/auth"
	"github.com/heartmarshall/lotbid-backend/internal/config"
	"github.com/heartmarshall/lotbid-backend/internal/domain"
	gql "github.com/heartmarshall/lotbid-backend/internal/transport/graphql"
	"github.com/heartmarshall/lotbid-backend/internal/transport/graphql/dataloader"
	"github.com/heartmarshall/lotbid-backend/internal/transport/graphql/resolver"
	"github.com/heartmarshall/lotbid-backend/internal/transport/middleware"
	"github.com/heartmarshall/lotbid-backend/internal/transport/rest"
)

// Run starts the HTTP API and, when enabled, the in-process closer. It
// blocks until ctx is cancelled or a component fails, then shuts down.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log, "server")
	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	c, err := newCore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
		defer cancel()
		c.close(shutdownCtx)
	}()

	limiter := middleware.NewRateLimiter(cfg.RateLimit.CleanupInterval)
	defer limiter.Stop()

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:           newHandler(c, limiter),
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), cfg.Server.ShutdownTimeout)
		defer cancel()
		logger.Info("shutting down http server")
		return srv.Shutdown(shutdownCtx)
	})

	if cfg.Closer.Enabled() {
		runner := c.newRunner()
		g.Go(func() error {
			runner.Run(gctx)
			return nil
		})
	} else {
		logger.Info("in-process closer disabled")
	}

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("stopped")
	return nil
}

func newHandler(c *core, limiter *middleware.RateLimiter) http.Handler {
	cfg, log := c.cfg, c.log

	health := rest.NewHealthHandler(c.pool, Version)
	if c.redis != nil {
		health.AddComponent("redis", rest.PingFunc(func(ctx context.Context) error {
			return c.redis.Ping(ctx).Err()
		}), false)
	}
	if c.nats != nil {
		health.AddComponent("nats", c.nats, false)
	}

	var sweep *rest.SweepHandler
	if cfg.Closer.TriggerSecret != "" {
		sweep = rest.NewSweepHandler(c.closer, cfg.Closer.TriggerSecret, log)
	}

	gqlHandler := dataloader.Middleware(&dataloader.Sources{Quotes: c.bidding})(
		gql.NewHandler(resolver.NewResolver(log, c.bidding), log),
	)

	return rest.NewRouter(rest.RouterDeps{
		Bidding:   rest.NewBiddingHandler(c.bidding, log),
		Sweep:     sweep,
		GraphQL:   gqlHandler,
		Health:    health,
		Metrics:   c.metrics.Handler(),
		Recorder:  c.metrics,
		Tokens:    auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer),
		Limiter:   limiter,
		RateLimit: cfg.RateLimit,
		CORS:      cfg.CORS,
		Log:       log,
	})
}

// RunSweep performs one closer sweep and waits for its events to be handed
// to the sinks. The error is non-nil only when the sweep itself failed;
// per-lot failures are in the report.
func RunSweep(ctx context.Context) (domain.SweepReport, error) {
	cfg, err := config.Load()
	if err != nil {
		return domain.SweepReport{}, err
	}

	logger := NewLogger(cfg.Log, "sweep")

	c, err := newCore(ctx, cfg, logger)
	if err != nil {
		return domain.SweepReport{}, err
	}
	defer func() {
		drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
		defer cancel()
		c.close(drainCtx)
	}()

	report, err := c.closer.Sweep(ctx, time.Now())
	if err != nil {
		logger.Error("sweep failed", slog.String("error", err.Error()))
		return report, err
	}

	logger.Info("sweep finished",
		slog.Int("closed", report.Closed),
		slog.Int("skipped", report.Skipped),
		slog.Int("errors", len(report.Errors)),
	)
	return report, nil
}
