package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	natsadapter "github.com/heartmarshall/lotbid-backend/internal/adapter/nats"
	"github.com/heartmarshall/lotbid-backend/internal/adapter/postgres"
	"github.com/heartmarshall/lotbid-backend/internal/adapter/postgres/bid"
	"github.com/heartmarshall/lotbid-backend/internal/adapter/postgres/item"
	"github.com/heartmarshall/lotbid-backend/internal/adapter/postgres/lot"
	redisadapter "github.com/heartmarshall/lotbid-backend/internal/adapter/redis"
	"github.com/heartmarshall/lotbid-backend/internal/config"
	"github.com/heartmarshall/lotbid-backend/internal/eventbus"
	"github.com/heartmarshall/lotbid-backend/internal/metrics"
	"github.com/heartmarshall/lotbid-backend/internal/service/bidding"
	"github.com/heartmarshall/lotbid-backend/internal/service/closer"
)

// core is the component graph shared by the server and the one-shot sweep.
// Optional adapters are nil when disabled in config.
type core struct {
	cfg     *config.Config
	log     *slog.Logger
	pool    *pgxpool.Pool
	metrics *metrics.Metrics
	redis   *goredis.Client
	nats    *natsadapter.Client
	bus     *eventbus.Bus
	bidding *bidding.Service
	closer  *closer.Service
}

func newCore(ctx context.Context, cfg *config.Config, log *slog.Logger) (_ *core, err error) {
	c := &core{cfg: cfg, log: log, metrics: metrics.NewDefault()}
	defer func() {
		if err != nil {
			c.close(context.Background())
		}
	}()

	c.pool, err = postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	var sinks []eventbus.Sink

	if cfg.NATS.Enabled() {
		c.nats, err = natsadapter.Connect(ctx, cfg.NATS, log)
		if err != nil {
			return nil, fmt.Errorf("connect nats: %w", err)
		}
		sinks = append(sinks, c.nats.Publisher())
	}

	if cfg.Redis.Enabled() {
		c.redis, err = redisadapter.NewClient(ctx, cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		sinks = append(sinks, redisadapter.NewBroadcaster(c.redis, cfg.Redis.ChannelPrefix))
	}

	c.bus = eventbus.New(log, c.metrics, eventbus.Config{
		QueueSize:      cfg.Events.QueueSize,
		Workers:        cfg.Events.Workers,
		DeliverTimeout: cfg.Events.DeliverTimeout,
	}, sinks...)

	var (
		txm   = postgres.NewTxManager(c.pool)
		items = item.New(c.pool)
		bids  = bid.New(c.pool)
		lots  = lot.New(c.pool)
	)

	c.bidding, err = bidding.NewService(log, items, bids, lots, txm, c.bus, c.metrics, bidding.Config{
		Policy:         cfg.Bidding.Policy,
		SoftClose:      cfg.SoftClose.Defaults(),
		MaxRetries:     cfg.Bidding.MaxRetries,
		RetryBaseDelay: cfg.Bidding.RetryBaseDelay,
	})
	if err != nil {
		return nil, fmt.Errorf("create bidding service: %w", err)
	}

	c.closer = closer.NewService(log, lots, items, bids, txm, c.bus, c.metrics, closer.Config{
		BatchSize:   cfg.Closer.BatchSize,
		Parallelism: cfg.Closer.Parallelism,
	})

	log.InfoContext(ctx, "components ready",
		slog.Bool("nats", c.nats != nil),
		slog.Bool("redis", c.redis != nil),
		slog.Int("sinks", len(sinks)),
	)
	return c, nil
}

// newRunner builds the in-process closer loop. With Redis configured, ticks
// are guarded by a lease so only one replica sweeps at a time.
func (c *core) newRunner() *closer.Runner {
	if c.redis == nil {
		return closer.NewRunner(c.log, c.closer, c.cfg.Closer.Interval, nil)
	}
	l := redisadapter.NewLease(c.redis, c.cfg.Redis.LeaseKey, c.cfg.Closer.LeaseTTL)
	return closer.NewRunner(c.log, c.closer, c.cfg.Closer.Interval, l)
}

// close drains the event bus before closing the sinks it delivers to.
func (c *core) close(ctx context.Context) {
	var errs []error
	if c.bus != nil {
		errs = append(errs, c.bus.Close(ctx))
	}
	if c.nats != nil {
		errs = append(errs, c.nats.Close())
	}
	if c.redis != nil {
		errs = append(errs, c.redis.Close())
	}
	if c.pool != nil {
		c.pool.Close()
	}
	if err := errors.Join(errs...); err != nil {
		c.log.WarnContext(ctx, "shutdown incomplete", slog.String("error", err.Error()))
	}
}
