// Package closer finalizes lots whose closing time has passed: it picks the
// winning bid per item, honours reserve prices and marks the lot sold or
// unsold.
package closer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/lotbid-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type lotRepo interface {
	// ListExpired returns ids of live lots with closes_at <= now, oldest first.
	ListExpired(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error)
	// LockExpired locks the lot if it still matches the expiry predicate;
	// domain.ErrNotFound otherwise.
	LockExpired(ctx context.Context, lotID uuid.UUID, now time.Time) (*domain.Lot, error)
	// MarkClosed moves a live lot to status; domain.ErrConflict when the lot
	// is no longer live.
	MarkClosed(ctx context.Context, lotID uuid.UUID, status domain.LotStatus, closedAt time.Time) error
}

type itemRepo interface {
	ListByLot(ctx context.Context, lotID uuid.UUID) ([]domain.Item, error)
	SetWinner(ctx context.Context, itemID, bidID uuid.UUID) error
}

type bidRepo interface {
	// TopByItems returns the highest bid per item; ties go to the lowest seq.
	// Items without bids are absent from the map.
	TopByItems(ctx context.Context, itemIDs []uuid.UUID) (map[uuid.UUID]domain.Bid, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type eventPublisher interface {
	Publish(ctx context.Context, events ...domain.Event)
}

type recorder interface {
	LotClosed(status string)
	SweepLotFailed()
	SweepObserved(d time.Duration)
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Config holds sweep sizing.
type Config struct {
	BatchSize   int
	Parallelism int
}

// Service implements the lot expiry closer.
type Service struct {
	lots    lotRepo
	items   itemRepo
	bids    bidRepo
	tx      txManager
	events  eventPublisher
	metrics recorder
	log     *slog.Logger
	cfg     Config
}

// NewService creates a closer. Non-positive sizes fall back to 100 lots and
// a parallelism of 1.
func NewService(
	log *slog.Logger,
	lots lotRepo,
	items itemRepo,
	bids bidRepo,
	tx txManager,
	events eventPublisher,
	metrics recorder,
	cfg Config,
) *Service {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.Parallelism <= 0 {
		cfg.Parallelism = 1
	}
	return &Service{
		lots:    lots,
		items:   items,
		bids:    bids,
		tx:      tx,
		events:  events,
		metrics: metrics,
		log:     log.With("service", "closer"),
		cfg:     cfg,
	}
}

// errSkipped marks a lot that no longer needs closing.
var errSkipped = errors.New("lot skipped")

// Sweep closes up to one batch of expired lots. Per-lot failures are
// reported in SweepReport.Errors; the returned error is set only when the
// batch could not be selected or ctx was cancelled.
func (s *Service) Sweep(ctx context.Context, now time.Time) (domain.SweepReport, error) {
	var report domain.SweepReport

	start := time.Now()
	defer func() { s.metrics.SweepObserved(time.Since(start)) }()

	ids, err := s.lots.ListExpired(ctx, now, s.cfg.BatchSize)
	if err != nil {
		return report, fmt.Errorf("list expired lots: %w", err)
	}
	if len(ids) == 0 {
		return report, nil
	}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(s.cfg.Parallelism)

	for _, id := range ids {
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}

			ev, err := s.closeLot(ctx, id, now)

			mu.Lock()
			defer mu.Unlock()

			switch {
			case errors.Is(err, errSkipped):
				report.Skipped++
			case err != nil:
				report.Errors = append(report.Errors, domain.LotError{LotID: id, Err: err})
				s.metrics.SweepLotFailed()
				s.log.ErrorContext(ctx, "close lot failed",
					slog.String("lot_id", id.String()),
					slog.String("error", err.Error()),
				)
			default:
				report.Closed++
				s.metrics.LotClosed(ev.Status.String())
				s.events.Publish(ctx, *ev)
			}
			return nil
		})
	}
	_ = g.Wait()

	s.log.InfoContext(ctx, "sweep finished",
		slog.Int("selected", len(ids)),
		slog.Int("closed", report.Closed),
		slog.Int("skipped", report.Skipped),
		slog.Int("errors", len(report.Errors)),
	)

	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, nil
}

func (s *Service) closeLot(ctx context.Context, lotID uuid.UUID, now time.Time) (*domain.LotClosedEvent, error) {
	var closed *domain.LotClosedEvent

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.lots.LockExpired(ctx, lotID, now); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return errSkipped
			}
			return fmt.Errorf("lock lot: %w", err)
		}

		items, err := s.items.ListByLot(ctx, lotID)
		if err != nil {
			return fmt.Errorf("list items: %w", err)
		}

		itemIDs := make([]uuid.UUID, len(items))
		for i := range items {
			itemIDs[i] = items[i].ID
		}

		top, err := s.bids.TopByItems(ctx, itemIDs)
		if err != nil {
			return fmt.Errorf("top bids: %w", err)
		}

		results, status := Decide(items, top)

		for _, r := range results {
			if r.WinningBidID == nil {
				continue
			}
			if err := s.items.SetWinner(ctx, r.ItemID, *r.WinningBidID); err != nil {
				return fmt.Errorf("set winner for item %s: %w", r.ItemID, err)
			}
		}

		if err := s.lots.MarkClosed(ctx, lotID, status, now); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				return errSkipped
			}
			return fmt.Errorf("mark lot closed: %w", err)
		}

		closed = &domain.LotClosedEvent{
			LotID:    lotID,
			Status:   status,
			Items:    results,
			ClosedAt: now,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return closed, nil
}

// Decide computes per-item results and the lot's final status. An item sells
// to its top bid unless that bid is below the reserve price. The lot is sold
// if at least one item sold.
func Decide(items []domain.Item, top map[uuid.UUID]domain.Bid) ([]domain.ItemResult, domain.LotStatus) {
	results := make([]domain.ItemResult, 0, len(items))
	status := domain.LotStatusUnsold

	for i := range items {
		item := &items[i]
		res := domain.ItemResult{ItemID: item.ID}

		bid, ok := top[item.ID]
		switch {
		case !ok:
		case !item.MeetsReserve(bid.Amount):
			res.BelowReserve = true
		default:
			bidID, bidderID, amount := bid.ID, bid.BidderID, bid.Amount
			res.WinningBidID = &bidID
			res.WinnerID = &bidderID
			res.Amount = &amount
			status = domain.LotStatusSold
		}

		results = append(results, res)
	}

	return results, status
}
