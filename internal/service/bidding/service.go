// Package bidding coordinates bid placement: it reads the item and its lot
// under row locks, validates the amount, applies soft-close, writes the bid
// and publishes the resulting events once the transaction has committed.
package bidding

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/heartmarshall/lotbid-backend/internal/domain"
	"github.com/heartmarshall/lotbid-backend/internal/service/bidding/pricing"
	"github.com/heartmarshall/lotbid-backend/internal/service/bidding/softclose"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type itemRepo interface {
	// GetForBid locks the item and its lot until the surrounding transaction ends.
	GetForBid(ctx context.Context, itemID uuid.UUID) (*domain.BidTarget, error)
	// GetTarget reads the same snapshot without locking.
	GetTarget(ctx context.Context, itemID uuid.UUID) (*domain.BidTarget, error)
	// GetTargets reads several snapshots without locking; unknown ids are
	// left out.
	GetTargets(ctx context.Context, itemIDs []uuid.UUID) ([]domain.BidTarget, error)
	// UpdatePrice moves the price from -> to; domain.ErrConflict when the
	// stored price is no longer from.
	UpdatePrice(ctx context.Context, itemID uuid.UUID, from, to decimal.Decimal) error
}

type bidRepo interface {
	Create(ctx context.Context, bid *domain.Bid) (*domain.Bid, error)
}

type lotRepo interface {
	// Extend applies ext; domain.ErrConflict when the lot no longer matches
	// the expected state.
	Extend(ctx context.Context, ext domain.LotExtension) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type eventPublisher interface {
	Publish(ctx context.Context, events ...domain.Event)
}

type recorder interface {
	BidPlaced()
	BidRejected(code string)
	ConflictRetried()
	LotExtended()
	InvariantViolated(component string)
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Config holds the coordinator's tunables.
type Config struct {
	Policy         *pricing.Policy
	SoftClose      softclose.Defaults
	MaxRetries     int
	RetryBaseDelay time.Duration
}

// Service implements bid placement and minimum-bid lookups.
type Service struct {
	items   itemRepo
	bids    bidRepo
	lots    lotRepo
	tx      txManager
	events  eventPublisher
	metrics recorder
	log     *slog.Logger
	cfg     Config
	clock   func() time.Time
}

// NewService creates a new bidding service. A nil Policy falls back to the
// default increment table.
func NewService(
	log *slog.Logger,
	items itemRepo,
	bids bidRepo,
	lots lotRepo,
	tx txManager,
	events eventPublisher,
	metrics recorder,
	cfg Config,
) (*Service, error) {
	if cfg.Policy == nil {
		cfg.Policy = pricing.DefaultPolicy()
	}
	if cfg.MaxRetries < 0 {
		return nil, errors.New("bidding: max retries must be >= 0")
	}
	if cfg.RetryBaseDelay <= 0 {
		cfg.RetryBaseDelay = 10 * time.Millisecond
	}

	return &Service{
		items:   items,
		bids:    bids,
		lots:    lots,
		tx:      tx,
		events:  events,
		metrics: metrics,
		log:     log.With("service", "bidding"),
		cfg:     cfg,
		clock:   time.Now,
	}, nil
}

// Policy exposes the increment policy in use.
func (s *Service) Policy() *pricing.Policy {
	return s.cfg.Policy
}

// softCloseConfig returns nil for lots without a governing auction.
func (s *Service) softCloseConfig(auction *domain.Auction) *softclose.Config {
	if auction == nil {
		return nil
	}
	cfg := softclose.Resolve(auction, s.cfg.SoftClose)
	return &cfg
}

// isAvailable reports whether the target accepts bids at now. A lot whose
// closing time has passed is waiting for the closer and is not available.
func isAvailable(t *domain.BidTarget, now time.Time) bool {
	if t.Auction != nil && t.Auction.Status != domain.AuctionStatusLive {
		return false
	}
	return t.Lot.IsOpenAt(now)
}
