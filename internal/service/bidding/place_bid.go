package bidding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/heartmarshall/lotbid-backend/internal/domain"
	"github.com/heartmarshall/lotbid-backend/internal/service/bidding/pricing"
	"github.com/heartmarshall/lotbid-backend/internal/service/bidding/softclose"
	"github.com/heartmarshall/lotbid-backend/pkg/ctxutil"
)

// PlaceBid validates and records a bid. Each attempt runs in one transaction;
// on domain.ErrConflict the whole read-validate-write sequence is retried
// from a fresh read with exponential backoff. Rejections never write.
func (s *Service) PlaceBid(ctx context.Context, input PlaceBidInput) (*domain.BidReceipt, error) {
	if err := AuthorizeBidder(ctx); err != nil {
		return nil, err
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	amount := pricing.RoundAmount(input.Amount)

	var (
		receipt *domain.BidReceipt
		events  []domain.Event
		attempt int
	)

	op := func() error {
		attempt++
		r, evs, err := s.placeOnce(ctx, input.ItemID, input.BidderID, amount)
		if err == nil {
			receipt, events = r, evs
			return nil
		}
		if errors.Is(err, domain.ErrConflict) {
			s.metrics.ConflictRetried()
			s.log.DebugContext(ctx, "bid conflict, retrying",
				slog.String("item_id", input.ItemID.String()),
				slog.Int("attempt", attempt),
			)
			return err
		}
		return backoff.Permanent(err)
	}

	if err := backoff.Retry(op, s.backOff(ctx)); err != nil {
		return nil, s.handleFailure(ctx, input, attempt, err)
	}

	s.metrics.BidPlaced()
	if receipt.Extended {
		s.metrics.LotExtended()
	}
	s.events.Publish(ctx, events...)

	s.log.InfoContext(ctx, "bid placed",
		slog.String("bid_id", receipt.Bid.ID.String()),
		slog.String("item_id", receipt.Bid.ItemID.String()),
		slog.String("lot_id", receipt.LotID.String()),
		slog.String("bidder_id", receipt.Bid.BidderID.String()),
		slog.String("amount", receipt.Bid.Amount.StringFixed(2)),
		slog.Bool("extended", receipt.Extended),
		slog.Int("attempts", attempt),
	)

	return receipt, nil
}

func (s *Service) handleFailure(ctx context.Context, input PlaceBidInput, attempts int, err error) error {
	var rej *domain.BidRejectedError
	switch {
	case errors.As(err, &rej):
		s.metrics.BidRejected(rej.Code.String())
		s.log.InfoContext(ctx, "bid rejected",
			slog.String("item_id", input.ItemID.String()),
			slog.String("bidder_id", input.BidderID.String()),
			slog.String("code", rej.Code.String()),
		)
		return err
	case errors.Is(err, domain.ErrConflict):
		s.log.WarnContext(ctx, "bid conflict retries exhausted",
			slog.String("item_id", input.ItemID.String()),
			slog.Int("attempts", attempts),
		)
		return fmt.Errorf("place bid: %w", err)
	case errors.Is(err, domain.ErrInvariantViolation):
		s.metrics.InvariantViolated("bidding")
		s.log.ErrorContext(ctx, "bid invariant violation",
			slog.String("item_id", input.ItemID.String()),
			slog.String("error", err.Error()),
		)
		return err
	default:
		return err
	}
}

func (s *Service) backOff(ctx context.Context) backoff.BackOffContext {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = s.cfg.RetryBaseDelay
	eb.MaxInterval = 20 * s.cfg.RetryBaseDelay
	eb.MaxElapsedTime = 0
	eb.Reset()

	return backoff.WithContext(backoff.WithMaxRetries(eb, uint64(s.cfg.MaxRetries)), ctx)
}

// AuthorizeBidder rejects callers that are not eligible to bid. A context
// that carries a caller identity or a role must carry the buyer role; a bare
// context is an in-process caller and passes.
func AuthorizeBidder(ctx context.Context) error {
	role, hasRole := ctxutil.RoleFromCtx(ctx)
	_, hasUser := ctxutil.UserIDFromCtx(ctx)
	if !hasUser && !hasRole {
		return nil
	}
	if !domain.Role(role).CanBid() {
		return domain.ErrForbidden
	}
	return nil
}

// placeOnce runs a single locked attempt. Events are returned rather than
// published so that nothing leaves the process before commit.
func (s *Service) placeOnce(
	ctx context.Context,
	itemID, bidderID uuid.UUID,
	amount decimal.Decimal,
) (*domain.BidReceipt, []domain.Event, error) {
	var (
		receipt *domain.BidReceipt
		events  []domain.Event
	)

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		target, err := s.items.GetForBid(txCtx, itemID)
		if err != nil {
			return fmt.Errorf("get item for bid: %w", err)
		}

		now := s.clock()
		if !isAvailable(target, now) {
			return domain.NewNotAvailableError()
		}

		current := target.Item.Price()
		if err := s.cfg.Policy.Validate(amount, current); err != nil {
			return err
		}

		closesAt := *target.Lot.ClosesAt
		scCfg := s.softCloseConfig(target.Auction)
		if scCfg != nil && target.Lot.ExtendedCount > scCfg.ExtendLimit {
			return fmt.Errorf("lot %s extended %d times, limit %d: %w",
				target.Lot.ID, target.Lot.ExtendedCount, scCfg.ExtendLimit, domain.ErrInvariantViolation)
		}

		decision := softclose.Calculate(closesAt, now, target.Lot.ExtendedCount, scCfg)
		if decision.NewClosesAt.Before(closesAt) {
			return fmt.Errorf("lot %s closing time would move from %s to %s: %w",
				target.Lot.ID, closesAt, decision.NewClosesAt, domain.ErrInvariantViolation)
		}

		if err := s.items.UpdatePrice(txCtx, itemID, current, amount); err != nil {
			return fmt.Errorf("update price: %w", err)
		}

		bid, err := s.bids.Create(txCtx, &domain.Bid{
			ID:        uuid.New(),
			ItemID:    itemID,
			BidderID:  bidderID,
			Amount:    amount,
			CreatedAt: now,
		})
		if err != nil {
			return fmt.Errorf("create bid: %w", err)
		}

		extendedCount := target.Lot.ExtendedCount
		if decision.ShouldExtend {
			err := s.lots.Extend(txCtx, domain.LotExtension{
				LotID:            target.Lot.ID,
				ExpectedClosesAt: closesAt,
				ExpectedCount:    target.Lot.ExtendedCount,
				NewClosesAt:      decision.NewClosesAt,
				ExtendedAt:       now,
			})
			if err != nil {
				return fmt.Errorf("extend lot: %w", err)
			}
			extendedCount++
		}

		next := s.cfg.Policy.MinimumNextBid(amount)
		receipt = &domain.BidReceipt{
			Bid:           *bid,
			LotID:         target.Lot.ID,
			PreviousPrice: current,
			CurrentPrice:  amount,
			NextMinimum:   next,
			ClosesAt:      decision.NewClosesAt,
			Extended:      decision.ShouldExtend,
			ExtendedCount: extendedCount,
		}

		events = append(events[:0], domain.BidPlacedEvent{
			BidID:         bid.ID,
			ItemID:        itemID,
			LotID:         target.Lot.ID,
			BidderID:      bidderID,
			Amount:        amount,
			PreviousPrice: current,
			CurrentPrice:  amount,
			NextMinimum:   next,
			PlacedAt:      bid.CreatedAt,
		})
		if decision.ShouldExtend {
			events = append(events, domain.LotExtendedEvent{
				LotID:         target.Lot.ID,
				ItemID:        itemID,
				ClosesAt:      decision.NewClosesAt,
				ExtendedCount: extendedCount,
				ExtendedAt:    now,
			})
		}

		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return receipt, events, nil
}

// MinimumBid returns the live minimum-bid hint for an item. It reads without
// locks; the authoritative check happens in PlaceBid.
func (s *Service) MinimumBid(ctx context.Context, itemID uuid.UUID) (*MinimumBidQuote, error) {
	if itemID == uuid.Nil {
		return nil, domain.NewValidationError("item_id", "required")
	}

	target, err := s.items.GetTarget(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}

	return s.quoteTarget(target, s.clock()), nil
}

// MinimumBids is the batched form of MinimumBid. Items that do not exist are
// absent from the returned map.
func (s *Service) MinimumBids(ctx context.Context, itemIDs []uuid.UUID) (map[uuid.UUID]*MinimumBidQuote, error) {
	targets, err := s.items.GetTargets(ctx, itemIDs)
	if err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}

	now := s.clock()
	out := make(map[uuid.UUID]*MinimumBidQuote, len(targets))
	for i := range targets {
		out[targets[i].Item.ID] = s.quoteTarget(&targets[i], now)
	}
	return out, nil
}

func (s *Service) quoteTarget(target *domain.BidTarget, now time.Time) *MinimumBidQuote {
	price := target.Item.Price()
	return &MinimumBidQuote{
		ItemID:           target.Item.ID,
		CurrentPrice:     price,
		MinimumIncrement: s.cfg.Policy.MinimumIncrement(price),
		MinimumNextBid:   s.cfg.Policy.MinimumNextBid(price),
		ClosesAt:         target.Lot.ClosesAt,
		Open:             isAvailable(target, now),
	}
}

// Quote applies the increment policy to an arbitrary price.
func (s *Service) Quote(price decimal.Decimal) PriceQuote {
	return PriceQuote{
		Price:            price,
		MinimumIncrement: s.cfg.Policy.MinimumIncrement(price),
		MinimumNextBid:   s.cfg.Policy.MinimumNextBid(price),
	}
}
