// Package resolver implements the GraphQL field resolvers. Resolvers take
// already-parsed arguments and return domain values; the executor in the
// parent package marshals them.
package resolver

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/heartmarshall/lotbid-backend/internal/domain"
	"github.com/heartmarshall/lotbid-backend/internal/service/bidding"
	"github.com/heartmarshall/lotbid-backend/internal/transport/graphql/dataloader"
	"github.com/heartmarshall/lotbid-backend/pkg/ctxutil"
)

// biddingService defines what resolver needs from the bidding service.
type biddingService interface {
	PlaceBid(ctx context.Context, input bidding.PlaceBidInput) (*domain.BidReceipt, error)
	Quote(price decimal.Decimal) bidding.PriceQuote
}

// Resolver is the root resolver.
type Resolver struct {
	bidding biddingService
	log     *slog.Logger
}

// NewResolver creates a Resolver.
func NewResolver(log *slog.Logger, bidding biddingService) *Resolver {
	return &Resolver{
		bidding: bidding,
		log:     log.With("transport", "graphql"),
	}
}

// PlaceBid places a bid as the authenticated caller.
func (r *Resolver) PlaceBid(ctx context.Context, itemID uuid.UUID, amount decimal.Decimal) (*domain.BidReceipt, error) {
	bidderID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	return r.bidding.PlaceBid(ctx, bidding.PlaceBidInput{
		ItemID:   itemID,
		BidderID: bidderID,
		Amount:   amount,
	})
}

// MinimumBid resolves one item's hint through the request's loader, so that
// sibling fields share a single read.
func (r *Resolver) MinimumBid(ctx context.Context, itemID uuid.UUID) (*bidding.MinimumBidQuote, error) {
	if itemID == uuid.Nil {
		return nil, domain.NewValidationError("itemId", "required")
	}
	return dataloader.FromContext(ctx).MinimumBidByItemID.Load(ctx, itemID)()
}

// MinimumBids resolves several hints. The returned slices are parallel to
// itemIDs; a failed item has a nil quote and a non-nil error.
func (r *Resolver) MinimumBids(ctx context.Context, itemIDs []uuid.UUID) ([]*bidding.MinimumBidQuote, []error) {
	loader := dataloader.FromContext(ctx).MinimumBidByItemID

	thunks := make([]func() (*bidding.MinimumBidQuote, error), len(itemIDs))
	for i, id := range itemIDs {
		thunks[i] = loader.Load(ctx, id)
	}

	quotes := make([]*bidding.MinimumBidQuote, len(itemIDs))
	errs := make([]error, len(itemIDs))
	for i, thunk := range thunks {
		quotes[i], errs[i] = thunk()
	}
	return quotes, errs
}

// Quote applies the increment policy to price.
func (r *Resolver) Quote(_ context.Context, price decimal.Decimal) (*bidding.PriceQuote, error) {
	if price.IsNegative() {
		return nil, domain.NewValidationError("price", "must not be negative")
	}
	q := r.bidding.Quote(price)
	return &q, nil
}
