// Package dataloader provides per-request DataLoaders that batch the
// minimum-bid lookups of one GraphQL request into a single read.
package dataloader

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/graph-gophers/dataloader/v7"

	"github.com/heartmarshall/lotbid-backend/internal/service/bidding"
)

const (
	maxBatch = 100
	wait     = 2 * time.Millisecond
)

type quoteSource interface {
	MinimumBids(ctx context.Context, itemIDs []uuid.UUID) (map[uuid.UUID]*bidding.MinimumBidQuote, error)
}

// Sources holds what the loaders read from.
type Sources struct {
	Quotes quoteSource
}

// Loaders contains the per-request DataLoaders. Created per request via
// NewLoaders so that cached results never outlive the request.
type Loaders struct {
	MinimumBidByItemID *dataloader.Loader[uuid.UUID, *bidding.MinimumBidQuote]
}

// NewLoaders creates a new set of DataLoaders backed by src.
func NewLoaders(src *Sources) *Loaders {
	return &Loaders{
		MinimumBidByItemID: newLoader(newMinimumBidBatchFn(src.Quotes)),
	}
}

func newLoader[V any](batchFn dataloader.BatchFunc[uuid.UUID, V]) *dataloader.Loader[uuid.UUID, V] {
	return dataloader.NewBatchedLoader(
		batchFn,
		dataloader.WithWait[uuid.UUID, V](wait),
		dataloader.WithBatchCapacity[uuid.UUID, V](maxBatch),
	)
}

type contextKey string

const loadersKey contextKey = "dataloaders"

// WithLoaders stores Loaders in the context.
func WithLoaders(ctx context.Context, l *Loaders) context.Context {
	return context.WithValue(ctx, loadersKey, l)
}

// FromContext retrieves Loaders from the context.
// Panics if loaders are not present (the middleware is not configured).
func FromContext(ctx context.Context) *Loaders {
	l, ok := ctx.Value(loadersKey).(*Loaders)
	if !ok || l == nil {
		panic("dataloader: loaders not found in context, is the middleware configured?")
	}
	return l
}
