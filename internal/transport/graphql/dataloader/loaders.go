package dataloader

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/graph-gophers/dataloader/v7"

	"github.com/heartmarshall/lotbid-backend/internal/domain"
	"github.com/heartmarshall/lotbid-backend/internal/service/bidding"
)

func newMinimumBidBatchFn(src quoteSource) dataloader.BatchFunc[uuid.UUID, *bidding.MinimumBidQuote] {
	return func(ctx context.Context, keys []uuid.UUID) []*dataloader.Result[*bidding.MinimumBidQuote] {
		quotes, err := src.MinimumBids(ctx, keys)
		if err != nil {
			return errorResults[*bidding.MinimumBidQuote](len(keys), err)
		}

		results := make([]*dataloader.Result[*bidding.MinimumBidQuote], len(keys))
		for i, k := range keys {
			q, ok := quotes[k]
			if !ok {
				results[i] = &dataloader.Result[*bidding.MinimumBidQuote]{
					Error: fmt.Errorf("item %s: %w", k, domain.ErrNotFound),
				}
				continue
			}
			results[i] = &dataloader.Result[*bidding.MinimumBidQuote]{Data: q}
		}
		return results
	}
}

// errorResults returns n results that all carry err.
func errorResults[V any](n int, err error) []*dataloader.Result[V] {
	results := make([]*dataloader.Result[V], n)
	for i := range results {
		results[i] = &dataloader.Result[V]{Error: err}
	}
	return results
}
