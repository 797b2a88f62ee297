package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/heartmarshall/lotbid-backend/internal/domain"
)

// SeedAuction creates a live auction with soft close enabled and the given
// overrides (nil means engine default).
func SeedAuction(t *testing.T, pool *pgxpool.Pool, windowSec, extendSec, limit *int) domain.Auction {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Microsecond)
	a := domain.Auction{
		ID:                   uuid.New(),
		Status:               domain.AuctionStatusLive,
		SoftCloseEnabled:     true,
		SoftCloseWindowSec:   windowSec,
		SoftCloseExtendSec:   extendSec,
		SoftCloseExtendLimit: limit,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO auctions (id, status, soft_close_enabled, soft_close_window_sec,
		                       soft_close_extend_sec, soft_close_extend_limit, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		a.ID, string(a.Status), a.SoftCloseEnabled, a.SoftCloseWindowSec,
		a.SoftCloseExtendSec, a.SoftCloseExtendLimit, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedAuction: %v", err)
	}
	return a
}

// SeedLot creates a live lot closing at closesAt. auctionID may be nil.
func SeedLot(t *testing.T, pool *pgxpool.Pool, auctionID *uuid.UUID, closesAt time.Time) domain.Lot {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Microsecond)
	closes := closesAt.UTC().Truncate(time.Microsecond)
	l := domain.Lot{
		ID:        uuid.New(),
		StoreID:   uuid.New(),
		AuctionID: auctionID,
		Status:    domain.LotStatusLive,
		ClosesAt:  &closes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO lots (id, store_id, auction_id, status, closes_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		l.ID, l.StoreID, l.AuctionID, string(l.Status), l.ClosesAt, l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedLot: %v", err)
	}
	return l
}

// SeedItem creates an item without bids. reserve may be nil.
func SeedItem(t *testing.T, pool *pgxpool.Pool, lotID uuid.UUID, startPrice string, reserve *decimal.Decimal) domain.Item {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Microsecond)
	it := domain.Item{
		ID:           uuid.New(),
		LotID:        lotID,
		Title:        "Item " + uuid.NewString()[:8],
		StartPrice:   decimal.RequireFromString(startPrice),
		ReservePrice: reserve,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO items (id, lot_id, title, start_price, reserve_price, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		it.ID, it.LotID, it.Title, it.StartPrice, it.ReservePrice, it.CreatedAt, it.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedItem: %v", err)
	}
	return it
}

// SeedBid appends a bid to the ledger and moves the item's price to amount.
func SeedBid(t *testing.T, pool *pgxpool.Pool, itemID uuid.UUID, amount string) domain.Bid {
	t.Helper()
	ctx := context.Background()

	b := domain.Bid{
		ID:        uuid.New(),
		ItemID:    itemID,
		BidderID:  uuid.New(),
		Amount:    decimal.RequireFromString(amount),
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}

	err := pool.QueryRow(ctx,
		`INSERT INTO bids (id, item_id, bidder_id, amount, created_at)
		 VALUES ($1, $2, $3, $4, $5) RETURNING seq`,
		b.ID, b.ItemID, b.BidderID, b.Amount, b.CreatedAt,
	).Scan(&b.Seq)
	if err != nil {
		t.Fatalf("testhelper: SeedBid: %v", err)
	}

	if _, err := pool.Exec(ctx, `UPDATE items SET current_price = $2 WHERE id = $1`, itemID, b.Amount); err != nil {
		t.Fatalf("testhelper: SeedBid update price: %v", err)
	}
	return b
}
