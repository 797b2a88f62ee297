// Package item implements the Item repository using PostgreSQL: the locked
// bid snapshot, the conditional price move and the closer's winner write.
package item

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	postgres "github.com/heartmarshall/lotbid-backend/internal/adapter/postgres"
	"github.com/heartmarshall/lotbid-backend/internal/domain"
)

// Repo provides item persistence backed by PostgreSQL.
type Repo struct {
	pool postgres.Querier
}

// New creates a new item repository.
func New(pool postgres.Querier) *Repo {
	return &Repo{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// ---------------------------------------------------------------------------
// SQL
// ---------------------------------------------------------------------------

// Lots are always locked before their items, in the bid path and in the
// closer, so the two never wait on each other in opposite order.
const lockLotOfItemSQL = `
SELECT l.id FROM lots l
WHERE l.id = (SELECT i.lot_id FROM items i WHERE i.id = $1)
FOR UPDATE OF l`

const lockItemSQL = `SELECT id FROM items WHERE id = $1 FOR UPDATE`

const selectTargetSQL = `
SELECT i.id AS item_id, i.lot_id, i.title, i.start_price, i.current_price,
       i.reserve_price, i.winning_bid_id, i.created_at AS item_created_at,
       i.updated_at AS item_updated_at,
       l.store_id, l.auction_id, l.status AS lot_status, l.closes_at,
       l.extended_count, l.last_extended_at, l.closed_at,
       l.created_at AS lot_created_at, l.updated_at AS lot_updated_at,
       a.status AS auction_status, a.soft_close_enabled, a.soft_close_window_sec,
       a.soft_close_extend_sec, a.soft_close_extend_limit,
       a.created_at AS auction_created_at, a.updated_at AS auction_updated_at
FROM items i
JOIN lots l ON l.id = i.lot_id
LEFT JOIN auctions a ON a.id = l.auction_id`

const getTargetSQL = selectTargetSQL + `
WHERE i.id = $1`

const getTargetsSQL = selectTargetSQL + `
WHERE i.id = ANY($1)`

const updatePriceSQL = `
UPDATE items SET current_price = $3, updated_at = now()
WHERE id = $1 AND COALESCE(current_price, start_price) = $2`

const setWinnerSQL = `
UPDATE items SET winning_bid_id = $2, updated_at = now()
WHERE id = $1 AND winning_bid_id IS NULL`

var itemColumns = []string{
	"id", "lot_id", "title", "start_price", "current_price", "reserve_price",
	"winning_bid_id", "created_at", "updated_at",
}

// ---------------------------------------------------------------------------
// Rows
// ---------------------------------------------------------------------------

type itemRow struct {
	ID           uuid.UUID        `db:"id"`
	LotID        uuid.UUID        `db:"lot_id"`
	Title        string           `db:"title"`
	StartPrice   decimal.Decimal  `db:"start_price"`
	CurrentPrice *decimal.Decimal `db:"current_price"`
	ReservePrice *decimal.Decimal `db:"reserve_price"`
	WinningBidID *uuid.UUID       `db:"winning_bid_id"`
	CreatedAt    time.Time        `db:"created_at"`
	UpdatedAt    time.Time        `db:"updated_at"`
}

func (r itemRow) toDomain() domain.Item {
	return domain.Item{
		ID:           r.ID,
		LotID:        r.LotID,
		Title:        r.Title,
		StartPrice:   r.StartPrice,
		CurrentPrice: r.CurrentPrice,
		ReservePrice: r.ReservePrice,
		WinningBidID: r.WinningBidID,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

type targetRow struct {
	ItemID        uuid.UUID        `db:"item_id"`
	LotID         uuid.UUID        `db:"lot_id"`
	Title         string           `db:"title"`
	StartPrice    decimal.Decimal  `db:"start_price"`
	CurrentPrice  *decimal.Decimal `db:"current_price"`
	ReservePrice  *decimal.Decimal `db:"reserve_price"`
	WinningBidID  *uuid.UUID       `db:"winning_bid_id"`
	ItemCreatedAt time.Time        `db:"item_created_at"`
	ItemUpdatedAt time.Time        `db:"item_updated_at"`

	StoreID        uuid.UUID  `db:"store_id"`
	AuctionID      *uuid.UUID `db:"auction_id"`
	LotStatus      string     `db:"lot_status"`
	ClosesAt       *time.Time `db:"closes_at"`
	ExtendedCount  int        `db:"extended_count"`
	LastExtendedAt *time.Time `db:"last_extended_at"`
	ClosedAt       *time.Time `db:"closed_at"`
	LotCreatedAt   time.Time  `db:"lot_created_at"`
	LotUpdatedAt   time.Time  `db:"lot_updated_at"`

	AuctionStatus        *string    `db:"auction_status"`
	SoftCloseEnabled     *bool      `db:"soft_close_enabled"`
	SoftCloseWindowSec   *int       `db:"soft_close_window_sec"`
	SoftCloseExtendSec   *int       `db:"soft_close_extend_sec"`
	SoftCloseExtendLimit *int       `db:"soft_close_extend_limit"`
	AuctionCreatedAt     *time.Time `db:"auction_created_at"`
	AuctionUpdatedAt     *time.Time `db:"auction_updated_at"`
}

func (r targetRow) toDomain() *domain.BidTarget {
	t := &domain.BidTarget{
		Item: domain.Item{
			ID:           r.ItemID,
			LotID:        r.LotID,
			Title:        r.Title,
			StartPrice:   r.StartPrice,
			CurrentPrice: r.CurrentPrice,
			ReservePrice: r.ReservePrice,
			WinningBidID: r.WinningBidID,
			CreatedAt:    r.ItemCreatedAt,
			UpdatedAt:    r.ItemUpdatedAt,
		},
		Lot: domain.Lot{
			ID:             r.LotID,
			StoreID:        r.StoreID,
			AuctionID:      r.AuctionID,
			Status:         domain.LotStatus(r.LotStatus),
			ClosesAt:       r.ClosesAt,
			ExtendedCount:  r.ExtendedCount,
			LastExtendedAt: r.LastExtendedAt,
			ClosedAt:       r.ClosedAt,
			CreatedAt:      r.LotCreatedAt,
			UpdatedAt:      r.LotUpdatedAt,
		},
	}

	if r.AuctionID != nil && r.AuctionStatus != nil {
		a := &domain.Auction{
			ID:                   *r.AuctionID,
			Status:               domain.AuctionStatus(*r.AuctionStatus),
			SoftCloseWindowSec:   r.SoftCloseWindowSec,
			SoftCloseExtendSec:   r.SoftCloseExtendSec,
			SoftCloseExtendLimit: r.SoftCloseExtendLimit,
		}
		if r.SoftCloseEnabled != nil {
			a.SoftCloseEnabled = *r.SoftCloseEnabled
		}
		if r.AuctionCreatedAt != nil {
			a.CreatedAt = *r.AuctionCreatedAt
		}
		if r.AuctionUpdatedAt != nil {
			a.UpdatedAt = *r.AuctionUpdatedAt
		}
		t.Auction = a
	}

	return t
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetForBid locks the item's lot, then the item, and returns the snapshot.
// Locks are held until the surrounding transaction ends, so it must be
// called inside RunInTx.
func (r *Repo) GetForBid(ctx context.Context, itemID uuid.UUID) (*domain.BidTarget, error) {
	if !postgres.InTx(ctx) {
		return nil, fmt.Errorf("item %s: GetForBid requires a transaction", itemID)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)

	var lotID uuid.UUID
	if err := q.QueryRow(ctx, lockLotOfItemSQL, itemID).Scan(&lotID); err != nil {
		return nil, postgres.MapError(err, "item", itemID)
	}

	var id uuid.UUID
	if err := q.QueryRow(ctx, lockItemSQL, itemID).Scan(&id); err != nil {
		return nil, postgres.MapError(err, "item", itemID)
	}

	return r.GetTarget(ctx, itemID)
}

// GetTarget reads the item, its lot and auction without locking.
func (r *Repo) GetTarget(ctx context.Context, itemID uuid.UUID) (*domain.BidTarget, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var row targetRow
	if err := pgxscan.Get(ctx, q, &row, getTargetSQL, itemID); err != nil {
		return nil, postgres.MapError(err, "item", itemID)
	}

	return row.toDomain(), nil
}

// GetTargets reads the snapshots of several items in one query without
// locking. Unknown ids are absent from the result; order is unspecified.
func (r *Repo) GetTargets(ctx context.Context, itemIDs []uuid.UUID) ([]domain.BidTarget, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}

	var rows []targetRow
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.pool), &rows, getTargetsSQL, itemIDs); err != nil {
		return nil, fmt.Errorf("get targets: %w", err)
	}

	targets := make([]domain.BidTarget, len(rows))
	for i, row := range rows {
		targets[i] = *row.toDomain()
	}
	return targets, nil
}

// ListByLot returns the lot's items ordered by creation.
func (r *Repo) ListByLot(ctx context.Context, lotID uuid.UUID) ([]domain.Item, error) {
	query, args, err := psql.Select(itemColumns...).
		From("items").
		Where(squirrel.Eq{"lot_id": lotID}).
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list items query: %w", err)
	}

	var rows []itemRow
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.pool), &rows, query, args...); err != nil {
		return nil, postgres.MapError(err, "lot", lotID)
	}

	items := make([]domain.Item, len(rows))
	for i, row := range rows {
		items[i] = row.toDomain()
	}
	return items, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// UpdatePrice moves the item's price from -> to. domain.ErrConflict when the
// stored price is no longer from.
func (r *Repo) UpdatePrice(ctx context.Context, itemID uuid.UUID, from, to decimal.Decimal) error {
	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, updatePriceSQL, itemID, from, to)
	if err != nil {
		return postgres.MapError(err, "item", itemID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("item %s: price moved: %w", itemID, domain.ErrConflict)
	}
	return nil
}

// SetWinner records the winning bid. domain.ErrConflict when the item
// already has one.
func (r *Repo) SetWinner(ctx context.Context, itemID, bidID uuid.UUID) error {
	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, setWinnerSQL, itemID, bidID)
	if err != nil {
		return postgres.MapError(err, "item", itemID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("item %s: winner already set: %w", itemID, domain.ErrConflict)
	}
	return nil
}
