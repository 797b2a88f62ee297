// Package bid implements the append-only bid ledger using PostgreSQL.
package bid

import (
	"context"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	postgres "github.com/heartmarshall/lotbid-backend/internal/adapter/postgres"
	"github.com/heartmarshall/lotbid-backend/internal/domain"
)

// Repo provides bid persistence backed by PostgreSQL.
type Repo struct {
	pool postgres.Querier
}

// New creates a new bid repository.
func New(pool postgres.Querier) *Repo {
	return &Repo{pool: pool}
}

const createSQL = `
INSERT INTO bids (id, item_id, bidder_id, amount, created_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING seq`

// DISTINCT ON keeps the first row per item in ORDER BY order.
const topByItemsSQL = `
SELECT DISTINCT ON (item_id) id, seq, item_id, bidder_id, amount, created_at
FROM bids
WHERE item_id = ANY($1::uuid[])
ORDER BY item_id, amount DESC, seq ASC`

type bidRow struct {
	ID        uuid.UUID       `db:"id"`
	Seq       int64           `db:"seq"`
	ItemID    uuid.UUID       `db:"item_id"`
	BidderID  uuid.UUID       `db:"bidder_id"`
	Amount    decimal.Decimal `db:"amount"`
	CreatedAt time.Time       `db:"created_at"`
}

func (r bidRow) toDomain() domain.Bid {
	return domain.Bid{
		ID:        r.ID,
		Seq:       r.Seq,
		ItemID:    r.ItemID,
		BidderID:  r.BidderID,
		Amount:    r.Amount,
		CreatedAt: r.CreatedAt,
	}
}

// Create appends b to the ledger and returns it with its sequence number.
func (r *Repo) Create(ctx context.Context, b *domain.Bid) (*domain.Bid, error) {
	out := *b
	err := postgres.QuerierFromCtx(ctx, r.pool).
		QueryRow(ctx, createSQL, b.ID, b.ItemID, b.BidderID, b.Amount, b.CreatedAt).
		Scan(&out.Seq)
	if err != nil {
		return nil, postgres.MapError(err, "bid", b.ID)
	}
	return &out, nil
}

// TopByItems returns the highest bid per item, ties broken by the lowest
// seq. Items without bids are absent.
func (r *Repo) TopByItems(ctx context.Context, itemIDs []uuid.UUID) (map[uuid.UUID]domain.Bid, error) {
	out := make(map[uuid.UUID]domain.Bid, len(itemIDs))
	if len(itemIDs) == 0 {
		return out, nil
	}

	var rows []bidRow
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.pool), &rows, topByItemsSQL, itemIDs); err != nil {
		return nil, postgres.MapError(err, "bids", uuid.Nil)
	}

	for _, row := range rows {
		out[row.ItemID] = row.toDomain()
	}
	return out, nil
}
