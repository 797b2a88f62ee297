// Package lot implements the Lot repository using PostgreSQL: soft-close
// extensions and the closer's selection and finalization.
package lot

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	postgres "github.com/heartmarshall/lotbid-backend/internal/adapter/postgres"
	"github.com/heartmarshall/lotbid-backend/internal/domain"
)

// Repo provides lot persistence backed by PostgreSQL.
type Repo struct {
	pool postgres.Querier
}

// New creates a new lot repository.
func New(pool postgres.Querier) *Repo {
	return &Repo{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

const extendSQL = `
UPDATE lots
SET closes_at = $4, extended_count = extended_count + 1,
    last_extended_at = $5, updated_at = now()
WHERE id = $1 AND status = 'live' AND closes_at = $2 AND extended_count = $3`

const lockExpiredSQL = `
SELECT id, store_id, auction_id, status, closes_at, extended_count,
       last_extended_at, closed_at, created_at, updated_at
FROM lots
WHERE id = $1 AND status = 'live' AND closes_at <= $2
FOR UPDATE`

const markClosedSQL = `
UPDATE lots SET status = $2, closed_at = $3, updated_at = now()
WHERE id = $1 AND status = 'live'`

type lotRow struct {
	ID             uuid.UUID  `db:"id"`
	StoreID        uuid.UUID  `db:"store_id"`
	AuctionID      *uuid.UUID `db:"auction_id"`
	Status         string     `db:"status"`
	ClosesAt       *time.Time `db:"closes_at"`
	ExtendedCount  int        `db:"extended_count"`
	LastExtendedAt *time.Time `db:"last_extended_at"`
	ClosedAt       *time.Time `db:"closed_at"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
}

func (r lotRow) toDomain() domain.Lot {
	return domain.Lot{
		ID:             r.ID,
		StoreID:        r.StoreID,
		AuctionID:      r.AuctionID,
		Status:         domain.LotStatus(r.Status),
		ClosesAt:       r.ClosesAt,
		ExtendedCount:  r.ExtendedCount,
		LastExtendedAt: r.LastExtendedAt,
		ClosedAt:       r.ClosedAt,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

// Extend applies a soft-close extension. domain.ErrConflict when the lot no
// longer has the expected closing time and counter, or is not live.
func (r *Repo) Extend(ctx context.Context, ext domain.LotExtension) error {
	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, extendSQL,
		ext.LotID, ext.ExpectedClosesAt, ext.ExpectedCount, ext.NewClosesAt, ext.ExtendedAt,
	)
	if err != nil {
		return postgres.MapError(err, "lot", ext.LotID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("lot %s: state changed: %w", ext.LotID, domain.ErrConflict)
	}
	return nil
}

// ListExpired returns ids of live lots whose closing time is <= now,
// oldest first.
func (r *Repo) ListExpired(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error) {
	query, args, err := psql.Select("id").
		From("lots").
		Where(squirrel.Eq{"status": string(domain.LotStatusLive)}).
		Where(squirrel.LtOrEq{"closes_at": now}).
		OrderBy("closes_at ASC", "id ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list expired query: %w", err)
	}

	var ids []uuid.UUID
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.pool), &ids, query, args...); err != nil {
		return nil, fmt.Errorf("list expired lots: %w", err)
	}
	return ids, nil
}

// LockExpired locks the lot if it is still live and expired at now.
// domain.ErrNotFound otherwise.
func (r *Repo) LockExpired(ctx context.Context, lotID uuid.UUID, now time.Time) (*domain.Lot, error) {
	var row lotRow
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.pool), &row, lockExpiredSQL, lotID, now); err != nil {
		return nil, postgres.MapError(err, "lot", lotID)
	}
	l := row.toDomain()
	return &l, nil
}

// MarkClosed moves a live lot to a terminal status. domain.ErrConflict when
// the lot is no longer live.
func (r *Repo) MarkClosed(ctx context.Context, lotID uuid.UUID, status domain.LotStatus, closedAt time.Time) error {
	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, markClosedSQL, lotID, string(status), closedAt)
	if err != nil {
		return postgres.MapError(err, "lot", lotID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("lot %s: no longer live: %w", lotID, domain.ErrConflict)
	}
	return nil
}
