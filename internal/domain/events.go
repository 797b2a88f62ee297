package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventType names a domain event emitted after a commit.
type EventType string

const (
	EventBidPlaced   EventType = "bid.placed"
	EventLotExtended EventType = "lot.extended"
	EventLotClosed   EventType = "lot.closed"
)

// Event is implemented by every domain event. Key identifies the aggregate
// the event belongs to (item for bids, lot for lot events).
type Event interface {
	Type() EventType
	Key() uuid.UUID
	OccurredAt() time.Time
}

// BidPlacedEvent is emitted for every committed bid.
type BidPlacedEvent struct {
	BidID         uuid.UUID       `json:"bid_id"`
	ItemID        uuid.UUID       `json:"item_id"`
	LotID         uuid.UUID       `json:"lot_id"`
	BidderID      uuid.UUID       `json:"bidder_id"`
	Amount        decimal.Decimal `json:"amount"`
	PreviousPrice decimal.Decimal `json:"previous_price"`
	NextMinimum   decimal.Decimal `json:"next_minimum"`
	PlacedAt      time.Time       `json:"placed_at"`
}

func (e BidPlacedEvent) Type() EventType       { return EventBidPlaced }
func (e BidPlacedEvent) Key() uuid.UUID        { return e.ItemID }
func (e BidPlacedEvent) OccurredAt() time.Time { return e.PlacedAt }

// LotExtendedEvent is emitted when soft close pushes a lot's closing time.
type LotExtendedEvent struct {
	LotID         uuid.UUID `json:"lot_id"`
	ItemID        uuid.UUID `json:"item_id"`
	ClosesAt      time.Time `json:"closes_at"`
	ExtendedCount int       `json:"extended_count"`
	ExtendedAt    time.Time `json:"extended_at"`
}

func (e LotExtendedEvent) Type() EventType       { return EventLotExtended }
func (e LotExtendedEvent) Key() uuid.UUID        { return e.LotID }
func (e LotExtendedEvent) OccurredAt() time.Time { return e.ExtendedAt }

// ItemResult is the outcome for one item of a closed lot.
type ItemResult struct {
	ItemID       uuid.UUID        `json:"item_id"`
	WinningBidID *uuid.UUID       `json:"winning_bid_id,omitempty"`
	WinnerID     *uuid.UUID       `json:"winner_id,omitempty"`
	Amount       *decimal.Decimal `json:"amount,omitempty"`
	BelowReserve bool             `json:"below_reserve,omitempty"`
}

// LotClosedEvent is emitted when the closer finalizes a lot.
type LotClosedEvent struct {
	LotID    uuid.UUID    `json:"lot_id"`
	Status   LotStatus    `json:"status"`
	Items    []ItemResult `json:"items"`
	ClosedAt time.Time    `json:"closed_at"`
}

func (e LotClosedEvent) Type() EventType       { return EventLotClosed }
func (e LotClosedEvent) Key() uuid.UUID        { return e.LotID }
func (e LotClosedEvent) OccurredAt() time.Time { return e.ClosedAt }

// LotError records a per-lot failure during a sweep.
type LotError struct {
	LotID uuid.UUID
	Err   error
}

func (e LotError) Error() string { return "lot " + e.LotID.String() + ": " + e.Err.Error() }

func (e LotError) Unwrap() error { return e.Err }

// SweepReport summarizes one closer run.
type SweepReport struct {
	Closed  int
	Skipped int
	Errors  []LotError
}
