package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Auction is the owning container for lots. From the bidding engine's point
// of view it is read-only: it carries the status gate and the soft-close
// settings its lots inherit. Nil soft-close numbers fall back to engine
// defaults.
type Auction struct {
	ID                   uuid.UUID
	Status               AuctionStatus
	SoftCloseEnabled     bool
	SoftCloseWindowSec   *int
	SoftCloseExtendSec   *int
	SoftCloseExtendLimit *int
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Lot is a set of items closing at a single timestamp.
type Lot struct {
	ID             uuid.UUID
	StoreID        uuid.UUID
	AuctionID      *uuid.UUID
	Status         LotStatus
	ClosesAt       *time.Time
	ExtendedCount  int
	LastExtendedAt *time.Time
	ClosedAt       *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsOpenAt reports whether the lot accepts bids at now.
func (l *Lot) IsOpenAt(now time.Time) bool {
	return l.Status == LotStatusLive && l.ClosesAt != nil && now.Before(*l.ClosesAt)
}

// Item is a single auctioned thing inside a lot.
type Item struct {
	ID           uuid.UUID
	LotID        uuid.UUID
	Title        string
	StartPrice   decimal.Decimal
	CurrentPrice *decimal.Decimal
	ReservePrice *decimal.Decimal
	WinningBidID *uuid.UUID
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Price returns the price the next bid is validated against.
func (i *Item) Price() decimal.Decimal {
	if i.CurrentPrice != nil {
		return *i.CurrentPrice
	}
	return i.StartPrice
}

// MeetsReserve reports whether amount is high enough to sell the item.
func (i *Item) MeetsReserve(amount decimal.Decimal) bool {
	if i.ReservePrice == nil {
		return true
	}
	return amount.GreaterThanOrEqual(*i.ReservePrice)
}

// Bid is an immutable ledger record. Seq orders bids by commit.
type Bid struct {
	ID        uuid.UUID
	Seq       int64
	ItemID    uuid.UUID
	BidderID  uuid.UUID
	Amount    decimal.Decimal
	CreatedAt time.Time
}

// BidTarget is the consistent snapshot a bid is evaluated against: the item,
// its lot and, when present, the governing auction.
type BidTarget struct {
	Item    Item
	Lot     Lot
	Auction *Auction
}

// LotExtension describes a soft-close extension write. The Expected fields
// guard the update so that it applies only to the state that was evaluated.
type LotExtension struct {
	LotID            uuid.UUID
	ExpectedClosesAt time.Time
	ExpectedCount    int
	NewClosesAt      time.Time
	ExtendedAt       time.Time
}

// BidReceipt is returned for a committed bid.
type BidReceipt struct {
	Bid           Bid
	LotID         uuid.UUID
	PreviousPrice decimal.Decimal
	CurrentPrice  decimal.Decimal
	NextMinimum   decimal.Decimal
	ClosesAt      time.Time
	Extended      bool
	ExtendedCount int
}
