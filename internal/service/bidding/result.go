package bidding

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MinimumBidQuote is the live minimum-bid hint for an item.
type MinimumBidQuote struct {
	ItemID           uuid.UUID
	CurrentPrice     decimal.Decimal
	MinimumIncrement decimal.Decimal
	MinimumNextBid   decimal.Decimal
	ClosesAt         *time.Time
	Open             bool
}

// PriceQuote is the pure policy answer for an arbitrary price.
type PriceQuote struct {
	Price            decimal.Decimal
	MinimumIncrement decimal.Decimal
	MinimumNextBid   decimal.Decimal
}
