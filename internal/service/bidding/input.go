package bidding

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/heartmarshall/lotbid-backend/internal/domain"
)

// PlaceBidInput holds the parameters for placing a bid.
type PlaceBidInput struct {
	ItemID   uuid.UUID
	BidderID uuid.UUID
	Amount   decimal.Decimal
}

// Validate checks all fields and collects all errors. Amount rules belong to
// the increment policy and are not checked here.
func (i *PlaceBidInput) Validate() error {
	var errs []domain.FieldError

	if i.ItemID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "item_id", Message: "required"})
	}
	if i.BidderID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "bidder_id", Message: "required"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
