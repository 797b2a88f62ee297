// Package pricing implements the tiered minimum-increment policy and the
// validator that checks a proposed bid against an item's current price.
// Everything here is pure and safe for concurrent use.
package pricing

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/heartmarshall/lotbid-backend/internal/domain"
)

// Scale is the currency minor-unit precision (cents).
const Scale int32 = 2

// MaxAmount is the largest amount a NUMERIC(12,2) price column holds.
var MaxAmount = decimal.RequireFromString("9999999999.99")

// Tier maps every price up to and including Ceiling to Increment.
// A nil Ceiling is unbounded and must be last.
type Tier struct {
	Ceiling   *decimal.Decimal
	Increment decimal.Decimal
}

// Policy is an ordered, validated tier table.
type Policy struct {
	tiers []Tier
}

// DefaultTiers returns the stock table (dollars):
// <=9.99 -> 1, <=24.99 -> 2, <=49.99 -> 5, <=99.99 -> 5, <=249.99 -> 10,
// <=499.99 -> 25, <=999.99 -> 50, above -> 100.
func DefaultTiers() []Tier {
	return []Tier{
		bounded("9.99", 1),
		bounded("24.99", 2),
		bounded("49.99", 5),
		bounded("99.99", 5),
		bounded("249.99", 10),
		bounded("499.99", 25),
		bounded("999.99", 50),
		{Increment: decimal.NewFromInt(100)},
	}
}

func bounded(ceiling string, increment int64) Tier {
	c := decimal.RequireFromString(ceiling)
	return Tier{Ceiling: &c, Increment: decimal.NewFromInt(increment)}
}

// NewPolicy validates tiers and builds a Policy. Ceilings must be strictly
// ascending, increments positive, and the last tier unbounded.
func NewPolicy(tiers []Tier) (*Policy, error) {
	if len(tiers) == 0 {
		return nil, errors.New("at least one tier is required")
	}

	for i, t := range tiers {
		if !t.Increment.IsPositive() {
			return nil, fmt.Errorf("tier %d: increment must be > 0 (got %s)", i, t.Increment)
		}

		last := i == len(tiers)-1
		switch {
		case last && t.Ceiling != nil:
			return nil, fmt.Errorf("tier %d: last tier must be unbounded", i)
		case !last && t.Ceiling == nil:
			return nil, fmt.Errorf("tier %d: only the last tier may be unbounded", i)
		}

		if i > 0 && t.Ceiling != nil && !t.Ceiling.GreaterThan(*tiers[i-1].Ceiling) {
			return nil, fmt.Errorf("tier %d: ceiling %s must be greater than %s", i, t.Ceiling, tiers[i-1].Ceiling)
		}
	}

	copied := make([]Tier, len(tiers))
	copy(copied, tiers)
	return &Policy{tiers: copied}, nil
}

// DefaultPolicy returns a Policy built from DefaultTiers.
func DefaultPolicy() *Policy {
	p, err := NewPolicy(DefaultTiers())
	if err != nil {
		panic(fmt.Sprintf("pricing: default tiers are invalid: %v", err))
	}
	return p
}

// Tiers returns a copy of the table.
func (p *Policy) Tiers() []Tier {
	out := make([]Tier, len(p.tiers))
	copy(out, p.tiers)
	return out
}

// MinimumIncrement returns the increment of the first tier whose ceiling is
// >= price. Negative prices are clamped to zero.
func (p *Policy) MinimumIncrement(price decimal.Decimal) decimal.Decimal {
	price = clamp(price)

	for _, t := range p.tiers {
		if t.Ceiling == nil || price.LessThanOrEqual(*t.Ceiling) {
			return t.Increment
		}
	}
	// Unreachable with a validated table: the last tier is unbounded.
	return p.tiers[len(p.tiers)-1].Increment
}

// MinimumNextBid returns price + MinimumIncrement(price), rounded to cents.
func (p *Policy) MinimumNextBid(price decimal.Decimal) decimal.Decimal {
	price = clamp(price)
	return price.Add(p.MinimumIncrement(price)).Round(Scale)
}

// Validate decides whether amount may be bid against currentPrice.
// It returns nil on acceptance and a *domain.BidRejectedError otherwise; the
// rejection always carries the computed minimum. Lot and auction status are
// the caller's concern.
func (p *Policy) Validate(amount, currentPrice decimal.Decimal) error {
	minimum := p.MinimumNextBid(currentPrice)

	if !amount.IsPositive() {
		rej := domain.NewBelowMinimumError(minimum)
		rej.Code = domain.RejectInvalidAmount
		return rej
	}
	if amount.GreaterThan(MaxAmount) {
		return domain.NewAboveMaximumError(MaxAmount, minimum)
	}
	if amount.LessThanOrEqual(currentPrice) || amount.LessThan(minimum) {
		return domain.NewBelowMinimumError(minimum)
	}
	return nil
}

// FromFloat converts a float amount to a decimal, rejecting NaN and ±Inf.
func FromFloat(f float64) (decimal.Decimal, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero, domain.NewValidationError("amount", "must be a finite number")
	}
	return decimal.NewFromFloat(f), nil
}

// RoundAmount rounds an amount to currency minor units.
func RoundAmount(d decimal.Decimal) decimal.Decimal {
	return d.Round(Scale)
}

func clamp(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
