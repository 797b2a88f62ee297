package pricing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseTiers parses a comma-separated tier table such as
// "9.99:1,24.99:2,*:5". Each entry is ceiling:increment; the ceiling "*"
// marks the unbounded last tier.
func ParseTiers(raw string) ([]Tier, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("tier table is empty")
	}

	parts := strings.Split(raw, ",")
	tiers := make([]Tier, 0, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		ceilingRaw, incrementRaw, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("invalid tier %q: want ceiling:increment", part)
		}

		increment, err := decimal.NewFromString(strings.TrimSpace(incrementRaw))
		if err != nil {
			return nil, fmt.Errorf("invalid increment in %q: %w", part, err)
		}

		tier := Tier{Increment: increment}
		if c := strings.TrimSpace(ceilingRaw); c != "*" {
			ceiling, err := decimal.NewFromString(c)
			if err != nil {
				return nil, fmt.Errorf("invalid ceiling in %q: %w", part, err)
			}
			tier.Ceiling = &ceiling
		}

		tiers = append(tiers, tier)
	}

	return tiers, nil
}

// ParsePolicy parses and validates a tier table in one step.
func ParsePolicy(raw string) (*Policy, error) {
	tiers, err := ParseTiers(raw)
	if err != nil {
		return nil, err
	}
	return NewPolicy(tiers)
}

// String renders the table in the format accepted by ParseTiers.
func (p *Policy) String() string {
	var b strings.Builder
	for i, t := range p.tiers {
		if i > 0 {
			b.WriteByte(',')
		}
		if t.Ceiling == nil {
			b.WriteByte('*')
		} else {
			b.WriteString(t.Ceiling.String())
		}
		b.WriteByte(':')
		b.WriteString(t.Increment.String())
	}
	return b.String()
}
