// Package softclose decides whether a bid arriving near a lot's closing time
// pushes that closing time forward (anti-sniping).
package softclose

import (
	"time"

	"github.com/heartmarshall/lotbid-backend/internal/domain"
)

// Config is the effective soft-close configuration for one lot.
type Config struct {
	Enabled     bool
	Window      time.Duration
	Extend      time.Duration
	ExtendLimit int
}

// Defaults fill the soft-close numbers an auction leaves unset.
type Defaults struct {
	Window      time.Duration
	Extend      time.Duration
	ExtendLimit int
}

// Decision is the calculator's output. NewClosesAt equals the input closing
// time when ShouldExtend is false.
type Decision struct {
	ShouldExtend bool
	NewClosesAt  time.Time
}

// Resolve builds the effective configuration for a lot. A lot without a
// governing auction gets a disabled configuration (hard close) that still
// carries the default extension limit for invariant checks.
func Resolve(auction *domain.Auction, def Defaults) Config {
	cfg := Config{
		Window:      def.Window,
		Extend:      def.Extend,
		ExtendLimit: def.ExtendLimit,
	}
	if auction == nil {
		return cfg
	}

	cfg.Enabled = auction.SoftCloseEnabled
	if auction.SoftCloseWindowSec != nil {
		cfg.Window = time.Duration(*auction.SoftCloseWindowSec) * time.Second
	}
	if auction.SoftCloseExtendSec != nil {
		cfg.Extend = time.Duration(*auction.SoftCloseExtendSec) * time.Second
	}
	if auction.SoftCloseExtendLimit != nil {
		cfg.ExtendLimit = *auction.SoftCloseExtendLimit
	}
	return cfg
}

// Calculate extends iff soft close is enabled, the time left until closesAt
// is within the window, and the lot has extensions left. A nil cfg means no
// governing auction and never extends.
//
// closesAt and extendedCount must come from the same transaction that will
// write the result.
func Calculate(closesAt, now time.Time, extendedCount int, cfg *Config) Decision {
	unchanged := Decision{NewClosesAt: closesAt}

	if cfg == nil || !cfg.Enabled || cfg.Extend <= 0 {
		return unchanged
	}

	remaining := max(0, closesAt.Sub(now))
	if remaining > cfg.Window {
		return unchanged
	}
	if extendedCount >= cfg.ExtendLimit {
		return unchanged
	}

	return Decision{
		ShouldExtend: true,
		NewClosesAt:  closesAt.Add(cfg.Extend),
	}
}
