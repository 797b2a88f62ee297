package config

import (
	"fmt"

	"github.com/heartmarshall/lotbid-backend/internal/service/bidding/pricing"
)

// Validate performs business-rule validation on the loaded configuration and
// fills derived fields. Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535 (got %d)", c.Server.Port)
	}

	if err := c.Bidding.validate(); err != nil {
		return fmt.Errorf("bidding: %w", err)
	}
	if err := c.SoftClose.validate(); err != nil {
		return fmt.Errorf("soft_close: %w", err)
	}
	if err := c.Closer.validate(); err != nil {
		return fmt.Errorf("closer: %w", err)
	}
	if err := c.Events.validate(); err != nil {
		return fmt.Errorf("events: %w", err)
	}

	if c.RateLimit.BidsPerMinute < 0 {
		return fmt.Errorf("rate_limit.bids_per_minute must be >= 0 (got %d)", c.RateLimit.BidsPerMinute)
	}

	return nil
}

func (b *BiddingConfig) validate() error {
	policy, err := pricing.ParsePolicy(b.IncrementTiersRaw)
	if err != nil {
		return fmt.Errorf("increment_tiers: %w", err)
	}
	b.Policy = policy

	if b.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be >= 0 (got %d)", b.MaxRetries)
	}
	if b.RetryBaseDelay <= 0 {
		return fmt.Errorf("retry_base_delay must be > 0 (got %v)", b.RetryBaseDelay)
	}
	return nil
}

func (s *SoftCloseConfig) validate() error {
	if s.WindowSec < 0 {
		return fmt.Errorf("window_sec must be >= 0 (got %d)", s.WindowSec)
	}
	if s.ExtendSec <= 0 {
		return fmt.Errorf("extend_sec must be > 0 (got %d)", s.ExtendSec)
	}
	if s.ExtendLimit < 0 {
		return fmt.Errorf("extend_limit must be >= 0 (got %d)", s.ExtendLimit)
	}
	return nil
}

func (c *CloserConfig) validate() error {
	if c.Interval <= 0 {
		return fmt.Errorf("interval must be > 0 (got %v)", c.Interval)
	}
	if c.BatchSize <= 0 || c.BatchSize > 10000 {
		return fmt.Errorf("batch_size must be between 1 and 10000 (got %d)", c.BatchSize)
	}
	if c.Parallelism <= 0 {
		return fmt.Errorf("parallelism must be > 0 (got %d)", c.Parallelism)
	}
	if c.TriggerSecret != "" && len(c.TriggerSecret) < 16 {
		return fmt.Errorf("trigger_secret must be at least 16 characters when set (got %d)", len(c.TriggerSecret))
	}
	if c.LeaseTTL <= 0 {
		return fmt.Errorf("lease_ttl must be > 0 (got %v)", c.LeaseTTL)
	}
	return nil
}

func (e *EventsConfig) validate() error {
	if e.QueueSize <= 0 {
		return fmt.Errorf("queue_size must be > 0 (got %d)", e.QueueSize)
	}
	if e.Workers <= 0 {
		return fmt.Errorf("workers must be > 0 (got %d)", e.Workers)
	}
	return nil
}
