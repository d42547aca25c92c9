package settlement

import "fmt"

// FeeConfig controls the service fee deducted from every settlement.
//
// The rate is expressed in basis points of the pre-fee amount and is bounded
// by MaxFeeBps at all times.
type FeeConfig struct {
	FeeBps    uint32
	Recipient [20]byte
}

// Clone produces a copy of the configuration.
func (c *FeeConfig) Clone() *FeeConfig {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}

// Validate performs static validation of the fee configuration.
func (c *FeeConfig) Validate() error {
	if c == nil {
		return fmt.Errorf("nil fee config")
	}
	if c.FeeBps > MaxFeeBps {
		return fmt.Errorf("%w: %d > %d", ErrFeeRateTooHigh, c.FeeBps, MaxFeeBps)
	}
	if c.Recipient == ([20]byte{}) {
		return ErrInvalidFeeRecipient
	}
	return nil
}

// RewardConfig controls the volume-proportional reward accrual.
//
// RatePerVolume is multiplied against the pre-fee amount and divided by
// RewardScale; a rate of 1 pays one credit per $100 settled. Milestone
// thresholds and bonuses are fixed module parameters, not configuration.
type RewardConfig struct {
	RatePerVolume uint32
}

// Clone produces a copy of the configuration.
func (c *RewardConfig) Clone() *RewardConfig {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}
