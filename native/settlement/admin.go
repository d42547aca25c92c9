package settlement

import (
	"stablepay/core/events"
	"stablepay/native/bank"
	nativecommon "stablepay/native/common"
)

func (e *Engine) requireAdmin(caller [20]byte) error {
	if e.state == nil {
		return errNilState
	}
	if err := nativecommon.RequireRole(e.state, RoleSettlementAdmin, caller); err != nil {
		return ErrUnauthorized
	}
	return nil
}

// SetFeeRate updates the fee rate in basis points. Rates above MaxFeeBps are
// rejected and the stored configuration is left unchanged.
func (e *Engine) SetFeeRate(caller [20]byte, bps uint32) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.requireAdmin(caller); err != nil {
		return err
	}
	if bps > MaxFeeBps {
		return ErrFeeRateTooHigh
	}
	cfg, err := e.state.FeeConfig()
	if err != nil {
		return err
	}
	old := cfg.FeeBps
	cfg.FeeBps = bps
	if err := e.state.SetFeeConfig(cfg); err != nil {
		return err
	}
	e.emit(events.FeeRateUpdated{OldBps: old, NewBps: bps})
	return nil
}

// SetFeeRecipient updates the principal that collects service fees.
func (e *Engine) SetFeeRecipient(caller, recipient [20]byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.requireAdmin(caller); err != nil {
		return err
	}
	if recipient == ([20]byte{}) {
		return ErrInvalidFeeRecipient
	}
	cfg, err := e.state.FeeConfig()
	if err != nil {
		return err
	}
	old := cfg.Recipient
	cfg.Recipient = recipient
	if err := e.state.SetFeeConfig(cfg); err != nil {
		return err
	}
	e.emit(events.FeeRecipientUpdated{Old: old, New: recipient})
	return nil
}

// SetRewardRate updates the volume reward rate.
func (e *Engine) SetRewardRate(caller [20]byte, rate uint32) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.requireAdmin(caller); err != nil {
		return err
	}
	cfg, err := e.state.RewardConfig()
	if err != nil {
		return err
	}
	old := cfg.RatePerVolume
	cfg.RatePerVolume = rate
	if err := e.state.SetRewardConfig(cfg); err != nil {
		return err
	}
	e.emit(events.RewardRateUpdated{OldRate: old, NewRate: rate})
	return nil
}

// AddAsset registers the asset for settlement.
func (e *Engine) AddAsset(caller [20]byte, asset string) error {
	return e.setAsset(caller, asset, true)
}

// RemoveAsset removes the asset from the registry. Settlements already
// processed in the asset are unaffected.
func (e *Engine) RemoveAsset(caller [20]byte, asset string) error {
	return e.setAsset(caller, asset, false)
}

func (e *Engine) setAsset(caller [20]byte, asset string, supported bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.requireAdmin(caller); err != nil {
		return err
	}
	normalized, err := bank.NormalizeAsset(asset)
	if err != nil {
		return err
	}
	if err := e.state.SetAssetSupported(normalized, supported); err != nil {
		return err
	}
	e.emit(events.AssetUpdated{Asset: normalized, Supported: supported})
	return nil
}

// Pause blocks mutating settlements until Unpause is called. Estimates and
// queries remain available.
func (e *Engine) Pause(caller [20]byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.requireAdmin(caller); err != nil {
		return err
	}
	paused, err := e.state.Paused()
	if err != nil {
		return err
	}
	if paused {
		return nil
	}
	if err := e.state.SetPaused(true); err != nil {
		return err
	}
	e.emit(events.EnginePaused{Caller: caller})
	return nil
}

// Unpause re-enables mutating settlements.
func (e *Engine) Unpause(caller [20]byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.requireAdmin(caller); err != nil {
		return err
	}
	paused, err := e.state.Paused()
	if err != nil {
		return err
	}
	if !paused {
		return nil
	}
	if err := e.state.SetPaused(false); err != nil {
		return err
	}
	e.emit(events.EngineResumed{Caller: caller})
	return nil
}

// SetRewarder swaps the reward collaborator. The swap is refused unless the
// replacement has already authorized the engine's custody principal, so
// issuance rights can never be lost mid-lifetime. Settlements are fully
// synchronous under the same lock, so no in-flight call can observe the swap.
func (e *Engine) SetRewarder(caller [20]byte, rewarder Rewarder) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.requireAdmin(caller); err != nil {
		return err
	}
	if rewarder == nil {
		return errNilRewarder
	}
	authorized, err := rewarder.IsAuthorized(e.custody)
	if err != nil {
		return err
	}
	if !authorized {
		return ErrRewarderNotAuthorized
	}
	e.rewarder = rewarder
	return nil
}
