package events

import (
	"strconv"

	"stablepay/core/types"
	"stablepay/crypto"
)

const (
	// TypeFeeRateUpdated marks an administrative fee rate change.
	TypeFeeRateUpdated = "settlement.fee_rate_updated"
	// TypeFeeRecipientUpdated marks an administrative fee recipient change.
	TypeFeeRecipientUpdated = "settlement.fee_recipient_updated"
	// TypeRewardRateUpdated marks an administrative reward rate change.
	TypeRewardRateUpdated = "settlement.reward_rate_updated"
	// TypeAssetUpdated marks an asset being added to or removed from the
	// settlement registry.
	TypeAssetUpdated = "settlement.asset_updated"
	// TypeEnginePaused marks the engine entering the paused state.
	TypeEnginePaused = "settlement.paused"
	// TypeEngineResumed marks the engine leaving the paused state.
	TypeEngineResumed = "settlement.resumed"
)

// FeeRateUpdated captures an old/new fee rate transition in basis points.
type FeeRateUpdated struct {
	OldBps uint32
	NewBps uint32
}

func (FeeRateUpdated) EventType() string { return TypeFeeRateUpdated }

func (e FeeRateUpdated) Event() *types.Event {
	return &types.Event{Type: TypeFeeRateUpdated, Attributes: map[string]string{
		"oldBps": strconv.FormatUint(uint64(e.OldBps), 10),
		"newBps": strconv.FormatUint(uint64(e.NewBps), 10),
	}}
}

// FeeRecipientUpdated captures an old/new fee recipient transition.
type FeeRecipientUpdated struct {
	Old [20]byte
	New [20]byte
}

func (FeeRecipientUpdated) EventType() string { return TypeFeeRecipientUpdated }

func (e FeeRecipientUpdated) Event() *types.Event {
	attrs := map[string]string{
		"new": crypto.MustNewAddress(crypto.PayPrefix, e.New[:]).String(),
	}
	if !zeroBytes(e.Old[:]) {
		attrs["old"] = crypto.MustNewAddress(crypto.PayPrefix, e.Old[:]).String()
	}
	return &types.Event{Type: TypeFeeRecipientUpdated, Attributes: attrs}
}

// RewardRateUpdated captures an old/new volume reward rate transition.
type RewardRateUpdated struct {
	OldRate uint32
	NewRate uint32
}

func (RewardRateUpdated) EventType() string { return TypeRewardRateUpdated }

func (e RewardRateUpdated) Event() *types.Event {
	return &types.Event{Type: TypeRewardRateUpdated, Attributes: map[string]string{
		"oldRate": strconv.FormatUint(uint64(e.OldRate), 10),
		"newRate": strconv.FormatUint(uint64(e.NewRate), 10),
	}}
}

// AssetUpdated records a change to the supported asset registry.
type AssetUpdated struct {
	Asset     string
	Supported bool
}

func (AssetUpdated) EventType() string { return TypeAssetUpdated }

func (e AssetUpdated) Event() *types.Event {
	return &types.Event{Type: TypeAssetUpdated, Attributes: map[string]string{
		"asset":     normalizeAsset(e.Asset),
		"supported": strconv.FormatBool(e.Supported),
	}}
}

// EnginePaused records the engine being paused by an administrator.
type EnginePaused struct {
	Caller [20]byte
}

func (EnginePaused) EventType() string { return TypeEnginePaused }

func (e EnginePaused) Event() *types.Event {
	return &types.Event{Type: TypeEnginePaused, Attributes: map[string]string{
		"caller": crypto.MustNewAddress(crypto.PayPrefix, e.Caller[:]).String(),
	}}
}

// EngineResumed records the engine being unpaused by an administrator.
type EngineResumed struct {
	Caller [20]byte
}

func (EngineResumed) EventType() string { return TypeEngineResumed }

func (e EngineResumed) Event() *types.Event {
	return &types.Event{Type: TypeEngineResumed, Attributes: map[string]string{
		"caller": crypto.MustNewAddress(crypto.PayPrefix, e.Caller[:]).String(),
	}}
}
