package events

import (
	"encoding/hex"
	"math/big"
	"strings"
	"time"

	"stablepay/core/types"
	"stablepay/crypto"
)

const (
	// TypeSettlementCompleted marks a fully committed transfer settlement.
	TypeSettlementCompleted = "settlement.completed"
	// TypeRewardsEarned records the reward credits issued for a settlement.
	TypeRewardsEarned = "settlement.rewards_earned"
	// TypeRewardSkipped records a settlement whose reward issuance was skipped.
	TypeRewardSkipped = "settlement.reward_skipped"
)

// SettlementCompleted is emitted after funds have moved and the transaction
// identifier has been permanently recorded.
type SettlementCompleted struct {
	Sender    [20]byte
	Recipient [20]byte
	Asset     string
	Delivered *big.Int
	Fee       *big.Int
	TxHash    [32]byte
	Timestamp time.Time
}

func (SettlementCompleted) EventType() string { return TypeSettlementCompleted }

// Event converts the structured payload into a broadcastable event.
func (e SettlementCompleted) Event() *types.Event {
	attrs := map[string]string{}
	if asset := normalizeAsset(e.Asset); asset != "" {
		attrs["asset"] = asset
	}
	attrs["sender"] = crypto.MustNewAddress(crypto.PayPrefix, e.Sender[:]).String()
	attrs["recipient"] = crypto.MustNewAddress(crypto.PayPrefix, e.Recipient[:]).String()
	attrs["delivered"] = formatAmount(e.Delivered)
	attrs["fee"] = formatAmount(e.Fee)
	if !zeroBytes(e.TxHash[:]) {
		attrs["txHash"] = "0x" + strings.ToLower(hex.EncodeToString(e.TxHash[:]))
	}
	if !e.Timestamp.IsZero() {
		attrs["timestamp"] = e.Timestamp.UTC().Format(time.RFC3339)
	}
	return &types.Event{Type: TypeSettlementCompleted, Attributes: attrs}
}

// RewardsEarned summarises the reward credits issued alongside a settlement.
type RewardsEarned struct {
	User            [20]byte
	VolumeReward    *big.Int
	MilestoneReward *big.Int
	Total           *big.Int
}

func (RewardsEarned) EventType() string { return TypeRewardsEarned }

// Event converts the structured payload into a broadcastable event.
func (e RewardsEarned) Event() *types.Event {
	attrs := map[string]string{
		"user":            crypto.MustNewAddress(crypto.PayPrefix, e.User[:]).String(),
		"volumeReward":    formatAmount(e.VolumeReward),
		"milestoneReward": formatAmount(e.MilestoneReward),
		"total":           formatAmount(e.Total),
	}
	return &types.Event{Type: TypeRewardsEarned, Attributes: attrs}
}

// RewardSkipped records why a settlement completed without issuing rewards.
type RewardSkipped struct {
	User   [20]byte
	Reason string
}

func (RewardSkipped) EventType() string { return TypeRewardSkipped }

// Event converts the structured payload into a broadcastable event.
func (e RewardSkipped) Event() *types.Event {
	attrs := map[string]string{
		"user":   crypto.MustNewAddress(crypto.PayPrefix, e.User[:]).String(),
		"reason": e.Reason,
	}
	return &types.Event{Type: TypeRewardSkipped, Attributes: attrs}
}
