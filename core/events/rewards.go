package events

import (
	"math/big"

	"stablepay/core/types"
	"stablepay/crypto"
)

const (
	// TypeMinterAuthorized marks a principal being granted issuance rights on
	// the reward ledger.
	TypeMinterAuthorized = "rewards.minter_authorized"
	// TypeMinterRevoked marks a principal losing issuance rights on the reward
	// ledger.
	TypeMinterRevoked = "rewards.minter_revoked"
	// TypeRewardCreditsIssued marks reward credits being minted to a principal.
	TypeRewardCreditsIssued = "rewards.credits_issued"
)

// MinterAuthorized records a principal being added to the authorized minter set.
type MinterAuthorized struct {
	Minter [20]byte
}

func (MinterAuthorized) EventType() string { return TypeMinterAuthorized }

func (e MinterAuthorized) Event() *types.Event {
	return &types.Event{Type: TypeMinterAuthorized, Attributes: map[string]string{
		"minter": crypto.MustNewAddress(crypto.PayPrefix, e.Minter[:]).String(),
	}}
}

// MinterRevoked records a principal being removed from the authorized minter set.
type MinterRevoked struct {
	Minter [20]byte
}

func (MinterRevoked) EventType() string { return TypeMinterRevoked }

func (e MinterRevoked) Event() *types.Event {
	return &types.Event{Type: TypeMinterRevoked, Attributes: map[string]string{
		"minter": crypto.MustNewAddress(crypto.PayPrefix, e.Minter[:]).String(),
	}}
}

// RewardCreditsIssued records a successful reward credit mint.
type RewardCreditsIssued struct {
	To     [20]byte
	Amount *big.Int
	Issuer [20]byte
}

func (RewardCreditsIssued) EventType() string { return TypeRewardCreditsIssued }

func (e RewardCreditsIssued) Event() *types.Event {
	return &types.Event{Type: TypeRewardCreditsIssued, Attributes: map[string]string{
		"to":     crypto.MustNewAddress(crypto.PayPrefix, e.To[:]).String(),
		"amount": formatAmount(e.Amount),
		"issuer": crypto.MustNewAddress(crypto.PayPrefix, e.Issuer[:]).String(),
	}}
}
