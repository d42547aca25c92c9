package bank

import (
	"errors"
	"math/big"
)

// ErrDripTooLarge is returned when a faucet request exceeds the per-call cap.
var ErrDripTooLarge = errors.New("bank: drip exceeds faucet cap")

// Faucet mints test funds into arbitrary accounts. It exists purely for
// development networks and test fixtures; nothing in the settlement path
// depends on it.
type Faucet struct {
	ledger  *AccountLedger
	asset   string
	dripCap *big.Int
}

// NewFaucet constructs a faucet for the given asset. A nil or non-positive cap
// disables the per-call limit.
func NewFaucet(ledger *AccountLedger, asset string, dripCap *big.Int) (*Faucet, error) {
	normalized, err := NormalizeAsset(asset)
	if err != nil {
		return nil, err
	}
	f := &Faucet{ledger: ledger, asset: normalized}
	if dripCap != nil && dripCap.Sign() > 0 {
		f.dripCap = new(big.Int).Set(dripCap)
	}
	return f, nil
}

// Drip mints the requested amount to the principal, subject to the per-call
// cap.
func (f *Faucet) Drip(to [20]byte, amount *big.Int) error {
	if f == nil || f.ledger == nil {
		return errNilStore
	}
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	if f.dripCap != nil && amount.Cmp(f.dripCap) > 0 {
		return ErrDripTooLarge
	}
	return f.ledger.Mint(to, f.asset, amount)
}
