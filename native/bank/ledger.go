package bank

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
)

var (
	ErrInsufficientBalance = errors.New("bank: insufficient balance")
	ErrInvalidAmount       = errors.New("bank: invalid amount")
	errNilStore            = errors.New("bank: store not configured")
)

// Ledger is the value-transfer capability consumed by the settlement engine.
// Transfer is atomic per call: on failure no balance is touched.
type Ledger interface {
	BalanceOf(addr [20]byte, asset string) (*big.Int, error)
	Transfer(from, to [20]byte, asset string, amount *big.Int) error
}

// Store abstracts the persistence functionality required by the account
// ledger.
type Store interface {
	KVGet(key []byte, out interface{}) (bool, error)
	KVPut(key []byte, value interface{}) error
}

const balancePrefix = "bank/balance/"

type storedBalance struct {
	Amount *big.Int
}

// AccountLedger tracks fungible balances per (asset, principal) pair in the
// underlying key-value store.
type AccountLedger struct {
	store Store
}

// NewAccountLedger constructs a ledger bound to the provided storage backend.
func NewAccountLedger(store Store) *AccountLedger {
	return &AccountLedger{store: store}
}

// NormalizeAsset canonicalises asset symbols for consistent lookups.
func NormalizeAsset(asset string) (string, error) {
	normalized := strings.ToUpper(strings.TrimSpace(asset))
	if normalized == "" {
		return "", fmt.Errorf("bank: asset symbol required")
	}
	return normalized, nil
}

func balanceKey(asset string, addr [20]byte) []byte {
	key := make([]byte, 0, len(balancePrefix)+len(asset)+1+len(addr))
	key = append(key, balancePrefix...)
	key = append(key, asset...)
	key = append(key, '/')
	key = append(key, addr[:]...)
	return key
}

func (l *AccountLedger) load(asset string, addr [20]byte) (*big.Int, error) {
	stored := new(storedBalance)
	ok, err := l.store.KVGet(balanceKey(asset, addr), stored)
	if err != nil {
		return nil, err
	}
	if !ok || stored.Amount == nil {
		return big.NewInt(0), nil
	}
	return stored.Amount, nil
}

func (l *AccountLedger) save(asset string, addr [20]byte, amount *big.Int) error {
	return l.store.KVPut(balanceKey(asset, addr), &storedBalance{Amount: amount})
}

// BalanceOf returns the balance held by the principal for the given asset.
// Unknown principals hold a zero balance.
func (l *AccountLedger) BalanceOf(addr [20]byte, asset string) (*big.Int, error) {
	if l == nil || l.store == nil {
		return nil, errNilStore
	}
	normalized, err := NormalizeAsset(asset)
	if err != nil {
		return nil, err
	}
	return l.load(normalized, addr)
}

// Transfer moves amount from one principal to another. A zero amount is a
// no-op; a negative amount is rejected. The two balance writes happen only
// after the sufficiency check, so a failed call leaves both accounts intact.
func (l *AccountLedger) Transfer(from, to [20]byte, asset string, amount *big.Int) error {
	if l == nil || l.store == nil {
		return errNilStore
	}
	if amount == nil || amount.Sign() < 0 {
		return ErrInvalidAmount
	}
	if amount.Sign() == 0 {
		return nil
	}
	normalized, err := NormalizeAsset(asset)
	if err != nil {
		return err
	}
	fromBal, err := l.load(normalized, from)
	if err != nil {
		return err
	}
	if fromBal.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	toBal, err := l.load(normalized, to)
	if err != nil {
		return err
	}
	if err := l.save(normalized, from, new(big.Int).Sub(fromBal, amount)); err != nil {
		return err
	}
	return l.save(normalized, to, new(big.Int).Add(toBal, amount))
}

// Mint credits freshly created units to the principal. Reserved for genesis
// provisioning and the development faucet.
func (l *AccountLedger) Mint(to [20]byte, asset string, amount *big.Int) error {
	if l == nil || l.store == nil {
		return errNilStore
	}
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	normalized, err := NormalizeAsset(asset)
	if err != nil {
		return err
	}
	balance, err := l.load(normalized, to)
	if err != nil {
		return err
	}
	return l.save(normalized, to, new(big.Int).Add(balance, amount))
}
