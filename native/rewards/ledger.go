package rewards

import (
	"math/big"
	"sync"

	"stablepay/core/events"
)

// Store abstracts the persistence functionality required by the reward ledger.
type Store interface {
	KVGet(key []byte, out interface{}) (bool, error)
	KVPut(key []byte, value interface{}) error
}

var (
	minterPrefix  = []byte("rewards/minter/")
	balancePrefix = []byte("rewards/balance/")
)

type storedMinter struct {
	Authorized bool
}

type storedBalance struct {
	Amount *big.Int
}

// Ledger holds reward-credit balances and the set of principals permitted to
// mint them. The administrator is implicitly always authorized.
type Ledger struct {
	mu      sync.RWMutex
	store   Store
	admin   [20]byte
	emitter events.Emitter
}

// NewLedger constructs a reward ledger administered by the supplied principal.
func NewLedger(store Store, admin [20]byte) *Ledger {
	return &Ledger{store: store, admin: admin, emitter: events.NoopEmitter{}}
}

// SetEmitter configures the event emitter used by the ledger. Passing nil
// resets the emitter to a no-op implementation.
func (l *Ledger) SetEmitter(emitter events.Emitter) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if emitter == nil {
		l.emitter = events.NoopEmitter{}
		return
	}
	l.emitter = emitter
}

// Admin returns the administrator principal.
func (l *Ledger) Admin() [20]byte {
	return l.admin
}

func minterKey(addr [20]byte) []byte {
	return append(append([]byte(nil), minterPrefix...), addr[:]...)
}

func balanceKey(addr [20]byte) []byte {
	return append(append([]byte(nil), balancePrefix...), addr[:]...)
}

func (l *Ledger) minterAuthorized(addr [20]byte) (bool, error) {
	stored := new(storedMinter)
	ok, err := l.store.KVGet(minterKey(addr), stored)
	if err != nil {
		return false, err
	}
	return ok && stored.Authorized, nil
}

// IsAuthorized reports whether the principal may mint reward credits. The
// administrator is always authorized.
func (l *Ledger) IsAuthorized(addr [20]byte) (bool, error) {
	if l == nil || l.store == nil {
		return false, ErrNilStore
	}
	if addr == l.admin {
		return true, nil
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.minterAuthorized(addr)
}

// Authorize grants the principal minting rights. Granting an already
// authorized principal is a no-op, not an error.
func (l *Ledger) Authorize(caller, minter [20]byte) error {
	if l == nil || l.store == nil {
		return ErrNilStore
	}
	if caller != l.admin {
		return ErrNotAuthorized
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	authorized, err := l.minterAuthorized(minter)
	if err != nil {
		return err
	}
	if authorized {
		return nil
	}
	if err := l.store.KVPut(minterKey(minter), &storedMinter{Authorized: true}); err != nil {
		return err
	}
	l.emitter.Emit(events.MinterAuthorized{Minter: minter})
	return nil
}

// Revoke removes the principal's minting rights. Revoking a principal that was
// never authorized is a no-op.
func (l *Ledger) Revoke(caller, minter [20]byte) error {
	if l == nil || l.store == nil {
		return ErrNilStore
	}
	if caller != l.admin {
		return ErrNotAuthorized
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	authorized, err := l.minterAuthorized(minter)
	if err != nil {
		return err
	}
	if !authorized {
		return nil
	}
	if err := l.store.KVPut(minterKey(minter), &storedMinter{Authorized: false}); err != nil {
		return err
	}
	l.emitter.Emit(events.MinterRevoked{Minter: minter})
	return nil
}

// BalanceOf returns the reward-credit balance held by the principal.
func (l *Ledger) BalanceOf(addr [20]byte) (*big.Int, error) {
	if l == nil || l.store == nil {
		return nil, ErrNilStore
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	stored := new(storedBalance)
	ok, err := l.store.KVGet(balanceKey(addr), stored)
	if err != nil {
		return nil, err
	}
	if !ok || stored.Amount == nil {
		return big.NewInt(0), nil
	}
	return stored.Amount, nil
}

// Mint credits reward units to the principal. Only authorized minters and the
// administrator may call it; any other caller fails with ErrNotAuthorized and
// no balance changes.
func (l *Ledger) Mint(caller, to [20]byte, amount *big.Int) error {
	if l == nil || l.store == nil {
		return ErrNilStore
	}
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if caller != l.admin {
		authorized, err := l.minterAuthorized(caller)
		if err != nil {
			return err
		}
		if !authorized {
			return ErrNotAuthorized
		}
	}
	stored := new(storedBalance)
	ok, err := l.store.KVGet(balanceKey(to), stored)
	if err != nil {
		return err
	}
	balance := big.NewInt(0)
	if ok && stored.Amount != nil {
		balance = stored.Amount
	}
	updated := new(big.Int).Add(balance, amount)
	if err := l.store.KVPut(balanceKey(to), &storedBalance{Amount: updated}); err != nil {
		return err
	}
	l.emitter.Emit(events.RewardCreditsIssued{To: to, Amount: new(big.Int).Set(amount), Issuer: caller})
	return nil
}
