package rewards

import (
	"errors"
	"math/big"
	"testing"

	"stablepay/core/events"
	"stablepay/storage"
	"stablepay/storage/kvstore"
)

func testAddr(b byte) [20]byte {
	var addr [20]byte
	for i := range addr {
		addr[i] = b
	}
	return addr
}

func newTestLedger(t *testing.T) (*Ledger, *events.Recorder, [20]byte) {
	t.Helper()
	admin := testAddr(0x01)
	ledger := NewLedger(kvstore.New(storage.NewMemDB()), admin)
	recorder := &events.Recorder{}
	ledger.SetEmitter(recorder)
	return ledger, recorder, admin
}

func TestMintRequiresAuthorization(t *testing.T) {
	ledger, _, _ := newTestLedger(t)
	outsider := testAddr(0x22)
	user := testAddr(0x33)

	err := ledger.Mint(outsider, user, big.NewInt(100))
	if !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized, got %v", err)
	}
	balance, err := ledger.BalanceOf(user)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance.Sign() != 0 {
		t.Fatalf("unauthorized mint must not credit, got %s", balance)
	}
}

func TestAdminIsImplicitlyAuthorized(t *testing.T) {
	ledger, recorder, admin := newTestLedger(t)
	user := testAddr(0x33)

	ok, err := ledger.IsAuthorized(admin)
	if err != nil {
		t.Fatalf("authorization check: %v", err)
	}
	if !ok {
		t.Fatalf("administrator must always be authorized")
	}
	if err := ledger.Mint(admin, user, big.NewInt(42)); err != nil {
		t.Fatalf("admin mint: %v", err)
	}
	balance, _ := ledger.BalanceOf(user)
	if balance.String() != "42" {
		t.Fatalf("expected balance 42, got %s", balance)
	}
	if len(recorder.Events) != 1 || recorder.Events[0].EventType() != events.TypeRewardCreditsIssued {
		t.Fatalf("expected a credits issued event, got %#v", recorder.Events)
	}
}

func TestAuthorizedMinterLifecycle(t *testing.T) {
	ledger, recorder, admin := newTestLedger(t)
	minter := testAddr(0x44)
	user := testAddr(0x55)

	if err := ledger.Authorize(admin, minter); err != nil {
		t.Fatalf("authorize: %v", err)
	}
	// Re-authorizing an existing minter is a no-op, not an error, and emits
	// nothing.
	if err := ledger.Authorize(admin, minter); err != nil {
		t.Fatalf("idempotent authorize: %v", err)
	}
	if len(recorder.Events) != 1 {
		t.Fatalf("expected a single authorization event, got %d", len(recorder.Events))
	}

	if err := ledger.Mint(minter, user, big.NewInt(7)); err != nil {
		t.Fatalf("minter mint: %v", err)
	}
	if err := ledger.Mint(minter, user, big.NewInt(3)); err != nil {
		t.Fatalf("second mint: %v", err)
	}
	balance, _ := ledger.BalanceOf(user)
	if balance.String() != "10" {
		t.Fatalf("expected accumulated balance 10, got %s", balance)
	}

	if err := ledger.Revoke(admin, minter); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if err := ledger.Revoke(admin, minter); err != nil {
		t.Fatalf("idempotent revoke: %v", err)
	}
	if err := ledger.Mint(minter, user, big.NewInt(1)); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("revoked minter must not mint, got %v", err)
	}
	if ok, _ := ledger.IsAuthorized(minter); ok {
		t.Fatalf("revoked minter must not be authorized")
	}
}

func TestAuthorizeRequiresAdmin(t *testing.T) {
	ledger, _, _ := newTestLedger(t)
	outsider := testAddr(0x66)
	minter := testAddr(0x77)

	if err := ledger.Authorize(outsider, minter); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized, got %v", err)
	}
	if err := ledger.Revoke(outsider, minter); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized, got %v", err)
	}
}

func TestMintRejectsNonPositiveAmounts(t *testing.T) {
	ledger, _, admin := newTestLedger(t)
	user := testAddr(0x88)

	if err := ledger.Mint(admin, user, nil); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for nil, got %v", err)
	}
	if err := ledger.Mint(admin, user, big.NewInt(0)); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for zero, got %v", err)
	}
	if err := ledger.Mint(admin, user, big.NewInt(-5)); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for negative, got %v", err)
	}
}
