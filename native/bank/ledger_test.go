package bank

import (
	"errors"
	"math/big"
	"testing"

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

func newTestLedger(t *testing.T) *AccountLedger {
	t.Helper()
	return NewAccountLedger(kvstore.New(storage.NewMemDB()))
}

func TestTransferMovesFunds(t *testing.T) {
	ledger := newTestLedger(t)
	alice := testAddr(0x01)
	bob := testAddr(0x02)

	if err := ledger.Mint(alice, "ZUSD", big.NewInt(1000)); err != nil {
		t.Fatalf("mint: %v", err)
	}
	if err := ledger.Transfer(alice, bob, "zusd", big.NewInt(400)); err != nil {
		t.Fatalf("transfer: %v", err)
	}
	aliceBal, _ := ledger.BalanceOf(alice, "ZUSD")
	bobBal, _ := ledger.BalanceOf(bob, "ZUSD")
	if aliceBal.String() != "600" || bobBal.String() != "400" {
		t.Fatalf("unexpected balances %s/%s", aliceBal, bobBal)
	}
}

func TestTransferInsufficientLeavesBalancesIntact(t *testing.T) {
	ledger := newTestLedger(t)
	alice := testAddr(0x01)
	bob := testAddr(0x02)

	if err := ledger.Mint(alice, "ZUSD", big.NewInt(100)); err != nil {
		t.Fatalf("mint: %v", err)
	}
	err := ledger.Transfer(alice, bob, "ZUSD", big.NewInt(101))
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
	aliceBal, _ := ledger.BalanceOf(alice, "ZUSD")
	bobBal, _ := ledger.BalanceOf(bob, "ZUSD")
	if aliceBal.String() != "100" || bobBal.Sign() != 0 {
		t.Fatalf("failed transfer must not touch balances, got %s/%s", aliceBal, bobBal)
	}
}

func TestTransferZeroIsNoop(t *testing.T) {
	ledger := newTestLedger(t)
	alice := testAddr(0x01)
	bob := testAddr(0x02)

	if err := ledger.Transfer(alice, bob, "ZUSD", big.NewInt(0)); err != nil {
		t.Fatalf("zero transfer: %v", err)
	}
	if err := ledger.Transfer(alice, bob, "ZUSD", big.NewInt(-1)); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for negative, got %v", err)
	}
	if err := ledger.Transfer(alice, bob, "ZUSD", nil); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for nil, got %v", err)
	}
}

func TestBalancesAreSegmentedByAsset(t *testing.T) {
	ledger := newTestLedger(t)
	alice := testAddr(0x01)

	if err := ledger.Mint(alice, "ZUSD", big.NewInt(50)); err != nil {
		t.Fatalf("mint: %v", err)
	}
	other, _ := ledger.BalanceOf(alice, "XUSD")
	if other.Sign() != 0 {
		t.Fatalf("expected empty XUSD balance, got %s", other)
	}
}

func TestFaucetDripCap(t *testing.T) {
	ledger := newTestLedger(t)
	faucet, err := NewFaucet(ledger, "zusd", big.NewInt(1_000_000))
	if err != nil {
		t.Fatalf("faucet: %v", err)
	}
	alice := testAddr(0x01)

	if err := faucet.Drip(alice, big.NewInt(1_000_000)); err != nil {
		t.Fatalf("drip at cap: %v", err)
	}
	if err := faucet.Drip(alice, big.NewInt(1_000_001)); !errors.Is(err, ErrDripTooLarge) {
		t.Fatalf("expected ErrDripTooLarge, got %v", err)
	}
	balance, _ := ledger.BalanceOf(alice, "ZUSD")
	if balance.String() != "1000000" {
		t.Fatalf("expected balance 1000000, got %s", balance)
	}
}

func TestParseTxHash(t *testing.T) {
	ref := "0xabcdef0011223344556677889900aabbccddeeff00112233445566778899aabb"
	hash, err := ParseTxHash(ref)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if hash[0] != 0xab {
		t.Fatalf("unexpected first byte %x", hash[0])
	}
	if _, err := ParseTxHash(""); err == nil {
		t.Fatalf("empty reference must fail")
	}
	if _, err := ParseTxHash("0x1234"); err == nil {
		t.Fatalf("short reference must fail")
	}
	if _, err := ParseTxHash("zz" + ref[4:]); err == nil {
		t.Fatalf("non-hex reference must fail")
	}
}
