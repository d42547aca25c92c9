package settlement

import (
	"math/big"
	"testing"

	"stablepay/storage"
	"stablepay/storage/kvstore"
)

func newTestState(t *testing.T) *State {
	t.Helper()
	return NewState(kvstore.New(storage.NewMemDB()))
}

func TestStateAssetRegistry(t *testing.T) {
	state := newTestState(t)

	supported, err := state.AssetSupported("ZUSD")
	if err != nil {
		t.Fatalf("asset lookup: %v", err)
	}
	if supported {
		t.Fatalf("unregistered asset must be unsupported")
	}
	if err := state.SetAssetSupported("zusd", true); err != nil {
		t.Fatalf("register asset: %v", err)
	}
	// Lookups are case-insensitive via symbol normalisation.
	if supported, _ = state.AssetSupported(" ZUSD "); !supported {
		t.Fatalf("expected normalised lookup to succeed")
	}
	if err := state.SetAssetSupported("ZUSD", false); err != nil {
		t.Fatalf("deregister asset: %v", err)
	}
	if supported, _ = state.AssetSupported("ZUSD"); supported {
		t.Fatalf("deregistered asset must be unsupported")
	}
}

func TestStateProcessedSetIsPermanent(t *testing.T) {
	state := newTestState(t)
	var hash [32]byte
	hash[0] = 0xFE

	processed, err := state.TransactionProcessed(hash)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if processed {
		t.Fatalf("fresh hash must not be processed")
	}
	if err := state.MarkTransactionProcessed(hash); err != nil {
		t.Fatalf("mark: %v", err)
	}
	if processed, _ = state.TransactionProcessed(hash); !processed {
		t.Fatalf("marked hash must stay processed")
	}
}

func TestStateUserStatsRoundTrip(t *testing.T) {
	state := newTestState(t)
	var addr [20]byte
	addr[0] = 0x11

	stats, err := state.UserStats(addr)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if stats.TotalVolume.Sign() != 0 || stats.FirstTransferAwarded {
		t.Fatalf("unknown user must start zeroed, got %+v", stats)
	}

	stats.TotalVolume = big.NewInt(1_234_567)
	stats.FirstTransferAwarded = true
	stats.Milestone1Awarded = true
	if err := state.PutUserStats(addr, stats); err != nil {
		t.Fatalf("store: %v", err)
	}
	loaded, err := state.UserStats(addr)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if loaded.TotalVolume.String() != "1234567" {
		t.Fatalf("expected volume 1234567, got %s", loaded.TotalVolume)
	}
	if !loaded.FirstTransferAwarded || !loaded.Milestone1Awarded || loaded.Milestone2Awarded {
		t.Fatalf("unexpected flags %+v", loaded)
	}
}

func TestStateConfigRoundTrip(t *testing.T) {
	state := newTestState(t)
	var recipient [20]byte
	recipient[19] = 0x42

	feeCfg, err := state.FeeConfig()
	if err != nil {
		t.Fatalf("load fee config: %v", err)
	}
	if feeCfg.FeeBps != 0 {
		t.Fatalf("expected zero default fee config, got %+v", feeCfg)
	}
	if err := state.SetFeeConfig(&FeeConfig{FeeBps: 125, Recipient: recipient}); err != nil {
		t.Fatalf("store fee config: %v", err)
	}
	feeCfg, _ = state.FeeConfig()
	if feeCfg.FeeBps != 125 || feeCfg.Recipient != recipient {
		t.Fatalf("unexpected fee config %+v", feeCfg)
	}

	if err := state.SetRewardConfig(&RewardConfig{RatePerVolume: 3}); err != nil {
		t.Fatalf("store reward config: %v", err)
	}
	rewardCfg, _ := state.RewardConfig()
	if rewardCfg.RatePerVolume != 3 {
		t.Fatalf("unexpected reward config %+v", rewardCfg)
	}

	if count, _ := state.SettlementCount(); count != 0 {
		t.Fatalf("expected zero initial count, got %d", count)
	}
	if err := state.SetSettlementCount(7); err != nil {
		t.Fatalf("store count: %v", err)
	}
	if count, _ := state.SettlementCount(); count != 7 {
		t.Fatalf("expected count 7, got %d", count)
	}

	if paused, _ := state.Paused(); paused {
		t.Fatalf("engine must start unpaused")
	}
	if err := state.SetPaused(true); err != nil {
		t.Fatalf("store pause: %v", err)
	}
	if paused, _ := state.Paused(); !paused {
		t.Fatalf("expected paused toggle to persist")
	}
}

func TestStateRoles(t *testing.T) {
	state := newTestState(t)
	addr := []byte("settlement-admin-XY")
	addr = append(addr, 0x00)

	if state.HasRole(RoleSettlementAdmin, addr) {
		t.Fatalf("role must not exist before grant")
	}
	if err := state.GrantRole(RoleSettlementAdmin, addr); err != nil {
		t.Fatalf("grant: %v", err)
	}
	if !state.HasRole(RoleSettlementAdmin, addr) {
		t.Fatalf("granted role must be visible")
	}
	if err := state.RevokeRole(RoleSettlementAdmin, addr); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if state.HasRole(RoleSettlementAdmin, addr) {
		t.Fatalf("revoked role must not be visible")
	}
}
