package events

import (
	"math/big"
	"strings"
	"testing"
	"time"
)

func TestSettlementCompletedAttributes(t *testing.T) {
	var sender, recipient [20]byte
	sender[0] = 0x01
	recipient[0] = 0x02
	var hash [32]byte
	hash[31] = 0xFF

	evt := SettlementCompleted{
		Sender:    sender,
		Recipient: recipient,
		Asset:     "zusd",
		Delivered: big.NewInt(99_500000),
		Fee:       big.NewInt(500000),
		TxHash:    hash,
		Timestamp: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}.Event()

	if evt.Type != TypeSettlementCompleted {
		t.Fatalf("unexpected type %q", evt.Type)
	}
	if evt.Attributes["asset"] != "ZUSD" {
		t.Fatalf("asset must be normalised, got %q", evt.Attributes["asset"])
	}
	if evt.Attributes["delivered"] != "99500000" || evt.Attributes["fee"] != "500000" {
		t.Fatalf("unexpected amounts %q/%q", evt.Attributes["delivered"], evt.Attributes["fee"])
	}
	if !strings.HasPrefix(evt.Attributes["txHash"], "0x") {
		t.Fatalf("tx hash must be hex encoded, got %q", evt.Attributes["txHash"])
	}
	if !strings.HasPrefix(evt.Attributes["sender"], "spay1") {
		t.Fatalf("sender must be bech32 encoded, got %q", evt.Attributes["sender"])
	}
	if evt.Attributes["timestamp"] != "2025-06-01T12:00:00Z" {
		t.Fatalf("unexpected timestamp %q", evt.Attributes["timestamp"])
	}
}

func TestRewardsEarnedAttributes(t *testing.T) {
	var user [20]byte
	user[0] = 0x03

	evt := RewardsEarned{
		User:            user,
		VolumeReward:    big.NewInt(10),
		MilestoneReward: big.NewInt(60),
		Total:           big.NewInt(70),
	}.Event()

	if evt.Type != TypeRewardsEarned {
		t.Fatalf("unexpected type %q", evt.Type)
	}
	if evt.Attributes["volumeReward"] != "10" || evt.Attributes["milestoneReward"] != "60" || evt.Attributes["total"] != "70" {
		t.Fatalf("unexpected attributes %v", evt.Attributes)
	}
}

func TestRecorderCapturesInOrder(t *testing.T) {
	recorder := &Recorder{}
	recorder.Emit(FeeRateUpdated{OldBps: 50, NewBps: 100})
	recorder.Emit(AssetUpdated{Asset: "ZUSD", Supported: true})
	recorder.Emit(nil)

	if len(recorder.Events) != 2 {
		t.Fatalf("expected two events, got %d", len(recorder.Events))
	}
	if recorder.Events[0].EventType() != TypeFeeRateUpdated {
		t.Fatalf("unexpected first event %q", recorder.Events[0].EventType())
	}
	if recorder.Events[1].EventType() != TypeAssetUpdated {
		t.Fatalf("unexpected second event %q", recorder.Events[1].EventType())
	}
}
