package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"stablepay/config"
	"stablepay/core/events"
	"stablepay/crypto"
	"stablepay/native/bank"
	"stablepay/native/rewards"
	"stablepay/native/settlement"
	"stablepay/observability"
	"stablepay/observability/logging"
	"stablepay/storage"
	"stablepay/storage/kvstore"
)

// logEmitter forwards engine events to the structured logger.
type logEmitter struct {
	logger *slog.Logger
}

func (l logEmitter) Emit(evt events.Event) {
	if evt == nil {
		return
	}
	l.logger.Info("event", slog.String("type", evt.EventType()))
}

// resolvePrincipal decodes a configured address, generating an ephemeral one
// when the field is unset so development setups start without key material.
func resolvePrincipal(logger *slog.Logger, name, encoded string) ([20]byte, error) {
	var out [20]byte
	if strings.TrimSpace(encoded) != "" {
		return config.Principal(encoded)
	}
	key, err := crypto.GeneratePrivateKey()
	if err != nil {
		return out, fmt.Errorf("generate %s key: %w", name, err)
	}
	addr := key.PubKey().Address()
	copy(out[:], addr.Bytes())
	logger.Warn("generated ephemeral principal", slog.String("role", name), slog.String("address", addr.String()))
	return out, nil
}

func main() {
	configFile := flag.String("config", "./settled.toml", "Path to the configuration file")
	flag.Parse()

	env := strings.TrimSpace(os.Getenv("SETTLED_ENV"))
	logger := logging.Setup("settled", env)

	cfg, err := config.Load(*configFile)
	if err != nil {
		logger.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	db, err := storage.Open(cfg.StorageBackend, filepath.Join(cfg.DataDir, "state"))
	if err != nil {
		logger.Error("failed to open storage", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	store := kvstore.New(db)
	state := settlement.NewState(store)

	admin, err := resolvePrincipal(logger, "admin", cfg.AdminAddress)
	if err != nil {
		logger.Error("failed to resolve admin", slog.Any("error", err))
		os.Exit(1)
	}
	custody, err := resolvePrincipal(logger, "custody", cfg.CustodyAddress)
	if err != nil {
		logger.Error("failed to resolve custody", slog.Any("error", err))
		os.Exit(1)
	}
	feeRecipient, err := resolvePrincipal(logger, "fee-recipient", cfg.FeeRecipient)
	if err != nil {
		logger.Error("failed to resolve fee recipient", slog.Any("error", err))
		os.Exit(1)
	}

	if err := state.GrantRole(settlement.RoleSettlementAdmin, admin[:]); err != nil {
		logger.Error("failed to grant admin role", slog.Any("error", err))
		os.Exit(1)
	}

	emitter := logEmitter{logger: logger}

	ledger := bank.NewAccountLedger(store)
	rewardLedger := rewards.NewLedger(store, admin)
	rewardLedger.SetEmitter(emitter)
	if err := rewardLedger.Authorize(admin, custody); err != nil {
		logger.Error("failed to authorize custody minter", slog.Any("error", err))
		os.Exit(1)
	}

	engine := settlement.NewEngine()
	engine.SetState(state)
	engine.SetLedger(ledger)
	engine.SetCustody(custody)
	engine.SetEmitter(emitter)
	engine.SetMetrics(observability.Settlement())
	if err := engine.SetRewarder(admin, rewardLedger); err != nil {
		logger.Error("failed to wire rewarder", slog.Any("error", err))
		os.Exit(1)
	}

	if err := engine.SetFeeRecipient(admin, feeRecipient); err != nil {
		logger.Error("failed to set fee recipient", slog.Any("error", err))
		os.Exit(1)
	}
	if err := engine.SetFeeRate(admin, cfg.FeeBps); err != nil {
		logger.Error("failed to set fee rate", slog.Any("error", err))
		os.Exit(1)
	}
	if err := engine.SetRewardRate(admin, cfg.RewardRate); err != nil {
		logger.Error("failed to set reward rate", slog.Any("error", err))
		os.Exit(1)
	}
	for _, asset := range cfg.Assets {
		if err := engine.AddAsset(admin, asset); err != nil {
			logger.Error("failed to register asset", slog.String("asset", asset), slog.Any("error", err))
			os.Exit(1)
		}
	}

	logger.Info("settlement engine ready",
		slog.String("backend", cfg.StorageBackend),
		slog.Int("assets", len(cfg.Assets)),
		slog.Int("feeBps", int(cfg.FeeBps)),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("shutting down", slog.String("signal", sig.String()))
}
