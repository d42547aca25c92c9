package settlement

import (
	"errors"
	"math/big"
	"sync"
	"time"

	"stablepay/core/events"
	"stablepay/native/bank"
)

// Request captures a single transfer settlement submission. It is ephemeral
// input and never persisted.
type Request struct {
	Sender    [20]byte
	Recipient [20]byte
	Asset     string
	Amount    *big.Int
	TxHash    [32]byte
}

// Rewarder is the reward-issuance capability held by the engine. The concrete
// implementation is the rewards ledger; authorization is checked by principal
// identity, not call origin.
type Rewarder interface {
	Mint(caller, to [20]byte, amount *big.Int) error
	IsAuthorized(addr [20]byte) (bool, error)
}

// Metrics receives settlement outcome observations. All engine call sites
// tolerate a nil implementation.
type Metrics interface {
	SettlementCommitted(asset string, amount, fee *big.Int)
	SettlementRejected(reason string)
	RewardsIssued(total *big.Int)
}

// EngineStats summarises engine-wide counters and current rates.
type EngineStats struct {
	TotalSettlements uint64
	FeeBps           uint32
	RewardRate       uint32
}

// Estimate is the read-only projection of a settlement's outcome.
type Estimate struct {
	Delivered *big.Int
	Fee       *big.Int
	Reward    *big.Int
}

var errNilRewarder = errors.New("settlement: rewarder not configured")

// Engine validates and executes transfer settlements. Every mutating
// operation runs under a single write lock, so a settlement commits or fails
// as one indivisible unit; read-only queries share a read lock and therefore
// never observe a half-updated record.
type Engine struct {
	mu       sync.RWMutex
	state    EngineState
	ledger   bank.Ledger
	rewarder Rewarder
	custody  [20]byte
	emitter  events.Emitter
	metrics  Metrics
	nowFn    func() time.Time
}

// NewEngine creates a settlement engine with a no-op emitter. Callers wire
// state, ledger, and custody before use.
func NewEngine() *Engine {
	return &Engine{
		emitter: events.NoopEmitter{},
		nowFn:   time.Now,
	}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state EngineState) { e.state = state }

// SetLedger configures the value-transfer collaborator.
func (e *Engine) SetLedger(ledger bank.Ledger) { e.ledger = ledger }

// SetCustody configures the engine-held custody principal that funds pass
// through and that reward mints are issued under.
func (e *Engine) SetCustody(addr [20]byte) { e.custody = addr }

// Custody returns the engine-held custody principal.
func (e *Engine) Custody() [20]byte { return e.custody }

// SetEmitter configures the event emitter used by the engine. Passing nil
// resets the emitter to a no-op implementation.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

// SetMetrics configures the metrics sink. A nil sink disables observation.
func (e *Engine) SetMetrics(metrics Metrics) { e.metrics = metrics }

// SetNowFunc overrides the time source used by the engine. Primarily intended
// for tests to provide deterministic timestamps.
func (e *Engine) SetNowFunc(now func() time.Time) {
	if now == nil {
		e.nowFn = time.Now
		return
	}
	e.nowFn = now
}

func (e *Engine) emit(evt events.Event) {
	if e == nil || e.emitter == nil || evt == nil {
		return
	}
	e.emitter.Emit(evt)
}

func (e *Engine) now() time.Time {
	if e == nil || e.nowFn == nil {
		return time.Now()
	}
	return e.nowFn()
}

func (e *Engine) rejected(reason string) {
	if e.metrics != nil {
		e.metrics.SettlementRejected(reason)
	}
}

// FeeForAmount computes the service fee and delivered amount for the supplied
// basis point rate: fee = floor(amount * bps / 10000), delivered = amount -
// fee. Both the settlement and estimate paths go through here so client
// projections can never diverge from actual outcomes.
func FeeForAmount(amount *big.Int, feeBps uint32) (fee, delivered *big.Int) {
	fee = new(big.Int).Mul(amount, new(big.Int).SetUint64(uint64(feeBps)))
	fee = fee.Quo(fee, big.NewInt(FeeBpsDenominator))
	delivered = new(big.Int).Sub(amount, fee)
	return fee, delivered
}

// rewardProjection captures the reward a settlement of the given pre-fee
// amount would earn for a user with the supplied (pre-settlement) stats.
type rewardProjection struct {
	Volume    *big.Int
	Milestone *big.Int
	First     bool
	M1        bool
	M2        bool
}

func (p rewardProjection) total() *big.Int {
	return new(big.Int).Add(p.Volume, p.Milestone)
}

func projectReward(cfg *RewardConfig, stats *UserStats, amount *big.Int) rewardProjection {
	proj := rewardProjection{Volume: big.NewInt(0), Milestone: big.NewInt(0)}
	if cfg != nil && cfg.RatePerVolume > 0 {
		volume := new(big.Int).Mul(amount, new(big.Int).SetUint64(uint64(cfg.RatePerVolume)))
		proj.Volume = volume.Quo(volume, big.NewInt(RewardScale))
	}
	newTotal := new(big.Int).Add(stats.TotalVolume, amount)
	milestone := new(big.Int)
	if !stats.FirstTransferAwarded {
		proj.First = true
		milestone.Add(milestone, big.NewInt(FirstTransferBonus))
	}
	if !stats.Milestone1Awarded && newTotal.Cmp(big.NewInt(Milestone1Volume)) >= 0 {
		proj.M1 = true
		milestone.Add(milestone, big.NewInt(Milestone1Bonus))
	}
	if !stats.Milestone2Awarded && newTotal.Cmp(big.NewInt(Milestone2Volume)) >= 0 {
		proj.M2 = true
		milestone.Add(milestone, big.NewInt(Milestone2Bonus))
	}
	proj.Milestone = milestone
	return proj
}

// Settle validates and executes the transfer request, returning the delivered
// and fee amounts. The call either fully commits or fully fails: a failed
// funds movement unwinds every applied leg and leaves no engine state behind.
// Once the transaction identifier is recorded the settlement is irreversible.
func (e *Engine) Settle(req Request) (*big.Int, *big.Int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == nil {
		return nil, nil, errNilState
	}
	if e.ledger == nil {
		return nil, nil, errNilLedger
	}

	asset, err := bank.NormalizeAsset(req.Asset)
	if err != nil {
		e.rejected("asset")
		return nil, nil, ErrAssetNotSupported
	}
	supported, err := e.state.AssetSupported(asset)
	if err != nil {
		return nil, nil, err
	}
	if !supported {
		e.rejected("asset")
		return nil, nil, ErrAssetNotSupported
	}
	if req.Amount == nil || req.Amount.Sign() <= 0 {
		e.rejected("amount")
		return nil, nil, ErrZeroAmount
	}
	if req.Recipient == ([20]byte{}) {
		e.rejected("recipient")
		return nil, nil, ErrInvalidRecipient
	}
	if req.Recipient == req.Sender {
		e.rejected("recipient")
		return nil, nil, ErrSelfTransfer
	}
	processed, err := e.state.TransactionProcessed(req.TxHash)
	if err != nil {
		return nil, nil, err
	}
	if processed {
		e.rejected("replay")
		return nil, nil, ErrTxProcessed
	}
	balance, err := e.ledger.BalanceOf(req.Sender, asset)
	if err != nil {
		return nil, nil, err
	}
	if balance.Cmp(req.Amount) < 0 {
		e.rejected("funds")
		return nil, nil, ErrInsufficientBalance
	}
	paused, err := e.state.Paused()
	if err != nil {
		return nil, nil, err
	}
	if paused {
		e.rejected("paused")
		return nil, nil, ErrPaused
	}

	feeCfg, err := e.state.FeeConfig()
	if err != nil {
		return nil, nil, err
	}
	fee, delivered := FeeForAmount(req.Amount, feeCfg.FeeBps)

	// Funds movement. Applied legs are unwound in reverse on any failure so
	// a partial settlement can never be observed.
	var undo []func() error
	unwind := func() {
		for i := len(undo) - 1; i >= 0; i-- {
			_ = undo[i]()
		}
	}
	move := func(from, to [20]byte, amount *big.Int) error {
		if err := e.ledger.Transfer(from, to, asset, amount); err != nil {
			return err
		}
		undo = append(undo, func() error {
			return e.ledger.Transfer(to, from, asset, amount)
		})
		return nil
	}
	if err := move(req.Sender, e.custody, req.Amount); err != nil {
		e.rejected("funds")
		if errors.Is(err, bank.ErrInsufficientBalance) {
			return nil, nil, ErrInsufficientBalance
		}
		return nil, nil, err
	}
	if fee.Sign() > 0 {
		if err := move(e.custody, feeCfg.Recipient, fee); err != nil {
			unwind()
			e.rejected("funds")
			return nil, nil, err
		}
	}
	if err := move(e.custody, req.Recipient, delivered); err != nil {
		unwind()
		e.rejected("funds")
		return nil, nil, err
	}

	if err := e.state.MarkTransactionProcessed(req.TxHash); err != nil {
		unwind()
		return nil, nil, err
	}

	// Commit point: the transaction identifier is recorded and the settlement
	// is no longer reversible.
	count, err := e.state.SettlementCount()
	if err != nil {
		return nil, nil, err
	}
	if err := e.state.SetSettlementCount(count + 1); err != nil {
		return nil, nil, err
	}

	stats, err := e.state.UserStats(req.Sender)
	if err != nil {
		return nil, nil, err
	}
	rewardCfg, err := e.state.RewardConfig()
	if err != nil {
		return nil, nil, err
	}
	proj := projectReward(rewardCfg, stats, req.Amount)
	stats.TotalVolume = new(big.Int).Add(stats.TotalVolume, req.Amount)
	if proj.First {
		stats.FirstTransferAwarded = true
	}
	if proj.M1 {
		stats.Milestone1Awarded = true
	}
	if proj.M2 {
		stats.Milestone2Awarded = true
	}
	if err := e.state.PutUserStats(req.Sender, stats); err != nil {
		return nil, nil, err
	}

	if total := proj.total(); total.Sign() > 0 {
		e.issueReward(req.Sender, proj, total)
	}

	e.emit(events.SettlementCompleted{
		Sender:    req.Sender,
		Recipient: req.Recipient,
		Asset:     asset,
		Delivered: new(big.Int).Set(delivered),
		Fee:       new(big.Int).Set(fee),
		TxHash:    req.TxHash,
		Timestamp: e.now(),
	})
	if e.metrics != nil {
		e.metrics.SettlementCommitted(asset, req.Amount, fee)
	}
	return delivered, fee, nil
}

// issueReward mints the computed reward. A mint failure never unwinds the
// surrounding settlement; it degrades to a skip event.
func (e *Engine) issueReward(user [20]byte, proj rewardProjection, total *big.Int) {
	if e.rewarder == nil {
		e.emit(events.RewardSkipped{User: user, Reason: "rewarder_not_configured"})
		return
	}
	if err := e.rewarder.Mint(e.custody, user, total); err != nil {
		e.emit(events.RewardSkipped{User: user, Reason: "mint_failed"})
		return
	}
	e.emit(events.RewardsEarned{
		User:            user,
		VolumeReward:    new(big.Int).Set(proj.Volume),
		MilestoneReward: new(big.Int).Set(proj.Milestone),
		Total:           new(big.Int).Set(total),
	})
	if e.metrics != nil {
		e.metrics.RewardsIssued(total)
	}
}

// EstimateSettlement projects the fee, delivered amount, and reward a
// settlement of the given amount would produce for the user right now. It
// mutates nothing and remains available while the engine is paused.
func (e *Engine) EstimateSettlement(user [20]byte, amount *big.Int) (*Estimate, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.state == nil {
		return nil, errNilState
	}
	if amount == nil || amount.Sign() <= 0 {
		return nil, ErrZeroAmount
	}
	feeCfg, err := e.state.FeeConfig()
	if err != nil {
		return nil, err
	}
	rewardCfg, err := e.state.RewardConfig()
	if err != nil {
		return nil, err
	}
	stats, err := e.state.UserStats(user)
	if err != nil {
		return nil, err
	}
	fee, delivered := FeeForAmount(amount, feeCfg.FeeBps)
	proj := projectReward(rewardCfg, stats, amount)
	return &Estimate{Delivered: delivered, Fee: fee, Reward: proj.total()}, nil
}

// --- Read-only queries ---

// IsAssetSupported reports registry membership for the asset.
func (e *Engine) IsAssetSupported(asset string) (bool, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.state == nil {
		return false, errNilState
	}
	return e.state.AssetSupported(asset)
}

// FeeRate returns the current fee rate in basis points.
func (e *Engine) FeeRate() (uint32, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.state == nil {
		return 0, errNilState
	}
	cfg, err := e.state.FeeConfig()
	if err != nil {
		return 0, err
	}
	return cfg.FeeBps, nil
}

// IsTransactionProcessed reports permanent membership in the processed set.
func (e *Engine) IsTransactionProcessed(hash [32]byte) (bool, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.state == nil {
		return false, errNilState
	}
	return e.state.TransactionProcessed(hash)
}

// UserStats returns the user's cumulative volume and milestone flags.
func (e *Engine) UserStats(user [20]byte) (*UserStats, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.state == nil {
		return nil, errNilState
	}
	stats, err := e.state.UserStats(user)
	if err != nil {
		return nil, err
	}
	return stats.Clone(), nil
}

// Stats returns engine-wide counters and current rates.
func (e *Engine) Stats() (EngineStats, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.state == nil {
		return EngineStats{}, errNilState
	}
	count, err := e.state.SettlementCount()
	if err != nil {
		return EngineStats{}, err
	}
	feeCfg, err := e.state.FeeConfig()
	if err != nil {
		return EngineStats{}, err
	}
	rewardCfg, err := e.state.RewardConfig()
	if err != nil {
		return EngineStats{}, err
	}
	return EngineStats{
		TotalSettlements: count,
		FeeBps:           feeCfg.FeeBps,
		RewardRate:       rewardCfg.RatePerVolume,
	}, nil
}

// Paused reports the engine-wide pause toggle.
func (e *Engine) Paused() (bool, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.state == nil {
		return false, errNilState
	}
	return e.state.Paused()
}
