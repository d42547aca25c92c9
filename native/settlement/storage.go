package settlement

import (
	"math/big"

	"stablepay/native/bank"
)

// UserStats consolidates a principal's cumulative volume and one-time
// milestone flags into a single record so replay and milestone reasoning stay
// atomic. TotalVolume only ever increases and each flag flips false to true at
// most once.
type UserStats struct {
	TotalVolume          *big.Int
	FirstTransferAwarded bool
	Milestone1Awarded    bool
	Milestone2Awarded    bool
}

// Clone returns a deep copy to avoid callers mutating shared pointers.
func (s *UserStats) Clone() *UserStats {
	if s == nil {
		return nil
	}
	clone := *s
	if s.TotalVolume != nil {
		clone.TotalVolume = new(big.Int).Set(s.TotalVolume)
	}
	return &clone
}

// Normalize ensures pointer fields are non-nil. The method returns the
// receiver to allow chaining.
func (s *UserStats) Normalize() *UserStats {
	if s == nil {
		return nil
	}
	if s.TotalVolume == nil {
		s.TotalVolume = big.NewInt(0)
	}
	return s
}

// EngineState describes the persistence functionality the settlement engine
// needs from the surrounding state implementation.
type EngineState interface {
	AssetSupported(symbol string) (bool, error)
	SetAssetSupported(symbol string, supported bool) error
	TransactionProcessed(hash [32]byte) (bool, error)
	MarkTransactionProcessed(hash [32]byte) error
	UserStats(addr [20]byte) (*UserStats, error)
	PutUserStats(addr [20]byte, stats *UserStats) error
	SettlementCount() (uint64, error)
	SetSettlementCount(count uint64) error
	Paused() (bool, error)
	SetPaused(paused bool) error
	FeeConfig() (*FeeConfig, error)
	SetFeeConfig(cfg *FeeConfig) error
	RewardConfig() (*RewardConfig, error)
	SetRewardConfig(cfg *RewardConfig) error
	HasRole(role string, addr []byte) bool
}

// Store abstracts the raw key-value functionality backing the engine state.
type Store interface {
	KVGet(key []byte, out interface{}) (bool, error)
	KVPut(key []byte, value interface{}) error
}

var (
	assetPrefix  = []byte("settlement/asset/")
	txPrefix     = []byte("settlement/tx/")
	userPrefix   = []byte("settlement/user/")
	rolePrefix   = []byte("settlement/role/")
	counterKey   = []byte("settlement/count")
	pausedKey    = []byte("settlement/paused")
	feeCfgKey    = []byte("settlement/config/fees")
	rewardCfgKey = []byte("settlement/config/rewards")
)

type storedFlag struct {
	Set bool
}

type storedCounter struct {
	Count uint64
}

type storedUserStats struct {
	TotalVolume          *big.Int
	FirstTransferAwarded bool
	Milestone1Awarded    bool
	Milestone2Awarded    bool
}

type storedFeeConfig struct {
	FeeBps    uint32
	Recipient [20]byte
}

type storedRewardConfig struct {
	RatePerVolume uint32
}

// State is the canonical EngineState implementation over a key-value store.
type State struct {
	store Store
}

// NewState binds engine state to the provided storage backend.
func NewState(store Store) *State {
	return &State{store: store}
}

func prefixedKey(prefix []byte, suffix []byte) []byte {
	key := make([]byte, 0, len(prefix)+len(suffix))
	key = append(key, prefix...)
	key = append(key, suffix...)
	return key
}

func (s *State) getFlag(key []byte) (bool, error) {
	flag := new(storedFlag)
	ok, err := s.store.KVGet(key, flag)
	if err != nil {
		return false, err
	}
	return ok && flag.Set, nil
}

// AssetSupported reports whether the asset is registered for settlement. No
// entry implies unsupported.
func (s *State) AssetSupported(symbol string) (bool, error) {
	normalized, err := bank.NormalizeAsset(symbol)
	if err != nil {
		return false, nil
	}
	return s.getFlag(prefixedKey(assetPrefix, []byte(normalized)))
}

// SetAssetSupported toggles the asset's registry membership.
func (s *State) SetAssetSupported(symbol string, supported bool) error {
	normalized, err := bank.NormalizeAsset(symbol)
	if err != nil {
		return err
	}
	return s.store.KVPut(prefixedKey(assetPrefix, []byte(normalized)), &storedFlag{Set: supported})
}

// TransactionProcessed reports permanent membership in the processed set.
func (s *State) TransactionProcessed(hash [32]byte) (bool, error) {
	return s.getFlag(prefixedKey(txPrefix, hash[:]))
}

// MarkTransactionProcessed inserts the identifier into the processed set.
// There is no removal operation; membership is permanent.
func (s *State) MarkTransactionProcessed(hash [32]byte) error {
	return s.store.KVPut(prefixedKey(txPrefix, hash[:]), &storedFlag{Set: true})
}

// UserStats loads the per-user volume and milestone record. Unknown users
// start with a zeroed record.
func (s *State) UserStats(addr [20]byte) (*UserStats, error) {
	stored := new(storedUserStats)
	ok, err := s.store.KVGet(prefixedKey(userPrefix, addr[:]), stored)
	if err != nil {
		return nil, err
	}
	if !ok {
		return (&UserStats{}).Normalize(), nil
	}
	return (&UserStats{
		TotalVolume:          stored.TotalVolume,
		FirstTransferAwarded: stored.FirstTransferAwarded,
		Milestone1Awarded:    stored.Milestone1Awarded,
		Milestone2Awarded:    stored.Milestone2Awarded,
	}).Normalize(), nil
}

// PutUserStats persists the per-user record.
func (s *State) PutUserStats(addr [20]byte, stats *UserStats) error {
	normalized := stats.Clone().Normalize()
	return s.store.KVPut(prefixedKey(userPrefix, addr[:]), &storedUserStats{
		TotalVolume:          normalized.TotalVolume,
		FirstTransferAwarded: normalized.FirstTransferAwarded,
		Milestone1Awarded:    normalized.Milestone1Awarded,
		Milestone2Awarded:    normalized.Milestone2Awarded,
	})
}

// SettlementCount returns the monotonically increasing settlement counter.
func (s *State) SettlementCount() (uint64, error) {
	counter := new(storedCounter)
	if _, err := s.store.KVGet(counterKey, counter); err != nil {
		return 0, err
	}
	return counter.Count, nil
}

// SetSettlementCount persists the settlement counter.
func (s *State) SetSettlementCount(count uint64) error {
	return s.store.KVPut(counterKey, &storedCounter{Count: count})
}

// Paused reports the engine-wide pause toggle.
func (s *State) Paused() (bool, error) {
	return s.getFlag(pausedKey)
}

// SetPaused persists the engine-wide pause toggle.
func (s *State) SetPaused(paused bool) error {
	return s.store.KVPut(pausedKey, &storedFlag{Set: paused})
}

// FeeConfig loads the stored fee configuration.
func (s *State) FeeConfig() (*FeeConfig, error) {
	stored := new(storedFeeConfig)
	ok, err := s.store.KVGet(feeCfgKey, stored)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &FeeConfig{}, nil
	}
	return &FeeConfig{FeeBps: stored.FeeBps, Recipient: stored.Recipient}, nil
}

// SetFeeConfig persists the fee configuration.
func (s *State) SetFeeConfig(cfg *FeeConfig) error {
	normalized := cfg.Clone()
	if normalized == nil {
		normalized = &FeeConfig{}
	}
	return s.store.KVPut(feeCfgKey, &storedFeeConfig{FeeBps: normalized.FeeBps, Recipient: normalized.Recipient})
}

// RewardConfig loads the stored reward configuration.
func (s *State) RewardConfig() (*RewardConfig, error) {
	stored := new(storedRewardConfig)
	ok, err := s.store.KVGet(rewardCfgKey, stored)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &RewardConfig{}, nil
	}
	return &RewardConfig{RatePerVolume: stored.RatePerVolume}, nil
}

// SetRewardConfig persists the reward configuration.
func (s *State) SetRewardConfig(cfg *RewardConfig) error {
	normalized := cfg.Clone()
	if normalized == nil {
		normalized = &RewardConfig{}
	}
	return s.store.KVPut(rewardCfgKey, &storedRewardConfig{RatePerVolume: normalized.RatePerVolume})
}

func roleKey(role string, addr []byte) []byte {
	key := make([]byte, 0, len(rolePrefix)+len(role)+1+len(addr))
	key = append(key, rolePrefix...)
	key = append(key, role...)
	key = append(key, '/')
	key = append(key, addr...)
	return key
}

// HasRole reports whether the principal has been granted the named role.
func (s *State) HasRole(role string, addr []byte) bool {
	ok, err := s.getFlag(roleKey(role, addr))
	if err != nil {
		return false
	}
	return ok
}

// GrantRole assigns the named role to the principal.
func (s *State) GrantRole(role string, addr []byte) error {
	return s.store.KVPut(roleKey(role, addr), &storedFlag{Set: true})
}

// RevokeRole removes the named role from the principal.
func (s *State) RevokeRole(role string, addr []byte) error {
	return s.store.KVPut(roleKey(role, addr), &storedFlag{Set: false})
}
