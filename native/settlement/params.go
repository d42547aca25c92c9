package settlement

const (
	// FeeBpsDenominator defines the scaling factor used for basis point math
	// when computing settlement fees.
	FeeBpsDenominator = 10_000
	// MaxFeeBps caps the configurable fee rate at 3%.
	MaxFeeBps = 300
	// RewardScale normalises the stable unit's 6-decimal precision so that a
	// reward rate of 1 pays one credit per $100 of volume.
	RewardScale = 100_000_000
	// Milestone1Volume is the cumulative volume threshold for the first
	// one-time bonus ($1,000 in 6-decimal base units).
	Milestone1Volume = 1_000_000_000
	// Milestone2Volume is the cumulative volume threshold for the second
	// one-time bonus ($10,000 in 6-decimal base units).
	Milestone2Volume = 10_000_000_000
	// FirstTransferBonus is the fixed credit bonus for a user's first
	// settlement.
	FirstTransferBonus = 10
	// Milestone1Bonus is the fixed credit bonus paid when crossing
	// Milestone1Volume.
	Milestone1Bonus = 50
	// Milestone2Bonus is the fixed credit bonus paid when crossing
	// Milestone2Volume.
	Milestone2Bonus = 250
)

// RoleSettlementAdmin gates every administrative operation on the engine.
const RoleSettlementAdmin = "ROLE_SETTLEMENT_ADMIN"

const moduleName = "settlement"
