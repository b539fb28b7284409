// Package params holds the immutable, per-maintenance-period snapshot of
// consensus constants referenced throughout the core (spec §6). Loading a
// snapshot from genesis or an on-chain vote is an external collaborator's
// job; this package only defines the shape and the numeric defaults used
// by tests and by cmd/ledgercore-replay.
package params

import "github.com/graphenechain/ledgercore/core/fixedmath"

// Parameters is an immutable snapshot of the chain-wide consensus
// constants and active witness set used by a single maintenance period.
type Parameters struct {
	// ActiveWitnessIDs is the ordered list of witnesses authorized to
	// sign blocks during this period.
	ActiveWitnessIDs []uint64

	// WitnessPayPerBlock is the amount (in the core asset) paid to the
	// signing witness for each block, capped by the remaining witness
	// budget (spec §4.2).
	WitnessPayPerBlock int64

	// BlockIntervalSeconds is the nominal seconds between block slots.
	BlockIntervalSeconds uint32

	// IrreversibleThreshold is the percentage (in the same 100%-basis as
	// HundredPercent) of active witnesses required to confirm a block
	// before it is considered irreversible (spec §4.2).
	IrreversibleThreshold uint32

	// MaxUndoHistory is the maximum head-minus-last-irreversible depth
	// the object store may retain before ApplyBlock fails fatally with
	// ErrUndoHistoryExceeded, unless the skip-undo-check flag is set.
	MaxUndoHistory uint64

	// MaxShareSupply bounds every asset amount and every price leg
	// (spec §4.1). Must fit in a signed 63-bit value.
	MaxShareSupply int64

	// CollateralRatioDenom is the fixed-point denominator for
	// collateralization ratios (spec §4.1); always 1000 on mainnet.
	CollateralRatioDenom uint16

	// HundredPercent is the fixed-point representation of 100% used by
	// force-settlement offsets, the force-settlement volume fraction, and
	// the irreversible threshold. MCFR uses the CollateralRatioDenom basis.
	HundredPercent uint16

	// RecentlyMissedCountIncrement/-Decrement drive the
	// recently_missed_count hysteresis counter (spec §4.2).
	RecentlyMissedCountIncrement uint32
	RecentlyMissedCountDecrement uint32

	// MaximumShortSqueezeRatioDefault and MaintenanceCollateralRatioDefault
	// seed a bitasset's options when none are supplied; individual
	// bitassets may override both per spec §3.
	MaximumShortSqueezeRatioDefault uint16
	MaintenanceCollateralRatioDefault uint16

	// SkipUndoCheck disables the fatal MaxUndoHistory guard in
	// UpdateGlobalDynamicData; only ever set by a replay harness
	// re-deriving history from scratch.
	SkipUndoCheck bool
}

// Default returns the numeric defaults used across this module's tests
// and by cmd/ledgercore-replay. Values mirror the constants named in
// spec §6 (COLLATERAL_RATIO_DENOM = 1000, 100_PERCENT = 10000).
func Default() *Parameters {
	return &Parameters{
		WitnessPayPerBlock:                 1000,
		BlockIntervalSeconds:               5,
		IrreversibleThreshold:              7000, // 70%, in HundredPercent basis
		MaxUndoHistory:                     10000,
		MaxShareSupply:                     fixedmath.MaxShareSupply,
		CollateralRatioDenom:               1000,
		HundredPercent:                     10000,
		RecentlyMissedCountIncrement:       13,
		RecentlyMissedCountDecrement:       1,
		MaximumShortSqueezeRatioDefault:    1500, // 150%, CollateralRatioDenom basis
		MaintenanceCollateralRatioDefault:  1750, // 175%, CollateralRatioDenom basis
	}
}
