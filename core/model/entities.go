package model

import (
	"github.com/graphenechain/ledgercore/core/fixedmath"
)

// DomainTime mirrors the teacher's DomainTime value-type pattern: a plain
// Unix-second timestamp with the comparisons the core actually needs.
type DomainTime uint64

// Before reports whether t happens strictly before other.
func (t DomainTime) Before(other DomainTime) bool { return t < other }

// After reports whether t happens strictly after other.
func (t DomainTime) After(other DomainTime) bool { return t > other }

// AssetOptions holds the subset of an asset's issuer-controlled options
// the core evaluates (spec §3): everything else (description, permission
// flags unrelated to settlement) belongs to an external collaborator.
type AssetOptions struct {
	MaxSupply int64
	CoreExchangeRate fixedmath.Price
}

// BitassetOptions is the issuer-controlled configuration of a market-issued
// asset (spec §3): feed sourcing, margin parameters, and force-settlement
// policy.
type BitassetOptions struct {
	FeedLifetimeSeconds        uint32
	MinimumFeeds               uint8
	ForceSettlementDelaySeconds uint32
	ForceSettlementOffsetPercent uint16 // HundredPercent basis
	MaximumForceSettlementVolume uint16 // HundredPercent basis, of current supply
	ShortBackingAssetID         fixedmath.AssetID
	MaximumShortSqueezeRatio    uint16 // CollateralRatioDenom basis
	MaintenanceCollateralRatio  uint16 // CollateralRatioDenom basis
	ExtendedOptions
}

// ExtendedOptions groups the BSIP-era knobs the original carries as a
// separate extensions struct; kept distinct so zero-valuing it is cheap.
type ExtendedOptions struct {
	MarginCallFeeRatio *uint16 // nil when the asset charges no margin-call fee
}

// Asset is the spec §3 Asset entity: the static, issuer-defined record a
// BitassetData (if present) augments with live market state.
type Asset struct {
	ID        fixedmath.AssetID
	Symbol    string
	Precision uint8
	Issuer    AccountID
	Options   AssetOptions
	// BitassetID is the zero value when this asset is not market-issued.
	BitassetID fixedmath.AssetID
	IsMarketIssued bool
}

// BitassetData is the spec §3 BitassetData entity: the live feed,
// collateral, and settlement state of a market-issued asset.
type BitassetData struct {
	AssetID fixedmath.AssetID
	Options BitassetOptions

	CurrentFeed     fixedmath.Feed
	FeedHistory     []FeedRecord
	FeedCERUpdated  bool // spec §4.3: true when the median feed's CER changed
	FeedExpiration  DomainTime

	// IsGlobalSettled / SettlementPrice / SettlementFund hold the
	// post-global-settlement state (spec §4.4): once set, the asset can
	// never un-settle.
	IsGlobalSettled  bool
	SettlementPrice  fixedmath.Price
	SettlementFund   int64

	ForceSettledVolume int64 // reset to 0 at each maintenance interval
	AssetCERUpdated    bool
}

// FeedRecord is one publisher's feed observation together with the time it
// was published, used by the feed aggregator's median-with-expiry pass
// (spec §4.3).
type FeedRecord struct {
	Publisher AccountID
	Feed      fixedmath.Feed
	CoreExchangeRate fixedmath.Price
	PublishedAt DomainTime
}

// CallOrder is the spec §3 CallOrder entity: a borrower's open margin
// position against a single bitasset.
type CallOrder struct {
	ID           CallOrderID
	Borrower     AccountID
	Debt         fixedmath.Asset
	Collateral   fixedmath.Asset
	CallPrice    fixedmath.Price // derived; recomputed on every mutation
	TargetCollateralRatio *uint16 // TCR, CollateralRatioDenom basis; nil = none
}

// LimitOrder is the spec §3 LimitOrder entity: a standing offer to sell
// ForSale units of SellPrice.Base for SellPrice.Quote.
type LimitOrder struct {
	ID         LimitOrderID
	Seller     AccountID
	ForSale    int64
	SellPrice  fixedmath.Price
	Expiration DomainTime
	// DeferredFee accrues when a matched trade's maker fee must be paid in
	// an asset the order cannot currently afford (spec §3).
	DeferredFee int64
}

// AmountForSale returns the remaining asset offered, in SellPrice.Base's
// asset id.
func (o LimitOrder) AmountForSale() fixedmath.Asset {
	return fixedmath.NewAsset(o.ForSale, o.SellPrice.Base.ID)
}

// AmountToReceive returns what the order expects for its full remaining
// ForSale amount, in SellPrice.Quote's asset id.
func (o LimitOrder) AmountToReceive() (fixedmath.Asset, error) {
	return o.AmountForSale().Multiply(o.SellPrice)
}

// ForceSettlement is the spec §3 ForceSettlement entity: an owner's
// request to redeem a bitasset balance at the settlement price once
// SettlementDate arrives.
type ForceSettlement struct {
	ID             ForceSettlementID
	Owner          AccountID
	Balance        fixedmath.Asset
	SettlementDate DomainTime
}

// Proposal is the spec §3 Proposal entity: a staged batch of operations
// awaiting enough approvals before ExpirationTime.
type Proposal struct {
	ID               ProposalID
	ProposedOperations []byte // opaque to the core; an external collaborator interprets it
	RequiredActiveApprovals []AccountID
	AvailableActiveApprovals []AccountID
	ExpirationTime   DomainTime
	ReviewPeriodTime *DomainTime
}

// DedupeRecord is the spec §3 transaction-dedup entity: a bare
// (expiration) marker kept only so the expiration sweeper can evict it.
type DedupeRecord struct {
	ID         DedupeID
	Expiration DomainTime
}

// WithdrawPermission is the spec §3 WithdrawPermission entity: a
// recurring-withdrawal authorization that lapses at Expiration.
type WithdrawPermission struct {
	ID          WithdrawPermissionID
	Withdrawer  AccountID
	Authorized  AccountID
	Expiration  DomainTime
}

// HTLCStatus distinguishes a pending lock from its terminal outcomes.
type HTLCStatus uint8

const (
	HTLCPending HTLCStatus = iota
	HTLCRedeemed
	HTLCExpired
)

// HTLC is the spec §3 hashed-timelock-contract entity.
type HTLC struct {
	ID         HTLCID
	From       AccountID
	To         AccountID
	Amount     fixedmath.Asset
	HashLock   [32]byte
	Expiration DomainTime
	Status     HTLCStatus
}

// TicketType is the stake-commitment tier a Ticket is currently (or is
// transitioning toward) locked at (spec §3 GLOSSARY: liquid, lock_180d,
// lock_360d, lock_720d, lock_forever).
type TicketType uint8

const (
	TicketLiquid TicketType = iota
	TicketLocked180Days
	TicketLocked360Days
	TicketLocked720Days
	TicketLockedForever
)

// TicketStatus reports where a Ticket sits in its update lifecycle (spec
// §3 GLOSSARY: charging, stable, withdrawing).
type TicketStatus uint8

const (
	TicketStatusCharging TicketStatus = iota
	TicketStatusStable
	TicketStatusWithdrawing
)

// Ticket is the spec §3/§4.7 stake-ticket entity: an account's locked
// balance, its current and target lock tier, and the accrued voting
// Value that lock tier produces.
type Ticket struct {
	ID               TicketID
	Account          AccountID
	Amount           int64 // core asset
	CurrentType      TicketType
	TargetType       TicketType
	Status           TicketStatus
	Value            int64 // Amount × lock multiplier, used for voting weight
	NextAutoUpdateTime DomainTime
}

// DynamicFlag is a bit in DynamicGlobalProperties.DynamicFlags (spec §3).
type DynamicFlag uint32

const (
	// DynamicFlagMaintenance marks that the next block to process begins a
	// maintenance interval (spec §4.2/§4.7).
	DynamicFlagMaintenance DynamicFlag = 1 << iota
)

// DynamicGlobalProperties is the spec §3 DynamicGlobalProperties entity:
// the per-block mutable chain state.
type DynamicGlobalProperties struct {
	HeadBlockNumber uint64
	HeadBlockID     [32]byte
	Time            DomainTime

	CurrentWitness    WitnessID
	NextMaintenanceTime DomainTime
	LastBudgetTime      DomainTime

	CurrentASlot uint64
	// RecentSlotsFilled is a 64-bit shift-register bitmap, 1 per produced
	// slot, most-recent bit in position 0 (spec §4.2).
	RecentSlotsFilled uint64
	RecentlyMissedCount uint32

	LastIrreversibleBlockNum uint64

	WitnessBudget int64

	TotalPOB      int64 // total balance committed to power-of-brand tickets
	TotalInactive int64 // total balance in the zero-weight inactive tier

	DynamicFlags DynamicFlag
}

// MaintenanceFlagSet reports whether the maintenance flag is set.
func (p DynamicGlobalProperties) MaintenanceFlagSet() bool {
	return p.DynamicFlags&DynamicFlagMaintenance != 0
}

// GlobalProperties is the spec §3 GlobalProperties entity: the
// once-per-maintenance-period snapshot of active witnesses and consensus
// parameters.
type GlobalProperties struct {
	ActiveWitnesses []WitnessID
}

// Witness is the per-witness rotation-accounting record the global state
// updater and irreversibility computation read and stamp (spec §4.2);
// the spec's data model section omits it, but §4.2's "stamp the signing
// witness" and its rank-statistic over "each active witness's
// last_confirmed_block_num" both require one.
type Witness struct {
	ID                    WitnessID
	Account               AccountID
	LastAslot             uint64
	LastConfirmedBlockNum uint64
}

// AccountStatistics carries the per-account ticket-vote aggregates the
// ticket processor updates (spec §4.7): total balance locked at each of
// the power-of-brand and power-of-liquidity tiers.
type AccountStatistics struct {
	Account           AccountID
	TotalCorePOB      int64
	TotalCorePOL      int64
	TotalCoreInactive int64
	TotalPOLValue     int64
	TotalPOBValue     int64
}

// BlockHeader is the minimal external-collaborator-supplied view of a
// block the core needs to apply it (spec §6): everything about
// signatures, transactions, and wire encoding lives outside the core.
type BlockHeader struct {
	BlockNumber uint64
	BlockID     [32]byte
	Timestamp   DomainTime
	Witness     WitnessID
}
