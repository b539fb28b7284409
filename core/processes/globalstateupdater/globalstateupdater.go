// Package globalstateupdater implements the per-block dynamic-global-
// property maintenance described in spec §4.2: head-block bookkeeping,
// the recent-slots bitmap, witness pay, and the irreversibility rank
// statistic.
package globalstateupdater

import (
	"sort"

	"github.com/graphenechain/ledgercore/core/fixedmath"
	"github.com/graphenechain/ledgercore/core/model"
	"github.com/graphenechain/ledgercore/core/objectstore"
	"github.com/graphenechain/ledgercore/params"
	"github.com/graphenechain/ledgercore/ruleerrors"
)

// GlobalStateUpdater advances DynamicGlobalProperties and per-witness
// rotation accounting once per accepted block.
type GlobalStateUpdater struct {
	params *params.Parameters
}

// New constructs a GlobalStateUpdater bound to a parameter snapshot.
func New(p *params.Parameters) *GlobalStateUpdater {
	return &GlobalStateUpdater{params: p}
}

// SlotTime returns the scheduled timestamp of the slotNumber-th slot
// after the current head block; slot 0 is undefined and returns the zero
// time.
func (u *GlobalStateUpdater) SlotTime(dgp model.DynamicGlobalProperties, slotNumber uint64) model.DomainTime {
	if slotNumber == 0 {
		return 0
	}
	interval := model.DomainTime(u.params.BlockIntervalSeconds)
	return dgp.Time + model.DomainTime(slotNumber)*interval
}

// SlotAtTime returns which scheduled slot (1-based) `when` falls in
// relative to the current head time, or 0 if `when` precedes the first
// slot. Callers derive missed_blocks as SlotAtTime(when)-1.
func (u *GlobalStateUpdater) SlotAtTime(dgp model.DynamicGlobalProperties, when model.DomainTime) uint64 {
	first := u.SlotTime(dgp, 1)
	if when < first {
		return 0
	}
	interval := uint64(u.params.BlockIntervalSeconds)
	if interval == 0 {
		return 0
	}
	return uint64(when-first)/interval + 1
}

// UpdateGlobalDynamicData applies spec §4.2's head-block and slot-bitmap
// bookkeeping for a newly accepted block that had missedBlocks missed
// slots before it.
func (u *GlobalStateUpdater) UpdateGlobalDynamicData(
	session *objectstore.UndoSession,
	store *objectstore.Store,
	block model.BlockHeader,
	missedBlocks uint64,
) error {
	dgp := store.DynamicGlobalProperties()

	switch {
	case block.BlockNumber == 1:
		dgp.RecentlyMissedCount = 0
	case missedBlocks > 0:
		dgp.RecentlyMissedCount += u.params.RecentlyMissedCountIncrement * uint32(missedBlocks)
	case dgp.RecentlyMissedCount > u.params.RecentlyMissedCountIncrement:
		dgp.RecentlyMissedCount -= u.params.RecentlyMissedCountDecrement
	case dgp.RecentlyMissedCount > 0:
		dgp.RecentlyMissedCount--
	}

	dgp.HeadBlockNumber = block.BlockNumber
	dgp.HeadBlockID = block.BlockID
	dgp.Time = block.Timestamp
	dgp.CurrentWitness = block.Witness
	dgp.RecentSlotsFilled = ((dgp.RecentSlotsFilled << 1) | 1) << missedBlocks
	dgp.CurrentASlot += missedBlocks + 1

	if !u.params.SkipUndoCheck && dgp.HeadBlockNumber-dgp.LastIrreversibleBlockNum >= u.params.MaxUndoHistory {
		return ruleerrors.ErrUndoHistoryExceeded
	}

	store.SetDynamicGlobalProperties(session, dgp)
	return nil
}

// UpdateSigningWitness pays and stamps the witness that signed block
// (spec §4.2), debiting the shared witness budget.
func (u *GlobalStateUpdater) UpdateSigningWitness(
	session *objectstore.UndoSession,
	store *objectstore.Store,
	ledger model.Ledger,
	block model.BlockHeader,
) error {
	dgp := store.DynamicGlobalProperties()
	newASlot := dgp.CurrentASlot + u.SlotAtTime(dgp, block.Timestamp)

	pay := u.params.WitnessPayPerBlock
	if dgp.WitnessBudget < pay {
		pay = dgp.WitnessBudget
	}

	dgp.WitnessBudget -= pay
	store.SetDynamicGlobalProperties(session, dgp)

	witness := store.Witness(block.Witness)
	if witness == nil {
		return ruleerrors.ErrInvariantViolation
	}
	if pay > 0 {
		if err := ledger.Credit(witness.Account, fixedmath.NewAsset(pay, fixedmath.CoreAssetID)); err != nil {
			return err
		}
	}

	updated := *witness
	updated.LastAslot = newASlot
	updated.LastConfirmedBlockNum = block.BlockNumber
	store.PutWitness(session, updated)
	return nil
}

// UpdateLastIrreversibleBlock recomputes last_irreversible_block_num as
// the rank-order statistic of active witnesses' last_confirmed_block_num
// (spec §4.2, scenario S2), advancing it only if the new value is
// greater than the stored one.
func (u *GlobalStateUpdater) UpdateLastIrreversibleBlock(session *objectstore.UndoSession, store *objectstore.Store) {
	gp := store.GlobalProperties()
	n := len(gp.ActiveWitnesses)
	if n == 0 {
		return
	}

	confirmed := make([]uint64, 0, n)
	for _, id := range gp.ActiveWitnesses {
		if w := store.Witness(id); w != nil {
			confirmed = append(confirmed, w.LastConfirmedBlockNum)
		} else {
			confirmed = append(confirmed, 0)
		}
	}
	sort.Slice(confirmed, func(i, j int) bool { return confirmed[i] < confirmed[j] })

	offset := ((uint64(u.params.HundredPercent) - uint64(u.params.IrreversibleThreshold)) * uint64(n)) / uint64(u.params.HundredPercent)
	if offset >= uint64(n) {
		offset = uint64(n) - 1
	}
	candidate := confirmed[offset]

	dgp := store.DynamicGlobalProperties()
	if candidate > dgp.LastIrreversibleBlockNum {
		dgp.LastIrreversibleBlockNum = candidate
		store.SetDynamicGlobalProperties(session, dgp)
	}
}
