package globalstateupdater

import (
	"testing"

	"github.com/graphenechain/ledgercore/core/model"
	"github.com/graphenechain/ledgercore/core/objectstore"
	"github.com/graphenechain/ledgercore/params"
)

// TestUpdateGlobalDynamicDataMissedBitmap is scenario S1.
func TestUpdateGlobalDynamicDataMissedBitmap(t *testing.T) {
	store := objectstore.New()
	session := store.NewSession()
	store.SetDynamicGlobalProperties(session, model.DynamicGlobalProperties{
		HeadBlockNumber:   1,
		RecentSlotsFilled: 0xFFFFFFFFFFFFFFFF,
		CurrentASlot:      0,
	})
	session.Commit()

	u := New(params.Default())

	session = store.NewSession()
	if err := u.UpdateGlobalDynamicData(session, store, model.BlockHeader{BlockNumber: 2}, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	session.Commit()

	dgp := store.DynamicGlobalProperties()
	var allOnes uint64 = 0xFFFFFFFFFFFFFFFF
	want := ((allOnes << 1) | 1) << 0
	if dgp.RecentSlotsFilled != want {
		t.Fatalf("expected bitmap %#x, got %#x", want, dgp.RecentSlotsFilled)
	}
	if dgp.CurrentASlot != 1 {
		t.Fatalf("expected current_aslot == 1, got %d", dgp.CurrentASlot)
	}

	session = store.NewSession()
	if err := u.UpdateGlobalDynamicData(session, store, model.BlockHeader{BlockNumber: 3}, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	session.Commit()

	dgp = store.DynamicGlobalProperties()
	want = ((want << 1) | 1) << 2
	if dgp.RecentSlotsFilled != want {
		t.Fatalf("expected bitmap %#x after two missed slots, got %#x", want, dgp.RecentSlotsFilled)
	}
	if dgp.CurrentASlot != 1+3 {
		t.Fatalf("expected current_aslot == 4, got %d", dgp.CurrentASlot)
	}
}

// TestUpdateLastIrreversibleBlockRankStatistic is scenario S2.
func TestUpdateLastIrreversibleBlockRankStatistic(t *testing.T) {
	store := objectstore.New()
	session := store.NewSession()

	confirmed := []uint64{10, 10, 10, 11, 11, 11, 11, 11, 11, 11, 11}
	witnesses := make([]model.WitnessID, len(confirmed))
	for i, c := range confirmed {
		id := model.WitnessID(i + 1)
		witnesses[i] = id
		store.PutWitness(session, model.Witness{ID: id, LastConfirmedBlockNum: c})
	}
	store.SetGlobalProperties(session, model.GlobalProperties{ActiveWitnesses: witnesses})
	session.Commit()

	p := params.Default()
	p.IrreversibleThreshold = 7000 // 70%
	u := New(p)

	session = store.NewSession()
	u.UpdateLastIrreversibleBlock(session, store)
	session.Commit()

	dgp := store.DynamicGlobalProperties()
	if dgp.LastIrreversibleBlockNum != 11 {
		t.Fatalf("expected last_irreversible_block_num == 11, got %d", dgp.LastIrreversibleBlockNum)
	}
}

func TestUpdateGlobalDynamicDataFailsFatallyPastUndoHistory(t *testing.T) {
	store := objectstore.New()
	session := store.NewSession()
	store.SetDynamicGlobalProperties(session, model.DynamicGlobalProperties{
		HeadBlockNumber:          100,
		LastIrreversibleBlockNum: 0,
	})
	session.Commit()

	p := params.Default()
	p.MaxUndoHistory = 50
	u := New(p)

	session = store.NewSession()
	err := u.UpdateGlobalDynamicData(session, store, model.BlockHeader{BlockNumber: 101}, 0)
	session.Rollback()
	if err == nil {
		t.Fatalf("expected undo-history error")
	}
}
