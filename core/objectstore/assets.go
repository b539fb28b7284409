package objectstore

import (
	"sort"

	"github.com/graphenechain/ledgercore/core/fixedmath"
	"github.com/graphenechain/ledgercore/core/model"
)

// Asset returns the asset with id, or nil if none exists.
func (s *Store) Asset(id fixedmath.AssetID) *model.Asset {
	return s.assets[id]
}

// PutAsset inserts or replaces an asset, recording its prior state (or
// absence) on session for rollback.
func (s *Store) PutAsset(session *UndoSession, a model.Asset) {
	prev, existed := s.assets[a.ID]
	s.assets[a.ID] = &a
	session.record(func() {
		if existed {
			s.assets[a.ID] = prev
		} else {
			delete(s.assets, a.ID)
		}
	})
}

// Bitasset returns the market-issued state for id, or nil if id is not a
// market-issued asset.
func (s *Store) Bitasset(id fixedmath.AssetID) *model.BitassetData {
	return s.bitassets[id]
}

// PutBitasset inserts or replaces a bitasset's data and repositions its
// feed-expiration and CER-update index entries to match.
func (s *Store) PutBitasset(session *UndoSession, b model.BitassetData) {
	prev, existed := s.bitassets[b.AssetID]
	s.bitassets[b.AssetID] = &b

	if existed {
		s.byFeedExpiration.Remove(prev.FeedExpiration, b.AssetID)
		if prev.AssetCERUpdated {
			s.byCERUpdate.Remove(prev.AssetID, prev.AssetID)
		}
	}
	s.byFeedExpiration.Insert(b.FeedExpiration, b.AssetID)
	if b.AssetCERUpdated {
		s.byCERUpdate.Insert(b.AssetID, b.AssetID)
	}

	session.record(func() {
		s.byFeedExpiration.Remove(b.FeedExpiration, b.AssetID)
		if b.AssetCERUpdated {
			s.byCERUpdate.Remove(b.AssetID, b.AssetID)
		}
		if existed {
			s.bitassets[b.AssetID] = prev
			s.byFeedExpiration.Insert(prev.FeedExpiration, prev.AssetID)
			if prev.AssetCERUpdated {
				s.byCERUpdate.Insert(prev.AssetID, prev.AssetID)
			}
		} else {
			delete(s.bitassets, b.AssetID)
		}
	})
}

// MarketIssuedAssetIDs returns every market-issued asset's id, in
// ascending order, so callers can drive a deterministic per-block pass
// over margin/black-swan checking without a dedicated index (spec §4.4's
// "orders" step runs against every such asset, not only ones whose feed
// or CER just changed).
func (s *Store) MarketIssuedAssetIDs() []fixedmath.AssetID {
	ids := make([]fixedmath.AssetID, 0, len(s.bitassets))
	for id := range s.bitassets {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// BitassetsWithFeedExpiredBy returns the asset ids of every bitasset whose
// FeedExpiration is at or before when, ascending (spec §4.5).
func (s *Store) BitassetsWithFeedExpiredBy(when model.DomainTime) []fixedmath.AssetID {
	return s.byFeedExpiration.UpperBound(when)
}

// BitassetsWithCERUpdate returns the asset ids flagged AssetCERUpdated
// (spec §4.3: consumed by every block's CER update step, then cleared).
func (s *Store) BitassetsWithCERUpdate() []fixedmath.AssetID {
	var out []fixedmath.AssetID
	s.byCERUpdate.Iterate(func(id fixedmath.AssetID) bool {
		out = append(out, id)
		return true
	})
	return out
}
