package objectstore

import "github.com/graphenechain/ledgercore/core/model"

// ForceSettlement returns the request with id, or nil if none exists.
func (s *Store) ForceSettlement(id model.ForceSettlementID) *model.ForceSettlement {
	return s.forceSettlements[id]
}

// PutForceSettlement inserts or replaces a settlement request.
func (s *Store) PutForceSettlement(session *UndoSession, r model.ForceSettlement) {
	prev, existed := s.forceSettlements[r.ID]
	s.forceSettlements[r.ID] = &r
	if existed {
		s.forceSettlementExpiration.Remove(prev.SettlementDate, prev.ID)
	}
	s.forceSettlementExpiration.Insert(r.SettlementDate, r.ID)
	session.record(func() {
		s.forceSettlementExpiration.Remove(r.SettlementDate, r.ID)
		if existed {
			s.forceSettlements[r.ID] = prev
			s.forceSettlementExpiration.Insert(prev.SettlementDate, prev.ID)
		} else {
			delete(s.forceSettlements, r.ID)
		}
	})
}

// RemoveForceSettlement deletes a request once it has been matched.
func (s *Store) RemoveForceSettlement(session *UndoSession, id model.ForceSettlementID) {
	prev, existed := s.forceSettlements[id]
	if !existed {
		return
	}
	delete(s.forceSettlements, id)
	s.forceSettlementExpiration.Remove(prev.SettlementDate, id)
	session.record(func() {
		s.forceSettlements[id] = prev
		s.forceSettlementExpiration.Insert(prev.SettlementDate, id)
	})
}

// ForceSettlementsDueBy returns the ids of every request whose
// SettlementDate is at or before when, ascending (spec §4.6).
func (s *Store) ForceSettlementsDueBy(when model.DomainTime) []model.ForceSettlementID {
	return s.forceSettlementExpiration.UpperBound(when)
}

// ForceSettlementsForAsset filters a due-by result down to a single
// settlement asset, since a single by_expiration pass may span assets.
func (s *Store) ForceSettlementsForAsset(ids []model.ForceSettlementID, assetID model.AssetID) []model.ForceSettlementID {
	out := make([]model.ForceSettlementID, 0, len(ids))
	for _, id := range ids {
		if fs := s.forceSettlements[id]; fs != nil && fs.Balance.ID == assetID {
			out = append(out, id)
		}
	}
	return out
}
