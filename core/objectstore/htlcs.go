package objectstore

import "github.com/graphenechain/ledgercore/core/model"

// HTLC returns the contract with id, or nil if none exists.
func (s *Store) HTLC(id model.HTLCID) *model.HTLC {
	return s.htlcs[id]
}

// PutHTLC inserts or replaces a hashed-timelock contract.
func (s *Store) PutHTLC(session *UndoSession, h model.HTLC) {
	prev, existed := s.htlcs[h.ID]
	s.htlcs[h.ID] = &h
	if existed {
		s.htlcExpiration.Remove(prev.Expiration, prev.ID)
	}
	s.htlcExpiration.Insert(h.Expiration, h.ID)
	session.record(func() {
		s.htlcExpiration.Remove(h.Expiration, h.ID)
		if existed {
			s.htlcs[h.ID] = prev
			s.htlcExpiration.Insert(prev.Expiration, prev.ID)
		} else {
			delete(s.htlcs, h.ID)
		}
	})
}

// RemoveHTLC deletes a contract once it has been redeemed or expired.
func (s *Store) RemoveHTLC(session *UndoSession, id model.HTLCID) {
	prev, existed := s.htlcs[id]
	if !existed {
		return
	}
	delete(s.htlcs, id)
	s.htlcExpiration.Remove(prev.Expiration, id)
	session.record(func() {
		s.htlcs[id] = prev
		s.htlcExpiration.Insert(prev.Expiration, id)
	})
}

// HTLCsExpiredBy returns the ids of every still-pending contract whose
// Expiration is at or before when (spec §4.5).
func (s *Store) HTLCsExpiredBy(when model.DomainTime) []model.HTLCID {
	var out []model.HTLCID
	for _, id := range s.htlcExpiration.UpperBound(when) {
		if s.htlcs[id].Status == model.HTLCPending {
			out = append(out, id)
		}
	}
	return out
}
