package objectstore

import "github.com/graphenechain/ledgercore/core/model"

// PutDedupeRecord inserts a transaction-dedup marker.
func (s *Store) PutDedupeRecord(session *UndoSession, r model.DedupeRecord) {
	_, existed := s.dedupes[r.ID]
	s.dedupes[r.ID] = &r
	s.dedupeExpiration.Insert(r.Expiration, r.ID)
	session.record(func() {
		s.dedupeExpiration.Remove(r.Expiration, r.ID)
		if !existed {
			delete(s.dedupes, r.ID)
		}
	})
}

// HasDedupeRecord reports whether id is still within its dedup window
// (spec §4.5).
func (s *Store) HasDedupeRecord(id model.DedupeID) bool {
	_, ok := s.dedupes[id]
	return ok
}

// DedupeRecord returns the marker with id, or nil if none exists.
func (s *Store) DedupeRecord(id model.DedupeID) *model.DedupeRecord {
	return s.dedupes[id]
}

// RemoveDedupeRecord deletes a marker once it has expired.
func (s *Store) RemoveDedupeRecord(session *UndoSession, id model.DedupeID) {
	prev, existed := s.dedupes[id]
	if !existed {
		return
	}
	delete(s.dedupes, id)
	s.dedupeExpiration.Remove(prev.Expiration, id)
	session.record(func() {
		s.dedupes[id] = prev
		s.dedupeExpiration.Insert(prev.Expiration, id)
	})
}

// DedupeRecordsExpiredBy returns the ids of every marker whose Expiration
// is at or before when (spec §4.5).
func (s *Store) DedupeRecordsExpiredBy(when model.DomainTime) []model.DedupeID {
	return s.dedupeExpiration.UpperBound(when)
}
