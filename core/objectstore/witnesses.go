package objectstore

import "github.com/graphenechain/ledgercore/core/model"

// Witness returns the rotation record for id, or nil if none exists.
func (s *Store) Witness(id model.WitnessID) *model.Witness {
	return s.witnesses[id]
}

// PutWitness inserts or replaces a witness's rotation-accounting record.
func (s *Store) PutWitness(session *UndoSession, w model.Witness) {
	prev, existed := s.witnesses[w.ID]
	s.witnesses[w.ID] = &w
	session.record(func() {
		if existed {
			s.witnesses[w.ID] = prev
		} else {
			delete(s.witnesses, w.ID)
		}
	})
}
