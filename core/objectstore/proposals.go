package objectstore

import "github.com/graphenechain/ledgercore/core/model"

// Proposal returns the proposal with id, or nil if none exists.
func (s *Store) Proposal(id model.ProposalID) *model.Proposal {
	return s.proposals[id]
}

// PutProposal inserts or replaces a proposal.
func (s *Store) PutProposal(session *UndoSession, p model.Proposal) {
	prev, existed := s.proposals[p.ID]
	s.proposals[p.ID] = &p
	if existed {
		s.proposalExpiration.Remove(prev.ExpirationTime, prev.ID)
	}
	s.proposalExpiration.Insert(p.ExpirationTime, p.ID)
	session.record(func() {
		s.proposalExpiration.Remove(p.ExpirationTime, p.ID)
		if existed {
			s.proposals[p.ID] = prev
			s.proposalExpiration.Insert(prev.ExpirationTime, prev.ID)
		} else {
			delete(s.proposals, p.ID)
		}
	})
}

// RemoveProposal deletes a proposal once it has executed or expired.
func (s *Store) RemoveProposal(session *UndoSession, id model.ProposalID) {
	prev, existed := s.proposals[id]
	if !existed {
		return
	}
	delete(s.proposals, id)
	s.proposalExpiration.Remove(prev.ExpirationTime, id)
	session.record(func() {
		s.proposals[id] = prev
		s.proposalExpiration.Insert(prev.ExpirationTime, id)
	})
}

// ProposalsExpiredBy returns the ids of every proposal whose
// ExpirationTime is at or before when (spec §4.5).
func (s *Store) ProposalsExpiredBy(when model.DomainTime) []model.ProposalID {
	return s.proposalExpiration.UpperBound(when)
}
