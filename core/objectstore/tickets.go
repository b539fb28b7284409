package objectstore

import "github.com/graphenechain/ledgercore/core/model"

// Ticket returns the stake ticket with id, or nil if none exists.
func (s *Store) Ticket(id model.TicketID) *model.Ticket {
	return s.tickets[id]
}

// PutTicket inserts or replaces a ticket and its by_next_update entry.
func (s *Store) PutTicket(session *UndoSession, tk model.Ticket) {
	prev, existed := s.tickets[tk.ID]
	s.tickets[tk.ID] = &tk
	if existed {
		s.byNextUpdate.Remove(prev.NextAutoUpdateTime, prev.ID)
	}
	s.byNextUpdate.Insert(tk.NextAutoUpdateTime, tk.ID)
	session.record(func() {
		s.byNextUpdate.Remove(tk.NextAutoUpdateTime, tk.ID)
		if existed {
			s.tickets[tk.ID] = prev
			s.byNextUpdate.Insert(prev.NextAutoUpdateTime, prev.ID)
		} else {
			delete(s.tickets, tk.ID)
		}
	})
}

// RemoveTicket deletes a ticket, e.g. once a withdrawing liquid ticket
// has paid out (spec §4.7).
func (s *Store) RemoveTicket(session *UndoSession, id model.TicketID) {
	prev, existed := s.tickets[id]
	if !existed {
		return
	}
	delete(s.tickets, id)
	s.byNextUpdate.Remove(prev.NextAutoUpdateTime, id)
	session.record(func() {
		s.tickets[id] = prev
		s.byNextUpdate.Insert(prev.NextAutoUpdateTime, id)
	})
}

// TicketsDueForUpdateBy returns the ids of every ticket whose
// NextAutoUpdateTime is at or before when, ascending (spec §4.7).
func (s *Store) TicketsDueForUpdateBy(when model.DomainTime) []model.TicketID {
	return s.byNextUpdate.UpperBound(when)
}

// AccountStatistics returns the aggregate for account, creating a zero
// record on first access rather than returning nil — every account has
// implicit zero ticket-vote totals until it opens a ticket.
func (s *Store) AccountStatistics(session *UndoSession, account model.AccountID) *model.AccountStatistics {
	if st, ok := s.accountStats[account]; ok {
		return st
	}
	st := &model.AccountStatistics{Account: account}
	s.accountStats[account] = st
	session.record(func() { delete(s.accountStats, account) })
	return st
}

// PutAccountStatistics replaces the aggregate for st.Account.
func (s *Store) PutAccountStatistics(session *UndoSession, st model.AccountStatistics) {
	prev, existed := s.accountStats[st.Account]
	s.accountStats[st.Account] = &st
	session.record(func() {
		if existed {
			s.accountStats[st.Account] = prev
		} else {
			delete(s.accountStats, st.Account)
		}
	})
}
