package objectstore

// UndoSession accumulates the inverse of every mutation applied to a Store
// since it was opened (spec §5/§9). Commit discards the accumulated log;
// Rollback replays it back-to-front, restoring the store to the state it
// had when the session was opened. Sessions do not nest transactionally —
// a second session opened while the first is still open shares the same
// underlying store and simply accumulates its own independent log on top.
type UndoSession struct {
	store *Store
	log   []func()
	closed bool
}

// record appends an inverse operation to the session's undo log. Callers
// append in application order; Rollback replays in reverse.
func (s *UndoSession) record(undo func()) {
	if s.closed {
		return
	}
	s.log = append(s.log, undo)
}

// Commit discards the undo log, keeping every change made during the
// session. A committed session can no longer be rolled back.
func (s *UndoSession) Commit() {
	s.closed = true
	s.log = nil
}

// Rollback replays the undo log in reverse, reverting every change made
// during the session, then closes it.
func (s *UndoSession) Rollback() {
	if s.closed {
		return
	}
	for i := len(s.log) - 1; i >= 0; i-- {
		s.log[i]()
	}
	s.closed = true
	s.log = nil
}
