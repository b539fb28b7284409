package objectstore

import "github.com/graphenechain/ledgercore/core/model"

// DynamicGlobalProperties returns the current per-block chain state.
func (s *Store) DynamicGlobalProperties() model.DynamicGlobalProperties {
	return s.dynamicGlobalProperties
}

// SetDynamicGlobalProperties replaces the per-block chain state,
// recording the prior value for rollback (spec §4.2).
func (s *Store) SetDynamicGlobalProperties(session *UndoSession, p model.DynamicGlobalProperties) {
	prev := s.dynamicGlobalProperties
	s.dynamicGlobalProperties = p
	session.record(func() { s.dynamicGlobalProperties = prev })
}

// GlobalProperties returns the current maintenance-period snapshot.
func (s *Store) GlobalProperties() model.GlobalProperties {
	return s.globalProperties
}

// SetGlobalProperties replaces the maintenance-period snapshot (spec
// §4.2, applied once per maintenance interval).
func (s *Store) SetGlobalProperties(session *UndoSession, p model.GlobalProperties) {
	prev := s.globalProperties
	s.globalProperties = p
	session.record(func() { s.globalProperties = prev })
}
