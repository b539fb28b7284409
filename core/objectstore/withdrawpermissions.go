package objectstore

import "github.com/graphenechain/ledgercore/core/model"

// WithdrawPermission returns the permission with id, or nil if none exists.
func (s *Store) WithdrawPermission(id model.WithdrawPermissionID) *model.WithdrawPermission {
	return s.withdrawPermissions[id]
}

// PutWithdrawPermission inserts or replaces a withdraw permission.
func (s *Store) PutWithdrawPermission(session *UndoSession, p model.WithdrawPermission) {
	prev, existed := s.withdrawPermissions[p.ID]
	s.withdrawPermissions[p.ID] = &p
	if existed {
		s.withdrawPermissionExpiration.Remove(prev.Expiration, prev.ID)
	}
	s.withdrawPermissionExpiration.Insert(p.Expiration, p.ID)
	session.record(func() {
		s.withdrawPermissionExpiration.Remove(p.Expiration, p.ID)
		if existed {
			s.withdrawPermissions[p.ID] = prev
			s.withdrawPermissionExpiration.Insert(prev.Expiration, prev.ID)
		} else {
			delete(s.withdrawPermissions, p.ID)
		}
	})
}

// RemoveWithdrawPermission deletes a permission once it has expired.
func (s *Store) RemoveWithdrawPermission(session *UndoSession, id model.WithdrawPermissionID) {
	prev, existed := s.withdrawPermissions[id]
	if !existed {
		return
	}
	delete(s.withdrawPermissions, id)
	s.withdrawPermissionExpiration.Remove(prev.Expiration, id)
	session.record(func() {
		s.withdrawPermissions[id] = prev
		s.withdrawPermissionExpiration.Insert(prev.Expiration, id)
	})
}

// WithdrawPermissionsExpiredBy returns the ids of every permission whose
// Expiration is at or before when (spec §4.5).
func (s *Store) WithdrawPermissionsExpiredBy(when model.DomainTime) []model.WithdrawPermissionID {
	return s.withdrawPermissionExpiration.UpperBound(when)
}
