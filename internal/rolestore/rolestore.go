// Package rolestore holds the one piece of mutable role state for a UI
// session: the role the console acts as. The role is persisted in the
// session's key-value storage, read once at page load and written on every
// explicit role change. Visibility decisions everywhere else derive from the
// value returned here through the canonical auth.AtLeast comparison.
package rolestore

import (
	"errors"
	"time"

	"github.com/gofiber/storage"

	"github.com/GoMediaVault/GoMediaVault/internal/auth"
)

// ErrInvalidRole is returned when a role value outside the four defined
// roles is supplied. The previously stored role is retained.
var ErrInvalidRole = errors.New("invalid role")

// DefaultRole is the role assumed when no role has been persisted for a
// session. Least privilege: viewer.
const DefaultRole = auth.RoleViewer

const keyPrefix = "role:"

// Store persists the acting role per session on a key-value storage backend.
// There is exactly one writer per session (the user's own role-change
// action), so last-write-wins semantics are sufficient.
type Store struct {
	storage storage.Storage
	expiry  time.Duration
}

// New creates a role store on the given storage backend. Entries expire
// together with the session after expiry (zero means no expiration).
func New(st storage.Storage, expiry time.Duration) *Store {
	if st == nil {
		panic("storage is nil")
	}

	return &Store{storage: st, expiry: expiry}
}

// Current returns the persisted role for the session, or DefaultRole when
// none has been stored or the stored value is not a defined role.
func (s *Store) Current(sessionID string) auth.Role {
	role, ok := s.Get(sessionID)
	if !ok {
		return DefaultRole
	}

	return role
}

// Get returns the persisted role for the session and whether one was stored.
// Callers that need to distinguish "never set" from "set to the default"
// (e.g., the preview middleware) use this instead of Current.
func (s *Store) Get(sessionID string) (auth.Role, bool) {
	raw, err := s.storage.Get(keyPrefix + sessionID)
	if err != nil || len(raw) == 0 {
		return DefaultRole, false
	}

	role := auth.Role(raw)
	if !role.IsValid() {
		return DefaultRole, false
	}

	return role, true
}

// Set replaces the persisted role for the session. Values outside the four
// defined roles fail with ErrInvalidRole and leave the stored role unchanged.
func (s *Store) Set(sessionID string, role auth.Role) error {
	if !role.IsValid() {
		return ErrInvalidRole
	}

	return s.storage.Set(keyPrefix+sessionID, []byte(role.String()), s.expiry)
}

// Clear removes the persisted role for the session, resetting the session to
// DefaultRole on next read.
func (s *Store) Clear(sessionID string) error {
	return s.storage.Delete(keyPrefix + sessionID)
}
