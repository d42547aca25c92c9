package common

import "errors"

var (
	ErrUnauthorized = errors.New("caller not authorized")
	ErrPaused       = errors.New("module paused")
)

// RoleView exposes role membership checks from the surrounding state.
type RoleView interface {
	HasRole(role string, addr []byte) bool
}

// RequireRole verifies the caller holds the named role. A nil view denies all
// callers so that a misconfigured module fails closed.
func RequireRole(v RoleView, role string, caller [20]byte) error {
	if v == nil || role == "" {
		return ErrUnauthorized
	}
	if !v.HasRole(role, caller[:]) {
		return ErrUnauthorized
	}
	return nil
}
