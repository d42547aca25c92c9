package rewards

import "errors"

var (
	ErrNotAuthorized = errors.New("rewards: caller not authorized")
	ErrInvalidAmount = errors.New("rewards: invalid amount")
	ErrNilStore      = errors.New("rewards: store not configured")
)
