package settlement

import "errors"

var (
	// Validation failures, rejected before any side effect.
	ErrAssetNotSupported = errors.New("settlement: asset not supported")
	ErrZeroAmount        = errors.New("settlement: amount must be positive")
	ErrInvalidRecipient  = errors.New("settlement: invalid recipient")
	ErrSelfTransfer      = errors.New("settlement: self transfer")

	// ErrTxProcessed is permanent for a given transaction identifier.
	ErrTxProcessed = errors.New("settlement: transaction already processed")

	// ErrInsufficientBalance propagates a funds shortfall from the transfer
	// collaborator; no partial settlement occurs.
	ErrInsufficientBalance = errors.New("settlement: insufficient balance")

	// ErrPaused is an availability gate, not a failure: it clears once the
	// engine is unpaused.
	ErrPaused = errors.New("settlement: engine paused")

	// Configuration failures leave the stored configuration unchanged.
	ErrFeeRateTooHigh     = errors.New("settlement: fee rate exceeds ceiling")
	ErrInvalidFeeRecipient = errors.New("settlement: fee recipient must not be zero")

	// ErrUnauthorized marks a caller without the settlement admin role.
	ErrUnauthorized = errors.New("settlement: caller not authorized")

	// ErrRewarderNotAuthorized rejects a reward collaborator swap that would
	// strip the engine of its issuance rights.
	ErrRewarderNotAuthorized = errors.New("settlement: rewarder has not authorized the engine")

	errNilState  = errors.New("settlement: state not configured")
	errNilLedger = errors.New("settlement: transfer ledger not configured")
)
