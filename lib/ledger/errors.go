package ledger

import "errors"

// Stable error kinds for the ledger core. Validation errors are returned
// before any mutation happens; ErrStorageFailure is the only kind that can
// surface from inside the atomic mutation phase, and it always means the
// whole operation rolled back.
var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrAssetNotFound       = errors.New("asset not found")
	ErrAccountNotFound     = errors.New("account not found")
	ErrDuplicateAsset      = errors.New("duplicate asset")
	ErrInsufficientBalance = errors.New("not enough balance")
	ErrStorageFailure      = errors.New("storage failure")
)
