package pkg

import "errors"

// Sentinel errors for the partner-network core. Services wrap these with
// fmt.Errorf("%w: ...") so handlers can map them to distinct HTTP statuses.
var (
	ErrValidation       = errors.New("validation failed")
	ErrForbidden        = errors.New("forbidden")
	ErrInvalidState     = errors.New("invalid state")
	ErrDuplicateMember  = errors.New("duplicate member")
	ErrLastAdmin        = errors.New("last admin")
	ErrResolutionFailed = errors.New("identity resolution failed")
	ErrNotFound         = errors.New("not found")
)
