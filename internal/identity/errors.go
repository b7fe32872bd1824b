package identity

import "errors"

var (
	// ErrInvalidToken indicates the token failed signature, expiry or shape
	// validation.
	ErrInvalidToken = errors.New("identity: invalid token")
	// ErrInvalidCredentials is returned both for an unknown identifier and
	// for a password mismatch so the two cases are indistinguishable.
	ErrInvalidCredentials = errors.New("identity: invalid credentials")
	// ErrPendingApproval is returned when credentials are correct but the
	// account has not been approved (or the master account is disabled).
	ErrPendingApproval = errors.New("identity: account pending approval")
	ErrNotFound        = errors.New("identity: not found")
	ErrDuplicate       = errors.New("identity: already registered")
	ErrInvalidInput    = errors.New("identity: invalid input")
)
