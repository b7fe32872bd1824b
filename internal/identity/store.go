package identity

import (
	"context"
	"time"
)

// Credential is a resolved identity row together with the data the login
// resolver needs to admit or reject it.
type Credential struct {
	Identity     Identity
	PasswordHash string
	// Approved mirrors is_approved for cadets and admins and is_active for
	// the master table.
	Approved bool
}

// CadetRegistration is the payload for a new cadet signup.
type CadetRegistration struct {
	RegimentalNumber string
	Name             string
	Email            string
	Contact          string
	PasswordHash     string
	AnoID            string
}

// AdminRegistration is the payload for a new unit admin signup.
type AdminRegistration struct {
	AnoID        string
	Role         string
	Name         string
	Email        string
	Contact      string
	PasswordHash string
	Type         string
}

// AdminSummary is the public listing of an approved unit admin, used by the
// cadet registration form.
type AdminSummary struct {
	AnoID string `json:"ano_id"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// CredentialStore is the persistence boundary of the identity core. Lookups
// return ErrNotFound when the natural key does not exist in that table;
// registrations return ErrDuplicate on a uniqueness violation.
type CredentialStore interface {
	FindCadet(ctx context.Context, regimentalNumber string) (*Credential, error)
	FindAdmin(ctx context.Context, anoID string) (*Credential, error)
	FindMaster(ctx context.Context, phone string) (*Credential, error)

	CreateCadet(ctx context.Context, reg CadetRegistration) error
	CreateAdmin(ctx context.Context, reg AdminRegistration) error

	// PasswordHashFor re-reads the stored hash for an authenticated identity.
	PasswordHashFor(ctx context.Context, id Identity) (string, error)
	// UpdatePassword replaces the stored hash for the identity's row.
	UpdatePassword(ctx context.Context, id Identity, hash string) error

	// ApprovedAdmins lists approved unit admins for the registration form.
	ApprovedAdmins(ctx context.Context) ([]AdminSummary, error)
}

// Clock is the time source used by stores that stamp rows; split out so
// sqlmock tests can pin it.
type Clock func() time.Time
