package identity

import (
	"context"
	"errors"
	"strings"
)

// Redirect paths returned to the SPA after a successful login.
const (
	RedirectCadet  = "/cadet"
	RedirectAdmin  = "/admin"
	RedirectMaster = "/administrator"
)

// LoginResult is the outcome of a successful resolution.
type LoginResult struct {
	Identity Identity
	Redirect string
}

type tableLookup struct {
	kind     Kind
	redirect string
	find     func(ctx context.Context, identifier string) (*Credential, error)
}

// Resolver performs fixed-order identity resolution across the three
// credential tables: cadets, then unit admins, then master. The order is part
// of the contract; the loop over the ordered lookup slice preserves it while
// keeping a fourth kind a data change rather than a control-flow change.
type Resolver struct {
	order []tableLookup
}

// NewResolver wires the lookup order against the credential store.
func NewResolver(store CredentialStore) *Resolver {
	return &Resolver{
		order: []tableLookup{
			{kind: KindCadet, redirect: RedirectCadet, find: store.FindCadet},
			{kind: KindAdmin, redirect: RedirectAdmin, find: store.FindAdmin},
			{kind: KindMaster, redirect: RedirectMaster, find: store.FindMaster},
		},
	}
}

// Login resolves a free-form identifier and plaintext password.
//
// The first table containing the natural key decides the outcome: an
// unapproved account fails with ErrPendingApproval even when the password is
// correct, and a password mismatch fails with ErrInvalidCredentials; the
// same error an unknown identifier produces, so responses never reveal which
// table, if any, held the identifier.
func (r *Resolver) Login(ctx context.Context, identifier, password string) (LoginResult, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return LoginResult{}, ErrInvalidInput
	}

	for _, lookup := range r.order {
		cred, err := lookup.find(ctx, identifier)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return LoginResult{}, err
		}
		if !cred.Approved {
			return LoginResult{}, ErrPendingApproval
		}
		if err := VerifyPassword(cred.PasswordHash, password); err != nil {
			return LoginResult{}, ErrInvalidCredentials
		}
		id := cred.Identity
		id.Kind = lookup.kind
		id.Normalize()
		return LoginResult{Identity: id, Redirect: lookup.redirect}, nil
	}
	return LoginResult{}, ErrInvalidCredentials
}
