// Package identity implements the portal's authentication core: the three
// disjoint identity kinds (cadet, unit admin, master), token issuance and
// verification, the revocation registry, and fixed-order login resolution.
package identity

import "strings"

// Kind discriminates between the three credential tables.
type Kind string

const (
	KindCadet  Kind = "user"
	KindAdmin  Kind = "admin"
	KindMaster Kind = "master"
)

// Valid reports whether k is one of the closed set of kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindCadet, KindAdmin, KindMaster:
		return true
	}
	return false
}

// Identity is the decoded session payload carried from the gate to handlers.
// The field set is fixed at issuance; claims are never refreshed mid-session.
type Identity struct {
	Kind Kind
	// ID is the row id for cadets and admins; zero for master.
	ID int64
	// NaturalKey is the per-kind unique identifier: regimental number for
	// cadets, ANO id for admins, phone number for master.
	NaturalKey string
	// AnoID scopes cadets and admins to a unit; empty for master.
	AnoID string
	// Role is the admin sub-type (e.g. ANO, Caretaker); empty otherwise.
	Role string
}

// Normalize trims whitespace from string fields in place.
func (id *Identity) Normalize() {
	id.NaturalKey = strings.TrimSpace(id.NaturalKey)
	id.AnoID = strings.TrimSpace(id.AnoID)
	id.Role = strings.TrimSpace(id.Role)
}
