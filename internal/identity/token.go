package identity

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const defaultTokenTTL = time.Hour

// Claims is the signed session payload. The set of fields is closed: exactly
// the identity discriminators downstream handlers need, nothing re-read from
// the database until the next login.
type Claims struct {
	Kind       string `json:"kind"`
	UserID     int64  `json:"uid,omitempty"`
	NaturalKey string `json:"nkey"`
	AnoID      string `json:"ano_id,omitempty"`
	Role       string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies session tokens using HS256. It does not consult
// the revocation registry; that check belongs to the authorization gate so
// the two concerns stay independently testable.
type Issuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// IssuerOption configures Issuer behavior.
type IssuerOption func(*Issuer)

// WithTTL overrides the default one hour token lifetime.
func WithTTL(ttl time.Duration) IssuerOption {
	return func(i *Issuer) {
		if ttl > 0 {
			i.ttl = ttl
		}
	}
}

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) IssuerOption {
	return func(i *Issuer) {
		if fn != nil {
			i.now = fn
		}
	}
}

// NewIssuer constructs an Issuer from the shared signing secret.
func NewIssuer(secret string, opts ...IssuerOption) (*Issuer, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, errors.New("identity: signing secret is not configured")
	}
	iss := &Issuer{
		secret: []byte(secret),
		issuer: "nccportal",
		ttl:    defaultTokenTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(iss)
	}
	return iss, nil
}

// Issue signs a session token embedding exactly the identity discriminators.
func (i *Issuer) Issue(id Identity) (string, time.Time, error) {
	id.Normalize()
	if !id.Kind.Valid() {
		return "", time.Time{}, fmt.Errorf("identity: unknown kind %q", id.Kind)
	}
	if id.NaturalKey == "" {
		return "", time.Time{}, errors.New("identity: natural key is required")
	}

	now := i.now().UTC()
	expiresAt := now.Add(i.ttl)
	claims := Claims{
		Kind:       string(id.Kind),
		UserID:     id.ID,
		NaturalKey: id.NaturalKey,
		AnoID:      id.AnoID,
		Role:       id.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.issuer,
			Subject:   id.NaturalKey,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify validates signature and claims and returns the embedded identity.
// Fails with ErrInvalidToken on a malformed token, bad signature or expiry.
func (i *Issuer) Verify(token string) (Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Identity{}, ErrInvalidToken
	}
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidToken
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return i.now().UTC() }))
	if err != nil {
		return Identity{}, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return Identity{}, ErrInvalidToken
	}
	if err := i.validateClaims(claims); err != nil {
		return Identity{}, ErrInvalidToken
	}
	return Identity{
		Kind:       Kind(claims.Kind),
		ID:         claims.UserID,
		NaturalKey: strings.TrimSpace(claims.NaturalKey),
		AnoID:      strings.TrimSpace(claims.AnoID),
		Role:       strings.TrimSpace(claims.Role),
	}, nil
}

func (i *Issuer) validateClaims(claims *Claims) error {
	if claims.Issuer != i.issuer {
		return fmt.Errorf("unexpected issuer: %s", claims.Issuer)
	}
	if !Kind(claims.Kind).Valid() {
		return fmt.Errorf("unknown identity kind: %s", claims.Kind)
	}
	if strings.TrimSpace(claims.NaturalKey) == "" {
		return errors.New("natural key missing")
	}
	if claims.ExpiresAt == nil || claims.IssuedAt == nil {
		return errors.New("timestamps missing")
	}
	now := i.now().UTC()
	if now.After(claims.ExpiresAt.Time) {
		return errors.New("token expired")
	}
	// Allow a small clock skew of 5 seconds when validating issued-at.
	if claims.IssuedAt.Time.After(now.Add(5 * time.Second)) {
		return errors.New("token issued in the future")
	}
	if claims.ExpiresAt.Time.Before(claims.IssuedAt.Time) {
		return errors.New("token expiry precedes issued-at")
	}
	return nil
}
