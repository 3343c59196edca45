// Package token implements the signed-token codec: issuance and decoding of
// expiring, tamper-evident JWTs carrying the subject payload, a random jti,
// and the token kind.
//
// The codec verifies signatures and structure only. Expiry is embedded in
// the signed claims and checked by the bearer authenticator, not here, so
// signature validity stays separate from temporal validity.
package token

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalid is returned by Decode for any malformed, tampered, or
// wrongly-signed token. Callers must treat it as "invalid", never crash.
var ErrInvalid = errors.New("token: invalid token")

// Kind distinguishes access from refresh tokens. The bearer authenticator
// takes a Kind instead of specializing per entry point.
type Kind int

const (
	// KindAccess is the short-lived credential for authenticated API calls.
	KindAccess Kind = iota
	// KindRefresh is the long-lived credential used only to mint new access tokens.
	KindRefresh
)

// String returns the kind name for logging.
func (k Kind) String() string {
	if k == KindRefresh {
		return "refresh"
	}
	return "access"
}

// Purpose namespaces single-use tokens so a session token can never pass as
// a verification or reset token, and vice versa.
type Purpose string

const (
	// PurposeSession marks ordinary access/refresh tokens.
	PurposeSession Purpose = ""
	// PurposeVerify marks account email-verification tokens.
	PurposeVerify Purpose = "verify"
	// PurposeReset marks password-reset tokens.
	PurposeReset Purpose = "reset"
)

// Subject is the identity payload embedded in every session token.
type Subject struct {
	UID   string `json:"user_uid"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

// Claims is the full signed payload. Immutable once issued.
type Claims struct {
	gojwt.RegisteredClaims
	User    Subject `json:"user"`
	Refresh bool    `json:"refresh"`
	Purpose Purpose `json:"purpose,omitempty"`
}

// JTI returns the token's unique identifier.
func (c *Claims) JTI() string { return c.ID }

// ExpiresIn returns the remaining lifetime, which may be negative.
func (c *Claims) ExpiresIn(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return c.ExpiresAt.Time.Sub(now)
}

// Expired reports whether the token's expiry has passed.
func (c *Claims) Expired(now time.Time) bool {
	return c.ExpiresAt == nil || !now.Before(c.ExpiresAt.Time)
}

// Codec issues and decodes HS256-signed tokens with a process-wide secret.
// Safe for concurrent use; the secret is read-only after construction.
type Codec struct {
	cfg Config
}

// NewCodec creates a codec from configuration.
func NewCodec(cfg Config) (*Codec, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("token: %w", err)
	}
	return &Codec{cfg: cfg}, nil
}

// Issue signs a token for the subject with a fresh random jti. The jti is a
// UUIDv4 from a cryptographic source; uniqueness within the TTL window is
// what makes targeted revocation reliable.
func (c *Codec) Issue(sub Subject, kind Kind, purpose Purpose, ttl time.Duration) (string, *Claims, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: gojwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(now.Add(ttl)),
		},
		User:    sub,
		Refresh: kind == KindRefresh,
		Purpose: purpose,
	}

	tok := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte(c.cfg.Secret))
	if err != nil {
		return "", nil, fmt.Errorf("token: sign: %w", err)
	}
	return signed, claims, nil
}

// IssueAccess signs a short-lived access token.
func (c *Codec) IssueAccess(sub Subject) (string, *Claims, error) {
	return c.Issue(sub, KindAccess, PurposeSession, c.cfg.AccessTTL)
}

// IssueRefresh signs a long-lived refresh token. The role is dropped from
// the payload; it is re-read from the user record on refresh.
func (c *Codec) IssueRefresh(sub Subject) (string, *Claims, error) {
	return c.Issue(Subject{UID: sub.UID, Email: sub.Email}, KindRefresh, PurposeSession, c.cfg.RefreshTTL)
}

// IssuePurpose signs a verification or reset token carrying only an email.
func (c *Codec) IssuePurpose(email string, purpose Purpose) (string, error) {
	signed, _, err := c.Issue(Subject{Email: email}, KindAccess, purpose, c.cfg.PurposeTTL)
	return signed, err
}

// Decode verifies the signature and structure of a token string. It does
// NOT enforce expiry; callers check Claims.Expired. Any failure returns
// ErrInvalid without detail.
func (c *Codec) Decode(tokenString string) (*Claims, error) {
	claims := &Claims{}
	tok, err := gojwt.ParseWithClaims(tokenString, claims, c.keyFunc,
		gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}),
		gojwt.WithoutClaimsValidation(),
	)
	if err != nil || !tok.Valid {
		return nil, ErrInvalid
	}
	return claims, nil
}

// keyFunc is the jwt.Keyfunc used during token parsing.
func (c *Codec) keyFunc(tok *gojwt.Token) (interface{}, error) {
	if tok.Method.Alg() != gojwt.SigningMethodHS256.Alg() {
		return nil, fmt.Errorf("token: unexpected signing method: %s", tok.Method.Alg())
	}
	return []byte(c.cfg.Secret), nil
}

// AccessTTL returns the configured access-token lifetime. The revocation
// store uses it as the entry TTL so revoked jtis outlive their tokens.
func (c *Codec) AccessTTL() time.Duration { return c.cfg.AccessTTL }

// RefreshTTL returns the configured refresh-token lifetime.
func (c *Codec) RefreshTTL() time.Duration { return c.cfg.RefreshTTL }
