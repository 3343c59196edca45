package token

import (
	"strings"
	"testing"
	"time"
)

func newTestCodec(t *testing.T) *Codec {
	t.Helper()
	c, err := NewCodec(Config{Secret: "test-secret-key"})
	if err != nil {
		t.Fatalf("failed to create codec: %v", err)
	}
	return c
}

func TestCodec_RoundTrip(t *testing.T) {
	c := newTestCodec(t)
	sub := Subject{UID: "u-1", Email: "a@x.com", Role: "user"}

	signed, issued, err := c.IssueAccess(sub)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	decoded, err := c.Decode(signed)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.User != sub {
		t.Errorf("expected subject %+v, got %+v", sub, decoded.User)
	}
	if decoded.Refresh {
		t.Error("access token must not carry the refresh flag")
	}
	if decoded.JTI() == "" || decoded.JTI() != issued.JTI() {
		t.Errorf("jti mismatch: issued %q, decoded %q", issued.JTI(), decoded.JTI())
	}
	if decoded.Expired(time.Now()) {
		t.Error("freshly issued token must not be expired")
	}
}

func TestCodec_RefreshDropsRole(t *testing.T) {
	c := newTestCodec(t)
	signed, _, err := c.IssueRefresh(Subject{UID: "u-1", Email: "a@x.com", Role: "admin"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	decoded, err := c.Decode(signed)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !decoded.Refresh {
		t.Error("refresh token must carry the refresh flag")
	}
	if decoded.User.Role != "" {
		t.Errorf("refresh token must not embed a role, got %q", decoded.User.Role)
	}
}

func TestCodec_JTIUnique(t *testing.T) {
	c := newTestCodec(t)
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		_, claims, err := c.IssueAccess(Subject{UID: "u-1", Email: "a@x.com"})
		if err != nil {
			t.Fatalf("issue: %v", err)
		}
		if seen[claims.JTI()] {
			t.Fatalf("duplicate jti %q", claims.JTI())
		}
		seen[claims.JTI()] = true
	}
}

func TestCodec_DecodeRejectsTampering(t *testing.T) {
	c := newTestCodec(t)
	signed, _, err := c.IssueAccess(Subject{UID: "u-1", Email: "a@x.com", Role: "user"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	cases := map[string]string{
		"garbage":           "not-a-token",
		"empty":             "",
		"truncated":         signed[:len(signed)-10],
		"flipped signature": signed[:len(signed)-2] + "xx",
	}
	for name, tok := range cases {
		if _, err := c.Decode(tok); err != ErrInvalid {
			t.Errorf("%s: expected ErrInvalid, got %v", name, err)
		}
	}
}

func TestCodec_DecodeRejectsForeignSecret(t *testing.T) {
	c := newTestCodec(t)
	other, err := NewCodec(Config{Secret: "different-secret"})
	if err != nil {
		t.Fatalf("failed to create codec: %v", err)
	}
	signed, _, err := other.IssueAccess(Subject{UID: "u-1", Email: "a@x.com"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := c.Decode(signed); err != ErrInvalid {
		t.Errorf("expected ErrInvalid for foreign secret, got %v", err)
	}
}

func TestCodec_DecodeDoesNotEnforceExpiry(t *testing.T) {
	c := newTestCodec(t)
	signed, _, err := c.Issue(Subject{UID: "u-1", Email: "a@x.com"}, KindAccess, PurposeSession, -time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	// The codec separates signature validity from temporal validity: an
	// expired token still decodes, and the claims report it as expired.
	decoded, err := c.Decode(signed)
	if err != nil {
		t.Fatalf("expected expired token to decode, got %v", err)
	}
	if !decoded.Expired(time.Now()) {
		t.Error("expected claims to report expiry")
	}
}

func TestCodec_PurposeTokens(t *testing.T) {
	c := newTestCodec(t)
	signed, err := c.IssuePurpose("a@x.com", PurposeVerify)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	decoded, err := c.Decode(signed)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Purpose != PurposeVerify {
		t.Errorf("expected purpose %q, got %q", PurposeVerify, decoded.Purpose)
	}
	if decoded.User.Email != "a@x.com" {
		t.Errorf("expected email payload, got %q", decoded.User.Email)
	}

	// Session tokens carry no purpose, so they can never pass as a
	// verification or reset token.
	sess, _, err := c.IssueAccess(Subject{UID: "u-1", Email: "a@x.com"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	sessClaims, err := c.Decode(sess)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if sessClaims.Purpose != PurposeSession {
		t.Errorf("session token must have empty purpose, got %q", sessClaims.Purpose)
	}
}

func TestCodec_ConfigValidation(t *testing.T) {
	if _, err := NewCodec(Config{}); err == nil {
		t.Error("expected error for missing secret")
	}
	if _, err := NewCodec(Config{Secret: "s", AccessTTL: time.Hour, RefreshTTL: time.Minute}); err == nil {
		t.Error("expected error for refresh_ttl shorter than access_ttl")
	} else if !strings.Contains(err.Error(), "refresh_ttl") {
		t.Errorf("unexpected error: %v", err)
	}
}
