package password

import (
	"strings"
	"testing"
)

func TestBcryptHasher_HashAndVerify(t *testing.T) {
	h := NewBcryptHasher(WithCost(4)) // min cost keeps the test fast

	hash, err := h.Hash("correct-horse")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "correct-horse" {
		t.Fatal("hash must not equal the plaintext")
	}
	if err := h.Verify("correct-horse", hash); err != nil {
		t.Errorf("expected match, got %v", err)
	}
	if err := h.Verify("wrong-password", hash); err != ErrMismatch {
		t.Errorf("expected ErrMismatch, got %v", err)
	}
}

func TestBcryptHasher_SaltsAreRandom(t *testing.T) {
	h := NewBcryptHasher(WithCost(4))
	a, err := h.Hash("same-password")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	b, err := h.Hash("same-password")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if a == b {
		t.Error("two hashes of the same password must differ (random salt)")
	}
}

func TestBcryptHasher_LengthLimits(t *testing.T) {
	h := NewBcryptHasher(WithCost(4))
	if _, err := h.Hash("short"); err == nil {
		t.Error("expected error for password under 8 characters")
	}
	if _, err := h.Hash(strings.Repeat("x", 73)); err == nil {
		t.Error("expected error for password over bcrypt's 72-byte limit")
	}
}

func TestWithCost_IgnoresOutOfRange(t *testing.T) {
	h := NewBcryptHasher(WithCost(99))
	if h.cost != 12 {
		t.Errorf("expected default cost 12 for out-of-range option, got %d", h.cost)
	}
}
