package cryptox

import (
	"bytes"
	"encoding/hex"
	"testing"
)

func TestHashPassword_Deterministic(t *testing.T) {
	password := []byte("secret-password")
	salt := []byte("fixed-salt")

	hash1 := HashPassword(password, salt)
	hash2 := HashPassword(password, salt)

	if !bytes.Equal(hash1, hash2) {
		t.Errorf("expected same result for same inputs, got different")
	}

	// snapshot of the argon2id output for fixed inputs
	expectedHex := "34f7a1c64df63ab1ad5b5ee06e64db5713b35f81839823304db63e8e5e6a6a39"
	if hex.EncodeToString(hash1) != expectedHex {
		t.Errorf("expected %s, got %s", expectedHex, hex.EncodeToString(hash1))
	}
}

func TestHashPassword_DifferentSalts(t *testing.T) {
	password := []byte("secret-password")
	salt1 := []byte("salt-1")
	salt2 := []byte("salt-2")

	hash1 := HashPassword(password, salt1)
	hash2 := HashPassword(password, salt2)

	if bytes.Equal(hash1, hash2) {
		t.Errorf("expected different results for different salts, got same")
	}
}

func TestVerifyPassword(t *testing.T) {
	salt := NewSalt()
	hash := HashPassword([]byte("Passw0rd"), salt)

	if !VerifyPassword([]byte("Passw0rd"), salt, hash) {
		t.Errorf("expected correct password to verify")
	}
	if VerifyPassword([]byte("passw0rd"), salt, hash) {
		t.Errorf("expected wrong password to fail verification")
	}
}

func TestNewSalt(t *testing.T) {
	s1 := NewSalt()
	s2 := NewSalt()

	if len(s1) != SaltSize || len(s2) != SaltSize {
		t.Fatalf("unexpected salt lengths: %d, %d", len(s1), len(s2))
	}
	if bytes.Equal(s1, s2) {
		t.Logf("warning: two salts are identical; extremely unlikely")
	}
}
