package hash

import (
	"bytes"
	"testing"
)

func TestHMACSHA256(t *testing.T) {
	t.Run("Deterministic", func(t *testing.T) {
		// Arrange
		h := NewHMACSHA256("secret-a")

		// Act
		first, err := h.Hash("token-value")
		if err != nil {
			t.Fatalf("hash: %v", err)
		}
		second, err := h.Hash("token-value")
		if err != nil {
			t.Fatalf("hash: %v", err)
		}

		// Assert
		if !bytes.Equal(first, second) {
			t.Fatalf("expected deterministic output, got %s and %s", first, second)
		}
		if !h.Verify(string(first), "token-value") {
			t.Fatalf("expected verification to succeed")
		}
	})

	t.Run("DifferentSecretsDiffer", func(t *testing.T) {
		// Arrange
		a := NewHMACSHA256("secret-a")
		b := NewHMACSHA256("secret-b")

		// Act
		ha, _ := a.Hash("token-value")

		// Assert
		if b.Verify(string(ha), "token-value") {
			t.Fatalf("hash must not verify under a different secret")
		}
	})

	t.Run("RejectsWrongPlaintext", func(t *testing.T) {
		// Arrange
		h := NewHMACSHA256("secret-a")

		// Act
		hashed, _ := h.Hash("token-value")

		// Assert
		if h.Verify(string(hashed), "other-value") {
			t.Fatalf("wrong plaintext must not verify")
		}
	})
}

func TestBcrypt(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		// Arrange
		h := NewBcrypt(4, "pepper-a")

		// Act
		hashed, err := h.Hash("password-value")
		if err != nil {
			t.Fatalf("hash: %v", err)
		}

		// Assert
		if !h.Verify(string(hashed), "password-value") {
			t.Fatalf("expected verification to succeed")
		}
		if h.Verify(string(hashed), "wrong-password") {
			t.Fatalf("wrong password must not verify")
		}
	})

	t.Run("PepperIsPartOfTheSecret", func(t *testing.T) {
		// Arrange
		withPepper := NewBcrypt(4, "pepper-a")
		without := NewBcrypt(4, "")

		// Act
		hashed, err := withPepper.Hash("password-value")
		if err != nil {
			t.Fatalf("hash: %v", err)
		}

		// Assert
		if without.Verify(string(hashed), "password-value") {
			t.Fatalf("hash must not verify without the pepper")
		}
	})
}
