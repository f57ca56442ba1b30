package jwt

import (
	"errors"
	"strings"
	"testing"
	"time"
)

type stubClock struct {
	now time.Time
}

func (c *stubClock) Now() time.Time {
	return c.now
}

type stubUUID struct {
	n int
}

func (s *stubUUID) Generate() string {
	s.n++
	return "jti-" + strings.Repeat("x", s.n)
}

func newTestJWT(t *testing.T, clk *stubClock) *Symmetric {
	t.Helper()

	s, err := NewHS512(Config{
		Secret:    []byte(strings.Repeat("s", 64)),
		Issuer:    "issuer-test",
		Audiences: []string{"aud-test"},
		TTL:       15 * time.Minute,
		Clock:     clk,
		UUID:      &stubUUID{},
	})
	if err != nil {
		t.Fatalf("new hs512: %v", err)
	}

	return s
}

func TestNewHS512(t *testing.T) {
	t.Run("RejectsShortSecret", func(t *testing.T) {
		// Arrange
		cfg := Config{Secret: []byte("too-short")}

		// Act
		_, err := NewHS512(cfg)

		// Assert
		if !errors.Is(err, ErrSigningKeyTooShort) {
			t.Fatalf("expected ErrSigningKeyTooShort, got %v", err)
		}
	})
}

func TestSymmetricAccessToken(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		// Arrange
		s := newTestJWT(t, &stubClock{now: time.Now()})

		// Act
		token, err := s.Generate(42, "user@example.com")
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		clm, err := s.Verify(token)

		// Assert
		if err != nil {
			t.Fatalf("verify: %v", err)
		}
		if clm.UserID != 42 || clm.UserEmail != "user@example.com" {
			t.Fatalf("wrong subject claims: %+v", clm)
		}
		if clm.ID == "" {
			t.Fatalf("expected a jti claim")
		}
		if clm.Issuer != "issuer-test" {
			t.Fatalf("wrong issuer: %q", clm.Issuer)
		}
	})

	t.Run("Expired", func(t *testing.T) {
		// Arrange
		s := newTestJWT(t, &stubClock{now: time.Now().Add(-time.Hour)})

		// Act
		token, err := s.Generate(42, "user@example.com")
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		_, err = s.Verify(token)

		// Assert
		if !errors.Is(err, ErrTokenExpired) {
			t.Fatalf("expected ErrTokenExpired, got %v", err)
		}
	})

	t.Run("WrongKey", func(t *testing.T) {
		// Arrange
		clk := &stubClock{now: time.Now()}
		signer := newTestJWT(t, clk)
		other, err := NewHS512(Config{
			Secret:    []byte(strings.Repeat("o", 64)),
			Issuer:    "issuer-test",
			Audiences: []string{"aud-test"},
			TTL:       15 * time.Minute,
			Clock:     clk,
			UUID:      &stubUUID{},
		})
		if err != nil {
			t.Fatalf("new hs512: %v", err)
		}

		// Act
		token, err := signer.Generate(42, "user@example.com")
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		_, err = other.Verify(token)

		// Assert
		if err == nil {
			t.Fatalf("expected verification to fail with a different key")
		}
	})
}

func TestSymmetricSessionToken(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		// Arrange
		s := newTestJWT(t, &stubClock{now: time.Now()})

		// Act
		token, err := s.GenerateSession(42, "REGISTER", 5*time.Minute)
		if err != nil {
			t.Fatalf("generate session: %v", err)
		}
		clm, err := s.VerifySession(token)

		// Assert
		if err != nil {
			t.Fatalf("verify session: %v", err)
		}
		if clm.Purpose != "REGISTER" {
			t.Fatalf("wrong purpose: %q", clm.Purpose)
		}
		if clm.Subject != "42" {
			t.Fatalf("wrong subject: %q", clm.Subject)
		}
	})

	t.Run("Expired", func(t *testing.T) {
		// Arrange
		s := newTestJWT(t, &stubClock{now: time.Now().Add(-time.Hour)})

		// Act
		token, err := s.GenerateSession(42, "FORGOT_PASSWORD", 5*time.Minute)
		if err != nil {
			t.Fatalf("generate session: %v", err)
		}
		_, err = s.VerifySession(token)

		// Assert
		if !errors.Is(err, ErrTokenExpired) {
			t.Fatalf("expected ErrTokenExpired, got %v", err)
		}
	})
}
