package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/LaFavela/sehatin-be-auth/internal/auth/entity"
	"github.com/LaFavela/sehatin-be-auth/internal/pkg/goerror"
)

func hashString(t *testing.T, h interface {
	Hash(string) ([]byte, error)
}, plaintext string) string {
	t.Helper()

	b, err := h.Hash(plaintext)
	if err != nil {
		t.Fatalf("hash %q: %v", plaintext, err)
	}

	return string(b)
}

func asGoerror(t *testing.T, err error) *goerror.Error {
	t.Helper()

	var ge *goerror.Error
	if !errors.As(err, &ge) {
		t.Fatalf("expected structured error, got %T: %v", err, err)
	}

	return ge
}

func TestLogin(t *testing.T) {
	t.Run("UnknownEmailAndWrongPasswordAreIndistinguishable", func(t *testing.T) {
		// Arrange
		d := newTestDeps(t)
		passwordHash := hashString(t, d.dep.Bcrypt, "correct-password")
		d.user.findByEmail = func(email string) (*entity.Account, error) {
			if email == "known@example.com" {
				return &entity.Account{ID: 7, Email: email, Password: passwordHash}, nil
			}
			return nil, goerror.ErrNotFound
		}
		uc := d.usecase()

		// Act
		_, errUnknown := uc.Login(context.Background(), LoginInput{Email: "nobody@example.com", Password: "whatever-password"})
		_, errWrongPass := uc.Login(context.Background(), LoginInput{Email: "known@example.com", Password: "wrong-password"})

		// Assert
		geUnknown := asGoerror(t, errUnknown)
		geWrongPass := asGoerror(t, errWrongPass)
		if geUnknown.Code() != goerror.CodeUnauthorized || geWrongPass.Code() != goerror.CodeUnauthorized {
			t.Fatalf("expected unauthorized for both, got %v and %v", geUnknown.Code(), geWrongPass.Code())
		}
		if geUnknown.Msg() != geWrongPass.Msg() {
			t.Fatalf("expected identical messages, got %q and %q", geUnknown.Msg(), geWrongPass.Msg())
		}
	})

	t.Run("UpstreamFailureIsUnavailable", func(t *testing.T) {
		// Arrange
		d := newTestDeps(t)
		d.user.findByEmail = func(string) (*entity.Account, error) {
			return nil, errors.New("connection refused")
		}
		uc := d.usecase()

		// Act
		_, err := uc.Login(context.Background(), LoginInput{Email: "someone@example.com", Password: "some-password"})

		// Assert
		ge := asGoerror(t, err)
		if ge.Code() != goerror.CodeUnavailable {
			t.Fatalf("expected unavailable, got %v", ge.Code())
		}
		if ge.StatusCode() != 503 {
			t.Fatalf("expected status 503, got %d", ge.StatusCode())
		}
	})

	t.Run("Success", func(t *testing.T) {
		// Arrange
		d := newTestDeps(t)
		passwordHash := hashString(t, d.dep.Bcrypt, "correct-password")
		d.user.findByEmail = func(email string) (*entity.Account, error) {
			return &entity.Account{ID: 7, Email: email, Password: passwordHash}, nil
		}
		uc := d.usecase()

		// Act
		out, err := uc.Login(context.Background(), LoginInput{Email: "Known@Example.com", Password: "correct-password"})

		// Assert
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.AccessToken == "" || out.RefreshToken == "" {
			t.Fatalf("expected tokens in output")
		}
		if out.TokenType != "Bearer" {
			t.Fatalf("expected Bearer token type, got %q", out.TokenType)
		}
		if out.ExpiresIn != 900 {
			t.Fatalf("expected expires_in 900, got %d", out.ExpiresIn)
		}
		if len(d.db.refreshTokens) != 1 {
			t.Fatalf("expected one persisted refresh token, got %d", len(d.db.refreshTokens))
		}
		stored := d.db.refreshTokens[0]
		if stored.TokenHash != hashString(t, d.hmac, out.RefreshToken) {
			t.Fatalf("persisted hash does not match returned token")
		}
		if stored.TokenHash == out.RefreshToken {
			t.Fatalf("refresh token must not be stored in plaintext")
		}
		if got, want := stored.ExpiresAt, d.clock.now.AddDate(0, 0, 30); !got.Equal(want) {
			t.Fatalf("expected refresh expiry %v, got %v", want, got)
		}
		if stored.UserEmail != "known@example.com" {
			t.Fatalf("expected normalized email on token row, got %q", stored.UserEmail)
		}
	})
}
