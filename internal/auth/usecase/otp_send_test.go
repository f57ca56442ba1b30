package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/LaFavela/sehatin-be-auth/internal/auth/entity"
	"github.com/LaFavela/sehatin-be-auth/internal/pkg/goerror"
	"github.com/LaFavela/sehatin-be-auth/internal/pkg/idempotency"
)

func TestOtpSend(t *testing.T) {
	t.Run("Unauthenticated", func(t *testing.T) {
		// Arrange
		d := newTestDeps(t)
		uc := d.usecase()

		// Act
		_, err := uc.OtpSend(context.Background())

		// Assert
		ge := asGoerror(t, err)
		if ge.Code() != goerror.CodeUnauthorized {
			t.Fatalf("expected unauthorized, got %v", ge.Code())
		}
	})

	t.Run("ThrottledInsideCooldown", func(t *testing.T) {
		// Arrange
		d := newTestDeps(t)
		d.idemp.execErr = idempotency.ErrAlreadyCompleted
		uc := d.usecase()

		// Act
		_, err := uc.OtpSend(authedContext(d, "jti-send", 10*time.Minute))

		// Assert
		ge := asGoerror(t, err)
		if ge.Code() != goerror.CodeTooManyRequest {
			t.Fatalf("expected too many requests, got %v", ge.Code())
		}
		if len(d.db.otpChallenges) != 0 {
			t.Fatalf("throttled send must not issue a challenge")
		}
	})

	t.Run("Success", func(t *testing.T) {
		// Arrange
		d := newTestDeps(t)
		uc := d.usecase()

		// Act
		out, err := uc.OtpSend(authedContext(d, "jti-send", 10*time.Minute))

		// Assert
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.SessionToken == "" {
			t.Fatalf("expected session token in output")
		}
		if got, want := out.ExpiresAt, d.clock.now.Add(5*time.Minute); !got.Equal(want) {
			t.Fatalf("expected expiry %v, got %v", want, got)
		}
		if len(d.idemp.keys) != 1 || d.idemp.keys[0] != "otp_send:7" {
			t.Fatalf("expected cooldown keyed by subject, got %v", d.idemp.keys)
		}
		if len(d.db.otpChallenges) != 1 {
			t.Fatalf("expected one persisted challenge, got %d", len(d.db.otpChallenges))
		}
		if d.db.otpChallenges[0].Purpose != entity.OtpPurposeRegister {
			t.Fatalf("expected register purpose, got %q", d.db.otpChallenges[0].Purpose)
		}
	})
}
