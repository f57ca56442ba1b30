package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/LaFavela/sehatin-be-auth/internal/auth/entity"
	"github.com/LaFavela/sehatin-be-auth/internal/pkg/goerror"
)

func TestResetPassword(t *testing.T) {
	t.Run("UnknownEmailReturnsGenericAck", func(t *testing.T) {
		// Arrange
		d := newTestDeps(t)
		d.user.findByEmail = func(string) (*entity.Account, error) {
			return nil, goerror.ErrNotFound
		}
		uc := d.usecase()

		// Act
		err := uc.ResetPassword(context.Background(), ResetPasswordInput{Email: "nobody@example.com"})

		// Assert
		if err != nil {
			t.Fatalf("unknown email must not be observable, got %v", err)
		}
		if len(d.db.otpChallenges) != 0 || len(d.msg.published) != 0 {
			t.Fatalf("nothing may be issued for an unknown email")
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
		err := uc.ResetPassword(context.Background(), ResetPasswordInput{Email: "someone@example.com"})

		// Assert
		ge := asGoerror(t, err)
		if ge.Code() != goerror.CodeUnavailable {
			t.Fatalf("expected unavailable, got %v", ge.Code())
		}
	})

	t.Run("KnownEmailIssuesForgotPasswordChallenge", func(t *testing.T) {
		// Arrange
		d := newTestDeps(t)
		d.user.findByEmail = func(email string) (*entity.Account, error) {
			return &entity.Account{ID: 7, Email: email}, nil
		}
		uc := d.usecase()

		// Act
		err := uc.ResetPassword(context.Background(), ResetPasswordInput{Email: "Known@Example.com"})

		// Assert
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(d.db.otpChallenges) != 1 {
			t.Fatalf("expected one persisted challenge, got %d", len(d.db.otpChallenges))
		}
		if d.db.otpChallenges[0].Purpose != entity.OtpPurposeForgotPassword {
			t.Fatalf("expected forgot password purpose, got %q", d.db.otpChallenges[0].Purpose)
		}
		if len(d.msg.published) != 1 {
			t.Fatalf("expected one published event, got %d", len(d.msg.published))
		}
		if d.msg.published[0].Purpose != entity.OtpPurposeForgotPassword.String() {
			t.Fatalf("event carries wrong purpose: %q", d.msg.published[0].Purpose)
		}
	})
}
