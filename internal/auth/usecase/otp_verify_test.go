package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/LaFavela/sehatin-be-auth/internal/auth/entity"
	"github.com/LaFavela/sehatin-be-auth/internal/pkg/goerror"
	"github.com/LaFavela/sehatin-be-auth/internal/pkg/jwt"
)

func TestOtpVerify(t *testing.T) {
	const code = "123456"

	// mintSessionToken signs a session token with the same key material the
	// shared deps use, pinned to wall time so it is valid when verified.
	mintSessionToken := func(t *testing.T, purpose entity.OtpPurpose) string {
		t.Helper()

		signer, err := jwt.NewHS512(jwt.Config{
			Secret:    []byte(strings.Repeat("s", 64)),
			Issuer:    "sehatin-test",
			Audiences: []string{"sehatin"},
			TTL:       15 * time.Minute,
			Clock:     &fakeClock{now: time.Now()},
			UUID:      &fakeStringID{prefix: "otp-jti"},
		})
		if err != nil {
			t.Fatalf("build jwt: %v", err)
		}

		token, err := signer.GenerateSession(7, purpose.String(), time.Hour)
		if err != nil {
			t.Fatalf("generate session token: %v", err)
		}

		return token
	}

	seedChallenge := func(t *testing.T, d *testDeps, token string, purpose entity.OtpPurpose, expiresAt time.Time) entity.OtpChallenge {
		t.Helper()

		ch := entity.OtpChallenge{
			ID:           42,
			UserID:       7,
			TokenHash:    hashString(t, d.hmac, token),
			PasscodeHash: hashString(t, d.hmac, code),
			Purpose:      purpose,
			ExpiresAt:    expiresAt,
		}
		d.db.getOtpChallenge = func(tokenHash string) (*entity.OtpChallenge, error) {
			if tokenHash != ch.TokenHash {
				return nil, goerror.ErrNotFound
			}
			cp := ch
			return &cp, nil
		}

		return ch
	}

	t.Run("InvalidPasscodeFormat", func(t *testing.T) {
		// Arrange
		d := newTestDeps(t)
		uc := d.usecase()

		// Act
		err := uc.OtpVerify(context.Background(), OtpVerifyInput{SessionToken: mintSessionToken(t, entity.OtpPurposeRegister), Otp: "12345"})

		// Assert
		ge := asGoerror(t, err)
		if ge.Code() != goerror.CodeInvalidInput {
			t.Fatalf("expected invalid input, got %v", ge.Code())
		}
	})

	t.Run("ForgedSessionToken", func(t *testing.T) {
		// Arrange
		d := newTestDeps(t)
		d.db.getOtpChallenge = func(string) (*entity.OtpChallenge, error) {
			t.Fatalf("store must not be queried for a token that fails verification")
			return nil, nil
		}
		uc := d.usecase()

		// Act
		err := uc.OtpVerify(context.Background(), OtpVerifyInput{SessionToken: "not-a-session-token", Otp: code})

		// Assert
		ge := asGoerror(t, err)
		if ge.Code() != goerror.CodeNotFound {
			t.Fatalf("expected not found, got %v", ge.Code())
		}
	})

	t.Run("ChallengeNotFound", func(t *testing.T) {
		// Arrange
		d := newTestDeps(t)
		d.db.getOtpChallenge = func(string) (*entity.OtpChallenge, error) {
			return nil, goerror.ErrNotFound
		}
		uc := d.usecase()

		// Act
		err := uc.OtpVerify(context.Background(), OtpVerifyInput{SessionToken: mintSessionToken(t, entity.OtpPurposeRegister), Otp: code})

		// Assert
		ge := asGoerror(t, err)
		if ge.Code() != goerror.CodeNotFound {
			t.Fatalf("expected not found, got %v", ge.Code())
		}
	})

	t.Run("ExpiredWinsOverMismatch", func(t *testing.T) {
		// Arrange
		d := newTestDeps(t)
		token := mintSessionToken(t, entity.OtpPurposeRegister)
		seedChallenge(t, d, token, entity.OtpPurposeRegister, d.clock.now.Add(-time.Minute))
		uc := d.usecase()

		// Act
		err := uc.OtpVerify(context.Background(), OtpVerifyInput{SessionToken: token, Otp: "654321"})

		// Assert
		ge := asGoerror(t, err)
		if ge.Code() != goerror.CodeExpired {
			t.Fatalf("expected expired, got %v", ge.Code())
		}
		if len(d.db.consumedIDs) != 0 {
			t.Fatalf("expired challenge must not be consumed")
		}
	})

	t.Run("MismatchDoesNotConsume", func(t *testing.T) {
		// Arrange
		d := newTestDeps(t)
		token := mintSessionToken(t, entity.OtpPurposeRegister)
		seedChallenge(t, d, token, entity.OtpPurposeRegister, d.clock.now.Add(5*time.Minute))
		d.db.consumeResult = true
		uc := d.usecase()

		// Act
		err := uc.OtpVerify(context.Background(), OtpVerifyInput{SessionToken: token, Otp: "654321"})

		// Assert
		ge := asGoerror(t, err)
		if ge.Code() != goerror.CodeMismatch {
			t.Fatalf("expected mismatch, got %v", ge.Code())
		}
		if ge.StatusCode() != 400 {
			t.Fatalf("expected status 400, got %d", ge.StatusCode())
		}
		if len(d.db.consumedIDs) != 0 {
			t.Fatalf("mismatched passcode must not consume the challenge")
		}
		if len(d.user.markVerifiedCalls) != 0 {
			t.Fatalf("mismatched passcode must not verify the account")
		}
	})

	t.Run("AlreadyVerified", func(t *testing.T) {
		// Arrange
		d := newTestDeps(t)
		token := mintSessionToken(t, entity.OtpPurposeRegister)
		seedChallenge(t, d, token, entity.OtpPurposeRegister, d.clock.now.Add(5*time.Minute))
		d.db.consumeResult = false
		uc := d.usecase()

		// Act
		err := uc.OtpVerify(context.Background(), OtpVerifyInput{SessionToken: token, Otp: code})

		// Assert
		ge := asGoerror(t, err)
		if ge.Code() != goerror.CodeConflict {
			t.Fatalf("expected conflict, got %v", ge.Code())
		}
		if len(d.user.markVerifiedCalls) != 0 {
			t.Fatalf("consumed challenge must not verify the account again")
		}
	})

	t.Run("RegisterSuccessMarksEmailVerified", func(t *testing.T) {
		// Arrange
		d := newTestDeps(t)
		token := mintSessionToken(t, entity.OtpPurposeRegister)
		ch := seedChallenge(t, d, token, entity.OtpPurposeRegister, d.clock.now.Add(5*time.Minute))
		d.db.consumeResult = true
		uc := d.usecase()

		// Act
		err := uc.OtpVerify(context.Background(), OtpVerifyInput{SessionToken: token, Otp: code})

		// Assert
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(d.db.consumedIDs) != 1 || d.db.consumedIDs[0] != ch.ID {
			t.Fatalf("expected challenge %d consumed, got %v", ch.ID, d.db.consumedIDs)
		}
		if len(d.user.markVerifiedCalls) != 1 || d.user.markVerifiedCalls[0] != ch.UserID {
			t.Fatalf("expected email verified for user %d, got %v", ch.UserID, d.user.markVerifiedCalls)
		}
	})

	t.Run("ForgotPasswordSuccessDoesNotTouchAccount", func(t *testing.T) {
		// Arrange
		d := newTestDeps(t)
		token := mintSessionToken(t, entity.OtpPurposeForgotPassword)
		seedChallenge(t, d, token, entity.OtpPurposeForgotPassword, d.clock.now.Add(5*time.Minute))
		d.db.consumeResult = true
		uc := d.usecase()

		// Act
		err := uc.OtpVerify(context.Background(), OtpVerifyInput{SessionToken: token, Otp: code})

		// Assert
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(d.user.markVerifiedCalls) != 0 {
			t.Fatalf("password reset verification must not mark the email verified")
		}
	})
}
