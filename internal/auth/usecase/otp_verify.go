package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/LaFavela/sehatin-be-auth/internal/auth/entity"
	"github.com/LaFavela/sehatin-be-auth/internal/pkg/goerror"
	"github.com/LaFavela/sehatin-be-auth/internal/pkg/jwt"
)

type OtpVerifyInput struct {
	SessionToken string `validate:"required"`
	Otp          string `validate:"required,otp"`
}

// OtpVerify validates a submitted passcode against its challenge.
//
// The checks are ordered: a missing challenge wins over expiry, expiry wins
// over a wrong passcode. Consumption is a single conditional update so two
// racing verifications cannot both succeed.
func (s *Usecase) OtpVerify(ctx context.Context, in OtpVerifyInput) error {
	ctx, span := s.startSpan(ctx, "OtpVerify")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	// A token that fails signature or claim checks never had a challenge
	// issued for it. An expired token falls through to the row checks so
	// the lookup keeps deciding between not found and expired.
	if _, err := s.jwt.VerifySession(in.SessionToken); err != nil && !errors.Is(err, jwt.ErrTokenExpired) {
		slog.WarnContext(ctx, "invalid otp session token", "error", err)
		return goerror.NewBusiness("OTP challenge not found", goerror.CodeNotFound)
	}

	tokenHash, err := s.hmac.Hash(in.SessionToken)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash otp session token", "error", err)
		return goerror.NewServer(err)
	}

	ch, err := s.repoDB.GetOtpChallengeByTokenHash(ctx, string(tokenHash))
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "otp challenge not found")
		return goerror.NewBusiness("OTP challenge not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get otp challenge", "error", err)
		return goerror.NewServer(err)
	}

	if s.clock.Now().After(ch.ExpiresAt) {
		slog.WarnContext(ctx, "otp challenge expired", "user_id", ch.UserID, "challenge_id", ch.ID)
		return goerror.NewBusiness("OTP has expired", goerror.CodeExpired)
	}

	if !s.hmac.Verify(ch.PasscodeHash, in.Otp) {
		slog.WarnContext(ctx, "otp passcode mismatch", "user_id", ch.UserID, "challenge_id", ch.ID)
		return goerror.NewBusiness("incorrect OTP", goerror.CodeMismatch)
	}

	consumed, err := s.repoDB.ConsumeOtpChallenge(ctx, ch.ID, s.clock.Now())
	if err != nil {
		slog.ErrorContext(ctx, "failed to consume otp challenge", "user_id", ch.UserID, "challenge_id", ch.ID, "error", err)
		return goerror.NewServer(err)
	}
	if !consumed {
		slog.WarnContext(ctx, "otp challenge already verified", "user_id", ch.UserID, "challenge_id", ch.ID)
		return goerror.NewBusiness("OTP already verified", goerror.CodeConflict)
	}

	if ch.Purpose == entity.OtpPurposeRegister {
		if err := s.repoUser.MarkEmailVerified(ctx, ch.UserID); err != nil {
			slog.ErrorContext(ctx, "failed to mark email verified", "user_id", ch.UserID, "error", err)
			return goerror.NewUnavailable(err, "verification is temporarily unavailable")
		}
	}

	return nil
}
