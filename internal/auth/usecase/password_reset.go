package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/LaFavela/sehatin-be-auth/internal/auth/entity"
	"github.com/LaFavela/sehatin-be-auth/internal/pkg/goerror"
)

type ResetPasswordInput struct {
	Email string `validate:"required,email"`
}

// ResetPassword starts the password reset flow. The response is the same
// generic acknowledgment whether or not an account exists, so the endpoint
// cannot be used to enumerate registered emails.
func (s *Usecase) ResetPassword(ctx context.Context, in ResetPasswordInput) error {
	ctx, span := s.startSpan(ctx, "ResetPassword")
	defer span.End()

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	user, err := s.repoUser.FindByEmail(ctx, in.Email)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "password reset requested for unknown email", "email", in.Email)
		return nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to find user by email", "email", in.Email, "error", err)
		return goerror.NewUnavailable(err, "password reset is temporarily unavailable")
	}

	if _, err := s.issueOtpChallenge(ctx, user.ID, user.Email, entity.OtpPurposeForgotPassword); err != nil {
		return err
	}

	return nil
}
