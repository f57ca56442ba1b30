package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/LaFavela/sehatin-be-auth/internal/auth/entity"
	"github.com/LaFavela/sehatin-be-auth/internal/pkg/goerror"
)

type RegisterInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,password"`
}

type RegisterOutput struct {
	UserID       int64
	Email        string
	AccessToken  string
	RefreshToken string
	OtpToken     string
	OtpExpiresAt time.Time
}

func (s *Usecase) Register(ctx context.Context, in RegisterInput) (*RegisterOutput, error) {
	ctx, span := s.startSpan(ctx, "Register")
	defer span.End()

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	// Account creation is not idempotent upstream, so it is never retried.
	user, err := s.repoUser.Create(ctx, in.Email, in.Password)
	if errors.Is(err, goerror.ErrConflict) {
		slog.WarnContext(ctx, "email already registered", "email", in.Email)
		return nil, goerror.NewBusiness("email already registered", goerror.CodeConflict)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to create user account", "email", in.Email, "error", err)
		return nil, goerror.NewUnavailable(err, "registration is temporarily unavailable")
	}

	// Every account starts with the base role; without it the subject
	// could not reach its own session endpoints.
	if _, err := s.enforcer.AddGroupingPolicy("user:"+strconv.FormatInt(user.ID, 10), entity.RoleUser.Subject()); err != nil {
		slog.ErrorContext(ctx, "failed to grant default role", "user_id", user.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	access, refresh, err := s.issueTokenPair(ctx, user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	otp, err := s.issueOtpChallenge(ctx, user.ID, user.Email, entity.OtpPurposeRegister)
	if err != nil {
		return nil, err
	}

	return &RegisterOutput{
		UserID:       user.ID,
		Email:        user.Email,
		AccessToken:  access,
		RefreshToken: refresh,
		OtpToken:     otp.SessionToken,
		OtpExpiresAt: otp.ExpiresAt,
	}, nil
}
