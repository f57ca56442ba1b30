package usecase

import (
	"context"
	"log/slog"

	"github.com/LaFavela/sehatin-be-auth/internal/pkg/goerror"
	"github.com/LaFavela/sehatin-be-auth/internal/pkg/jwt"
)

type LogoutInput struct {
	RefreshToken string `validate:"required"`
}

// Logout permanently invalidates the presented access token by denylisting
// its jti for the remainder of its lifetime, and revokes the refresh token.
func (s *Usecase) Logout(ctx context.Context, in LogoutInput) error {
	ctx, span := s.startSpan(ctx, "Logout")
	defer span.End()

	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return goerror.NewBusiness("authentication required", goerror.CodeUnauthorized)
	}

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	if clm.ExpiresAt != nil {
		ttl := clm.ExpiresAt.Time.Sub(s.clock.Now())
		if err := s.denylist.Revoke(ctx, clm.ID, ttl); err != nil {
			slog.ErrorContext(ctx, "failed to denylist access token", "user_id", clm.UserID, "error", err)
			return goerror.NewServer(err)
		}
	}

	tokenHash, err := s.hmac.Hash(in.RefreshToken)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash refresh token", "user_id", clm.UserID, "error", err)
		return goerror.NewServer(err)
	}

	if err := s.repoDB.RevokeRefreshToken(ctx, string(tokenHash)); err != nil {
		slog.ErrorContext(ctx, "failed to revoke refresh token", "user_id", clm.UserID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
