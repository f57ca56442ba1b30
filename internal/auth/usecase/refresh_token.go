package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/LaFavela/sehatin-be-auth/internal/auth/entity"
	"github.com/LaFavela/sehatin-be-auth/internal/pkg/goerror"
)

type RefreshTokenInput struct {
	RefreshToken string `validate:"required"`
}

type RefreshTokenOutput struct {
	AccessToken  string
	RefreshToken string
}

func (s *Usecase) RefreshToken(ctx context.Context, in RefreshTokenInput) (*RefreshTokenOutput, error) {
	ctx, span := s.startSpan(ctx, "RefreshToken")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	tokenHash, err := s.hmac.Hash(in.RefreshToken)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash refresh token", "error", err)
		return nil, goerror.NewServer(err)
	}

	rt, err := s.repoDB.GetRefreshTokenByHash(ctx, string(tokenHash))
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "refresh token not found")
		return nil, goerror.NewBusiness("invalid refresh token", goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get refresh token", "error", err)
		return nil, goerror.NewServer(err)
	}

	// A rotated token presented again means the token leaked. Revoke the
	// whole family for the subject.
	if rt.Revoked {
		slog.WarnContext(ctx, "revoked refresh token reused", "user_id", rt.UserID, "token_id", rt.ID)
		if err := s.repoDB.RevokeAllRefreshTokens(ctx, rt.UserID); err != nil {
			slog.ErrorContext(ctx, "failed to revoke refresh token family", "user_id", rt.UserID, "error", err)
			return nil, goerror.NewServer(err)
		}
		return nil, goerror.NewBusiness("invalid refresh token", goerror.CodeUnauthorized)
	}

	if s.clock.Now().After(rt.ExpiresAt) {
		slog.WarnContext(ctx, "refresh token expired", "user_id", rt.UserID, "token_id", rt.ID)
		return nil, goerror.NewBusiness("invalid refresh token", goerror.CodeUnauthorized)
	}

	access, err := s.jwt.Generate(rt.UserID, rt.UserEmail)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate access token", "user_id", rt.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	newToken := s.oid.Generate()
	newTokenHash, err := s.hmac.Hash(newToken)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash rotated refresh token", "user_id", rt.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	if err := s.repoDB.RotateRefreshToken(ctx, entity.RotateRefreshToken{
		NewID:        s.uid.Generate(),
		OldID:        rt.ID,
		UserID:       rt.UserID,
		UserEmail:    rt.UserEmail,
		NewTokenHash: string(newTokenHash),
		NewExpiresAt: s.clock.Now().Add(s.cfg.GetDay("modules.auth.refresh_token_ttl_days")),
	}); err != nil {
		slog.ErrorContext(ctx, "failed to rotate refresh token", "user_id", rt.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &RefreshTokenOutput{
		AccessToken:  access,
		RefreshToken: newToken,
	}, nil
}
