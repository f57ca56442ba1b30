package usecase

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/LaFavela/sehatin-be-auth/internal/pkg/goerror"
	"github.com/LaFavela/sehatin-be-auth/internal/pkg/jwt"
	"github.com/samber/lo"
)

type TokenVerifyOutput struct {
	UserID int64
	Email  string
	Roles  []string
}

// TokenVerify introspects the bearer token already authenticated by the
// middleware chain (signature, expiry, and revocation denylist) and returns
// the subject with its assigned roles.
func (s *Usecase) TokenVerify(ctx context.Context) (*TokenVerifyOutput, error) {
	ctx, span := s.startSpan(ctx, "TokenVerify")
	defer span.End()

	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, goerror.NewBusiness("authentication required", goerror.CodeUnauthorized)
	}

	roles, err := s.enforcer.GetRolesForUser("user:" + strconv.FormatInt(clm.UserID, 10))
	if err != nil {
		slog.ErrorContext(ctx, "failed to get roles for user", "user_id", clm.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &TokenVerifyOutput{
		UserID: clm.UserID,
		Email:  clm.UserEmail,
		Roles: lo.Map(roles, func(role string, _ int) string {
			return strings.TrimPrefix(role, "role:")
		}),
	}, nil
}
