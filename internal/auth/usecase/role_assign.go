package usecase

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/LaFavela/sehatin-be-auth/internal/auth/entity"
	"github.com/LaFavela/sehatin-be-auth/internal/pkg/goerror"
)

type RoleAssignInput struct {
	UserID int64  `validate:"required"`
	Role   string `validate:"required"`
}

// RoleAssign grants a role to a user as a grouping rule. The route is
// restricted to administrators by the authorization middleware.
func (s *Usecase) RoleAssign(ctx context.Context, in RoleAssignInput) error {
	ctx, span := s.startSpan(ctx, "RoleAssign")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	role := entity.RoleFromString(in.Role)
	if role.IsUnknown() {
		return goerror.NewInvalidInput(nil, "role", "role is unknown")
	}

	added, err := s.enforcer.AddGroupingPolicy("user:"+strconv.FormatInt(in.UserID, 10), role.Subject())
	if err != nil {
		slog.ErrorContext(ctx, "failed to add grouping policy", "user_id", in.UserID, "role", role.String(), "error", err)
		return goerror.NewServer(err)
	}
	if !added {
		slog.WarnContext(ctx, "role already assigned", "user_id", in.UserID, "role", role.String())
		return goerror.NewBusiness("role already assigned", goerror.CodeConflict)
	}

	return nil
}
