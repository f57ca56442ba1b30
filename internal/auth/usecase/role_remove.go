package usecase

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/LaFavela/sehatin-be-auth/internal/auth/entity"
	"github.com/LaFavela/sehatin-be-auth/internal/pkg/goerror"
)

type RoleRemoveInput struct {
	UserID int64  `validate:"required"`
	Role   string `validate:"required"`
}

// RoleRemove revokes a role from a user. Removing a role that was never
// assigned reports not found.
func (s *Usecase) RoleRemove(ctx context.Context, in RoleRemoveInput) error {
	ctx, span := s.startSpan(ctx, "RoleRemove")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	role := entity.RoleFromString(in.Role)
	if role.IsUnknown() {
		return goerror.NewInvalidInput(nil, "role", "role is unknown")
	}

	removed, err := s.enforcer.RemoveGroupingPolicy("user:"+strconv.FormatInt(in.UserID, 10), role.Subject())
	if err != nil {
		slog.ErrorContext(ctx, "failed to remove grouping policy", "user_id", in.UserID, "role", role.String(), "error", err)
		return goerror.NewServer(err)
	}
	if !removed {
		slog.WarnContext(ctx, "role not assigned", "user_id", in.UserID, "role", role.String())
		return goerror.NewBusiness("role not assigned", goerror.CodeNotFound)
	}

	return nil
}
