package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/LaFavela/sehatin-be-auth/internal/pkg/goerror"
)

func TestRoleAssign(t *testing.T) {
	t.Run("UnknownRole", func(t *testing.T) {
		// Arrange
		d := newTestDeps(t)
		uc := d.usecase()

		// Act
		err := uc.RoleAssign(context.Background(), RoleAssignInput{UserID: 7, Role: "superuser"})

		// Assert
		ge := asGoerror(t, err)
		if ge.Code() != goerror.CodeInvalidInput {
			t.Fatalf("expected invalid input, got %v", ge.Code())
		}
	})

	t.Run("AssignTwiceConflicts", func(t *testing.T) {
		// Arrange
		d := newTestDeps(t)
		uc := d.usecase()

		// Act
		errFirst := uc.RoleAssign(context.Background(), RoleAssignInput{UserID: 7, Role: "nutritionist"})
		errSecond := uc.RoleAssign(context.Background(), RoleAssignInput{UserID: 7, Role: "nutritionist"})

		// Assert
		if errFirst != nil {
			t.Fatalf("unexpected error on first assignment: %v", errFirst)
		}
		ge := asGoerror(t, errSecond)
		if ge.Code() != goerror.CodeConflict {
			t.Fatalf("expected conflict, got %v", ge.Code())
		}
	})
}

func TestRoleRemove(t *testing.T) {
	t.Run("NotAssigned", func(t *testing.T) {
		// Arrange
		d := newTestDeps(t)
		uc := d.usecase()

		// Act
		err := uc.RoleRemove(context.Background(), RoleRemoveInput{UserID: 7, Role: "admin"})

		// Assert
		ge := asGoerror(t, err)
		if ge.Code() != goerror.CodeNotFound {
			t.Fatalf("expected not found, got %v", ge.Code())
		}
	})

	t.Run("AssignedThenRemoved", func(t *testing.T) {
		// Arrange
		d := newTestDeps(t)
		uc := d.usecase()
		if err := uc.RoleAssign(context.Background(), RoleAssignInput{UserID: 7, Role: "admin"}); err != nil {
			t.Fatalf("assign: %v", err)
		}

		// Act
		err := uc.RoleRemove(context.Background(), RoleRemoveInput{UserID: 7, Role: "admin"})

		// Assert
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestTokenVerify(t *testing.T) {
	t.Run("Unauthenticated", func(t *testing.T) {
		// Arrange
		d := newTestDeps(t)
		uc := d.usecase()

		// Act
		_, err := uc.TokenVerify(context.Background())

		// Assert
		ge := asGoerror(t, err)
		if ge.Code() != goerror.CodeUnauthorized {
			t.Fatalf("expected unauthorized, got %v", ge.Code())
		}
	})

	t.Run("ReturnsSubjectWithRoles", func(t *testing.T) {
		// Arrange
		d := newTestDeps(t)
		uc := d.usecase()
		if err := uc.RoleAssign(context.Background(), RoleAssignInput{UserID: 7, Role: "user"}); err != nil {
			t.Fatalf("assign: %v", err)
		}
		if err := uc.RoleAssign(context.Background(), RoleAssignInput{UserID: 7, Role: "nutritionist"}); err != nil {
			t.Fatalf("assign: %v", err)
		}

		// Act
		out, err := uc.TokenVerify(authedContext(d, "jti-verify", 10*time.Minute))

		// Assert
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.UserID != 7 || out.Email != "known@example.com" {
			t.Fatalf("wrong subject: %+v", out)
		}
		if len(out.Roles) != 2 {
			t.Fatalf("expected two roles, got %v", out.Roles)
		}
		for _, role := range out.Roles {
			if role != "user" && role != "nutritionist" {
				t.Fatalf("unexpected role %q", role)
			}
		}
	})
}
