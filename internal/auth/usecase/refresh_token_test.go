package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/LaFavela/sehatin-be-auth/internal/auth/entity"
	"github.com/LaFavela/sehatin-be-auth/internal/pkg/goerror"
)

func TestRefreshToken(t *testing.T) {
	const presented = "presented-refresh-token"

	seedToken := func(t *testing.T, d *testDeps, revoked bool, expiresAt time.Time) entity.RefreshToken {
		t.Helper()

		rt := entity.RefreshToken{
			ID:        11,
			UserID:    7,
			UserEmail: "known@example.com",
			TokenHash: hashString(t, d.hmac, presented),
			ExpiresAt: expiresAt,
			Revoked:   revoked,
		}
		d.db.getRefreshToken = func(tokenHash string) (*entity.RefreshToken, error) {
			if tokenHash != rt.TokenHash {
				return nil, goerror.ErrNotFound
			}
			cp := rt
			return &cp, nil
		}

		return rt
	}

	t.Run("UnknownToken", func(t *testing.T) {
		// Arrange
		d := newTestDeps(t)
		d.db.getRefreshToken = func(string) (*entity.RefreshToken, error) {
			return nil, goerror.ErrNotFound
		}
		uc := d.usecase()

		// Act
		_, err := uc.RefreshToken(context.Background(), RefreshTokenInput{RefreshToken: "bogus"})

		// Assert
		ge := asGoerror(t, err)
		if ge.Code() != goerror.CodeUnauthorized {
			t.Fatalf("expected unauthorized, got %v", ge.Code())
		}
	})

	t.Run("ExpiredToken", func(t *testing.T) {
		// Arrange
		d := newTestDeps(t)
		seedToken(t, d, false, d.clock.now.Add(-time.Hour))
		uc := d.usecase()

		// Act
		_, err := uc.RefreshToken(context.Background(), RefreshTokenInput{RefreshToken: presented})

		// Assert
		ge := asGoerror(t, err)
		if ge.Code() != goerror.CodeUnauthorized {
			t.Fatalf("expected unauthorized, got %v", ge.Code())
		}
		if len(d.db.rotations) != 0 {
			t.Fatalf("expired token must not be rotated")
		}
	})

	t.Run("ReuseOfRevokedTokenRevokesFamily", func(t *testing.T) {
		// Arrange
		d := newTestDeps(t)
		rt := seedToken(t, d, true, d.clock.now.Add(time.Hour))
		uc := d.usecase()

		// Act
		_, err := uc.RefreshToken(context.Background(), RefreshTokenInput{RefreshToken: presented})

		// Assert
		ge := asGoerror(t, err)
		if ge.Code() != goerror.CodeUnauthorized {
			t.Fatalf("expected unauthorized, got %v", ge.Code())
		}
		if len(d.db.revokedUserIDs) != 1 || d.db.revokedUserIDs[0] != rt.UserID {
			t.Fatalf("expected family revocation for user %d, got %v", rt.UserID, d.db.revokedUserIDs)
		}
		if len(d.db.rotations) != 0 {
			t.Fatalf("revoked token must not be rotated")
		}
	})

	t.Run("SuccessRotatesToken", func(t *testing.T) {
		// Arrange
		d := newTestDeps(t)
		rt := seedToken(t, d, false, d.clock.now.Add(time.Hour))
		uc := d.usecase()

		// Act
		out, err := uc.RefreshToken(context.Background(), RefreshTokenInput{RefreshToken: presented})

		// Assert
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.AccessToken == "" {
			t.Fatalf("expected new access token")
		}
		if out.RefreshToken == "" || out.RefreshToken == presented {
			t.Fatalf("expected a fresh refresh token, got %q", out.RefreshToken)
		}
		if len(d.db.rotations) != 1 {
			t.Fatalf("expected one rotation, got %d", len(d.db.rotations))
		}
		rotation := d.db.rotations[0]
		if rotation.OldID != rt.ID || rotation.UserID != rt.UserID {
			t.Fatalf("rotation references wrong token: %+v", rotation)
		}
		if rotation.NewTokenHash != hashString(t, d.hmac, out.RefreshToken) {
			t.Fatalf("rotated hash does not match returned token")
		}
		clm, errVerify := d.jwt.Verify(out.AccessToken)
		if errVerify != nil {
			t.Fatalf("verify new access token: %v", errVerify)
		}
		if clm.UserID != rt.UserID || clm.UserEmail != rt.UserEmail {
			t.Fatalf("access token carries wrong subject: %+v", clm)
		}
	})
}
