package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/LaFavela/sehatin-be-auth/internal/pkg/goerror"
	"github.com/LaFavela/sehatin-be-auth/internal/pkg/jwt"
	libJWT "github.com/golang-jwt/jwt/v5"
)

func authedContext(d *testDeps, jti string, expiresIn time.Duration) context.Context {
	return jwt.SetAuth(context.Background(), jwt.Claims{
		RegisteredClaims: libJWT.RegisteredClaims{
			ID:        jti,
			ExpiresAt: libJWT.NewNumericDate(d.clock.now.Add(expiresIn)),
		},
		UserID:    7,
		UserEmail: "known@example.com",
	})
}

func TestLogout(t *testing.T) {
	t.Run("Unauthenticated", func(t *testing.T) {
		// Arrange
		d := newTestDeps(t)
		uc := d.usecase()

		// Act
		err := uc.Logout(context.Background(), LogoutInput{RefreshToken: "some-refresh-token"})

		// Assert
		ge := asGoerror(t, err)
		if ge.Code() != goerror.CodeUnauthorized {
			t.Fatalf("expected unauthorized, got %v", ge.Code())
		}
	})

	t.Run("DenylistsAccessTokenAndRevokesRefreshToken", func(t *testing.T) {
		// Arrange
		d := newTestDeps(t)
		uc := d.usecase()
		ctx := authedContext(d, "jti-logout", 10*time.Minute)

		// Act
		err := uc.Logout(ctx, LogoutInput{RefreshToken: "some-refresh-token"})

		// Assert
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		ttl, ok := d.deny.revoked["jti-logout"]
		if !ok {
			t.Fatalf("expected access token jti to be denylisted")
		}
		if ttl != 10*time.Minute {
			t.Fatalf("expected denylist ttl to match remaining lifetime, got %v", ttl)
		}
		if len(d.db.revokedHashes) != 1 {
			t.Fatalf("expected one revoked refresh token, got %d", len(d.db.revokedHashes))
		}
		if d.db.revokedHashes[0] != hashString(t, d.hmac, "some-refresh-token") {
			t.Fatalf("revoked hash does not match presented refresh token")
		}
	})
}
