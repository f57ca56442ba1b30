package router

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/LaFavela/sehatin-be-auth/internal/pkg/config"
	"github.com/LaFavela/sehatin-be-auth/internal/pkg/instrument"
	"github.com/LaFavela/sehatin-be-auth/internal/pkg/jwt"
	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"
)

const testRouterConfigYAML = `
app:
  maintenance:
    endpoints: ""
instrument:
  log_mask_fields: "password,otp"
`

const testRouterRBACModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && (p.obj == "*" || r.obj == p.obj) && (p.act == "*" || r.act == p.act)
`

type seqID struct {
	n int
}

func (s *seqID) Generate() string {
	s.n++
	return fmt.Sprintf("cid-%d", s.n)
}

type memDenylist struct {
	revoked map[string]struct{}
}

func (m *memDenylist) Revoke(_ context.Context, jti string, _ time.Duration) error {
	if m.revoked == nil {
		m.revoked = make(map[string]struct{})
	}
	m.revoked[jti] = struct{}{}
	return nil
}

func (m *memDenylist) IsRevoked(_ context.Context, jti string) (bool, error) {
	_, ok := m.revoked[jti]
	return ok, nil
}

type routerFixture struct {
	router *Router
	jwt    jwt.JWT
	deny   *memDenylist
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(testRouterConfigYAML))
	if err != nil {
		t.Fatalf("build config: %v", err)
	}

	signer, err := jwt.NewHS512(jwt.Config{
		Secret:    []byte(strings.Repeat("s", 64)),
		Issuer:    "router-test",
		Audiences: []string{"router-test"},
		TTL:       15 * time.Minute,
		Clock:     realClock{},
		UUID:      &seqID{},
	})
	if err != nil {
		t.Fatalf("build jwt: %v", err)
	}

	m, err := model.NewModelFromString(testRouterRBACModel)
	if err != nil {
		t.Fatalf("build casbin model: %v", err)
	}
	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		t.Fatalf("build casbin enforcer: %v", err)
	}
	if _, err := enforcer.AddPolicy("role:user", "/api/v1/auth/verify", http.MethodGet); err != nil {
		t.Fatalf("add policy: %v", err)
	}
	if _, err := enforcer.AddGroupingPolicy("user:7", "role:user"); err != nil {
		t.Fatalf("add grouping policy: %v", err)
	}

	deny := &memDenylist{}
	ro := NewRouter(Config{
		Config:     cfg,
		UUID:       &seqID{},
		JWT:        signer,
		Instrument: instrument.NewNoop(),
		Enforcer:   enforcer,
		Denylist:   deny,
	})

	ro.POST("/api/v1/auth/login", func(_ *Request) (any, error) {
		return map[string]string{"ok": "true"}, nil
	})
	ro.GET("/api/v1/auth/verify", func(r *Request) (any, error) {
		clm := jwt.GetAuth(r.Context())
		if clm == nil {
			t.Errorf("expected claims in handler context")
		}
		return map[string]string{"ok": "true"}, nil
	})

	return &routerFixture{router: ro, jwt: signer, deny: deny}
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

func (f *routerFixture) do(method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestRouterAuthentication(t *testing.T) {
	t.Run("PublicEndpointSkipsAuth", func(t *testing.T) {
		// Arrange
		f := newRouterFixture(t)

		// Act
		rec := f.do(http.MethodPost, "/api/v1/auth/login", "")

		// Assert
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("MissingBearerToken", func(t *testing.T) {
		// Arrange
		f := newRouterFixture(t)

		// Act
		rec := f.do(http.MethodGet, "/api/v1/auth/verify", "")

		// Assert
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("ValidTokenReachesHandler", func(t *testing.T) {
		// Arrange
		f := newRouterFixture(t)
		token, err := f.jwt.Generate(7, "user@example.com")
		if err != nil {
			t.Fatalf("generate token: %v", err)
		}

		// Act
		rec := f.do(http.MethodGet, "/api/v1/auth/verify", token)

		// Assert
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("DenylistedTokenIsRejected", func(t *testing.T) {
		// Arrange
		f := newRouterFixture(t)
		token, err := f.jwt.Generate(7, "user@example.com")
		if err != nil {
			t.Fatalf("generate token: %v", err)
		}
		clm, err := f.jwt.Verify(token)
		if err != nil {
			t.Fatalf("verify token: %v", err)
		}
		if err := f.deny.Revoke(context.Background(), clm.ID, time.Minute); err != nil {
			t.Fatalf("revoke: %v", err)
		}

		// Act
		rec := f.do(http.MethodGet, "/api/v1/auth/verify", token)

		// Assert
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 for denylisted token, got %d", rec.Code)
		}
	})

	t.Run("SubjectWithoutPolicyIsForbidden", func(t *testing.T) {
		// Arrange
		f := newRouterFixture(t)
		token, err := f.jwt.Generate(99, "other@example.com")
		if err != nil {
			t.Fatalf("generate token: %v", err)
		}

		// Act
		rec := f.do(http.MethodGet, "/api/v1/auth/verify", token)

		// Assert
		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403 for unassigned subject, got %d", rec.Code)
		}
	})
}
