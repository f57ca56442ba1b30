package router

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/LaFavela/sehatin-be-auth/internal/pkg/denylist"
	"github.com/LaFavela/sehatin-be-auth/internal/pkg/jwt"
)

func middlewareAuthentication(verifier jwt.JWT, dl denylist.Denylist, publicEndpoints map[string]map[string]struct{}) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := matchedRoutePath(r)

			if s, ok := publicEndpoints[r.Method]; ok {
				if _, skip := s[path]; skip {
					next.ServeHTTP(w, r)
					return
				}
			}

			p := strings.Fields(r.Header.Get("Authorization"))
			if len(p) != 2 || !strings.EqualFold(p[0], "Bearer") {
				writeJSON(w, map[string]string{"message": "Authentication required"}, http.StatusUnauthorized)
				return
			}

			claims, err := verifier.Verify(p[1])
			if err != nil {
				writeJSON(w, map[string]string{"message": "Invalid or expired token"}, http.StatusUnauthorized)
				return
			}

			if dl != nil {
				revoked, err := dl.IsRevoked(r.Context(), claims.ID)
				if err != nil {
					slog.ErrorContext(r.Context(), "failed to check token revocation", "error", err)
					writeJSON(w, map[string]string{"message": "Service unavailable"}, http.StatusServiceUnavailable)
					return
				}
				if revoked {
					writeJSON(w, map[string]string{"message": "Invalid or expired token"}, http.StatusUnauthorized)
					return
				}
			}

			ctx := jwt.SetAuth(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
