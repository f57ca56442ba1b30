package router

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/casbin/casbin/v3"
	"github.com/LaFavela/sehatin-be-auth/internal/pkg/jwt"
)

func middlewareAuthorization(enforcer *casbin.Enforcer, publicEndpoints map[string]map[string]struct{}) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if enforcer == nil {
				next.ServeHTTP(w, r)
				return
			}

			path := matchedRoutePath(r)

			if s, ok := publicEndpoints[r.Method]; ok {
				if _, skip := s[path]; skip {
					next.ServeHTTP(w, r)
					return
				}
			}

			claims := jwt.GetAuth(r.Context())
			if claims == nil {
				writeJSON(w, map[string]string{"message": "Authentication required"}, http.StatusUnauthorized)
				return
			}

			sub := "user:" + strconv.FormatInt(claims.UserID, 10)
			allowed, err := enforcer.Enforce(sub, path, r.Method)
			if err != nil {
				slog.ErrorContext(r.Context(), "authorization check failed", "error", err, "sub", sub)
				writeJSON(w, map[string]string{"message": "Service unavailable"}, http.StatusServiceUnavailable)
				return
			}
			if !allowed {
				writeJSON(w, map[string]string{"message": "Permission denied"}, http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
