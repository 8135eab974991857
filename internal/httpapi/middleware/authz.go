package middleware

import (
	"net/http"

	"github.com/pribylovaa/go-member-auth/internal/httpapi/httperr"
	"github.com/pribylovaa/go-member-auth/internal/models"
)

// RequireAuth пропускает только аутентифицированные запросы.
// Анонимный запрос на защищённый маршрут — это "не аутентифицирован" (401),
// а не "запрещено" (403).
func RequireAuth() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := PrincipalFrom(r.Context()); !ok {
				httperr.WriteUnauthenticated(w, r)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole пропускает только принципалов с требуемой ролью.
// Аутентифицированный запрос с недостаточной ролью — терминальный 403:
// сессия не трогается, logout не инициируется.
func RequireRole(role models.Role) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFrom(r.Context())
			if !ok {
				httperr.WriteUnauthenticated(w, r)
				return
			}

			if p.Role != role {
				httperr.WritePermissionDenied(w, r)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
