package handlers

import (
	"net/http"

	"github.com/pribylovaa/go-member-auth/internal/httpapi/httperr"
	"github.com/pribylovaa/go-member-auth/internal/httpapi/middleware"
)

type principalResponse struct {
	MemberID string `json:"member_id"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// Me возвращает Principal текущего запроса.
// Маршрут стоит за RequireAuth, так что отсутствие принципала — баг сборки
// роутера, а не пользовательская ошибка; отвечаем 401 без деталей.
func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		httperr.WriteUnauthenticated(w, r)
		return
	}

	writeJSON(w, http.StatusOK, principalResponse{
		MemberID: p.MemberID.String(),
		Email:    p.Email,
		Role:     string(p.Role),
	})
}
