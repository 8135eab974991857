package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pribylovaa/go-member-auth/internal/httpapi/httperr"
)

type managerMemberResponse struct {
	MemberID  string `json:"member_id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt int64  `json:"created_at"` // Unix UTC
	UpdatedAt int64  `json:"updated_at"` // Unix UTC
}

// MemberByEmail — административный просмотр участника по email.
// Маршрут стоит за RequireRole(ADMIN).
func (h *Handlers) MemberByEmail(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")

	member, err := h.members.MemberByEmail(r.Context(), email)
	if err != nil {
		httperr.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, managerMemberResponse{
		MemberID:  member.ID.String(),
		Email:     member.Email,
		Role:      string(member.Role),
		CreatedAt: member.CreatedAt.Unix(),
		UpdatedAt: member.UpdatedAt.Unix(),
	})
}
