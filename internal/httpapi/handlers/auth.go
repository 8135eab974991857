package handlers

import (
	"errors"
	"net/http"

	"github.com/pribylovaa/go-member-auth/internal/httpapi/httperr"
	"github.com/pribylovaa/go-member-auth/internal/models"
	"github.com/pribylovaa/go-member-auth/internal/service"
)

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signupResponse struct {
	MemberID  string `json:"member_id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt int64  `json:"created_at"` // Unix UTC
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// authResponse — ответ login/refresh. Access-токен дублируется в заголовке
// Authorization: Bearer; refresh-токен уходит только в cookie.
type authResponse struct {
	MemberID        string `json:"member_id"`
	Email           string `json:"email"`
	Role            string `json:"role"`
	AccessToken     string `json:"access_token"`
	AccessExpiresAt int64  `json:"access_expires_at"` // Unix UTC
}

// Signup регистрирует участника. 201 + краткая сводка; токены при
// регистрации не выдаются — дальше обычный login.
func (h *Handlers) Signup(w http.ResponseWriter, r *http.Request) {
	var in signupRequest
	if err := decodeStrict(r, &in); err != nil {
		httperr.WriteError(w, r, service.ErrInvalidEmail)
		return
	}

	member, err := h.svc.Signup(r.Context(), in.Email, in.Password)
	if err != nil {
		httperr.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, signupResponse{
		MemberID:  member.ID.String(),
		Email:     member.Email,
		Role:      string(member.Role),
		CreatedAt: member.CreatedAt.Unix(),
	})
}

// Login аутентифицирует участника и возвращает пару токенов:
// access — в заголовке Authorization и теле, refresh — в cookie.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := decodeStrict(r, &in); err != nil {
		httperr.WriteError(w, r, service.ErrInvalidCredentials)
		return
	}

	pair, principal, err := h.svc.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		httperr.WriteError(w, r, err)
		return
	}

	h.writeAuthResponse(w, pair, principal)
}

// Refresh выпускает новую пару по refresh-токену из cookie (или тела).
// Ротация строгая: предъявленный токен обязан совпасть с хранимым.
func (h *Handlers) Refresh(w http.ResponseWriter, r *http.Request) {
	token := refreshTokenFrom(r)
	if token == "" {
		httperr.WriteUnauthenticated(w, r)
		return
	}

	pair, principal, err := h.svc.Refresh(r.Context(), token)
	if err != nil {
		httperr.WriteError(w, r, err)
		return
	}

	h.writeAuthResponse(w, pair, principal)
}

// Logout завершает сессию: удаляет refresh-запись и гасит cookie.
// Идемпотентен; 401 здесь не бывает — повторный logout тоже 204.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if token := refreshTokenFrom(r); token != "" {
		if err := h.svc.Logout(r.Context(), token); err != nil {
			if errors.Is(err, service.ErrStoreUnavailable) {
				httperr.WriteError(w, r, err)
				return
			}
		}
	}

	h.expireRefreshCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) writeAuthResponse(w http.ResponseWriter, pair *models.TokenPair, principal *models.Principal) {
	w.Header().Set("Authorization", "Bearer "+pair.AccessToken)
	h.setRefreshCookie(w, pair.RefreshToken)

	writeJSON(w, http.StatusOK, authResponse{
		MemberID:        principal.MemberID.String(),
		Email:           principal.Email,
		Role:            string(principal.Role),
		AccessToken:     pair.AccessToken,
		AccessExpiresAt: pair.AccessExpiresAt.Unix(),
	})
}
