// handlers — HTTP-обработчики поверх сервисного слоя.
// Здесь только разбор входа, маппинг ошибок через httperr и транспорт
// токенов (Authorization-заголовок + cookie); бизнес-логика — в service.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/pribylovaa/go-member-auth/internal/config"
	"github.com/pribylovaa/go-member-auth/internal/service"
	"github.com/pribylovaa/go-member-auth/internal/storage"
)

// refreshCookieName — имя cookie с refresh-токеном; фиксированная часть
// контракта с фронтом.
const refreshCookieName = "RefreshToken"

// Handlers агрегирует зависимости HTTP-слоя.
type Handlers struct {
	svc     *service.Service
	members storage.MemberStore
	cfg     config.AuthConfig
}

func New(svc *service.Service, members storage.MemberStore, cfg config.AuthConfig) *Handlers {
	return &Handlers{svc: svc, members: members, cfg: cfg}
}

// writeJSON — единый ответ JSON с нужным Content-Type.
// Ошибки выводим через httperr.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// decodeStrict — строгий JSON-декодер: запрещаем неизвестные поля.
func decodeStrict(r *http.Request, value any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(value)
}

// setRefreshCookie выставляет refresh-токен строго с атрибутами контракта:
// Path=/, HttpOnly, Secure, SameSite=None.
func (h *Handlers) setRefreshCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cfg.RefreshTokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

// expireRefreshCookie переиздаёт cookie пустым значением с Max-Age=0.
func (h *Handlers) expireRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

// refreshTokenFrom достаёт refresh-токен: сначала cookie, затем тело запроса
// (fallback для небраузерных клиентов).
func refreshTokenFrom(r *http.Request) string {
	if c, err := r.Cookie(refreshCookieName); err == nil && c.Value != "" {
		return c.Value
	}

	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
		return body.RefreshToken
	}

	return ""
}
