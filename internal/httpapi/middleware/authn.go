package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pribylovaa/go-member-auth/internal/httpapi/httperr"
	"github.com/pribylovaa/go-member-auth/internal/models"
	logctx "github.com/pribylovaa/go-member-auth/internal/pkg/log"
	"github.com/pribylovaa/go-member-auth/internal/service"
)

// Authenticator — минимальный контракт фильтра к сервисному слою.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*models.Principal, error)
}

// publicPaths — фиксированный allow-list путей, которые никогда не требуют
// аутентификации: signup/login/refresh/logout плюс health/error/index.
var publicPaths = map[string]struct{}{
	"/":                {},
	"/index.html":      {},
	"/error":           {},
	"/healthz":         {},
	"/livez":           {},
	"/metrics":         {},
	"/members/signup":  {},
	"/members/login":   {},
	"/members/refresh": {},
	"/members/logout":  {},
}

// Authenticate — фильтр аутентификации, один проход на запрос.
//
// Машина состояний:
//  1. публичный путь или CORS pre-flight -> пропускаем без проверки;
//  2. нет Bearer-токена -> запрос идёт дальше анонимным (route-гарды
//     отклонят его, если целевой путь требует Principal);
//  3. токен есть, но просрочен/битый/ссылается на неизвестного участника ->
//     терминальный 401, дальше запрос не идёт;
//  4. токен валиден -> Principal кладётся в контекст запроса (живёт только
//     до конца запроса, между запросами ничего не сохраняется).
//
// Решение принимается ровно один раз; повторов и отложенной доаутентификации
// нет.
func Authenticate(auth Authenticator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublicPath(r.URL.Path) || isPreflight(r) {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				// Анонимный проход: решает гард целевого маршрута.
				next.ServeHTTP(w, r)
				return
			}

			principal, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				if isUnauthenticated(err) {
					httperr.WriteUnauthenticated(w, r)
					return
				}

				// Инфраструктурный сбой — не повод заставлять клиента
				// перелогиниваться.
				logctx.From(r.Context()).Error("authenticate_failed",
					slog.String("path", r.URL.Path),
					slog.String("err", err.Error()),
				)
				httperr.WriteError(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(withPrincipal(r.Context(), principal)))
		})
	}
}

// isPublicPath: точное совпадение с allow-list.
func isPublicPath(path string) bool {
	_, ok := publicPaths[path]
	return ok
}

// isPreflight распознаёт CORS pre-flight: OPTIONS + Access-Control-Request-Method.
// Pre-flight пропускается на любой путь.
func isPreflight(r *http.Request) bool {
	return r.Method == http.MethodOptions &&
		r.Header.Get("Access-Control-Request-Method") != "" &&
		r.Header.Get("Origin") != ""
}

func bearerToken(value string) (string, bool) {
	const prefix = "Bearer "
	if !strings.HasPrefix(value, prefix) {
		return "", false
	}

	token := strings.TrimSpace(value[len(prefix):])
	if token == "" {
		return "", false
	}

	return token, true
}

func isUnauthenticated(err error) bool {
	return errors.Is(err, service.ErrInvalidToken) ||
		errors.Is(err, service.ErrTokenExpired) ||
		errors.Is(err, service.ErrUnknownMember)
}
