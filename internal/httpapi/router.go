// httpapi собирает HTTP-поверхность сервиса: роутер chi, мидлвары
// пайплайна и REST-эндпойнты.
package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pribylovaa/go-member-auth/internal/httpapi/handlers"
	"github.com/pribylovaa/go-member-auth/internal/httpapi/middleware"
	"github.com/pribylovaa/go-member-auth/internal/models"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger  *slog.Logger
	Timeout time.Duration
	Metrics http.Handler // обработчик /metrics; nil — эндпойнт не регистрируется.
	Ready   func() bool  // readiness-проба /healthz; nil — всегда ready.
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(h *handlers.Handlers, auth middleware.Authenticator, opts Options) http.Handler {
	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		middleware.Recover(),            // безопасно ловим паники
		middleware.RequestID(),          // формируем/прокидываем X-Request-Id (до логирования!)
		middleware.Logging(opts.Logger), // кладём request-scoped логгер в контекст и логируем
	)
	if opts.Timeout > 0 {
		// Общий дедлайн запроса: выше фильтра аутентификации, чтобы
		// покрывать и его обращения к хранилищу участников.
		root.Use(middleware.Timeout(opts.Timeout))
	}
	root.Use(middleware.Authenticate(auth)) // фильтр аутентификации: public bypass / anonymous / 401

	registerRoutes(root, h, opts)
	return root
}

// registerRoutes — единая точка регистрации всех эндпойнтов.
func registerRoutes(r chi.Router, h *handlers.Handlers, opts Options) {
	// Публичная часть: вход/выход/обновление сессии.
	r.Post("/members/signup", h.Signup)
	r.Post("/members/login", h.Login)
	r.Post("/members/refresh", h.Refresh)
	r.Post("/members/logout", h.Logout)

	// Любой аутентифицированный участник.
	r.With(middleware.RequireAuth()).Get("/members/me", h.Me)

	// Административный префикс: только ADMIN.
	r.Route("/manager", func(mr chi.Router) {
		mr.Use(middleware.RequireRole(models.RoleAdmin))
		mr.Get("/members/{email}", h.MemberByEmail)
	})

	// Служебные публичные пути.
	r.Get("/livez", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if opts.Ready == nil || opts.Ready() {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
			return
		}
		http.Error(w, "not ready", http.StatusServiceUnavailable)
	})

	if opts.Metrics != nil {
		r.Handle("/metrics", opts.Metrics)
	}

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}
