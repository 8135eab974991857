package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pribylovaa/go-member-auth/internal/config"
	"github.com/pribylovaa/go-member-auth/internal/httpapi"
	"github.com/pribylovaa/go-member-auth/internal/httpapi/handlers"
	"github.com/pribylovaa/go-member-auth/internal/service"
	"github.com/pribylovaa/go-member-auth/internal/sessions"
	"github.com/pribylovaa/go-member-auth/internal/storage/memory"
)

// Константы для определения окружения.
const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.Parse()

	cfg := config.MustLoad(configPath)

	log := setupLogger(cfg.Env)
	slog.SetDefault(log)
	log.Info("starting application", "env", cfg.Env)

	// Корневой контекст по сигналам.
	rootCtx, rootCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	// Подключение к Redis (хранилище refresh-записей) с таймаутом.
	redisCtx, redisCancel := context.WithTimeout(rootCtx, 10*time.Second)
	sessionStore, err := sessions.NewRedis(redisCtx, cfg.Redis.RedisURL, cfg.Auth.SessionKeyPrefix)
	redisCancel()
	if err != nil {
		log.Error("redis_connect_failed", slog.String("err", err.Error()))
		rootCancel()
		os.Exit(1)
	}
	log.Info("redis_connected")

	// Каждая операция хранилища ограничена собственным таймаутом: зависший
	// Redis отдаёт ErrUnavailable, не выедая общий дедлайн запроса.
	sessionStore = sessions.WithTimeout(sessionStore, cfg.Timeouts.Store)

	// Хранилище участников — внешний коллаборатор; здесь подключается
	// in-process реализация для локального окружения.
	memberStore := memory.New()

	// Сервис.
	srvc, err := service.New(memberStore, sessionStore, cfg.Auth)
	if err != nil {
		log.Error("service_init_failed", slog.String("err", err.Error()))
		rootCancel()
		_ = sessionStore.Close()
		os.Exit(1)
	}
	log.Info("service_initialized")

	var ready atomic.Bool

	router := httpapi.NewRouter(
		handlers.New(srvc, memberStore, cfg.Auth),
		srvc,
		httpapi.Options{
			Logger:  log,
			Timeout: cfg.Timeouts.Service,
			Metrics: promhttp.Handler(),
			Ready:   ready.Load,
		},
	)

	addr := cfg.HTTP.Addr()
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErrCh := make(chan error, 1)
	go func() {
		log.Info("http_listen_start", slog.String("addr", addr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErrCh <- err
		}
		close(serveErrCh)
	}()

	ready.Store(true)

	// Ожидание сигнала завершения или фатальной ошибки сервера.
	select {
	case <-rootCtx.Done():
		log.Info("shutdown_requested")
	case err := <-serveErrCh:
		if err != nil {
			log.Error("http_serve_failed", slog.String("err", err.Error()))
		}
	}

	ready.Store(false)

	// Graceful stop с таймаутом.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http_force_stop", slog.String("err", err.Error()))
		_ = httpSrv.Close()
	}

	// Явная очистка перед выходом.
	shutdownCancel()
	rootCancel()
	_ = sessionStore.Close()

	log.Info("service_stopped")
	os.Exit(0)
}

// setupLogger настраивает slog по окружению.
func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	}

	return log
}
