// Package main はAPIサーバーのエントリーポイントです。
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/yourusername/session-demo/internal/auth"
	"github.com/yourusername/session-demo/internal/config"
	"github.com/yourusername/session-demo/internal/identity"
	"github.com/yourusername/session-demo/internal/logger"
	"github.com/yourusername/session-demo/internal/server"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	// 設定の読み込み
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		return 1
	}

	log := logger.SetupDefault(os.Stdout, logger.ParseLevel(cfg.LogLevel))

	// Ginのモードを設定
	gin.SetMode(cfg.GinMode)

	if cfg.EphemeralSecret {
		log.Warn("SESSION_SECRET is not set; using a random per-process secret, sessions will not survive restarts")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	router, err := server.NewRouter(server.Deps{
		Config:   cfg,
		Logger:   log,
		Registry: reg,
	})
	if err != nil {
		log.Error("failed to build router", slog.String("error", err.Error()))
		return 1
	}

	switch ParseCommand(args) {
	case CommandSelfTest:
		user := auth.User{ID: identity.UserID(cfg.DemoUserID), Name: cfg.DemoUserName}
		if err := runSelfTest(router, user); err != nil {
			log.Error("self test failed", slog.String("error", err.Error()))
			return 1
		}
		log.Info("self test passed")
		return 0
	default:
		if err := serve(router, cfg, log); err != nil {
			log.Error("server failed", slog.String("error", err.Error()))
			return 1
		}
		return 0
	}
}

// serve はサーバーを起動し、SIGINT / SIGTERM を受けたらグレースフルに停止します。
func serve(handler http.Handler, cfg *config.Config, log *slog.Logger) error {
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting API server",
			slog.String("addr", srv.Addr),
			slog.String("mode", cfg.GinMode),
			slog.String("session_backend", cfg.SessionBackend),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case sig := <-sigCh:
		log.Info("shutting down server", slog.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info("server stopped")
	return nil
}
