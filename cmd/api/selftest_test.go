package main

import (
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/yourusername/session-demo/internal/auth"
	"github.com/yourusername/session-demo/internal/config"
	"github.com/yourusername/session-demo/internal/server"
)

func newRouter(t *testing.T, backend string) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router, err := server.NewRouter(server.Deps{
		Config: &config.Config{
			GinMode:        gin.TestMode,
			SessionSecret:  "0123456789abcdef0123456789abcdef",
			SessionBackend: backend,
			SessionMaxAge:  60,
			DemoUserID:     2,
			DemoUserName:   "Ethan",
		},
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Registry: prometheus.NewRegistry(),
	})
	if err != nil {
		t.Fatalf("NewRouter returned error: %v", err)
	}
	return router
}

// TestRunSelfTest はデモユーザーでのログインから /whoami までが通ることを検証する。
func TestRunSelfTest(t *testing.T) {
	for _, backend := range []string{config.BackendCookie, config.BackendSession} {
		t.Run(backend, func(t *testing.T) {
			if err := runSelfTest(newRouter(t, backend), auth.User{ID: 2, Name: "Ethan"}); err != nil {
				t.Fatalf("runSelfTest returned error: %v", err)
			}
		})
	}
}

func TestRunSelfTestDetectsMismatch(t *testing.T) {
	err := runSelfTest(newRouter(t, config.BackendCookie), auth.User{ID: 3, Name: "Ethan"})
	if err == nil || !strings.Contains(err.Error(), "/whoami") {
		t.Fatalf("expected /whoami mismatch, got %v", err)
	}

	err = runSelfTest(newRouter(t, config.BackendCookie), auth.User{ID: 2, Name: "Ada"})
	if err == nil || !strings.Contains(err.Error(), "/sessions") {
		t.Fatalf("expected /sessions mismatch, got %v", err)
	}

	err = runSelfTest(http.NotFoundHandler(), auth.User{ID: 2, Name: "Ethan"})
	if err == nil {
		t.Fatal("expected error for handler without routes")
	}
}

func TestParseCommand(t *testing.T) {
	cases := []struct {
		args []string
		want Command
	}{
		{nil, CommandServe},
		{[]string{"serve"}, CommandServe},
		{[]string{"selftest"}, CommandSelfTest},
		{[]string{"unknown"}, CommandServe},
	}
	for _, tc := range cases {
		if got := ParseCommand(tc.args); got != tc.want {
			t.Errorf("ParseCommand(%v) = %q, want %q", tc.args, got, tc.want)
		}
	}
}
