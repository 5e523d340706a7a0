// Package server は API サーバーのルーティングとミドルウェアの配線を行います。
package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/yourusername/session-demo/internal/auth"
	"github.com/yourusername/session-demo/internal/config"
	"github.com/yourusername/session-demo/internal/identity"
	"github.com/yourusername/session-demo/internal/metrics"
	"github.com/yourusername/session-demo/internal/middleware"
)

const (
	serviceName    = "session-demo-api"
	serviceVersion = "0.1.0"
)

// Deps は NewRouter に必要な依存関係です。
type Deps struct {
	Config   *config.Config
	Logger   *slog.Logger
	Registry *prometheus.Registry
}

// NewRouter はミドルウェアとルートを構成した gin.Engine を返します。
//
// ミドルウェアの実行順序:
//
//	Recovery → RequestID → AccessLog → CORS → Sessions（session 方式のみ）
func NewRouter(deps Deps) (*gin.Engine, error) {
	cfg := deps.Config
	if cfg == nil {
		return nil, errors.New("server: config is nil")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	reg := deps.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	keys, err := identity.DeriveKeys([]byte(cfg.SessionSecret))
	if err != nil {
		return nil, err
	}
	codec, err := identity.NewCodec(identity.CookieName, keys, cfg.SessionMaxAge)
	if err != nil {
		return nil, err
	}
	collector := metrics.NewCollector(reg)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.AccessLog(logger, collector),
	)

	if origins := cfg.AllowedOrigins(); len(origins) > 0 {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = origins
		corsConfig.AllowCredentials = true
		corsConfig.AllowHeaders = []string{
			"Origin",
			"Content-Type",
			"Accept",
			middleware.RequestIDHeader,
		}
		corsConfig.ExposeHeaders = []string{middleware.RequestIDHeader}
		router.Use(cors.New(corsConfig))
	}

	cookieOpts := auth.DefaultCookieOptions()
	cookieOpts.Domain = cfg.CookieDomain
	cookieOpts.MaxAge = cfg.SessionMaxAge
	cookieOpts.Secure = cfg.CookieSecure()

	var jars auth.JarFactory
	switch cfg.SessionBackend {
	case config.BackendSession:
		// セッションストアの鍵はクッキー用の鍵と同じ導出結果を使う
		store := cookie.NewStore(keys.Pairs()...)
		store.Options(sessions.Options{
			Path:     cookieOpts.Path,
			Domain:   cookieOpts.Domain,
			MaxAge:   cookieOpts.MaxAge,
			HttpOnly: cookieOpts.HTTPOnly,
			Secure:   cookieOpts.Secure,
			SameSite: cookieOpts.SameSite,
		})
		router.Use(sessions.Sessions(identity.CookieName, store))
		jars = auth.NewSessionJarFactory(identity.CookieName)
	default:
		jars = auth.NewCookieJarFactory(cookieOpts)
	}

	issuer := auth.NewIssuer(codec, jars, collector, logger)
	guard := auth.NewGuard(codec, jars, collector, logger)
	authenticator := auth.FixedAuthenticator{User: auth.User{
		ID:   identity.UserID(cfg.DemoUserID),
		Name: cfg.DemoUserName,
	}}
	handler := auth.NewHandler(authenticator, issuer, guard)

	setupRoutes(router, handler, guard, reg)
	return router, nil
}

// setupRoutes はエンドポイントを登録します。
func setupRoutes(router *gin.Engine, h *auth.Handler, guard *auth.Guard, gatherer prometheus.Gatherer) {
	// 誰でも叩けるヘルスチェックとメトリクス
	router.GET("/health", handleHealth)
	router.GET("/metrics", gin.WrapH(metrics.Handler(gatherer)))

	router.POST("/sessions", h.CreateSession)
	router.DELETE("/sessions", h.DeleteSession)
	router.GET("/whoami", guard.RequireUser(), h.WhoAmI)
}

// handleHealth はヘルスチェックエンドポイントのハンドラーです。
func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": serviceName,
		"version": serviceVersion,
	})
}
