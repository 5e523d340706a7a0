package auth

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/session-demo/internal/identity"
	"github.com/yourusername/session-demo/internal/metrics"
)

// Guard はリクエストのセッションクッキーから UserID を取り出します。
type Guard struct {
	codec   *identity.Codec
	jars    JarFactory
	metrics metrics.Recorder
	logger  *slog.Logger
}

// NewGuard は Guard を作成します。
func NewGuard(codec *identity.Codec, jars JarFactory, recorder metrics.Recorder, logger *slog.Logger) *Guard {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Guard{
		codec:   codec,
		jars:    jars,
		metrics: recorder,
		logger:  logger,
	}
}

// Authenticate はセッションクッキーを検証し、成功時に UserID と true を返します。
// 失敗理由（未設定・署名不正・中身不正）は呼び出し側へ返さず、ログとメトリクスにのみ残します。
func (g *Guard) Authenticate(c *gin.Context) (identity.UserID, bool) {
	ctx := c.Request.Context()
	name := g.codec.Name()

	raw, _ := g.jars(c).Get(name)
	g.logger.DebugContext(ctx, "session cookie lookup",
		slog.Any("cookie_names", cookieNames(c.Request)),
		slog.Bool("present", raw != ""),
	)

	id, err := g.codec.Decode(raw)
	if err != nil {
		reason := identity.Reason(err)
		g.logger.DebugContext(ctx, "session cookie rejected",
			slog.String("reason", reason),
			slog.String("error", err.Error()),
		)
		g.metrics.RecordAuthentication(resultUnauthenticated, reason)
		return 0, false
	}

	g.logger.DebugContext(ctx, "session cookie accepted", slog.String("user_id", id.String()))
	g.metrics.RecordAuthentication(resultAuthenticated, "")
	return id, true
}

// RequireUser はセッションを検証するミドルウェアを返します。
// 認証済みの UserID は ContextUserKey でコンテキストに格納されます。
func (g *Guard) RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := g.Authenticate(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    "UNAUTHORIZED",
				"message": "ログインが必要です",
			})
			return
		}
		c.Set(ContextUserKey, id)
		c.Request = c.Request.WithContext(ContextWithUserID(c.Request.Context(), id))
		c.Next()
	}
}

func cookieNames(r *http.Request) []string {
	cookies := r.Cookies()
	names := make([]string, 0, len(cookies))
	for _, ck := range cookies {
		names = append(names, ck.Name)
	}
	return names
}

type contextKey struct{}

// ContextWithUserID はコンテキストに UserID を格納します。
func ContextWithUserID(ctx context.Context, id identity.UserID) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// UserIDFromContext は RequireUser を通過したリクエストのコンテキストから UserID を取得します。
func UserIDFromContext(ctx context.Context) (identity.UserID, bool) {
	id, ok := ctx.Value(contextKey{}).(identity.UserID)
	return id, ok
}

// UserIDFromGin は gin.Context から UserID を取得します。
func UserIDFromGin(c *gin.Context) (identity.UserID, bool) {
	v, ok := c.Get(ContextUserKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(identity.UserID)
	return id, ok
}
