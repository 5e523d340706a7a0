package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/session-demo/internal/identity"
)

// IdentityExtractor はリクエストから認証済みの UserID を取り出します。
type IdentityExtractor interface {
	Authenticate(c *gin.Context) (identity.UserID, bool)
}

// OutcomeRenderer はログイン結果をレスポンスに変換し、セッションクッキーを操作します。
type OutcomeRenderer interface {
	Issue(c *gin.Context, outcome SessionOutcome)
	Revoke(c *gin.Context)
}

// Handler はセッション関連エンドポイントのハンドラーをまとめた構造体です。
type Handler struct {
	authenticator Authenticator
	renderer      OutcomeRenderer
	extractor     IdentityExtractor
}

// NewHandler は Handler を作成します。
func NewHandler(authenticator Authenticator, renderer OutcomeRenderer, extractor IdentityExtractor) *Handler {
	return &Handler{
		authenticator: authenticator,
		renderer:      renderer,
		extractor:     extractor,
	}
}

// CreateSession は POST /sessions のハンドラーです。
func (h *Handler) CreateSession(c *gin.Context) {
	outcome := h.authenticator.Authenticate(c.Request.Context(), c.Request)
	h.renderer.Issue(c, outcome)
}

// DeleteSession は DELETE /sessions のハンドラーです。
func (h *Handler) DeleteSession(c *gin.Context) {
	h.renderer.Revoke(c)
}

// WhoAmI は GET /whoami のハンドラーです。
// RequireUser を通過していればそのIDを、そうでなければその場で検証した結果を使います。
func (h *Handler) WhoAmI(c *gin.Context) {
	id, ok := UserIDFromGin(c)
	if !ok {
		id, ok = h.extractor.Authenticate(c)
	}
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"code":    "UNAUTHORIZED",
			"message": "ログインが必要です",
		})
		return
	}
	c.String(http.StatusOK, "Got user id: %d", int64(id))
}
