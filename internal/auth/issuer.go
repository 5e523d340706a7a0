package auth

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/session-demo/internal/identity"
	"github.com/yourusername/session-demo/internal/metrics"
)

// Issuer はログイン結果をレスポンスとセッションクッキーに変換します。
type Issuer struct {
	codec   *identity.Codec
	jars    JarFactory
	metrics metrics.Recorder
	logger  *slog.Logger
}

// NewIssuer は Issuer を作成します。
func NewIssuer(codec *identity.Codec, jars JarFactory, recorder metrics.Recorder, logger *slog.Logger) *Issuer {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Issuer{
		codec:   codec,
		jars:    jars,
		metrics: recorder,
		logger:  logger,
	}
}

// Issue は outcome をレスポンスとして書き込みます。
//
// LoginFailed の場合は 401 と空の JSON を返し、既存のクッキーには触れません。
// LoginSucceeded の場合は既存のセッションクッキーを削除してから新しい値を設定し、
// 200 と {"user": 名前} を返します。
func (i *Issuer) Issue(c *gin.Context, outcome SessionOutcome) {
	switch o := outcome.(type) {
	case LoginSucceeded:
		i.issueSucceeded(c, o.User)
	default:
		i.metrics.RecordLogin(resultFailed)
		c.JSON(http.StatusUnauthorized, gin.H{})
	}
}

func (i *Issuer) issueSucceeded(c *gin.Context, user User) {
	value, err := i.codec.Encode(user.ID)
	if err != nil {
		i.logger.Error("failed to encode session cookie", slog.String("error", err.Error()))
		i.respondIssueFailed(c)
		return
	}

	jar := i.jars(c)
	name := i.codec.Name()
	if err := jar.Remove(name); err != nil {
		i.logger.Error("failed to remove session cookie", slog.String("error", err.Error()))
		i.respondIssueFailed(c)
		return
	}
	if err := jar.Add(name, value); err != nil {
		i.logger.Error("failed to set session cookie", slog.String("error", err.Error()))
		i.respondIssueFailed(c)
		return
	}

	i.metrics.RecordLogin(resultSucceeded)
	i.logger.Info("session issued", slog.String("user_id", user.ID.String()))
	c.JSON(http.StatusOK, gin.H{"user": user.Name})
}

// Revoke はセッションクッキーを削除し、204 を返します。
func (i *Issuer) Revoke(c *gin.Context) {
	if err := i.jars(c).Remove(i.codec.Name()); err != nil {
		i.logger.Error("failed to remove session cookie", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    "SESSION_SAVE_FAILED",
			"message": "セッションの削除に失敗しました",
		})
		return
	}
	i.metrics.RecordLogout()
	c.Status(http.StatusNoContent)
}

func (i *Issuer) respondIssueFailed(c *gin.Context) {
	i.metrics.RecordLogin(resultFailed)
	c.JSON(http.StatusInternalServerError, gin.H{
		"code":    "SESSION_ISSUE_FAILED",
		"message": "セッションの発行に失敗しました",
	})
}
