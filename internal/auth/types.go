// Package auth はクッキーセッションによる認証機能を提供します。
package auth

import "github.com/yourusername/session-demo/internal/identity"

// ContextUserKey は、ハンドラー間で認証済みユーザーIDを共有するためのキーです。
const ContextUserKey = "auth.user_id"

// User はログインしたユーザーを表します。
type User struct {
	ID   identity.UserID
	Name string
}

// SessionOutcome はログイン試行の結果です。
// LoginFailed か LoginSucceeded のいずれかです。
type SessionOutcome interface {
	sessionOutcome()
}

// LoginFailed はログイン失敗を表します。
type LoginFailed struct{}

// LoginSucceeded はログイン成功と、その対象ユーザーを表します。
type LoginSucceeded struct {
	User User
}

func (LoginFailed) sessionOutcome() {}
func (LoginSucceeded) sessionOutcome() {}

// 認証まわりのメトリクスで使うラベル値です。
const (
	resultSucceeded       = "succeeded"
	resultFailed          = "failed"
	resultAuthenticated   = "authenticated"
	resultUnauthenticated = "unauthenticated"
)
