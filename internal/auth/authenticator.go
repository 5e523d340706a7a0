package auth

import (
	"context"
	"net/http"
)

// Authenticator はログインリクエストを検証し、その結果を返します。
type Authenticator interface {
	Authenticate(ctx context.Context, r *http.Request) SessionOutcome
}

// FixedAuthenticator は資格情報を確認せず、常に User でログインを成功させます。
type FixedAuthenticator struct {
	User User
}

// Authenticate は常に LoginSucceeded を返します。
func (a FixedAuthenticator) Authenticate(ctx context.Context, r *http.Request) SessionOutcome {
	return LoginSucceeded{User: a.User}
}

// AuthenticatorFunc は関数を Authenticator として扱うためのアダプターです。
type AuthenticatorFunc func(ctx context.Context, r *http.Request) SessionOutcome

// Authenticate は f(ctx, r) を呼び出します。
func (f AuthenticatorFunc) Authenticate(ctx context.Context, r *http.Request) SessionOutcome {
	return f(ctx, r)
}
