package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"

	"github.com/yourusername/session-demo/internal/auth"
	"github.com/yourusername/session-demo/internal/identity"
)

// runSelfTest はネットワークを使わずに handler へリクエストを流し、
// ログインで得たクッキーで /whoami が user を返すことを確認します。
func runSelfTest(handler http.Handler, user auth.User) error {
	login := httptest.NewRecorder()
	handler.ServeHTTP(login, httptest.NewRequest(http.MethodPost, "/sessions", nil))

	if login.Code != http.StatusOK {
		return fmt.Errorf("POST /sessions: status %d, want %d", login.Code, http.StatusOK)
	}
	expected, err := json.Marshal(map[string]string{"user": user.Name})
	if err != nil {
		return err
	}
	wantBody := string(expected)
	if got := login.Body.String(); got != wantBody {
		return fmt.Errorf("POST /sessions: body %s, want %s", got, wantBody)
	}

	raw := login.Header().Get("Set-Cookie")
	if raw == "" {
		return fmt.Errorf("POST /sessions: login should return a cookie")
	}
	cookie, err := http.ParseSetCookie(raw)
	if err != nil {
		return fmt.Errorf("POST /sessions: couldn't parse cookie: %w", err)
	}
	if cookie.Name != identity.CookieName {
		return fmt.Errorf("POST /sessions: cookie %q, want %q", cookie.Name, identity.CookieName)
	}

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: cookie.Name, Value: cookie.Value})
	whoami := httptest.NewRecorder()
	handler.ServeHTTP(whoami, req)

	if whoami.Code != http.StatusOK {
		return fmt.Errorf("GET /whoami: status %d, want %d", whoami.Code, http.StatusOK)
	}
	wantBody = fmt.Sprintf("Got user id: %d", int64(user.ID))
	if got := whoami.Body.String(); got != wantBody {
		return fmt.Errorf("GET /whoami: body %q, want %q", got, wantBody)
	}

	anonymous := httptest.NewRecorder()
	handler.ServeHTTP(anonymous, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	if anonymous.Code != http.StatusUnauthorized {
		return fmt.Errorf("GET /whoami without cookie: status %d, want %d", anonymous.Code, http.StatusUnauthorized)
	}

	return nil
}
