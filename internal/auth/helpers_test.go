package auth

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/session-demo/internal/identity"
)

const testSecret = "0123456789abcdef0123456789abcdef"

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func testKeys(t *testing.T) identity.Keys {
	t.Helper()
	keys, err := identity.DeriveKeys([]byte(testSecret))
	if err != nil {
		t.Fatalf("DeriveKeys returned error: %v", err)
	}
	return keys
}

func newTestCodec(t *testing.T) *identity.Codec {
	t.Helper()
	codec, err := identity.NewCodec(identity.CookieName, testKeys(t), 3600)
	if err != nil {
		t.Fatalf("NewCodec returned error: %v", err)
	}
	return codec
}

// recordingMetrics は呼び出された内容を記録するだけの metrics.Recorder です。
type recordingMetrics struct {
	mu              sync.Mutex
	logins          []string
	authentications []string
	logouts         int
}

func (m *recordingMetrics) RecordLogin(result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logins = append(m.logins, result)
}

func (m *recordingMetrics) RecordAuthentication(result, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.authentications = append(m.authentications, result+"/"+reason)
}

func (m *recordingMetrics) RecordLogout() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logouts++
}

func (m *recordingMetrics) RecordHTTPRequest(string, string, int, time.Duration) {}

type testEnv struct {
	codec   *identity.Codec
	metrics *recordingMetrics
	issuer  *Issuer
	guard   *Guard
	router  *gin.Engine
}

// newTestEnv は指定した保存方式で /sessions と /whoami を持つルーターを組み立てる。
func newTestEnv(t *testing.T, backend string, authenticator Authenticator) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	codec := newTestCodec(t)
	recorder := &recordingMetrics{}
	router := gin.New()

	var jars JarFactory
	switch backend {
	case "session":
		store := cookie.NewStore(testKeys(t).Pairs()...)
		store.Options(sessions.Options{Path: "/", HttpOnly: true})
		router.Use(sessions.Sessions(identity.CookieName, store))
		jars = NewSessionJarFactory(identity.CookieName)
	default:
		jars = NewCookieJarFactory(DefaultCookieOptions())
	}

	issuer := NewIssuer(codec, jars, recorder, discardLogger)
	guard := NewGuard(codec, jars, recorder, discardLogger)
	h := NewHandler(authenticator, issuer, guard)

	router.POST("/sessions", h.CreateSession)
	router.DELETE("/sessions", h.DeleteSession)
	router.GET("/whoami", guard.RequireUser(), h.WhoAmI)

	return &testEnv{
		codec:   codec,
		metrics: recorder,
		issuer:  issuer,
		guard:   guard,
		router:  router,
	}
}

func (e *testEnv) do(method, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// sessionCookie はレスポンスから user_id の Set-Cookie を1件だけ取り出す。
func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	var found []*http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == identity.CookieName {
			found = append(found, c)
		}
	}
	if len(found) != 1 {
		t.Fatalf("expected exactly one %s cookie, got %d: %v", identity.CookieName, len(found), rec.Header().Values("Set-Cookie"))
	}
	return found[0]
}

// tamper は値の中ほどの1文字を別の文字に置き換える。
func tamper(value string) string {
	b := []byte(value)
	i := len(b) / 2
	if b[i] == 'A' {
		b[i] = 'B'
	} else {
		b[i] = 'A'
	}
	return string(b)
}
