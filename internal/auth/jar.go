package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// Jar はリクエスト/レスポンスに紐づく名前付きクッキー値の読み書きを抽象化します。
// 値の署名・暗号化は identity.Codec が担い、Jar は保存先の違いだけを吸収します。
type Jar interface {
	Get(name string) (string, bool)
	Add(name, value string) error
	Remove(name string) error
}

// JarFactory はリクエストごとに Jar を生成します。
type JarFactory func(c *gin.Context) Jar

// CookieOptions はセッションクッキーに付与する属性です。
type CookieOptions struct {
	Path     string
	Domain   string
	MaxAge   int
	Secure   bool
	HTTPOnly bool
	SameSite http.SameSite
}

// DefaultCookieOptions は Path=/, HttpOnly, SameSite=Lax の既定値を返します。
func DefaultCookieOptions() CookieOptions {
	return CookieOptions{
		Path:     "/",
		HTTPOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// NewCookieJarFactory は HTTP クッキーを直接読み書きする Jar を生成します。
func NewCookieJarFactory(opts CookieOptions) JarFactory {
	return func(c *gin.Context) Jar {
		return &cookieJar{c: c, opts: opts}
	}
}

type cookieJar struct {
	c    *gin.Context
	opts CookieOptions
}

func (j *cookieJar) Get(name string) (string, bool) {
	cookie, err := j.c.Request.Cookie(name)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

func (j *cookieJar) Add(name, value string) error {
	cookie := j.cookie(name, value)
	if j.opts.MaxAge > 0 {
		cookie.MaxAge = j.opts.MaxAge
	}
	return writeCookie(j.c.Writer.Header(), cookie)
}

func (j *cookieJar) Remove(name string) error {
	cookie := j.cookie(name, "")
	cookie.MaxAge = -1
	return writeCookie(j.c.Writer.Header(), cookie)
}

func (j *cookieJar) cookie(name, value string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     j.opts.Path,
		Domain:   j.opts.Domain,
		Secure:   j.opts.Secure,
		HttpOnly: j.opts.HTTPOnly,
		SameSite: j.opts.SameSite,
	}
}

// writeCookie は同名の Set-Cookie を置き換えて1件だけ残します。
func writeCookie(header http.Header, cookie *http.Cookie) error {
	v := cookie.String()
	if v == "" {
		return errors.New("auth: invalid cookie " + cookie.Name)
	}
	dropSetCookie(header, cookie.Name)
	header.Add("Set-Cookie", v)
	return nil
}

// dropSetCookie は header から name の Set-Cookie をすべて取り除きます。
func dropSetCookie(header http.Header, name string) {
	values := header.Values("Set-Cookie")
	if len(values) == 0 {
		return
	}
	header.Del("Set-Cookie")
	prefix := name + "="
	for _, v := range values {
		if !strings.HasPrefix(v, prefix) {
			header.Add("Set-Cookie", v)
		}
	}
}

// keepLastSetCookie は name の Set-Cookie のうち最後の1件だけを残します。
func keepLastSetCookie(header http.Header, name string) {
	values := header.Values("Set-Cookie")
	prefix := name + "="
	last := ""
	for _, v := range values {
		if strings.HasPrefix(v, prefix) {
			last = v
		}
	}
	if last == "" {
		return
	}
	dropSetCookie(header, name)
	header.Add("Set-Cookie", last)
}

// NewSessionJarFactory は gin-contrib/sessions のセッションに値を保存する Jar を生成します。
// ルーターに sessions.Sessions(cookieName, store) ミドルウェアが必要です。
func NewSessionJarFactory(cookieName string) JarFactory {
	return func(c *gin.Context) Jar {
		return &sessionJar{
			session:    sessions.Default(c),
			header:     c.Writer.Header(),
			cookieName: cookieName,
		}
	}
}

type sessionJar struct {
	session    sessions.Session
	header     http.Header
	cookieName string
}

func (j *sessionJar) Get(name string) (string, bool) {
	v, ok := j.session.Get(name).(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func (j *sessionJar) Add(name, value string) error {
	j.session.Set(name, value)
	return j.save()
}

func (j *sessionJar) Remove(name string) error {
	j.session.Delete(name)
	return j.save()
}

// save は保存のたびに Set-Cookie が追記されるため、最後の1件に畳み込みます。
func (j *sessionJar) save() error {
	if err := j.session.Save(); err != nil {
		return err
	}
	keepLastSetCookie(j.header, j.cookieName)
	return nil
}
