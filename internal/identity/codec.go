// Package identity はユーザーIDと署名付きクッキー値の相互変換を提供します。
package identity

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gorilla/securecookie"
)

// CookieName はセッションクッキーの名前です。
const CookieName = "user_id"

// UserID は認証済みユーザーを一意に表す整数IDです。
type UserID int64

// String は10進数表記を返します。
func (id UserID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// Codec は UserID を改ざん検知可能なクッキー値へ変換します。
// 値は securecookie により暗号化（AES）と署名（HMAC-SHA256）が施されます。
type Codec struct {
	name string
	sc   *securecookie.SecureCookie
}

// NewCodec は Codec を作成します。
// maxAge は受け入れるタイムスタンプの最大経過秒数で、0 以下なら無期限です。
func NewCodec(name string, keys Keys, maxAge int) (*Codec, error) {
	if name == "" {
		return nil, errors.New("identity: cookie name is required")
	}
	if err := keys.validate(); err != nil {
		return nil, err
	}

	sc := securecookie.New(keys.Hash, keys.Block)
	sc.SetSerializer(securecookie.NopEncoder{})
	sc.MaxAge(maxAge)

	return &Codec{name: name, sc: sc}, nil
}

// Name はこの Codec が署名対象とするクッキー名を返します。
func (c *Codec) Name() string {
	return c.name
}

// Encode は UserID をクッキー値へ変換します。
func (c *Codec) Encode(id UserID) (string, error) {
	value, err := c.sc.Encode(c.name, []byte(id.String()))
	if err != nil {
		return "", fmt.Errorf("identity: encode user id: %w", err)
	}
	return value, nil
}

// Decode はクッキー値から UserID を復元します。
// 失敗時は *DecodeError を返し、errors.Is で ErrMissing / ErrInvalidSignature /
// ErrMalformedPayload のいずれかと一致します。
func (c *Codec) Decode(value string) (UserID, error) {
	if value == "" {
		return 0, &DecodeError{Kind: ErrMissing}
	}

	var payload []byte
	if err := c.sc.Decode(c.name, value, &payload); err != nil {
		return 0, &DecodeError{Kind: ErrInvalidSignature, Cause: err}
	}

	n, err := strconv.ParseInt(string(payload), 10, 64)
	if err != nil {
		return 0, &DecodeError{Kind: ErrMalformedPayload, Cause: err}
	}
	return UserID(n), nil
}
