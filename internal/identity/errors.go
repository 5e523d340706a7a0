package identity

import "errors"

var (
	// ErrMissing はセッションクッキーが存在しないことを表します。
	ErrMissing = errors.New("identity: session cookie is missing")
	// ErrInvalidSignature は署名検証（または復号）に失敗したことを表します。
	ErrInvalidSignature = errors.New("identity: session cookie signature is invalid")
	// ErrMalformedPayload は署名は正しいが中身が整数IDとして解釈できないことを表します。
	ErrMalformedPayload = errors.New("identity: session cookie payload is malformed")
)

// DecodeError はクッキー値の復元失敗を表します。
type DecodeError struct {
	Kind  error
	Cause error
}

func (e *DecodeError) Error() string {
	if e.Cause == nil {
		return e.Kind.Error()
	}
	return e.Kind.Error() + ": " + e.Cause.Error()
}

// Unwrap は Kind と Cause の両方を errors.Is / errors.As の探索対象にします。
func (e *DecodeError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

// Reason は失敗理由をメトリクスのラベル向けの短い文字列に変換します。
// DecodeError 以外のエラーは "unknown" になります。
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissing):
		return "missing"
	case errors.Is(err, ErrInvalidSignature):
		return "invalid_signature"
	case errors.Is(err, ErrMalformedPayload):
		return "malformed_payload"
	default:
		return "unknown"
	}
}
