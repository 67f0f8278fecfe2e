package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"strings"
)

// CookieName はセッションクッキーの名前です。
const CookieName = "mp_session"

// Codec はクッキー値の署名と検証を行います。
// クッキー値は "<セッションID>.<HMAC-SHA256署名>" の形式です。
// 署名が一致しない値はストアに問い合わせる前に破棄されます。
type Codec struct {
	secret []byte
}

// NewCodec は署名用の秘密鍵から Codec を作成します。
func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret)}
}

// Encode はセッションIDに署名を付与したクッキー値を返します。
func (c *Codec) Encode(id string) string {
	return id + "." + c.sign(id)
}

// Decode はクッキー値を検証してセッションIDを取り出します。
// 形式が不正、または署名が一致しない場合は false を返します。
func (c *Codec) Decode(value string) (string, bool) {
	id, sig, ok := strings.Cut(value, ".")
	if !ok || id == "" {
		return "", false
	}
	expected := c.sign(id)
	if subtle.ConstantTimeCompare([]byte(sig), []byte(expected)) != 1 {
		return "", false
	}
	return id, true
}

func (c *Codec) sign(id string) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(id))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
