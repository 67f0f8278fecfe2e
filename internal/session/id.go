package session

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// GenerateID は推測不能なセッションIDを生成します。
// 32バイト（256ビット）のエントロピーを持ちます。
func GenerateID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate session id: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
