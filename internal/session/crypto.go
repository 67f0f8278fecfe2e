package session

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"fmt"
)

// RecordCipher はセッションレコードを AES-GCM で暗号化・復号します。
// ストアの内容を直接読まれてもセッションの中身が漏れないようにします。
// AES鍵は秘密鍵文字列の SHA-256 ダイジェスト（32バイト）です。
type RecordCipher struct {
	aead cipher.AEAD
}

// NewRecordCipher は暗号化用の秘密鍵から RecordCipher を作成します。
func NewRecordCipher(secret string) (*RecordCipher, error) {
	key := sha256.Sum256([]byte(secret))

	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create gcm: %w", err)
	}

	return &RecordCipher{aead: aead}, nil
}

// Seal はレコードを JSON に直列化して暗号化します。
// nonce は呼び出しごとにランダムに生成し、暗号文の先頭に連結します。
func (c *RecordCipher) Seal(rec *Record) ([]byte, error) {
	plaintext, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session record: %w", err)
	}

	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	return append(nonce, c.aead.Seal(nil, nonce, plaintext, nil)...), nil
}

// Open は Seal の逆変換です。
// 復号または解釈に失敗した場合は ErrMalformed を返します。
func (c *RecordCipher) Open(data []byte) (*Record, error) {
	size := c.aead.NonceSize()
	if len(data) < size {
		return nil, ErrMalformed
	}

	plaintext, err := c.aead.Open(nil, data[:size], data[size:], nil)
	if err != nil {
		return nil, ErrMalformed
	}

	var rec Record
	if err := json.Unmarshal(plaintext, &rec); err != nil {
		return nil, ErrMalformed
	}

	return &rec, nil
}
