// Package auth は認証処理（サインアップ・ログイン・ログアウト）と
// ルートごとのアクセス制御を提供します。
package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordCost はbcryptのコストパラメータです。
// オフライン総当たりに耐えるよう意図的に高めに設定しています。
const PasswordCost = 12

// Hasher はbcryptによるパスワードのハッシュ化と照合を提供します。
type Hasher struct {
	cost int
}

// NewHasher は PasswordCost を使う Hasher を作成します。
func NewHasher() *Hasher {
	return &Hasher{cost: PasswordCost}
}

// Hash は平文パスワードからbcryptダイジェストを生成します。
// ソルトは呼び出しごとにランダムに生成されるため、
// 同じ平文でも毎回異なるダイジェストになります。
func (h *Hasher) Hash(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(digest), nil
}

// Verify は平文パスワードとダイジェストを照合します。
// ダイジェストが不正な形式の場合もエラーにはせず false を返します。
func (h *Hasher) Verify(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
