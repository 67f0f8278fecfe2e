// Package user は利用者の資格情報レコードと永続化ストアを提供します。
package user

import "time"

// Role は利用者の権限区分です。
type Role string

const (
	// RoleUser は一般利用者です。
	RoleUser Role = "user"
	// RoleAdmin は管理者です。利用者一覧の閲覧が許可されます。
	RoleAdmin Role = "admin"
)

// Valid は既知の権限区分かどうかを返します。
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	default:
		return false
	}
}

// User は資格情報レコードです。
// パスワードは bcrypt ダイジェストのみを保持し、平文は保存しません。
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

// Listing は管理者向け一覧に表示する項目です。
// メールアドレスとパスワードハッシュは含めません。
type Listing struct {
	ID   string
	Name string
	Role Role
}
