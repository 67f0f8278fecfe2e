// Package session はサーバーサイドセッションの作成・照会・延長・破棄を提供します。
// セッションレコードは共有ストア（Redis）に保存され、クッキーには署名付きの
// セッションIDのみを載せます。認証状態はサーバー側のレコードだけが決定します。
package session

import (
	"context"
	"errors"
	"time"

	"github.com/yourusername/member-portal/internal/user"
)

// ErrMalformed はストア上のレコードが復号・解釈できないことを表します。
// 呼び出し側ではセッション不在と同様に扱います。
var ErrMalformed = errors.New("session record malformed")

// Identity はセッションに写し取るログイン時の利用者情報です。
// ログイン後に利用者レコードが変更されても、セッションには反映されません。
type Identity struct {
	Name  string
	Email string
	Role  user.Role
}

// Record はストアに保存されるセッションレコードです。
type Record struct {
	ID            string    `json:"id"`
	Authenticated bool      `json:"authenticated"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Role          user.Role `json:"role"`
	CreatedAt     time.Time `json:"createdAt"`
	ExpiresAt     time.Time `json:"expiresAt"`
}

// Store はセッションレコードの保存先です。
// 実装はTTLを独立して管理し、期限切れレコードを自律的に破棄します。
type Store interface {
	// Save はレコードをTTL付きで保存します（既存の場合は上書き）。
	Save(ctx context.Context, rec *Record, ttl time.Duration) error
	// Get はレコードを取得します。不在の場合は (nil, nil) を返します。
	Get(ctx context.Context, id string) (*Record, error)
	// Delete はレコードを削除します。不在の場合もエラーにしません。
	Delete(ctx context.Context, id string) error
}
