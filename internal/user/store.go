package user

import (
	"context"
	"errors"
)

var (
	// ErrDuplicateEmail は登録済みメールアドレスでの重複登録を表します。
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrNotFound はレコードが存在しないことを表します。
	ErrNotFound = errors.New("user not found")
)

// Store は資格情報レコードの永続化を担います。
// 更新・削除の操作は提供しません。
type Store interface {
	// Insert は新しい利用者を登録します。メールアドレスが既に存在する場合は
	// ErrDuplicateEmail を返します（一意性はストア側の制約で保証されます）。
	Insert(ctx context.Context, name, email, passwordHash string, role Role) (*User, error)
	// FindByEmail はメールアドレスで利用者を検索します。
	// 存在しない場合は ErrNotFound を返します。
	FindByEmail(ctx context.Context, email string) (*User, error)
	// List は excludeEmail の利用者を除く一覧を返します。
	List(ctx context.Context, excludeEmail string) ([]Listing, error)
}
