package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// メールアドレスの一意性は LOWER(email) のユニークインデックスで保証します。
// 同時サインアップの競合はこの制約だけで防ぎます。
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id uuid PRIMARY KEY,
    name text NOT NULL,
    email text NOT NULL,
    password_hash text NOT NULL,
    role text NOT NULL DEFAULT 'user',
    created_at timestamptz NOT NULL DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS users_email_lower_unique
ON users (LOWER(email));
`

const pgUniqueViolation = "23505"

// PgxPool は *pgxpool.Pool が満たす最小限のクエリインターフェースです。
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore は Store の PostgreSQL 実装です。
type PostgresStore struct {
	db PgxPool
}

// NewPostgresStore は PostgresStore を作成します。
func NewPostgresStore(db PgxPool) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate は users テーブルを作成します（既に存在する場合は何もしません）。
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to migrate users table: %w", err)
	}
	return nil
}

// Insert は新しい利用者を登録します。
func (s *PostgresStore) Insert(ctx context.Context, name, email, passwordHash string, role Role) (*User, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("unknown role: %q", role)
	}

	u := &User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
	}

	err := s.db.QueryRow(ctx, `
		INSERT INTO users (id, name, email, password_hash, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`, u.ID, u.Name, u.Email, u.PasswordHash, string(u.Role)).Scan(&u.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	return u, nil
}

// FindByEmail はメールアドレスで利用者を検索します。
func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	u := &User{}
	var role string

	err := s.db.QueryRow(ctx, `
		SELECT id, name, email, password_hash, role, created_at
		FROM users
		WHERE LOWER(email) = LOWER($1)
	`, email).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role, &u.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	u.Role = Role(role)
	return u, nil
}

// List は excludeEmail の利用者を除く一覧を返します。
// 並び順は登録日時、同時刻の場合はメールアドレス順です。
func (s *PostgresStore) List(ctx context.Context, excludeEmail string) ([]Listing, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, role
		FROM users
		WHERE LOWER(email) <> LOWER($1)
		ORDER BY created_at, email
	`, excludeEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var listings []Listing
	for rows.Next() {
		var l Listing
		var role string
		if err := rows.Scan(&l.ID, &l.Name, &role); err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		l.Role = Role(role)
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return listings, nil
}
