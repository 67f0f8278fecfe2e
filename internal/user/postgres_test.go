package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
)

func newMockStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgx mock: %v", err)
	}
	t.Cleanup(mock.Close)
	return NewPostgresStore(mock), mock
}

func TestInsertReturnsUser(t *testing.T) {
	store, mock := newMockStore(t)
	createdAt := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs(pgxmock.AnyArg(), "Alice", "alice@x.com", "digest", "user").
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(createdAt))

	u, err := store.Insert(context.Background(), "Alice", "alice@x.com", "digest", RoleUser)
	if err != nil {
		t.Fatalf("Insert returned error: %v", err)
	}
	if u.ID == "" {
		t.Fatal("expected generated id")
	}
	if u.Name != "Alice" || u.Email != "alice@x.com" || u.Role != RoleUser {
		t.Fatalf("unexpected user: %+v", u)
	}
	if !u.CreatedAt.Equal(createdAt) {
		t.Fatalf("CreatedAt = %v, want %v", u.CreatedAt, createdAt)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestInsertDuplicateEmail(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs(pgxmock.AnyArg(), "Bob", "alice@x.com", "digest", "user").
		WillReturnError(&pgconn.PgError{Code: pgUniqueViolation})

	_, err := store.Insert(context.Background(), "Bob", "alice@x.com", "digest", RoleUser)
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("Insert error = %v, want ErrDuplicateEmail", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestInsertRejectsUnknownRole(t *testing.T) {
	store, mock := newMockStore(t)

	// ストアに到達する前に拒否される
	if _, err := store.Insert(context.Background(), "Mallory", "m@x.com", "digest", Role("root")); err == nil {
		t.Fatal("expected error for unknown role")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected store access: %v", err)
	}
}

func TestFindByEmail(t *testing.T) {
	store, mock := newMockStore(t)
	createdAt := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT id, name, email, password_hash, role, created_at`).
		WithArgs("alice@x.com").
		WillReturnRows(pgxmock.
			NewRows([]string{"id", "name", "email", "password_hash", "role", "created_at"}).
			AddRow("user-id", "Alice", "alice@x.com", "digest", "admin", createdAt))

	u, err := store.FindByEmail(context.Background(), "alice@x.com")
	if err != nil {
		t.Fatalf("FindByEmail returned error: %v", err)
	}
	if u.ID != "user-id" || u.Name != "Alice" || u.Role != RoleAdmin {
		t.Fatalf("unexpected user: %+v", u)
	}
	if u.PasswordHash != "digest" {
		t.Fatalf("PasswordHash = %q, want %q", u.PasswordHash, "digest")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestFindByEmailNotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT id, name, email, password_hash, role, created_at`).
		WithArgs("nobody@x.com").
		WillReturnError(pgx.ErrNoRows)

	_, err := store.FindByEmail(context.Background(), "nobody@x.com")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("FindByEmail error = %v, want ErrNotFound", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestListExcludesCaller(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT id, name, role`).
		WithArgs("admin@x.com").
		WillReturnRows(pgxmock.
			NewRows([]string{"id", "name", "role"}).
			AddRow("id-1", "Alice", "user").
			AddRow("id-2", "Bob", "admin"))

	listings, err := store.List(context.Background(), "admin@x.com")
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(listings) != 2 {
		t.Fatalf("len(listings) = %d, want 2", len(listings))
	}
	if listings[0].Name != "Alice" || listings[0].Role != RoleUser {
		t.Fatalf("unexpected listing: %+v", listings[0])
	}
	if listings[1].Name != "Bob" || listings[1].Role != RoleAdmin {
		t.Fatalf("unexpected listing: %+v", listings[1])
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestListEmpty(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT id, name, role`).
		WithArgs("only@x.com").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "role"}))

	listings, err := store.List(context.Background(), "only@x.com")
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(listings) != 0 {
		t.Fatalf("len(listings) = %d, want 0", len(listings))
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
