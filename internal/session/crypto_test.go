package session

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/yourusername/member-portal/internal/user"
)

func TestRecordCipherRoundTrip(t *testing.T) {
	cipher, err := NewRecordCipher("store-secret")
	if err != nil {
		t.Fatalf("NewRecordCipher returned error: %v", err)
	}

	rec := &Record{
		ID:            "session-id",
		Authenticated: true,
		Name:          "Alice",
		Email:         "alice@x.com",
		Role:          user.RoleAdmin,
		CreatedAt:     time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC),
		ExpiresAt:     time.Date(2026, 8, 31, 13, 0, 0, 0, time.UTC),
	}

	sealed, err := cipher.Seal(rec)
	if err != nil {
		t.Fatalf("Seal returned error: %v", err)
	}
	if bytes.Contains(sealed, []byte("alice@x.com")) {
		t.Fatal("sealed payload must not contain plaintext fields")
	}

	opened, err := cipher.Open(sealed)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if *opened != *rec {
		t.Fatalf("opened record = %+v, want %+v", opened, rec)
	}
}

func TestRecordCipherSealUsesFreshNonce(t *testing.T) {
	cipher, err := NewRecordCipher("store-secret")
	if err != nil {
		t.Fatalf("NewRecordCipher returned error: %v", err)
	}

	rec := &Record{ID: "session-id"}
	first, err := cipher.Seal(rec)
	if err != nil {
		t.Fatalf("Seal returned error: %v", err)
	}
	second, err := cipher.Seal(rec)
	if err != nil {
		t.Fatalf("Seal returned error: %v", err)
	}

	if bytes.Equal(first, second) {
		t.Fatal("sealing the same record twice must produce different ciphertexts")
	}
}

func TestRecordCipherOpenMalformed(t *testing.T) {
	cipher, err := NewRecordCipher("store-secret")
	if err != nil {
		t.Fatalf("NewRecordCipher returned error: %v", err)
	}

	for _, data := range [][]byte{
		nil,
		[]byte("short"),
		bytes.Repeat([]byte{0x42}, 64),
	} {
		if _, err := cipher.Open(data); !errors.Is(err, ErrMalformed) {
			t.Fatalf("Open(%q) error = %v, want ErrMalformed", data, err)
		}
	}
}

func TestRecordCipherRejectsForeignKey(t *testing.T) {
	sealer, err := NewRecordCipher("secret-a")
	if err != nil {
		t.Fatalf("NewRecordCipher returned error: %v", err)
	}
	opener, err := NewRecordCipher("secret-b")
	if err != nil {
		t.Fatalf("NewRecordCipher returned error: %v", err)
	}

	sealed, err := sealer.Seal(&Record{ID: "session-id"})
	if err != nil {
		t.Fatalf("Seal returned error: %v", err)
	}

	if _, err := opener.Open(sealed); !errors.Is(err, ErrMalformed) {
		t.Fatalf("Open error = %v, want ErrMalformed", err)
	}
}
