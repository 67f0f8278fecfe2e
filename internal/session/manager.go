package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Manager はセッションのライフサイクルを管理する構造体です。
// レコードの保存はストアに、クッキー値の署名は Codec に委譲します。
type Manager struct {
	store  Store
	codec  *Codec
	ttl    time.Duration
	secure bool

	// テストから固定するための現在時刻
	now func() time.Time
}

// NewManager はセッションマネージャーを作成します。
// secure は本番環境（HTTPS配信）でのみ true にします。
func NewManager(store Store, codec *Codec, ttl time.Duration, secure bool) *Manager {
	return &Manager{
		store:  store,
		codec:  codec,
		ttl:    ttl,
		secure: secure,
		now:    time.Now,
	}
}

// Create は認証済みセッションを新規に作成し、セッションIDとレコードを返します。
// サインアップまたはログインの成功時にのみ呼び出します。
func (m *Manager) Create(ctx context.Context, id Identity) (string, *Record, error) {
	sid, err := GenerateID()
	if err != nil {
		return "", nil, err
	}

	now := m.now()
	rec := &Record{
		ID:            sid,
		Authenticated: true,
		Name:          id.Name,
		Email:         id.Email,
		Role:          id.Role,
		CreatedAt:     now,
		ExpiresAt:     now.Add(m.ttl),
	}

	if err := m.store.Save(ctx, rec, m.ttl); err != nil {
		return "", nil, fmt.Errorf("failed to persist session: %w", err)
	}

	return sid, rec, nil
}

// Resolve はクッキー値からセッションレコードを引き当てます。
// 署名不一致・不在・復号不能・期限切れの場合は (nil, nil) を返します。
// エラーはストア自体に到達できない場合にのみ返します。
func (m *Manager) Resolve(ctx context.Context, cookieValue string) (*Record, error) {
	id, ok := m.codec.Decode(cookieValue)
	if !ok {
		return nil, nil
	}

	rec, err := m.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrMalformed) {
			return nil, nil
		}
		return nil, err
	}
	if rec == nil {
		return nil, nil
	}

	// ストア側のTTL失効が遅れていてもここで期限を強制する
	if m.now().After(rec.ExpiresAt) {
		_ = m.store.Delete(ctx, id)
		return nil, nil
	}

	return rec, nil
}

// Touch は有効期限を現在時刻から延長して保存し直します（スライディングTTL）。
func (m *Manager) Touch(ctx context.Context, rec *Record) error {
	rec.ExpiresAt = m.now().Add(m.ttl)
	if err := m.store.Save(ctx, rec, m.ttl); err != nil {
		return fmt.Errorf("failed to extend session: %w", err)
	}
	return nil
}

// Destroy はストア上のセッションレコードを削除します。
// 既に存在しないセッションの破棄もエラーにしません。
func (m *Manager) Destroy(ctx context.Context, id string) error {
	return m.store.Delete(ctx, id)
}

// SetCookie はセッションクッキーを発行します。
// クッキー側の有効期限はストア側のTTLと同じ長さです。
func (m *Manager) SetCookie(c *gin.Context, id string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, m.codec.Encode(id), int(m.ttl.Seconds()), "/", "", m.secure, true)
}

// ClearCookie はセッションクッキーを失効させます。
func (m *Manager) ClearCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", m.secure, true)
}
