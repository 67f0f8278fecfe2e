package auth

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/member-portal/internal/session"
	"github.com/yourusername/member-portal/internal/user"
)

// ContextSessionKey は、ハンドラー間で現在のセッションレコードを共有するためのキーです。
const ContextSessionKey = "auth.session"

// SessionFrom は gin コンテキストから現在のセッションレコードを取り出します。
// セッションが無い場合は nil を返します。
func SessionFrom(c *gin.Context) *session.Record {
	v, ok := c.Get(ContextSessionKey)
	if !ok {
		return nil
	}
	rec, _ := v.(*session.Record)
	return rec
}

// LoadSession はクッキーからセッションを引き当てるミドルウェアを返します。
// 有効なセッションが見つかった場合は有効期限を延長した上でコンテキストに
// 格納します。クッキーが無い・無効な場合は未認証として続行します。
func (m *Manager) LoadSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		value, err := c.Cookie(session.CookieName)
		if err != nil || value == "" {
			c.Next()
			return
		}

		rec, err := m.sessions.Resolve(c.Request.Context(), value)
		if err != nil {
			log.Printf("Failed to resolve session: %v", err)
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		if rec == nil {
			c.Next()
			return
		}

		// アクセスのたびにストア側とクッキー側の両方の期限を揃えて延長する
		if err := m.sessions.Touch(c.Request.Context(), rec); err != nil {
			log.Printf("Failed to extend session: %v", err)
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		m.sessions.SetCookie(c, rec.ID)

		c.Set(ContextSessionKey, rec)
		c.Next()
	}
}

// RequireGuest は未ログインの場合のみ通過させるミドルウェアを返します。
// ログイン済みの場合はホームへリダイレクトします。
func (m *Manager) RequireGuest() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rec := SessionFrom(c); rec != nil && rec.Authenticated {
			redirectHome(c)
			return
		}
		c.Next()
	}
}

// RequireAuth はログイン済みの場合のみ通過させるミドルウェアを返します。
func (m *Manager) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		rec := SessionFrom(c)
		if rec == nil || !rec.Authenticated {
			redirectHome(c)
			return
		}
		c.Next()
	}
}

// RequireRole はログイン済みかつ指定の権限を持つ場合のみ通過させる
// ミドルウェアを返します。未ログインと権限不足は区別せず、
// いずれもホームへリダイレクトします。
func (m *Manager) RequireRole(role user.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		rec := SessionFrom(c)
		if rec == nil || !rec.Authenticated || rec.Role != role {
			redirectHome(c)
			return
		}
		c.Next()
	}
}

// 拒否は常にホームへのリダイレクトで、エラーページは返しません。
func redirectHome(c *gin.Context) {
	c.Redirect(http.StatusFound, "/")
	c.Abort()
}
