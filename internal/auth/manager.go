package auth

import (
	"errors"
	"log"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/yourusername/member-portal/internal/session"
	"github.com/yourusername/member-portal/internal/user"
)

// 利用者向けメッセージ。リダイレクト先の msg クエリパラメータで表示されます。
const (
	msgDuplicateEmail  = "このメールアドレスは既に登録されています"
	msgUserNotFound    = "ユーザーが見つかりません"
	msgWrongPassword   = "メールアドレスまたはパスワードが正しくありません"
	msgPasswordTooLong = "password は72文字以内で入力してください"
)

// Manager は認証処理と依存サービスをまとめた構造体です。
type Manager struct {
	users    user.Store
	sessions *session.Manager
	hasher   *Hasher
}

// NewManager は認証マネージャーを作成します。
func NewManager(users user.Store, sessions *session.Manager, hasher *Hasher) *Manager {
	return &Manager{
		users:    users,
		sessions: sessions,
		hasher:   hasher,
	}
}

// Signup は POST /signup のハンドラーです。
// 入力検証 → ハッシュ化 → 登録 → セッション作成の順に行い、
// 検証失敗と重複メールアドレスはフォームへのリダイレクトで通知します。
func (m *Manager) Signup(c *gin.Context) {
	var form signupForm
	if err := c.ShouldBind(&form); err != nil {
		redirectWithMessage(c, "/signup", validationMessage(err))
		return
	}

	digest, err := m.hasher.Hash(form.Password)
	if err != nil {
		// バリデーションは文字数で数えるため、マルチバイトのパスワードは
		// 通過しても72バイトを超えることがある
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			redirectWithMessage(c, "/signup", msgPasswordTooLong)
			return
		}
		log.Printf("Failed to hash password: %v", err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	u, err := m.users.Insert(c.Request.Context(), form.Name, form.Email, digest, user.RoleUser)
	if err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			redirectWithMessage(c, "/signup", msgDuplicateEmail)
			return
		}
		log.Printf("Failed to insert user: %v", err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	m.startSession(c, u)
}

// Login は POST /login のハンドラーです。
// 未登録のメールアドレスとパスワード不一致は別のメッセージで通知します。
func (m *Manager) Login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		redirectWithMessage(c, "/login", validationMessage(err))
		return
	}

	u, err := m.users.FindByEmail(c.Request.Context(), form.Email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			redirectWithMessage(c, "/login", msgUserNotFound)
			return
		}
		log.Printf("Failed to find user: %v", err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	if !m.hasher.Verify(form.Password, u.PasswordHash) {
		redirectWithMessage(c, "/login", msgWrongPassword)
		return
	}

	m.startSession(c, u)
}

// Logout は GET /logout のハンドラーです。
// ストア上のレコード削除とクッキーの失効は必ず両方行います。
// セッションが既に存在しない場合もエラーにはしません。
func (m *Manager) Logout(c *gin.Context) {
	if rec := SessionFrom(c); rec != nil {
		if err := m.sessions.Destroy(c.Request.Context(), rec.ID); err != nil {
			log.Printf("Failed to destroy session: %v", err)
		}
	}

	m.sessions.ClearCookie(c)
	c.Redirect(http.StatusFound, "/")
}

// startSession はセッションを作成してクッキーを発行し、/members へ誘導します。
func (m *Manager) startSession(c *gin.Context, u *user.User) {
	id, _, err := m.sessions.Create(c.Request.Context(), session.Identity{
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	})
	if err != nil {
		log.Printf("Failed to create session: %v", err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	m.sessions.SetCookie(c, id)
	c.Redirect(http.StatusFound, "/members")
}

func redirectWithMessage(c *gin.Context, path, msg string) {
	c.Redirect(http.StatusFound, path+"?msg="+url.QueryEscape(msg))
}
