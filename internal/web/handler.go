// Package web はページ描画のハンドラーを提供します。
// 表示内容は最小限で、アクセス制御の判断は auth パッケージのミドルウェアが行います。
package web

import (
	"embed"
	"html/template"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/member-portal/internal/auth"
	"github.com/yourusername/member-portal/internal/user"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates は埋め込みテンプレートをパースして返します。
func Templates() *template.Template {
	return template.Must(template.ParseFS(templateFS, "templates/*.html"))
}

// Handler は各ページのハンドラーをまとめた構造体です。
type Handler struct {
	users user.Store
}

// NewHandler はページハンドラーを作成します。
func NewHandler(users user.Store) *Handler {
	return &Handler{users: users}
}

// Home は GET / のハンドラーです。ログイン状態に応じて表示を切り替えます。
func (h *Handler) Home(c *gin.Context) {
	rec := auth.SessionFrom(c)
	if rec != nil && rec.Authenticated {
		c.HTML(http.StatusOK, "home.html", gin.H{
			"Authenticated": true,
			"Name":          rec.Name,
		})
		return
	}
	c.HTML(http.StatusOK, "home.html", gin.H{"Authenticated": false})
}

// SignupPage は GET /signup のハンドラーです。
func (h *Handler) SignupPage(c *gin.Context) {
	c.HTML(http.StatusOK, "authform.html", gin.H{
		"Title":    "Sign Up",
		"Action":   "/signup",
		"ShowName": true,
		"Message":  c.Query("msg"),
	})
}

// LoginPage は GET /login のハンドラーです。
func (h *Handler) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "authform.html", gin.H{
		"Title":    "Sign In",
		"Action":   "/login",
		"ShowName": false,
		"Message":  c.Query("msg"),
	})
}

// Members は GET /members のハンドラーです。セッションに写し取った名前を表示します。
func (h *Handler) Members(c *gin.Context) {
	rec := auth.SessionFrom(c)
	c.HTML(http.StatusOK, "members.html", gin.H{"Name": rec.Name})
}

// Admin は GET /admin のハンドラーです。
// 自分以外の利用者の名前と権限だけを表示します。
// メールアドレスとパスワードハッシュは応答に含めません。
func (h *Handler) Admin(c *gin.Context) {
	rec := auth.SessionFrom(c)

	listings, err := h.users.List(c.Request.Context(), rec.Email)
	if err != nil {
		log.Printf("Failed to list users: %v", err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	c.HTML(http.StatusOK, "admin.html", gin.H{"Users": listings})
}

// NotFound は未定義ルートのハンドラーです。
func (h *Handler) NotFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "404.html", nil)
}
