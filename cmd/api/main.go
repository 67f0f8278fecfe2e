// Package main はWebサーバーのエントリーポイントです。
package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	redis "github.com/redis/go-redis/v9"

	"github.com/yourusername/member-portal/internal/auth"
	"github.com/yourusername/member-portal/internal/config"
	"github.com/yourusername/member-portal/internal/session"
	"github.com/yourusername/member-portal/internal/user"
	"github.com/yourusername/member-portal/internal/web"
)

func main() {
	// 設定の読み込み
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Ginのモードを設定
	gin.SetMode(cfg.GinMode)

	ctx := context.Background()

	// 利用者ストア（PostgreSQL）の初期化
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	users := user.NewPostgresStore(pool)
	if err := users.Migrate(ctx); err != nil {
		log.Fatalf("Failed to migrate users table: %v", err)
	}

	// セッションストア（Redis）の初期化
	sessions, rdb, err := setupSessions(cfg)
	if err != nil {
		log.Fatalf("Failed to set up session store: %v", err)
	}
	defer rdb.Close()

	// Ginルーターの初期化（デフォルトミドルウェア: Logger, Recovery）
	router := gin.Default()
	router.SetHTMLTemplate(web.Templates())

	authManager := auth.NewManager(users, sessions, auth.NewHasher())
	pages := web.NewHandler(users)

	// ルーティングの設定
	setupRoutes(router, authManager, pages)

	// サーバーの起動
	addr := ":" + cfg.Port
	log.Printf("Starting server on %s (mode: %s)", addr, cfg.GinMode)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupSessions は Redis クライアントとセッションマネージャーを組み立てます。
func setupSessions(cfg *config.Config) (*session.Manager, *redis.Client, error) {
	opt, err := redis.ParseURL(cfg.SessionRedisURL)
	if err != nil {
		return nil, nil, err
	}
	rdb := redis.NewClient(opt)

	cipher, err := session.NewRecordCipher(cfg.SessionStoreSecret)
	if err != nil {
		return nil, nil, err
	}

	store := session.NewRedisStore(rdb, cipher)
	codec := session.NewCodec(cfg.SessionSecret)
	ttl := time.Duration(cfg.SessionTTLMinutes) * time.Minute
	secure := cfg.GinMode == gin.ReleaseMode

	return session.NewManager(store, codec, ttl, secure), rdb, nil
}

// handleHealth はヘルスチェックエンドポイントのハンドラーです。
func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "member-portal",
		"version": "0.1.0",
	})
}

// setupRoutes はページと認証周りの配線を行います。
// すべてのルートで先にセッションを引き当て、ルートごとのゲートが
// 認証状態と権限を確認します。拒否は常にホームへのリダイレクトです。
func setupRoutes(router *gin.Engine, authManager *auth.Manager, pages *web.Handler) {
	router.GET("/health", handleHealth)

	router.Use(authManager.LoadSession())

	router.GET("/", pages.Home)

	// ログイン済みの場合、サインアップ・ログインのフォームはホームへ誘導
	router.GET("/signup", authManager.RequireGuest(), pages.SignupPage)
	router.POST("/signup", authManager.Signup)
	router.GET("/login", authManager.RequireGuest(), pages.LoginPage)
	router.POST("/login", authManager.Login)

	router.GET("/members", authManager.RequireAuth(), pages.Members)
	router.GET("/admin", authManager.RequireRole(user.RoleAdmin), pages.Admin)

	router.GET("/logout", authManager.Logout)

	router.NoRoute(pages.NotFound)
}
