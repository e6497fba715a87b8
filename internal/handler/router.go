package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/scripthub/internal/metrics"
	"github.com/hitoshi/scripthub/internal/middleware"
	"github.com/hitoshi/scripthub/internal/notify"
)

// HealthChecker はヘルスチェックに必要なインターフェース。
// sql.DBが満たす。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	SessionFinder     middleware.SessionFinder
	SessionCookie     middleware.SessionCookieConfig
	CORSAllowedOrigin string
	Logger            *slog.Logger
	HTTPMetrics       metrics.HTTPMetrics

	// 認証
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// カタログ
	ScriptService  ScriptServiceInterface
	AccountService AccountServiceInterface

	// 通知（コピーイベント用）
	Notifier notify.Notifier

	// 運用
	HealthChecker HealthChecker
	Gatherer      prometheus.Gatherer

	// フロントエンド（空の場合は静的配信を行わない）
	FrontendDir string
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	CORS → SecurityHeaders → Recovery → Logging → Metrics
//
// 変更系カタログ操作・アカウント読み取り・画像アップロードは
// 管理者セッションミドルウェアの背後に配置する。
// スクリプト一覧の取得は公開ページが参照するため認証不要。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	// 全ルートに効くミドルウェア
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewRecoveryMiddleware())
	if deps.Logger != nil {
		r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	}
	if deps.HTTPMetrics != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.HTTPMetrics))
	}

	scriptHandler := NewScriptHandler(deps.ScriptService)
	accountHandler := NewAccountHandler(deps.AccountService)
	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig)
	uploadHandler := NewUploadHandler()
	copyHandler := NewCopyHandler(deps.Notifier)

	// --- 認証不要のルート ---

	r.Get("/api/scripts", scriptHandler.ListScripts)

	r.Post("/api/login", authHandler.Login)
	r.Post("/api/logout", authHandler.Logout)
	r.Get("/api/check-auth", authHandler.CheckAuth)

	r.Post("/api/notify/copy", copyHandler.NotifyCopy)

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		if deps.HealthChecker != nil {
			if err := deps.HealthChecker.PingContext(req.Context()); err != nil {
				http.Error(w, "unhealthy", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	if deps.Gatherer != nil {
		r.Get("/metrics", metrics.Handler(deps.Gatherer).ServeHTTP)
	}

	// --- 管理者認証が必要なルート ---
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewAdminSessionMiddleware(deps.SessionFinder, deps.SessionCookie))

		// スクリプト管理
		r.Post("/api/scripts", scriptHandler.CreateScript)
		r.Put("/api/scripts/{id}", scriptHandler.UpdateScript)
		r.Delete("/api/scripts/{id}", scriptHandler.DeleteScript)

		// アカウント管理（一覧も資格情報を含むため認証必須）
		r.Get("/api/accounts", accountHandler.ListAccounts)
		r.Post("/api/accounts", accountHandler.CreateAccount)
		r.Put("/api/accounts/{id}", accountHandler.UpdateAccount)
		r.Delete("/api/accounts/{id}", accountHandler.DeleteAccount)

		// 画像アップロード
		r.Post("/api/upload-image", uploadHandler.UploadImage)
	})

	// 静的ページ
	if deps.FrontendDir != "" {
		registerStaticRoutes(r, deps.FrontendDir)
	}

	return r
}
