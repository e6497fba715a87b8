// Package app はアプリケーションの起動とワイヤリングを提供する。
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/scripthub/internal/auth"
	"github.com/hitoshi/scripthub/internal/catalog"
	"github.com/hitoshi/scripthub/internal/config"
	"github.com/hitoshi/scripthub/internal/database"
	"github.com/hitoshi/scripthub/internal/handler"
	"github.com/hitoshi/scripthub/internal/logger"
	"github.com/hitoshi/scripthub/internal/metrics"
	"github.com/hitoshi/scripthub/internal/middleware"
	"github.com/hitoshi/scripthub/internal/notify"
	"github.com/hitoshi/scripthub/internal/repository"
	"github.com/hitoshi/scripthub/internal/security"
)

// Init はアプリケーションの初期化を行う。
// 環境変数からConfigを読み込み、JSON構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// 1. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w)

	// 2. 環境変数から設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
		slog.String("base_url", cfg.BaseURL),
	)

	switch cmd {
	case CommandServe:
		return runServe(cfg)
	case CommandMigrate:
		return runMigrate(cfg)
	case CommandSeed:
		return runSeed(cfg)
	default:
		return runServe(cfg)
	}
}

// runServe はAPIサーバーモードで起動する。
// DB接続を開き、全依存関係をワイヤリングし、HTTPサーバーを起動する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe(cfg *config.Config) error {
	// 1. DB接続
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	slog.Info("database connection established")

	// 2. リポジトリの初期化
	scriptRepo := repository.NewPostgresScriptRepo(db)
	accountRepo := repository.NewPostgresAccountRepo(db)
	sessionRepo := repository.NewPostgresSessionRepo(db)

	// 3. メトリクスコレクタの初期化
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// 4. 通知ディスパッチャの初期化
	telegramClient := notify.NewTelegramClient(
		&http.Client{Timeout: cfg.NotifyTimeout},
		slog.Default(),
		cfg.TelegramBotToken,
		cfg.TelegramChatID,
	)
	dispatcher := notify.NewDispatcher(
		telegramClient, slog.Default(), collector,
		cfg.NotifyTimeout, cfg.NotifyQueueSize,
	)
	defer dispatcher.Close()

	if !telegramClient.Enabled() {
		slog.Warn("telegram credentials not configured, notifications disabled")
	}

	// 5. ドメインサービスの初期化
	sanitizer := security.NewTextSanitizer()
	catalogService := catalog.NewService(scriptRepo, accountRepo, sanitizer, dispatcher, collector)
	authService := auth.NewService(sessionRepo, dispatcher, auth.ServiceConfig{
		AdminPassword: cfg.AdminPassword,
		SessionMaxAge: cfg.SessionMaxAge,
	})

	// 6. 初期データ投入（SEED_DIR設定時のみ、空のテーブルに限る）
	if cfg.SeedDir != "" {
		seeder := NewSeeder(scriptRepo, accountRepo, cfg.SeedDir)
		if err := seeder.Run(context.Background()); err != nil {
			slog.Error("seed failed", slog.String("error", err.Error()))
		}
	}

	// 7. ルーターの構築
	deps := &handler.RouterDeps{
		SessionFinder: sessionRepo,
		SessionCookie: middleware.SessionCookieConfig{
			Domain: cfg.CookieDomain,
			Secure: cfg.CookieSecure,
			MaxAge: cfg.SessionMaxAge,
		},
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		Logger:            slog.Default(),
		HTTPMetrics:       collector,

		AuthService: authService,
		AuthConfig: handler.AuthHandlerConfig{
			CookieDomain:  cfg.CookieDomain,
			CookieSecure:  cfg.CookieSecure,
			SessionMaxAge: cfg.SessionMaxAge,
		},

		ScriptService:  catalogService,
		AccountService: catalogService,

		Notifier: dispatcher,

		HealthChecker: db,
		Gatherer:      registry,

		FrontendDir: cfg.FrontendDir,
	}

	router := handler.NewRouter(deps)

	// 8. HTTPサーバーの起動
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// グレースフルシャットダウンのためのシグナルハンドリング
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("API server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server listen error", slog.String("error", err.Error()))
		}
	}()

	<-stop
	slog.Info("shutting down API server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// runMigrate はデータベースマイグレーションを実行する。
// すべての未適用マイグレーションを順番に適用する。
func runMigrate(cfg *config.Config) error {
	slog.Info("running database migrations",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("database migrations completed successfully")
	return nil
}

// runSeed は初期データ投入を単独で実行する。
// SEED_DIRが未設定の場合はエラーを返す。
func runSeed(cfg *config.Config) error {
	if cfg.SeedDir == "" {
		return fmt.Errorf("SEED_DIR is not set")
	}

	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	seeder := NewSeeder(
		repository.NewPostgresScriptRepo(db),
		repository.NewPostgresAccountRepo(db),
		cfg.SeedDir,
	)
	return seeder.Run(context.Background())
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// maskDatabaseURL はデータベースURLの認証情報をマスクする。
func maskDatabaseURL(url string) string {
	if len(url) > 20 {
		return url[:12] + "***@..."
	}
	return "***"
}
