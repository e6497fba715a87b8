package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/hitoshi/scripthub/internal/model"
)

const sessionCookieName = "admin_session"

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	// Login はパスワードを検証し、一致した場合にセッションを発行する。
	// 不一致の場合はセッションnil・エラーnilを返す。
	Login(ctx context.Context, password, remoteAddr string) (*model.Session, error)
	// Logout はセッションを破棄する。冪等。
	Logout(ctx context.Context, sessionID string) error
	// IsAuthenticated は指定セッションIDが有効かを返す。
	IsAuthenticated(ctx context.Context, sessionID string) (bool, error)
}

// AuthHandlerConfig は認証ハンドラーの設定。
type AuthHandlerConfig struct {
	CookieDomain  string
	CookieSecure  bool
	SessionMaxAge int // セッションCookieの有効期間（秒）
}

// AuthHandler は管理者認証関連のHTTPハンドラー。
type AuthHandler struct {
	service AuthServiceInterface
	config  AuthHandlerConfig
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface, config AuthHandlerConfig) *AuthHandler {
	return &AuthHandler{
		service: service,
		config:  config,
	}
}

// loginRequest はログインリクエストのボディ。
type loginRequest struct {
	Password string `json:"password"`
}

// Login は管理者ログインを処理する。
// POST /api/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIError(w, model.NewInvalidRequestError())
		return
	}

	session, err := h.service.Login(r.Context(), req.Password, clientAddr(r))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if session == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]any{
			"success": false,
			"message": "Incorrect password",
		})
		return
	}

	// セッションCookieを設定（HTTP Only）
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    session.ID,
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   h.config.SessionMaxAge,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// Logout はセッションを破棄する。
// POST /api/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(sessionCookieName)
	if err == nil && cookie.Value != "" {
		// セッション破棄に失敗してもCookieはクリアする
		if logoutErr := h.service.Logout(r.Context(), cookie.Value); logoutErr != nil {
			slog.Error("failed to logout", slog.String("error", logoutErr.Error()))
		}
	}

	// セッションCookieをクリア
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// CheckAuth は現在のセッションが管理者認証済みかを返す。
// GET /api/check-auth
func (h *AuthHandler) CheckAuth(w http.ResponseWriter, r *http.Request) {
	authenticated := false

	if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		ok, err := h.service.IsAuthenticated(r.Context(), cookie.Value)
		if err != nil {
			slog.Error("failed to check session", slog.String("error", err.Error()))
		} else {
			authenticated = ok
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{"authenticated": authenticated})
}

// clientAddr はリクエスト元のIPアドレスを取得する。
// リバースプロキシ経由の場合はX-Forwarded-Forの先頭を使用する。
func clientAddr(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if idx := strings.IndexByte(fwd, ','); idx >= 0 {
			return strings.TrimSpace(fwd[:idx])
		}
		return strings.TrimSpace(fwd)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
