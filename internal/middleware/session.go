// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/hitoshi/scripthub/internal/model"
)

const sessionCookieName = "admin_session"

// SessionFinder はセッションの検索と有効期限延長に必要なインターフェース。
// repository.SessionRepositoryの部分集合として定義する。
type SessionFinder interface {
	FindByID(ctx context.Context, id string) (*model.Session, error)
	Touch(ctx context.Context, id string, expiresAt time.Time) error
}

// SessionCookieConfig はセッションCookieの属性設定。
type SessionCookieConfig struct {
	Domain string
	Secure bool
	MaxAge int // 秒
}

// NewAdminSessionMiddleware はHTTP Only Cookieから管理者セッションを読み取り、
// 有効性を検証するミドルウェアを返す。
// 有効なセッションには有効期限をMaxAge分延長し、Cookieを再設定する
// （ローリング有効期限）。未認証リクエストには401 Unauthorizedを返す。
func NewAdminSessionMiddleware(finder SessionFinder, cookieCfg SessionCookieConfig) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// 1. CookieからセッションIDを取得
			cookie, err := r.Cookie(sessionCookieName)
			if err != nil || cookie.Value == "" {
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
				return
			}

			// 2. セッションの有効性を検証
			session, err := finder.FindByID(r.Context(), cookie.Value)
			if err != nil {
				slog.Error("failed to find session",
					slog.String("error", err.Error()),
				)
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
				return
			}
			if session == nil {
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
				return
			}

			// 3. ローリング有効期限: 最終利用時刻から起算して延長する
			newExpiry := time.Now().Add(time.Duration(cookieCfg.MaxAge) * time.Second)
			if err := finder.Touch(r.Context(), session.ID, newExpiry); err != nil {
				// 延長失敗はリクエスト自体を失敗させない
				slog.Error("failed to renew session",
					slog.String("error", err.Error()),
				)
			} else {
				http.SetCookie(w, &http.Cookie{
					Name:     sessionCookieName,
					Value:    session.ID,
					Path:     "/",
					Domain:   cookieCfg.Domain,
					MaxAge:   cookieCfg.MaxAge,
					HttpOnly: true,
					Secure:   cookieCfg.Secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			next.ServeHTTP(w, r)
		})
	}
}
