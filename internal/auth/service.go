// Package auth は管理者のパスワード認証とセッション管理を提供する。
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/hitoshi/scripthub/internal/model"
	"github.com/hitoshi/scripthub/internal/notify"
	"github.com/hitoshi/scripthub/internal/repository"
)

// ServiceConfig は認証サービスの設定。
type ServiceConfig struct {
	AdminPassword string
	SessionMaxAge int // セッション有効期間（秒）
}

// Service は認証に関するビジネスロジックを提供する。
type Service struct {
	sessionRepo repository.SessionRepository
	notifier    notify.Notifier
	config      ServiceConfig
}

// NewService はServiceを生成する。
func NewService(sessionRepo repository.SessionRepository, notifier notify.Notifier, config ServiceConfig) *Service {
	return &Service{
		sessionRepo: sessionRepo,
		notifier:    notifier,
		config:      config,
	}
}

// Login は管理者パスワードを検証し、一致した場合にセッションを発行する。
// パスワード不一致の場合はセッションnil・エラーnilを返し、状態を変更しない。
// ログイン成功時は呼び出し元IPを含む通知を発行する。
func (s *Service) Login(ctx context.Context, password, remoteAddr string) (*model.Session, error) {
	if password != s.config.AdminPassword {
		slog.Warn("admin login failed", slog.String("remote_addr", remoteAddr))
		return nil, nil
	}

	session, err := s.createSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	slog.Info("admin logged in", slog.String("remote_addr", remoteAddr))
	s.notifier.Notify(notify.LoginMessage(remoteAddr))
	return session, nil
}

// Logout はセッションを破棄する。セッションIDが空・未登録でもエラーにしない（冪等）。
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}

	if err := s.sessionRepo.DeleteByID(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	slog.Info("admin logged out")
	return nil
}

// IsAuthenticated は指定セッションIDが有効な管理者セッションかを返す。
// 副作用は持たない（有効期限の延長はミドルウェアが行う）。
func (s *Service) IsAuthenticated(ctx context.Context, sessionID string) (bool, error) {
	if sessionID == "" {
		return false, nil
	}

	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return false, fmt.Errorf("failed to find session: %w", err)
	}

	return session != nil, nil
}

// SessionMaxAge はセッション有効期間を返す。
func (s *Service) SessionMaxAge() time.Duration {
	return time.Duration(s.config.SessionMaxAge) * time.Second
}

// createSession はセッションを作成し永続化する。
func (s *Service) createSession(ctx context.Context) (*model.Session, error) {
	sessionID, err := generateSessionID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session ID: %w", err)
	}

	session := &model.Session{
		ID:        sessionID,
		ExpiresAt: time.Now().Add(s.SessionMaxAge()),
		CreatedAt: time.Now(),
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return session, nil
}

// generateSessionID は暗号的に安全なセッションIDを生成する。
func generateSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
