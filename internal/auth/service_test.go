package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/hitoshi/scripthub/internal/model"
	"github.com/hitoshi/scripthub/internal/repository"
)

// --- モック定義 ---

type mockSessionRepo struct {
	createFn     func(ctx context.Context, session *model.Session) error
	findByIDFn   func(ctx context.Context, id string) (*model.Session, error)
	touchFn      func(ctx context.Context, id string, expiresAt time.Time) error
	deleteByIDFn func(ctx context.Context, id string) error
}

func (m *mockSessionRepo) Create(ctx context.Context, session *model.Session) error {
	if m.createFn != nil {
		return m.createFn(ctx, session)
	}
	return nil
}

func (m *mockSessionRepo) FindByID(ctx context.Context, id string) (*model.Session, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockSessionRepo) Touch(ctx context.Context, id string, expiresAt time.Time) error {
	if m.touchFn != nil {
		return m.touchFn(ctx, id, expiresAt)
	}
	return nil
}

func (m *mockSessionRepo) DeleteByID(ctx context.Context, id string) error {
	if m.deleteByIDFn != nil {
		return m.deleteByIDFn(ctx, id)
	}
	return nil
}

type mockNotifier struct {
	messages []string
}

func (m *mockNotifier) Notify(text string) {
	m.messages = append(m.messages, text)
}

// --- compile-time interface check ---
var _ repository.SessionRepository = (*mockSessionRepo)(nil)

func testConfig() ServiceConfig {
	return ServiceConfig{
		AdminPassword: "correct-password",
		SessionMaxAge: 86400,
	}
}

// --- テスト ---

func TestLogin_CorrectPassword_CreatesSession(t *testing.T) {
	var created *model.Session
	repo := &mockSessionRepo{
		createFn: func(ctx context.Context, session *model.Session) error {
			created = session
			return nil
		},
	}
	notifier := &mockNotifier{}
	svc := NewService(repo, notifier, testConfig())

	session, err := svc.Login(context.Background(), "correct-password", "203.0.113.9")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if session == nil {
		t.Fatal("expected session")
	}

	// セッションIDは十分な長さのランダム値
	if len(session.ID) != 64 {
		t.Errorf("len(session.ID) = %d, want 64", len(session.ID))
	}
	if created == nil || created.ID != session.ID {
		t.Error("session should be persisted")
	}

	// 有効期限はMaxAge後
	wantExpiry := time.Now().Add(24 * time.Hour)
	if session.ExpiresAt.Before(wantExpiry.Add(-time.Minute)) ||
		session.ExpiresAt.After(wantExpiry.Add(time.Minute)) {
		t.Errorf("ExpiresAt = %v, want ~%v", session.ExpiresAt, wantExpiry)
	}

	// ログイン通知にIPを含む
	if len(notifier.messages) != 1 {
		t.Fatalf("len(messages) = %d, want 1", len(notifier.messages))
	}
	if !strings.Contains(notifier.messages[0], "203.0.113.9") {
		t.Errorf("notification = %q, should contain the client IP", notifier.messages[0])
	}
}

func TestLogin_WrongPassword_ReturnsNilSession(t *testing.T) {
	repo := &mockSessionRepo{
		createFn: func(ctx context.Context, session *model.Session) error {
			t.Fatal("session should not be created")
			return nil
		},
	}
	notifier := &mockNotifier{}
	svc := NewService(repo, notifier, testConfig())

	session, err := svc.Login(context.Background(), "wrong", "203.0.113.9")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if session != nil {
		t.Errorf("session = %v, want nil", session)
	}
	// 失敗時は通知しない
	if len(notifier.messages) != 0 {
		t.Errorf("len(messages) = %d, want 0", len(notifier.messages))
	}
}

func TestLogin_SessionIDsAreUnique(t *testing.T) {
	repo := &mockSessionRepo{}
	svc := NewService(repo, &mockNotifier{}, testConfig())

	s1, err := svc.Login(context.Background(), "correct-password", "ip")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	s2, err := svc.Login(context.Background(), "correct-password", "ip")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if s1.ID == s2.ID {
		t.Error("session IDs should be unique")
	}
}

func TestLogin_RepoError_ReturnsError(t *testing.T) {
	repo := &mockSessionRepo{
		createFn: func(ctx context.Context, session *model.Session) error {
			return errors.New("insert failed")
		},
	}
	svc := NewService(repo, &mockNotifier{}, testConfig())

	if _, err := svc.Login(context.Background(), "correct-password", "ip"); err == nil {
		t.Fatal("expected error")
	}
}

func TestLogout_DeletesSession(t *testing.T) {
	var deletedID string
	repo := &mockSessionRepo{
		deleteByIDFn: func(ctx context.Context, id string) error {
			deletedID = id
			return nil
		},
	}
	svc := NewService(repo, &mockNotifier{}, testConfig())

	if err := svc.Logout(context.Background(), "session-id"); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if deletedID != "session-id" {
		t.Errorf("deleted id = %q, want %q", deletedID, "session-id")
	}
}

func TestLogout_EmptySessionID_IsNoop(t *testing.T) {
	repo := &mockSessionRepo{
		deleteByIDFn: func(ctx context.Context, id string) error {
			t.Fatal("delete should not be called")
			return nil
		},
	}
	svc := NewService(repo, &mockNotifier{}, testConfig())

	if err := svc.Logout(context.Background(), ""); err != nil {
		t.Errorf("Logout() error = %v", err)
	}
}

func TestIsAuthenticated_ValidSession_ReturnsTrue(t *testing.T) {
	repo := &mockSessionRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Session, error) {
			return &model.Session{ID: id, ExpiresAt: time.Now().Add(time.Hour)}, nil
		},
	}
	svc := NewService(repo, &mockNotifier{}, testConfig())

	ok, err := svc.IsAuthenticated(context.Background(), "sid")
	if err != nil {
		t.Fatalf("IsAuthenticated() error = %v", err)
	}
	if !ok {
		t.Error("expected authenticated = true")
	}
}

func TestIsAuthenticated_UnknownSession_ReturnsFalse(t *testing.T) {
	repo := &mockSessionRepo{}
	svc := NewService(repo, &mockNotifier{}, testConfig())

	ok, err := svc.IsAuthenticated(context.Background(), "unknown")
	if err != nil {
		t.Fatalf("IsAuthenticated() error = %v", err)
	}
	if ok {
		t.Error("expected authenticated = false")
	}
}

func TestIsAuthenticated_EmptySessionID_ReturnsFalse(t *testing.T) {
	svc := NewService(&mockSessionRepo{}, &mockNotifier{}, testConfig())

	ok, err := svc.IsAuthenticated(context.Background(), "")
	if err != nil {
		t.Fatalf("IsAuthenticated() error = %v", err)
	}
	if ok {
		t.Error("expected authenticated = false")
	}
}
