package catalog

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/hitoshi/scripthub/internal/model"
	"github.com/hitoshi/scripthub/internal/repository"
	"github.com/hitoshi/scripthub/internal/security"
)

// --- モック定義 ---

type mockScriptRepo struct {
	listAllFn func(ctx context.Context) ([]*model.Script, error)
	createFn  func(ctx context.Context, script *model.Script) error
	updateFn  func(ctx context.Context, script *model.Script) (bool, error)
	deleteFn  func(ctx context.Context, id string) (bool, error)
	countFn   func(ctx context.Context) (int, error)
}

func (m *mockScriptRepo) ListAll(ctx context.Context) ([]*model.Script, error) {
	if m.listAllFn != nil {
		return m.listAllFn(ctx)
	}
	return nil, nil
}

func (m *mockScriptRepo) Create(ctx context.Context, script *model.Script) error {
	if m.createFn != nil {
		return m.createFn(ctx, script)
	}
	return nil
}

func (m *mockScriptRepo) Update(ctx context.Context, script *model.Script) (bool, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, script)
	}
	return true, nil
}

func (m *mockScriptRepo) Delete(ctx context.Context, id string) (bool, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return true, nil
}

func (m *mockScriptRepo) Count(ctx context.Context) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx)
	}
	return 0, nil
}

type mockAccountRepo struct {
	listAllFn func(ctx context.Context) ([]*model.Account, error)
	createFn  func(ctx context.Context, account *model.Account) error
	updateFn  func(ctx context.Context, account *model.Account, accentColor *string) (bool, error)
	deleteFn  func(ctx context.Context, id string) (bool, error)
	countFn   func(ctx context.Context) (int, error)
}

func (m *mockAccountRepo) ListAll(ctx context.Context) ([]*model.Account, error) {
	if m.listAllFn != nil {
		return m.listAllFn(ctx)
	}
	return nil, nil
}

func (m *mockAccountRepo) Create(ctx context.Context, account *model.Account) error {
	if m.createFn != nil {
		return m.createFn(ctx, account)
	}
	return nil
}

func (m *mockAccountRepo) Update(ctx context.Context, account *model.Account, accentColor *string) (bool, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, account, accentColor)
	}
	return true, nil
}

func (m *mockAccountRepo) Delete(ctx context.Context, id string) (bool, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return true, nil
}

func (m *mockAccountRepo) Count(ctx context.Context) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx)
	}
	return 0, nil
}

type mockNotifier struct {
	messages []string
}

func (m *mockNotifier) Notify(text string) {
	m.messages = append(m.messages, text)
}

// passthroughSanitizer は入力をそのまま返すサニタイザ。
type passthroughSanitizer struct{}

func (passthroughSanitizer) Sanitize(s string) string { return s }

// --- compile-time interface checks ---
var _ repository.ScriptRepository = (*mockScriptRepo)(nil)
var _ repository.AccountRepository = (*mockAccountRepo)(nil)

func newTestService(scripts *mockScriptRepo, accounts *mockAccountRepo, notifier *mockNotifier) *Service {
	return NewService(scripts, accounts, passthroughSanitizer{}, notifier, nil)
}

// --- テスト ---

func TestCreateScript_AssignsIDAndNotifies(t *testing.T) {
	var created *model.Script
	scripts := &mockScriptRepo{
		createFn: func(ctx context.Context, script *model.Script) error {
			created = script
			return nil
		},
	}
	notifier := &mockNotifier{}
	svc := newTestService(scripts, &mockAccountRepo{}, notifier)

	script, err := svc.CreateScript(context.Background(), ScriptInput{
		Title: "Auto Farm",
		Image: "img",
		Key:   "loadstring(...)",
		Attrs: map[string]any{"category": "farming"},
	})
	if err != nil {
		t.Fatalf("CreateScript() error = %v", err)
	}

	if _, err := uuid.Parse(script.ID); err != nil {
		t.Errorf("script.ID = %q, want a valid UUID", script.ID)
	}
	if created == nil || created.ID != script.ID {
		t.Error("script should be persisted with the assigned ID")
	}
	if created.Attrs["category"] != "farming" {
		t.Errorf("attrs not persisted: %v", created.Attrs)
	}
	if script.CreatedAt.IsZero() || script.UpdatedAt.IsZero() {
		t.Error("timestamps should be set on create")
	}

	if len(notifier.messages) != 1 {
		t.Fatalf("len(messages) = %d, want 1", len(notifier.messages))
	}
	if !strings.Contains(notifier.messages[0], "Auto Farm") {
		t.Errorf("notification = %q, should contain the title", notifier.messages[0])
	}
}

func TestCreateScript_PlainTextTitle_StoredUnchanged(t *testing.T) {
	var created *model.Script
	scripts := &mockScriptRepo{
		createFn: func(ctx context.Context, script *model.Script) error {
			created = script
			return nil
		},
	}
	// 実際のサニタイザで「&」などを含むタイトルが変化しないこと
	svc := NewService(scripts, &mockAccountRepo{}, security.NewTextSanitizer(), &mockNotifier{}, nil)

	tests := []string{
		"Fish & Chips",
		"a < b",
		`Best "Auto" Farm`,
	}
	for _, title := range tests {
		script, err := svc.CreateScript(context.Background(), ScriptInput{
			Title: title, Image: "img", Key: "key",
		})
		if err != nil {
			t.Fatalf("CreateScript(%q) error = %v", title, err)
		}
		if script.Title != title {
			t.Errorf("script.Title = %q, want %q", script.Title, title)
		}
		if created.Title != title {
			t.Errorf("persisted title = %q, want %q", created.Title, title)
		}
	}
}

func TestCreateScript_RepoError_NoNotification(t *testing.T) {
	scripts := &mockScriptRepo{
		createFn: func(ctx context.Context, script *model.Script) error {
			return errors.New("insert failed")
		},
	}
	notifier := &mockNotifier{}
	svc := newTestService(scripts, &mockAccountRepo{}, notifier)

	_, err := svc.CreateScript(context.Background(), ScriptInput{Title: "t", Image: "i", Key: "k"})
	if err == nil {
		t.Fatal("expected error")
	}
	// 失敗した操作は通知しない
	if len(notifier.messages) != 0 {
		t.Errorf("len(messages) = %d, want 0", len(notifier.messages))
	}
}

func TestUpdateScript_InvalidID_ReturnsInvalidIDError(t *testing.T) {
	called := false
	scripts := &mockScriptRepo{
		updateFn: func(ctx context.Context, script *model.Script) (bool, error) {
			called = true
			return true, nil
		},
	}
	svc := newTestService(scripts, &mockAccountRepo{}, &mockNotifier{})

	err := svc.UpdateScript(context.Background(), "not-a-uuid", ScriptInput{Title: "t", Image: "i", Key: "k"})

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *model.APIError", err)
	}
	if apiErr.Code != model.ErrCodeInvalidID {
		t.Errorf("code = %q, want %q", apiErr.Code, model.ErrCodeInvalidID)
	}
	// 不正なIDはストアに到達させない
	if called {
		t.Error("repository should not be called for malformed IDs")
	}
}

func TestUpdateScript_NotFound_ReturnsNotFoundError(t *testing.T) {
	scripts := &mockScriptRepo{
		updateFn: func(ctx context.Context, script *model.Script) (bool, error) {
			return false, nil
		},
	}
	notifier := &mockNotifier{}
	svc := newTestService(scripts, &mockAccountRepo{}, notifier)

	id := uuid.New().String()
	err := svc.UpdateScript(context.Background(), id, ScriptInput{Title: "t", Image: "i", Key: "k"})

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *model.APIError", err)
	}
	if apiErr.Code != model.ErrCodeScriptNotFound {
		t.Errorf("code = %q, want %q", apiErr.Code, model.ErrCodeScriptNotFound)
	}
	if len(notifier.messages) != 0 {
		t.Errorf("len(messages) = %d, want 0", len(notifier.messages))
	}
}

func TestDeleteScript_Success_Notifies(t *testing.T) {
	var deletedID string
	scripts := &mockScriptRepo{
		deleteFn: func(ctx context.Context, id string) (bool, error) {
			deletedID = id
			return true, nil
		},
	}
	notifier := &mockNotifier{}
	svc := newTestService(scripts, &mockAccountRepo{}, notifier)

	id := uuid.New().String()
	if err := svc.DeleteScript(context.Background(), id); err != nil {
		t.Fatalf("DeleteScript() error = %v", err)
	}
	if deletedID != id {
		t.Errorf("deleted id = %q, want %q", deletedID, id)
	}
	if len(notifier.messages) != 1 {
		t.Errorf("len(messages) = %d, want 1", len(notifier.messages))
	}
}

func TestDeleteScript_NotFound_ReturnsNotFoundError(t *testing.T) {
	scripts := &mockScriptRepo{
		deleteFn: func(ctx context.Context, id string) (bool, error) {
			return false, nil
		},
	}
	svc := newTestService(scripts, &mockAccountRepo{}, &mockNotifier{})

	err := svc.DeleteScript(context.Background(), uuid.New().String())

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *model.APIError", err)
	}
	if apiErr.Code != model.ErrCodeScriptNotFound {
		t.Errorf("code = %q, want %q", apiErr.Code, model.ErrCodeScriptNotFound)
	}
}

func TestCreateAccount_DefaultsAccentColor(t *testing.T) {
	var created *model.Account
	accounts := &mockAccountRepo{
		createFn: func(ctx context.Context, account *model.Account) error {
			created = account
			return nil
		},
	}
	svc := newTestService(&mockScriptRepo{}, accounts, &mockNotifier{})

	account, err := svc.CreateAccount(context.Background(), AccountInput{
		Name: "Main", Image: "img", Username: "user1", Password: "pw",
	})
	if err != nil {
		t.Fatalf("CreateAccount() error = %v", err)
	}

	if account.AccentColor != model.DefaultAccentColor {
		t.Errorf("AccentColor = %q, want %q", account.AccentColor, model.DefaultAccentColor)
	}
	if created.AccentColor != model.DefaultAccentColor {
		t.Errorf("persisted AccentColor = %q, want %q", created.AccentColor, model.DefaultAccentColor)
	}
}

func TestCreateAccount_ExplicitAccentColor(t *testing.T) {
	accounts := &mockAccountRepo{}
	svc := newTestService(&mockScriptRepo{}, accounts, &mockNotifier{})

	accent := "#123456"
	account, err := svc.CreateAccount(context.Background(), AccountInput{
		Name: "Main", Image: "img", Username: "user1", Password: "pw",
		AccentColor: &accent,
	})
	if err != nil {
		t.Fatalf("CreateAccount() error = %v", err)
	}
	if account.AccentColor != "#123456" {
		t.Errorf("AccentColor = %q, want %q", account.AccentColor, "#123456")
	}
}

func TestUpdateAccount_OmittedAccentColor_PassesNil(t *testing.T) {
	var gotAccent *string
	accounts := &mockAccountRepo{
		updateFn: func(ctx context.Context, account *model.Account, accentColor *string) (bool, error) {
			gotAccent = accentColor
			return true, nil
		},
	}
	svc := newTestService(&mockScriptRepo{}, accounts, &mockNotifier{})

	err := svc.UpdateAccount(context.Background(), uuid.New().String(), AccountInput{
		Name: "Main", Image: "img", Username: "user1", Password: "pw",
	})
	if err != nil {
		t.Fatalf("UpdateAccount() error = %v", err)
	}
	// 未指定のaccentColorは既存値を維持する
	if gotAccent != nil {
		t.Errorf("accentColor = %v, want nil", *gotAccent)
	}
}

func TestUpdateAccount_NotFound_ReturnsNotFoundError(t *testing.T) {
	accounts := &mockAccountRepo{
		updateFn: func(ctx context.Context, account *model.Account, accentColor *string) (bool, error) {
			return false, nil
		},
	}
	svc := newTestService(&mockScriptRepo{}, accounts, &mockNotifier{})

	err := svc.UpdateAccount(context.Background(), uuid.New().String(), AccountInput{
		Name: "n", Image: "i", Username: "u", Password: "p",
	})

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *model.APIError", err)
	}
	if apiErr.Code != model.ErrCodeAccountNotFound {
		t.Errorf("code = %q, want %q", apiErr.Code, model.ErrCodeAccountNotFound)
	}
}

func TestDeleteAccount_InvalidID_ReturnsInvalidIDError(t *testing.T) {
	svc := newTestService(&mockScriptRepo{}, &mockAccountRepo{}, &mockNotifier{})

	err := svc.DeleteAccount(context.Background(), "12345")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *model.APIError", err)
	}
	if apiErr.Code != model.ErrCodeInvalidID {
		t.Errorf("code = %q, want %q", apiErr.Code, model.ErrCodeInvalidID)
	}
}

func TestListScripts_PropagatesRepoError(t *testing.T) {
	scripts := &mockScriptRepo{
		listAllFn: func(ctx context.Context) ([]*model.Script, error) {
			return nil, errors.New("connection refused")
		},
	}
	svc := newTestService(scripts, &mockAccountRepo{}, &mockNotifier{})

	if _, err := svc.ListScripts(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
