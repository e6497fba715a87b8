// Package catalog はスクリプト・アカウントカタログのビジネスロジックを提供する。
package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/scripthub/internal/metrics"
	"github.com/hitoshi/scripthub/internal/model"
	"github.com/hitoshi/scripthub/internal/notify"
	"github.com/hitoshi/scripthub/internal/repository"
	"github.com/hitoshi/scripthub/internal/security"
)

// ScriptInput はスクリプト作成・更新の入力。
// 必須フィールドの存在チェックはハンドラー側で済ませてから渡す。
type ScriptInput struct {
	Title string
	Image string
	Key   string
	Attrs map[string]any
}

// AccountInput はアカウント作成・更新の入力。
// AccentColorがnilの場合、作成時はデフォルト色を設定し、更新時は既存値を維持する。
type AccountInput struct {
	Name        string
	Image       string
	Username    string
	Password    string
	AccentColor *string
	Attrs       map[string]any
}

// Service はカタログに関するビジネスロジックを提供する。
// 変更系操作の成功時にベストエフォート通知を発行する。
type Service struct {
	scripts   repository.ScriptRepository
	accounts  repository.AccountRepository
	sanitizer security.TextSanitizerService
	notifier  notify.Notifier
	metrics   metrics.CatalogMetrics
}

// NewService はServiceを生成する。
func NewService(
	scripts repository.ScriptRepository,
	accounts repository.AccountRepository,
	sanitizer security.TextSanitizerService,
	notifier notify.Notifier,
	collector metrics.CatalogMetrics,
) *Service {
	return &Service{
		scripts:   scripts,
		accounts:  accounts,
		sanitizer: sanitizer,
		notifier:  notifier,
		metrics:   collector,
	}
}

// --- スクリプト ---

// ListScripts は全スクリプトを取得する。
func (s *Service) ListScripts(ctx context.Context) ([]*model.Script, error) {
	scripts, err := s.scripts.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list scripts: %w", err)
	}
	return scripts, nil
}

// CreateScript はスクリプトを作成し、IDを採番して返す。
func (s *Service) CreateScript(ctx context.Context, in ScriptInput) (*model.Script, error) {
	now := time.Now()
	script := &model.Script{
		ID:        uuid.New().String(),
		Title:     s.sanitizer.Sanitize(in.Title),
		Image:     in.Image,
		Key:       in.Key,
		Attrs:     in.Attrs,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.scripts.Create(ctx, script); err != nil {
		return nil, fmt.Errorf("failed to create script: %w", err)
	}

	s.recordOp("script", "create")
	s.notifier.Notify(notify.ScriptAddedMessage(script.Title))
	return script, nil
}

// UpdateScript は指定IDのスクリプトのtitle・image・keyを置き換える。
// IDの形式が不正な場合はINVALID_ID、対象が存在しない場合はSCRIPT_NOT_FOUNDを返す。
func (s *Service) UpdateScript(ctx context.Context, id string, in ScriptInput) error {
	if err := validateID(id); err != nil {
		return err
	}

	script := &model.Script{
		ID:    id,
		Title: s.sanitizer.Sanitize(in.Title),
		Image: in.Image,
		Key:   in.Key,
	}

	matched, err := s.scripts.Update(ctx, script)
	if err != nil {
		return fmt.Errorf("failed to update script: %w", err)
	}
	if !matched {
		return model.NewScriptNotFoundError(id)
	}

	s.recordOp("script", "update")
	s.notifier.Notify(notify.ScriptUpdatedMessage(id, script.Title))
	return nil
}

// DeleteScript は指定IDのスクリプトを削除する。
// IDの形式が不正な場合はINVALID_ID、対象が存在しない場合はSCRIPT_NOT_FOUNDを返す。
func (s *Service) DeleteScript(ctx context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}

	deleted, err := s.scripts.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete script: %w", err)
	}
	if !deleted {
		return model.NewScriptNotFoundError(id)
	}

	s.recordOp("script", "delete")
	s.notifier.Notify(notify.ScriptDeletedMessage(id))
	return nil
}

// --- アカウント ---

// ListAccounts は全アカウントを取得する。
func (s *Service) ListAccounts(ctx context.Context) ([]*model.Account, error) {
	accounts, err := s.accounts.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

// CreateAccount はアカウントを作成し、IDを採番して返す。
// accentColor未指定の場合はデフォルト色を設定する。
func (s *Service) CreateAccount(ctx context.Context, in AccountInput) (*model.Account, error) {
	accent := model.DefaultAccentColor
	if in.AccentColor != nil {
		accent = s.sanitizer.Sanitize(*in.AccentColor)
	}

	now := time.Now()
	account := &model.Account{
		ID:          uuid.New().String(),
		Name:        s.sanitizer.Sanitize(in.Name),
		Image:       in.Image,
		Username:    s.sanitizer.Sanitize(in.Username),
		Password:    in.Password,
		AccentColor: accent,
		Attrs:       in.Attrs,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	s.recordOp("account", "create")
	s.notifier.Notify(notify.AccountAddedMessage(account.Name, account.Username))
	return account, nil
}

// UpdateAccount は指定IDのアカウントのname・image・username・passwordを置き換える。
// accentColorは指定された場合のみ更新する。
// IDの形式が不正な場合はINVALID_ID、対象が存在しない場合はACCOUNT_NOT_FOUNDを返す。
func (s *Service) UpdateAccount(ctx context.Context, id string, in AccountInput) error {
	if err := validateID(id); err != nil {
		return err
	}

	account := &model.Account{
		ID:       id,
		Name:     s.sanitizer.Sanitize(in.Name),
		Image:    in.Image,
		Username: s.sanitizer.Sanitize(in.Username),
		Password: in.Password,
	}

	var accent *string
	if in.AccentColor != nil {
		sanitized := s.sanitizer.Sanitize(*in.AccentColor)
		accent = &sanitized
	}

	matched, err := s.accounts.Update(ctx, account, accent)
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	if !matched {
		return model.NewAccountNotFoundError(id)
	}

	s.recordOp("account", "update")
	s.notifier.Notify(notify.AccountUpdatedMessage(account.Name, account.Username))
	return nil
}

// DeleteAccount は指定IDのアカウントを削除する。
// IDの形式が不正な場合はINVALID_ID、対象が存在しない場合はACCOUNT_NOT_FOUNDを返す。
func (s *Service) DeleteAccount(ctx context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}

	deleted, err := s.accounts.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	if !deleted {
		return model.NewAccountNotFoundError(id)
	}

	s.recordOp("account", "delete")
	s.notifier.Notify(notify.AccountDeletedMessage(id))
	return nil
}

// recordOp はカタログ操作メトリクスを記録する。collectorが未設定の場合は何もしない。
func (s *Service) recordOp(resource, op string) {
	if s.metrics != nil {
		s.metrics.RecordCatalogOp(resource, op)
	}
}

// validateID はIDがストアの正規形式（UUID）かを検証する。
// 不正な形式はINVALID_IDエラーにマップし、ストアへ到達させない。
func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return model.NewInvalidIDError(id)
	}
	return nil
}
