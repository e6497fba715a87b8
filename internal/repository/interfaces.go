// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"time"

	"github.com/hitoshi/scripthub/internal/model"
)

// ScriptRepository はスクリプトデータの永続化インターフェース。
type ScriptRepository interface {
	// ListAll は全スクリプトを作成日時の昇順で取得する。
	ListAll(ctx context.Context) ([]*model.Script, error)

	// Create はスクリプトを作成する。IDは呼び出し側が採番する。
	Create(ctx context.Context, script *model.Script) error

	// Update は指定IDのスクリプトのtitle・image・keyを置き換える。
	// attrsは変更しない。対象が存在した場合はtrueを返す。
	Update(ctx context.Context, script *model.Script) (bool, error)

	// Delete は指定IDのスクリプトを削除する。削除できた場合はtrueを返す。
	Delete(ctx context.Context, id string) (bool, error)

	// Count は登録済みスクリプト数を返す。
	Count(ctx context.Context) (int, error)
}

// AccountRepository はアカウントデータの永続化インターフェース。
type AccountRepository interface {
	// ListAll は全アカウントを作成日時の昇順で取得する。
	ListAll(ctx context.Context) ([]*model.Account, error)

	// Create はアカウントを作成する。IDは呼び出し側が採番する。
	Create(ctx context.Context, account *model.Account) error

	// Update は指定IDのアカウントのname・image・username・passwordを置き換える。
	// accentColorがnil以外の場合のみaccent_colorも更新する。attrsは変更しない。
	// 対象が存在した場合はtrueを返す。
	Update(ctx context.Context, account *model.Account, accentColor *string) (bool, error)

	// Delete は指定IDのアカウントを削除する。削除できた場合はtrueを返す。
	Delete(ctx context.Context, id string) (bool, error)

	// Count は登録済みアカウント数を返す。
	Count(ctx context.Context) (int, error)
}

// SessionRepository は管理者セッションの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error

	// FindByID は指定IDのセッションを取得する。期限切れ・未登録の場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)

	// Touch はセッションの有効期限を指定時刻まで延長する（ローリング有効期限）。
	Touch(ctx context.Context, id string, expiresAt time.Time) error

	// DeleteByID は指定IDのセッションを削除する。存在しなくてもエラーにしない。
	DeleteByID(ctx context.Context, id string) error
}
