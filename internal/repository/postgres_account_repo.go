package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/scripthub/internal/model"
)

// PostgresAccountRepo はPostgreSQLを使用したアカウントリポジトリ。
// 必須フィールドはカラムとして持ち、追加フィールドはattrs(JSONB)に保存する。
type PostgresAccountRepo struct {
	db *sql.DB
}

// NewPostgresAccountRepo はPostgresAccountRepoを生成する。
func NewPostgresAccountRepo(db *sql.DB) *PostgresAccountRepo {
	return &PostgresAccountRepo{db: db}
}

// ListAll は全アカウントを作成日時の昇順で取得する。
func (r *PostgresAccountRepo) ListAll(ctx context.Context) ([]*model.Account, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, image, username, password, accent_color, attrs, created_at, updated_at
		 FROM accounts
		 ORDER BY created_at ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("アカウント一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var accounts []*model.Account
	for rows.Next() {
		account := &model.Account{}
		var attrs []byte

		if err := rows.Scan(
			&account.ID, &account.Name, &account.Image,
			&account.Username, &account.Password, &account.AccentColor,
			&attrs, &account.CreatedAt, &account.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("アカウントの読み取りに失敗しました: %w", err)
		}

		account.Attrs, err = unmarshalAttrs(attrs)
		if err != nil {
			return nil, err
		}

		accounts = append(accounts, account)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("アカウント一覧の走査に失敗しました: %w", err)
	}

	return accounts, nil
}

// Create はアカウントを作成する。
func (r *PostgresAccountRepo) Create(ctx context.Context, account *model.Account) error {
	attrs, err := marshalAttrs(account.Attrs)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO accounts (id, name, image, username, password, accent_color, attrs, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		account.ID, account.Name, account.Image,
		account.Username, account.Password, account.AccentColor,
		attrs, account.CreatedAt, account.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("アカウントの作成に失敗しました: %w", err)
	}
	return nil
}

// Update は指定IDのアカウントのname・image・username・passwordを置き換える。
// accentColorがnil以外の場合のみaccent_colorも更新する。attrsは変更しない。
func (r *PostgresAccountRepo) Update(ctx context.Context, account *model.Account, accentColor *string) (bool, error) {
	var accent sql.NullString
	if accentColor != nil {
		accent = sql.NullString{String: *accentColor, Valid: true}
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET
		    name = $2, image = $3, username = $4, password = $5,
		    accent_color = COALESCE($6, accent_color),
		    updated_at = now()
		 WHERE id = $1`,
		account.ID, account.Name, account.Image,
		account.Username, account.Password, accent,
	)
	if err != nil {
		return false, fmt.Errorf("アカウントの更新に失敗しました: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("アカウント更新結果の取得に失敗しました: %w", err)
	}

	return affected > 0, nil
}

// Delete は指定IDのアカウントを削除する。
func (r *PostgresAccountRepo) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM accounts WHERE id = $1`,
		id,
	)
	if err != nil {
		return false, fmt.Errorf("アカウントの削除に失敗しました: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("アカウント削除結果の取得に失敗しました: %w", err)
	}

	return affected > 0, nil
}

// Count は登録済みアカウント数を返す。
func (r *PostgresAccountRepo) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM accounts`,
	).Scan(&count); err != nil {
		return 0, fmt.Errorf("アカウント数の取得に失敗しました: %w", err)
	}
	return count, nil
}

// compile-time interface check
var _ AccountRepository = (*PostgresAccountRepo)(nil)
