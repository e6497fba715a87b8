package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/hitoshi/scripthub/internal/model"
)

// PostgresScriptRepo はPostgreSQLを使用したスクリプトリポジトリ。
// 必須フィールドはカラムとして持ち、追加フィールドはattrs(JSONB)に保存する。
type PostgresScriptRepo struct {
	db *sql.DB
}

// NewPostgresScriptRepo はPostgresScriptRepoを生成する。
func NewPostgresScriptRepo(db *sql.DB) *PostgresScriptRepo {
	return &PostgresScriptRepo{db: db}
}

// ListAll は全スクリプトを作成日時の昇順で取得する。
func (r *PostgresScriptRepo) ListAll(ctx context.Context) ([]*model.Script, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, image, key, attrs, created_at, updated_at
		 FROM scripts
		 ORDER BY created_at ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("スクリプト一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var scripts []*model.Script
	for rows.Next() {
		script := &model.Script{}
		var attrs []byte

		if err := rows.Scan(
			&script.ID, &script.Title, &script.Image, &script.Key,
			&attrs, &script.CreatedAt, &script.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("スクリプトの読み取りに失敗しました: %w", err)
		}

		script.Attrs, err = unmarshalAttrs(attrs)
		if err != nil {
			return nil, err
		}

		scripts = append(scripts, script)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("スクリプト一覧の走査に失敗しました: %w", err)
	}

	return scripts, nil
}

// Create はスクリプトを作成する。
func (r *PostgresScriptRepo) Create(ctx context.Context, script *model.Script) error {
	attrs, err := marshalAttrs(script.Attrs)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO scripts (id, title, image, key, attrs, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		script.ID, script.Title, script.Image, script.Key,
		attrs, script.CreatedAt, script.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("スクリプトの作成に失敗しました: %w", err)
	}
	return nil
}

// Update は指定IDのスクリプトのtitle・image・keyを置き換える。attrsは変更しない。
func (r *PostgresScriptRepo) Update(ctx context.Context, script *model.Script) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE scripts SET title = $2, image = $3, key = $4, updated_at = now()
		 WHERE id = $1`,
		script.ID, script.Title, script.Image, script.Key,
	)
	if err != nil {
		return false, fmt.Errorf("スクリプトの更新に失敗しました: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("スクリプト更新結果の取得に失敗しました: %w", err)
	}

	return affected > 0, nil
}

// Delete は指定IDのスクリプトを削除する。
func (r *PostgresScriptRepo) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM scripts WHERE id = $1`,
		id,
	)
	if err != nil {
		return false, fmt.Errorf("スクリプトの削除に失敗しました: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("スクリプト削除結果の取得に失敗しました: %w", err)
	}

	return affected > 0, nil
}

// Count は登録済みスクリプト数を返す。
func (r *PostgresScriptRepo) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM scripts`,
	).Scan(&count); err != nil {
		return 0, fmt.Errorf("スクリプト数の取得に失敗しました: %w", err)
	}
	return count, nil
}

// marshalAttrs は追加フィールドのマップをJSONBに保存できる形に変換する。
// nilマップは空オブジェクトとして保存する。
func marshalAttrs(attrs map[string]any) ([]byte, error) {
	if len(attrs) == 0 {
		return []byte("{}"), nil
	}
	b, err := json.Marshal(attrs)
	if err != nil {
		return nil, fmt.Errorf("追加フィールドのシリアライズに失敗しました: %w", err)
	}
	return b, nil
}

// unmarshalAttrs はJSONBカラムの内容を追加フィールドのマップに復元する。
func unmarshalAttrs(data []byte) (map[string]any, error) {
	if len(data) == 0 {
		return map[string]any{}, nil
	}
	var attrs map[string]any
	if err := json.Unmarshal(data, &attrs); err != nil {
		return nil, fmt.Errorf("追加フィールドの復元に失敗しました: %w", err)
	}
	if attrs == nil {
		attrs = map[string]any{}
	}
	return attrs, nil
}

// compile-time interface check
var _ ScriptRepository = (*PostgresScriptRepo)(nil)
