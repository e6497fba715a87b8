package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/scripthub/internal/model"
	"github.com/hitoshi/scripthub/internal/repository"
)

// シードファイル名。SEED_DIR直下に配置する。
const (
	seedScriptsFile  = "default_scripts.json"
	seedAccountsFile = "default_accounts.json"
)

// Seeder はJSONファイルから初期データを投入する。
// 対象テーブルが空の場合のみ投入し、既存データは一切変更しない。
type Seeder struct {
	scripts  repository.ScriptRepository
	accounts repository.AccountRepository
	dir      string
}

// NewSeeder はSeederを生成する。
func NewSeeder(scripts repository.ScriptRepository, accounts repository.AccountRepository, dir string) *Seeder {
	return &Seeder{
		scripts:  scripts,
		accounts: accounts,
		dir:      dir,
	}
}

// seedScript はシードファイル内のスクリプト1件。
type seedScript struct {
	Title string `json:"title"`
	Image string `json:"image"`
	Key   string `json:"key"`
}

// seedAccount はシードファイル内のアカウント1件。
type seedAccount struct {
	Name        string `json:"name"`
	Image       string `json:"image"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	AccentColor string `json:"accentColor"`
}

// Run はスクリプト・アカウント両方のシードを実行する。
// シードファイルが存在しない場合はスキップし、エラーにしない。
func (s *Seeder) Run(ctx context.Context) error {
	if err := s.seedScripts(ctx); err != nil {
		return fmt.Errorf("failed to seed scripts: %w", err)
	}
	if err := s.seedAccounts(ctx); err != nil {
		return fmt.Errorf("failed to seed accounts: %w", err)
	}
	return nil
}

func (s *Seeder) seedScripts(ctx context.Context) error {
	var entries []seedScript
	ok, err := s.loadSeedFile(seedScriptsFile, &entries)
	if err != nil || !ok {
		return err
	}

	count, err := s.scripts.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		slog.Info("scripts table not empty, skipping seed", slog.Int("existing", count))
		return nil
	}

	now := time.Now()
	for _, e := range entries {
		script := &model.Script{
			ID:        uuid.New().String(),
			Title:     e.Title,
			Image:     e.Image,
			Key:       e.Key,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.scripts.Create(ctx, script); err != nil {
			return err
		}
	}

	slog.Info("seeded default scripts", slog.Int("count", len(entries)))
	return nil
}

func (s *Seeder) seedAccounts(ctx context.Context) error {
	var entries []seedAccount
	ok, err := s.loadSeedFile(seedAccountsFile, &entries)
	if err != nil || !ok {
		return err
	}

	count, err := s.accounts.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		slog.Info("accounts table not empty, skipping seed", slog.Int("existing", count))
		return nil
	}

	now := time.Now()
	for _, e := range entries {
		accent := e.AccentColor
		if accent == "" {
			accent = model.DefaultAccentColor
		}
		account := &model.Account{
			ID:          uuid.New().String(),
			Name:        e.Name,
			Image:       e.Image,
			Username:    e.Username,
			Password:    e.Password,
			AccentColor: accent,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.accounts.Create(ctx, account); err != nil {
			return err
		}
	}

	slog.Info("seeded default accounts", slog.Int("count", len(entries)))
	return nil
}

// loadSeedFile はシードファイルを読み込む。ファイルが存在しない場合はfalseを返す。
func (s *Seeder) loadSeedFile(name string, dest any) (bool, error) {
	path := filepath.Join(s.dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Info("seed file not found, skipping", slog.String("path", path))
			return false, nil
		}
		return false, err
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("invalid seed file %s: %w", name, err)
	}
	return true, nil
}
