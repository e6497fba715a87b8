package model

import "time"

// DefaultAccentColor は作成時にaccentColor未指定のアカウントへ与える色。
const DefaultAccentColor = "#0ea5e9"

// Account は管理画面で管理するプロフィールアカウントを表す。
// Name・Image・Username・Passwordの4フィールドは必須。
// AccentColorは未指定の場合DefaultAccentColorが設定される。
// AttrsはAPIが関知しない追加フィールドを保存時の形のまま保持する。
type Account struct {
	ID          string
	Name        string
	Image       string
	Username    string
	Password    string
	AccentColor string
	Attrs       map[string]any
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
