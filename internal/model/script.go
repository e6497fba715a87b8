package model

import "time"

// Script はカタログに登録されたスクリプトを表す。
// Title・Image・Keyの3フィールドは必須で、保存されたスクリプトが
// これらを欠くことはない。AttrsはAPIが関知しない追加フィールドを
// 保存時の形のまま保持する。
type Script struct {
	ID        string
	Title     string
	Image     string
	Key       string
	Attrs     map[string]any
	CreatedAt time.Time
	UpdatedAt time.Time
}
