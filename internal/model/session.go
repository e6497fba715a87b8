package model

import "time"

// Session は管理者のログインセッションを表す。
// ExpiresAtは認証済みリクエストのたびに延長される（ローリング有効期限）。
type Session struct {
	ID        string
	ExpiresAt time.Time
	CreatedAt time.Time
}
