// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, catalog, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeUnauthorized    = "UNAUTHORIZED"
	ErrCodeInvalidRequest  = "INVALID_REQUEST"
	ErrCodeMissingFields   = "MISSING_FIELDS"
	ErrCodeInvalidID       = "INVALID_ID"
	ErrCodeScriptNotFound  = "SCRIPT_NOT_FOUND"
	ErrCodeAccountNotFound = "ACCOUNT_NOT_FOUND"
	ErrCodeInternal        = "INTERNAL_ERROR"
)

// NewUnauthorizedError は未認証エラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "管理者認証が必要です。",
		Category: "auth",
		Action:   "管理者パスワードでログインしてください。",
	}
}

// NewInvalidRequestError はリクエストボディの解析失敗エラーを生成する。
func NewInvalidRequestError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  "リクエストボディの解析に失敗しました。",
		Category: "validation",
		Action:   "正しいJSON形式でリクエストしてください。",
	}
}

// NewMissingFieldsError は必須フィールド欠落エラーを生成する。
func NewMissingFieldsError(fields ...string) *APIError {
	return &APIError{
		Code:     ErrCodeMissingFields,
		Message:  fmt.Sprintf("必須フィールドが不足しています: %v", fields),
		Category: "validation",
		Action:   "必須フィールドをすべて指定してください。",
	}
}

// NewInvalidIDError はID形式が不正な場合のエラーを生成する。
func NewInvalidIDError(id string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidID,
		Message:  fmt.Sprintf("IDの形式が不正です: %s", id),
		Category: "validation",
		Action:   "一覧取得APIが返すIDをそのまま指定してください。",
	}
}

// NewScriptNotFoundError はスクリプト未検出エラーを生成する。
func NewScriptNotFoundError(scriptID string) *APIError {
	return &APIError{
		Code:     ErrCodeScriptNotFound,
		Message:  fmt.Sprintf("指定されたスクリプトが見つかりません: %s", scriptID),
		Category: "catalog",
		Action:   "スクリプトIDを確認してください。",
	}
}

// NewAccountNotFoundError はアカウント未検出エラーを生成する。
func NewAccountNotFoundError(accountID string) *APIError {
	return &APIError{
		Code:     ErrCodeAccountNotFound,
		Message:  fmt.Sprintf("指定されたアカウントが見つかりません: %s", accountID),
		Category: "catalog",
		Action:   "アカウントIDを確認してください。",
	}
}

// NewInternalError は内部エラーを生成する。詳細メッセージを含む。
func NewInternalError(detail string) *APIError {
	return &APIError{
		Code:     ErrCodeInternal,
		Message:  fmt.Sprintf("内部エラーが発生しました: %s", detail),
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	}
}
