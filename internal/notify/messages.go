package notify

import "fmt"

// copyKeyPreviewLen はコピー通知に含めるキー本文の最大文字数。
const copyKeyPreviewLen = 100

// LoginMessage は管理者ログイン成功の通知メッセージを生成する。
func LoginMessage(remoteAddr string) string {
	return fmt.Sprintf("🔐 *Admin Login Success!* (IP: %s)", remoteAddr)
}

// ScriptAddedMessage はスクリプト追加の通知メッセージを生成する。
func ScriptAddedMessage(title string) string {
	return fmt.Sprintf("➕ *New Script Added:* %s", title)
}

// ScriptUpdatedMessage はスクリプト更新の通知メッセージを生成する。
func ScriptUpdatedMessage(id, title string) string {
	return fmt.Sprintf("📝 *Script Updated:* ID %s - %s", id, title)
}

// ScriptDeletedMessage はスクリプト削除の通知メッセージを生成する。
func ScriptDeletedMessage(id string) string {
	return fmt.Sprintf("🗑️ *Script Deleted:* ID %s", id)
}

// AccountAddedMessage はアカウント追加の通知メッセージを生成する。
func AccountAddedMessage(name, username string) string {
	return fmt.Sprintf("👤 *New Profile Added:* %s (@%s)", name, username)
}

// AccountUpdatedMessage はアカウント更新の通知メッセージを生成する。
func AccountUpdatedMessage(name, username string) string {
	return fmt.Sprintf("📝 *Profile Updated:* %s (@%s)", name, username)
}

// AccountDeletedMessage はアカウント削除の通知メッセージを生成する。
func AccountDeletedMessage(id string) string {
	return fmt.Sprintf("🗑️ *Profile Deleted:* ID %s", id)
}

// CopyMessage はクライアントが報告したコピーイベントの通知メッセージを生成する。
// キー本文は先頭100文字に切り詰めてコードブロックに含める。
func CopyMessage(title, key, when string) string {
	preview := key
	if len([]rune(preview)) > copyKeyPreviewLen {
		preview = string([]rune(preview)[:copyKeyPreviewLen])
	}
	return fmt.Sprintf(
		"🔔 *Script Copied!* 🔔\n\n*Title:* %s\n*Time:* %s\n\n*Copied Script:*\n```\n%s...\n```",
		title, when, preview,
	)
}
