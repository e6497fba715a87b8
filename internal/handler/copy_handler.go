package handler

import (
	"encoding/json"
	"net/http"

	"github.com/hitoshi/scripthub/internal/notify"
)

// CopyHandler はクライアントが報告するコピーイベントのHTTPハンドラー。
// イベントは永続化せず、通知の発行のみ行う。
type CopyHandler struct {
	notifier notify.Notifier
}

// NewCopyHandler はCopyHandlerを生成する。
func NewCopyHandler(notifier notify.Notifier) *CopyHandler {
	return &CopyHandler{notifier: notifier}
}

// copyRequest はコピーイベント通知リクエストのボディ。
type copyRequest struct {
	Title string `json:"title"`
	Key   string `json:"key"`
	Time  string `json:"time"`
}

// NotifyCopy はスクリプトのコピーイベントを通知する。
// フィールドはすべて任意で、欠けている場合はプレースホルダを使用する。
// POST /api/notify/copy
func (h *CopyHandler) NotifyCopy(w http.ResponseWriter, r *http.Request) {
	var req copyRequest
	// ボディの解析失敗もプレースホルダ通知として扱う
	_ = json.NewDecoder(r.Body).Decode(&req)

	if req.Title == "" {
		req.Title = "Unknown Script"
	}
	if req.Key == "" {
		req.Key = "N/A"
	}
	if req.Time == "" {
		req.Time = "N/A"
	}

	h.notifier.Notify(notify.CopyMessage(req.Title, req.Key, req.Time))

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Notification sent",
	})
}
