package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// --- モック定義 ---

type mockNotifier struct {
	messages []string
}

func (m *mockNotifier) Notify(text string) {
	m.messages = append(m.messages, text)
}

// --- テスト ---

func TestCopyHandler_NotifyCopy_SendsNotification(t *testing.T) {
	notifier := &mockNotifier{}
	h := NewCopyHandler(notifier)

	body := `{"title":"Auto Farm","key":"loadstring(game:HttpGet(...))()","time":"2026-08-31 12:00:00"}`
	req := httptest.NewRequest(http.MethodPost, "/api/notify/copy", strings.NewReader(body))
	w := httptest.NewRecorder()

	h.NotifyCopy(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if len(notifier.messages) != 1 {
		t.Fatalf("len(messages) = %d, want 1", len(notifier.messages))
	}
	if !strings.Contains(notifier.messages[0], "Auto Farm") {
		t.Errorf("message = %q, should contain the script title", notifier.messages[0])
	}
	if !strings.Contains(notifier.messages[0], "loadstring") {
		t.Errorf("message = %q, should contain the copied key", notifier.messages[0])
	}

	var resp map[string]any
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["success"] != true {
		t.Errorf("success = %v, want true", resp["success"])
	}
	if resp["message"] != "Notification sent" {
		t.Errorf("message = %v, want %q", resp["message"], "Notification sent")
	}
}

func TestCopyHandler_NotifyCopy_MissingFields_UsesPlaceholders(t *testing.T) {
	notifier := &mockNotifier{}
	h := NewCopyHandler(notifier)

	req := httptest.NewRequest(http.MethodPost, "/api/notify/copy", strings.NewReader(`{}`))
	w := httptest.NewRecorder()

	h.NotifyCopy(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if len(notifier.messages) != 1 {
		t.Fatalf("len(messages) = %d, want 1", len(notifier.messages))
	}
	if !strings.Contains(notifier.messages[0], "Unknown Script") {
		t.Errorf("message = %q, should use the title placeholder", notifier.messages[0])
	}
	if !strings.Contains(notifier.messages[0], "N/A") {
		t.Errorf("message = %q, should use placeholders for missing fields", notifier.messages[0])
	}
}

func TestCopyHandler_NotifyCopy_InvalidBody_StillSucceeds(t *testing.T) {
	notifier := &mockNotifier{}
	h := NewCopyHandler(notifier)

	req := httptest.NewRequest(http.MethodPost, "/api/notify/copy", strings.NewReader("not json"))
	w := httptest.NewRecorder()

	h.NotifyCopy(w, req)

	// ボディ不正でもベストエフォートで通知する
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if len(notifier.messages) != 1 {
		t.Errorf("len(messages) = %d, want 1", len(notifier.messages))
	}
}
