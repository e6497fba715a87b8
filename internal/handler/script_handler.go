// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/scripthub/internal/catalog"
	"github.com/hitoshi/scripthub/internal/model"
)

// ScriptServiceInterface はスクリプトハンドラーが必要とするサービスインターフェース。
type ScriptServiceInterface interface {
	// ListScripts は全スクリプトを取得する。
	ListScripts(ctx context.Context) ([]*model.Script, error)
	// CreateScript はスクリプトを作成し、IDを採番して返す。
	CreateScript(ctx context.Context, in catalog.ScriptInput) (*model.Script, error)
	// UpdateScript は指定IDのスクリプトの必須フィールドを置き換える。
	UpdateScript(ctx context.Context, id string, in catalog.ScriptInput) error
	// DeleteScript は指定IDのスクリプトを削除する。
	DeleteScript(ctx context.Context, id string) error
}

// ScriptHandler はスクリプト管理のHTTPハンドラー。
type ScriptHandler struct {
	service ScriptServiceInterface
}

// NewScriptHandler はScriptHandlerを生成する。
func NewScriptHandler(service ScriptServiceInterface) *ScriptHandler {
	return &ScriptHandler{service: service}
}

// ListScripts は全スクリプトを返す。公開ページが参照するため認証不要。
// GET /api/scripts
func (h *ScriptHandler) ListScripts(w http.ResponseWriter, r *http.Request) {
	scripts, err := h.service.ListScripts(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]map[string]any, 0, len(scripts))
	for _, s := range scripts {
		resp = append(resp, toScriptResponse(s))
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreateScript はスクリプトを作成する。
// POST /api/scripts
func (h *ScriptHandler) CreateScript(w http.ResponseWriter, r *http.Request) {
	in, apiErr := parseScriptRequest(r)
	if apiErr != nil {
		writeAPIError(w, apiErr)
		return
	}

	script, err := h.service.CreateScript(r.Context(), in)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toScriptResponse(script))
}

// UpdateScript は指定IDのスクリプトを更新する。
// PUT /api/scripts/{id}
func (h *ScriptHandler) UpdateScript(w http.ResponseWriter, r *http.Request) {
	scriptID := chi.URLParam(r, "id")

	in, apiErr := parseScriptRequest(r)
	if apiErr != nil {
		writeAPIError(w, apiErr)
		return
	}

	if err := h.service.UpdateScript(r.Context(), scriptID, in); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// DeleteScript は指定IDのスクリプトを削除する。
// DELETE /api/scripts/{id}
func (h *ScriptHandler) DeleteScript(w http.ResponseWriter, r *http.Request) {
	scriptID := chi.URLParam(r, "id")

	if err := h.service.DeleteScript(r.Context(), scriptID); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// scriptRequiredFields はスクリプトの必須フィールド名。
var scriptRequiredFields = []string{"title", "image", "key"}

// parseScriptRequest はリクエストボディを解析し、必須フィールドの存在を検証する。
// 必須フィールド以外のJSONメンバーはAttrsとして透過的に保持する。
func parseScriptRequest(r *http.Request) (catalog.ScriptInput, *model.APIError) {
	raw, apiErr := decodeBody(r, scriptRequiredFields)
	if apiErr != nil {
		return catalog.ScriptInput{}, apiErr
	}

	return catalog.ScriptInput{
		Title: raw["title"].(string),
		Image: raw["image"].(string),
		Key:   raw["key"].(string),
		Attrs: extractAttrs(raw, scriptRequiredFields),
	}, nil
}

// --- ヘルパー関数 ---

// decodeBody はJSONボディをマップに解析し、必須フィールドが
// 非空文字列として存在することを検証する。
func decodeBody(r *http.Request, required []string) (map[string]any, *model.APIError) {
	var raw map[string]any
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		return nil, model.NewInvalidRequestError()
	}

	var missing []string
	for _, field := range required {
		v, ok := raw[field].(string)
		if !ok || v == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return nil, model.NewMissingFieldsError(missing...)
	}

	return raw, nil
}

// extractAttrs は必須フィールドとID以外のJSONメンバーを取り出す。
// これらはストアにそのまま保存され、レスポンスで復元される。
func extractAttrs(raw map[string]any, required []string) map[string]any {
	reserved := map[string]bool{"id": true, "accentColor": true}
	for _, f := range required {
		reserved[f] = true
	}

	attrs := map[string]any{}
	for k, v := range raw {
		if !reserved[k] {
			attrs[k] = v
		}
	}
	return attrs
}

// toScriptResponse はmodel.ScriptからAPIレスポンスに変換する。
// 追加フィールドを展開した上で正規フィールドを重ねる。
func toScriptResponse(s *model.Script) map[string]any {
	resp := make(map[string]any, len(s.Attrs)+4)
	for k, v := range s.Attrs {
		resp[k] = v
	}
	resp["id"] = s.ID
	resp["title"] = s.Title
	resp["image"] = s.Image
	resp["key"] = s.Key
	return resp
}

// writeJSON はJSONレスポンスを書き込む。
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}

// writeAPIError は統一エラーフォーマットでエラーレスポンスを書き込む。
func writeAPIError(w http.ResponseWriter, apiErr *model.APIError) {
	writeJSON(w, mapAPIErrorToHTTPStatus(apiErr), map[string]any{
		"code":     apiErr.Code,
		"message":  apiErr.Message,
		"category": apiErr.Category,
		"action":   apiErr.Action,
	})
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		writeAPIError(w, apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error", slog.String("error", err.Error()))
	writeAPIError(w, model.NewInternalError(err.Error()))
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case model.ErrCodeInvalidRequest, model.ErrCodeMissingFields, model.ErrCodeInvalidID:
		return http.StatusBadRequest
	case model.ErrCodeScriptNotFound, model.ErrCodeAccountNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
