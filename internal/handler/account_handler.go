package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/scripthub/internal/catalog"
	"github.com/hitoshi/scripthub/internal/model"
)

// AccountServiceInterface はアカウントハンドラーが必要とするサービスインターフェース。
type AccountServiceInterface interface {
	// ListAccounts は全アカウントを取得する。
	ListAccounts(ctx context.Context) ([]*model.Account, error)
	// CreateAccount はアカウントを作成し、IDを採番して返す。
	CreateAccount(ctx context.Context, in catalog.AccountInput) (*model.Account, error)
	// UpdateAccount は指定IDのアカウントの必須フィールドを置き換える。
	UpdateAccount(ctx context.Context, id string, in catalog.AccountInput) error
	// DeleteAccount は指定IDのアカウントを削除する。
	DeleteAccount(ctx context.Context, id string) error
}

// AccountHandler はアカウント管理のHTTPハンドラー。
// 全エンドポイントが管理者認証の背後に置かれる（一覧取得も含む。
// アカウントは資格情報を含むため公開できない）。
type AccountHandler struct {
	service AccountServiceInterface
}

// NewAccountHandler はAccountHandlerを生成する。
func NewAccountHandler(service AccountServiceInterface) *AccountHandler {
	return &AccountHandler{service: service}
}

// ListAccounts は全アカウントを返す。
// GET /api/accounts
func (h *AccountHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.service.ListAccounts(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]map[string]any, 0, len(accounts))
	for _, a := range accounts {
		resp = append(resp, toAccountResponse(a))
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreateAccount はアカウントを作成する。
// POST /api/accounts
func (h *AccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	in, apiErr := parseAccountRequest(r)
	if apiErr != nil {
		writeAPIError(w, apiErr)
		return
	}

	account, err := h.service.CreateAccount(r.Context(), in)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toAccountResponse(account))
}

// UpdateAccount は指定IDのアカウントを更新する。
// PUT /api/accounts/{id}
func (h *AccountHandler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")

	in, apiErr := parseAccountRequest(r)
	if apiErr != nil {
		writeAPIError(w, apiErr)
		return
	}

	if err := h.service.UpdateAccount(r.Context(), accountID, in); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// DeleteAccount は指定IDのアカウントを削除する。
// DELETE /api/accounts/{id}
func (h *AccountHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")

	if err := h.service.DeleteAccount(r.Context(), accountID); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// accountRequiredFields はアカウントの必須フィールド名。
var accountRequiredFields = []string{"name", "image", "username", "password"}

// parseAccountRequest はリクエストボディを解析し、必須フィールドの存在を検証する。
// accentColorは任意フィールドで、文字列として存在する場合のみ反映する。
// 空文字列も指定として扱う（デフォルト色の適用は未指定の場合に限る）。
func parseAccountRequest(r *http.Request) (catalog.AccountInput, *model.APIError) {
	raw, apiErr := decodeBody(r, accountRequiredFields)
	if apiErr != nil {
		return catalog.AccountInput{}, apiErr
	}

	in := catalog.AccountInput{
		Name:     raw["name"].(string),
		Image:    raw["image"].(string),
		Username: raw["username"].(string),
		Password: raw["password"].(string),
		Attrs:    extractAttrs(raw, accountRequiredFields),
	}

	if accent, ok := raw["accentColor"].(string); ok {
		in.AccentColor = &accent
	}

	return in, nil
}

// toAccountResponse はmodel.AccountからAPIレスポンスに変換する。
// 追加フィールドを展開した上で正規フィールドを重ねる。
func toAccountResponse(a *model.Account) map[string]any {
	resp := make(map[string]any, len(a.Attrs)+6)
	for k, v := range a.Attrs {
		resp[k] = v
	}
	resp["id"] = a.ID
	resp["name"] = a.Name
	resp["image"] = a.Image
	resp["username"] = a.Username
	resp["password"] = a.Password
	resp["accentColor"] = a.AccentColor
	return resp
}
