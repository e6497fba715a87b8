package handler

import (
	"io"
	"net/http"

	"github.com/hitoshi/scripthub/internal/model"
	"github.com/hitoshi/scripthub/internal/upload"
)

// maxUploadBytes は画像アップロードのリクエストボディ上限。
const maxUploadBytes = 10 << 20 // 10 MiB

// UploadHandler は画像アップロードのHTTPハンドラー。
// ファイルをbase64エンコードしたdata URIに変換して返すのみで、
// サーバー側には何も保存しない。
type UploadHandler struct{}

// NewUploadHandler はUploadHandlerを生成する。
func NewUploadHandler() *UploadHandler {
	return &UploadHandler{}
}

// UploadImage はmultipartリクエストの画像ファイルをdata URIに変換して返す。
// POST /api/upload-image
func (h *UploadHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("image")
	if err != nil {
		writeAPIError(w, &model.APIError{
			Code:     model.ErrCodeMissingFields,
			Message:  "画像ファイルが指定されていません。",
			Category: "validation",
			Action:   "multipartフィールド名imageでファイルを指定してください。",
		})
		return
	}
	defer file.Close()

	if header.Filename == "" {
		writeAPIError(w, &model.APIError{
			Code:     model.ErrCodeMissingFields,
			Message:  "ファイル名が空です。",
			Category: "validation",
			Action:   "ファイルを選択してからアップロードしてください。",
		})
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeAPIError(w, model.NewInternalError(err.Error()))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"imageUrl": upload.EncodeDataURI(data, header.Filename),
		"filename": upload.SanitizeFilename(header.Filename),
	})
}
