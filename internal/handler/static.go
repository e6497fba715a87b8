package handler

import (
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
)

// registerStaticRoutes はフロントエンドの静的ページのルーティングを設定する。
// 公開カタログページ（index.html）と管理ダッシュボード（admin.html）を配信する。
func registerStaticRoutes(r chi.Router, frontendDir string) {
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.ServeFile(w, req, filepath.Join(frontendDir, "index.html"))
	})
	r.Get("/admin", func(w http.ResponseWriter, req *http.Request) {
		http.ServeFile(w, req, filepath.Join(frontendDir, "admin.html"))
	})
}
