// panel.go - статические ответы: корневая строка готовности,
// панель управления и OpenAPI-контракт.
package handlers

import (
	"net/http"

	"github.com/sd-unl/license-server-admin/internal/api/contract"
	"github.com/sd-unl/license-server-admin/internal/ui/static"
)

// readyText - ответ корневого пути.
const readyText = "Admin Dashboard Ready."

// Home - GET /.
func (h *APIHandler) Home(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(readyText))
}

// AdminPanel - GET /admin.
// Разметка постоянна, данные страница загружает сама через fetch.
func (h *APIHandler) AdminPanel(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(static.AdminPage())
}

// OpenAPI - GET /openapi.yaml.
func (h *APIHandler) OpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(contract.OpenAPI())
}
