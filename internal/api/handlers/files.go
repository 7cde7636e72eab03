// files.go - обработчики реестра файлов:
// GET /admin/get_files, POST /admin/add_file.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	apierrors "github.com/sd-unl/license-server-admin/internal/api/errors"
	"github.com/sd-unl/license-server-admin/internal/service"
)

// fileItem - элемент списка файлов в ответе.
type fileItem struct {
	Name     string `json:"name"`
	GDriveID string `json:"gdrive_id"`
}

type fileListResponse struct {
	Files []fileItem `json:"files"`
}

type addFileRequest struct {
	Name     string `json:"name"`
	GDriveID string `json:"gdrive_id"`
}

type statusResponse struct {
	Status string `json:"status"`
}

// GetFiles - GET /admin/get_files.
// Все файлы реестра, последние добавленные - первыми.
func (h *APIHandler) GetFiles(w http.ResponseWriter, r *http.Request) {
	files, err := h.files.List(r.Context())
	if err != nil {
		h.logger.Error("Ошибка получения списка файлов", slog.String("error", err.Error()))
		apierrors.InternalError(w, "Ошибка получения списка файлов")
		return
	}

	resp := fileListResponse{Files: make([]fileItem, 0, len(files))}
	for _, f := range files {
		resp.Files = append(resp.Files, fileItem{Name: f.Name, GDriveID: f.GDriveID})
	}

	writeJSON(w, http.StatusOK, resp)
}

// AddFile - POST /admin/add_file.
// Любой отказ хранилища отвечает 400; текст ошибки драйвера
// остаётся в логе и клиенту не передаётся.
func (h *APIHandler) AddFile(w http.ResponseWriter, r *http.Request) {
	var req addFileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "Некорректный JSON: "+err.Error())
		return
	}

	if err := h.files.Add(r.Context(), req.Name, req.GDriveID); err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			apierrors.ValidationError(w, err.Error())
		case errors.Is(err, service.ErrConflict):
			apierrors.Conflict(w, err.Error())
		default:
			h.logger.Error("Ошибка добавления файла",
				slog.String("name", req.Name),
				slog.String("error", err.Error()),
			)
			apierrors.StoreError(w, "Хранилище отклонило запись")
		}
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{Status: "success"})
}
