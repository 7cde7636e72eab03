// licenses.go - обработчик выпуска лицензионных ключей: POST /admin/create.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	apierrors "github.com/sd-unl/license-server-admin/internal/api/errors"
	"github.com/sd-unl/license-server-admin/internal/domain/model"
	"github.com/sd-unl/license-server-admin/internal/service"
)

type createLicenseRequest struct {
	Duration *int `json:"duration"`
}

type createLicenseResponse struct {
	Key      string `json:"key"`
	Duration int    `json:"duration"`
}

// CreateLicense - POST /admin/create.
// Тело необязательно: без тела, с телом null или без duration
// срок равен 24 часам.
func (h *APIHandler) CreateLicense(w http.ResponseWriter, r *http.Request) {
	var req createLicenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		apierrors.ValidationError(w, "Некорректный JSON: "+err.Error())
		return
	}

	duration := model.DefaultDurationHours
	if req.Duration != nil {
		duration = *req.Duration
	}

	l, err := h.licenses.Issue(r.Context(), duration)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			apierrors.ValidationError(w, err.Error())
			return
		}
		h.logger.Error("Ошибка выпуска лицензии",
			slog.Int("duration_hours", duration),
			slog.String("error", err.Error()),
		)
		apierrors.InternalError(w, "Ошибка выпуска лицензии")
		return
	}

	writeJSON(w, http.StatusOK, createLicenseResponse{
		Key:      l.KeyCode,
		Duration: l.DurationHours,
	})
}
