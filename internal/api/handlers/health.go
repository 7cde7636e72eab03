// health.go - обработчики health endpoints License Admin.
// /health/live - liveness probe (процесс жив)
// /health/ready - readiness probe (хранилище доступно, состояние topologymetrics)
// /metrics - Prometheus метрики
package handlers

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sd-unl/license-server-admin/internal/config"
)

// serviceName - имя сервиса в ответах health endpoints.
const serviceName = "license-admin"

// ReadinessChecker - интерфейс проверки готовности зависимости.
type ReadinessChecker interface {
	// CheckReady возвращает статус ("ok", "fail") и сообщение.
	CheckReady() (status string, message string)
}

// DependencyHealth - текущее состояние зависимостей из topologymetrics.
type DependencyHealth interface {
	// Health возвращает имя зависимости -> true, если проверка успешна.
	Health() map[string]bool
}

// HealthHandler - обработчик health endpoints.
type HealthHandler struct {
	storeChecker ReadinessChecker
	deps         DependencyHealth
	promHandler  http.Handler
}

// NewHealthHandler создаёт обработчик health endpoints.
// storeChecker может быть nil - readiness тогда вернёт "fail".
// deps == nil - мониторинг зависимостей не запущен (SQLite или ошибка старта).
func NewHealthHandler(storeChecker ReadinessChecker, deps DependencyHealth) *HealthHandler {
	return &HealthHandler{
		storeChecker: storeChecker,
		deps:         deps,
		promHandler:  promhttp.Handler(),
	}
}

// healthCheckResult - результат проверки одной зависимости.
type healthCheckResult struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// healthLiveResponse - ответ liveness probe.
type healthLiveResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
	Service   string `json:"service"`
}

// healthReadyResponse - ответ readiness probe.
type healthReadyResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
	Service   string `json:"service"`
	Checks    struct {
		Store        healthCheckResult            `json:"store"`
		Dependencies map[string]healthCheckResult `json:"dependencies,omitempty"`
	} `json:"checks"`
}

// HealthLive - liveness probe. Возвращает 200 если процесс жив.
func (h *HealthHandler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthLiveResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   config.Version,
		Service:   serviceName,
	})
}

// HealthReady - readiness probe. Проверяет хранилище и добавляет
// последнее состояние зависимостей из topologymetrics.
// Возвращает 200 (ok/degraded) или 503 (fail).
func (h *HealthHandler) HealthReady(w http.ResponseWriter, _ *http.Request) {
	resp := healthReadyResponse{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   config.Version,
		Service:   serviceName,
	}

	if h.storeChecker != nil {
		status, msg := h.storeChecker.CheckReady()
		resp.Checks.Store = healthCheckResult{Status: status, Message: msg}
	} else {
		resp.Checks.Store = healthCheckResult{Status: "fail", Message: "не инициализировано"}
	}

	statuses := []string{resp.Checks.Store.Status}
	if h.deps != nil {
		resp.Checks.Dependencies = make(map[string]healthCheckResult)
		for name, healthy := range h.deps.Health() {
			// Отказ зависимости без отказа ping не делает сервис неготовым
			result := healthCheckResult{Status: "ok"}
			if !healthy {
				result = healthCheckResult{Status: "degraded", Message: "проверка topologymetrics не пройдена"}
			}
			resp.Checks.Dependencies[name] = result
			statuses = append(statuses, result.Status)
		}
	}
	resp.Status = overallStatus(statuses...)

	status := http.StatusOK
	if resp.Status == "fail" {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}

// GetMetrics - Prometheus метрики.
func (h *HealthHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	h.promHandler.ServeHTTP(w, r)
}

// overallStatus определяет итоговый статус из статусов проверок.
// Если хотя бы одна проверка fail - итог fail.
// Если хотя бы одна degraded - итог degraded.
// Иначе - ok.
func overallStatus(statuses ...string) string {
	hasDegraded := false
	for _, s := range statuses {
		if s == "fail" {
			return "fail"
		}
		if s == "degraded" {
			hasDegraded = true
		}
	}
	if hasDegraded {
		return "degraded"
	}
	return "ok"
}
