package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/sd-unl/license-server-admin/internal/config"
	"github.com/sd-unl/license-server-admin/internal/database"
	"github.com/sd-unl/license-server-admin/internal/repository"
	"github.com/sd-unl/license-server-admin/internal/service"
)

var hexKeyRe = regexp.MustCompile(`^[0-9a-f]{16}$`)

// stubChecker - заглушка ReadinessChecker.
type stubChecker struct {
	status  string
	message string
}

func (s stubChecker) CheckReady() (string, string) { return s.status, s.message }

// newTestHandler собирает APIHandler поверх SQLite во временном каталоге.
func newTestHandler(t *testing.T) (*APIHandler, *database.DB) {
	t.Helper()

	cfg := &config.Config{SQLitePath: filepath.Join(t.TempDir(), "handlers.db")}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	if err := database.Migrate(cfg, logger); err != nil {
		t.Fatalf("Ошибка миграций: %v", err)
	}
	db, err := database.Open(context.Background(), cfg, logger)
	if err != nil {
		t.Fatalf("Ошибка подключения: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	files := service.NewFileRegistryService(repository.NewFileRegistryRepository(db), logger)
	licenses := service.NewLicenseService(repository.NewLicenseRepository(db), nil, logger)
	health := NewHealthHandler(database.NewReadinessChecker(db), nil)

	return NewAPIHandler(health, files, licenses, logger), db
}

func doRequest(h http.HandlerFunc, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

type filesBody struct {
	Files []struct {
		Name     string `json:"name"`
		GDriveID string `json:"gdrive_id"`
	} `json:"files"`
}

func listFiles(t *testing.T, h *APIHandler) filesBody {
	t.Helper()
	rec := doRequest(h.GetFiles, http.MethodGet, "/admin/get_files", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GetFiles статус = %d, тело: %s", rec.Code, rec.Body.String())
	}
	var body filesBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("GetFiles ответ не JSON: %v", err)
	}
	return body
}

// --- Реестр файлов ---

func TestGetFiles_Empty(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := doRequest(h.GetFiles, http.MethodGet, "/admin/get_files", "")
	if got := strings.TrimSpace(rec.Body.String()); got != `{"files":[]}` {
		t.Errorf("тело = %s, ожидается {\"files\":[]}", got)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestAddFile_ThenListed(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := doRequest(h.AddFile, http.MethodPost, "/admin/add_file", `{"name":"app_v1","gdrive_id":"gd-1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("AddFile статус = %d, тело: %s", rec.Code, rec.Body.String())
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"status":"success"}` {
		t.Errorf("AddFile тело = %s, ожидается {\"status\":\"success\"}", got)
	}

	body := listFiles(t, h)
	count := 0
	for _, f := range body.Files {
		if f.Name == "app_v1" && f.GDriveID == "gd-1" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("пара (app_v1, gd-1) встречается %d раз, ожидается 1", count)
	}
}

func TestAddFile_DuplicateName(t *testing.T) {
	h, _ := newTestHandler(t)

	doRequest(h.AddFile, http.MethodPost, "/admin/add_file", `{"name":"dup","gdrive_id":"first"}`)
	rec := doRequest(h.AddFile, http.MethodPost, "/admin/add_file", `{"name":"dup","gdrive_id":"second"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("статус = %d, ожидается 400", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("ответ не JSON: %v", err)
	}
	if resp["status"] != "error" || resp["code"] != "CONFLICT" {
		t.Errorf("ответ = %v, ожидается status=error code=CONFLICT", resp)
	}
	if resp["message"] != "файл с именем 'dup' уже зарегистрирован" {
		t.Errorf("message = %q, ожидается только описание конфликта", resp["message"])
	}

	body := listFiles(t, h)
	if len(body.Files) != 1 || body.Files[0].GDriveID != "first" {
		t.Errorf("после конфликта список = %+v, ожидается только исходная запись", body.Files)
	}
}

func TestAddFile_StoreErrorIsGeneric(t *testing.T) {
	h, db := newTestHandler(t)

	if _, err := db.Exec(`DROP TABLE file_registry`); err != nil {
		t.Fatalf("удаление таблицы: %v", err)
	}

	rec := doRequest(h.AddFile, http.MethodPost, "/admin/add_file", `{"name":"app","gdrive_id":"gd"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("статус = %d, ожидается 400", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("ответ не JSON: %v", err)
	}
	if resp["code"] != "STORE_ERROR" {
		t.Errorf("code = %q, ожидается STORE_ERROR", resp["code"])
	}
	if strings.Contains(resp["message"], "file_registry") {
		t.Errorf("message = %q раскрывает текст ошибки хранилища", resp["message"])
	}
}

func TestAddFile_BadInput(t *testing.T) {
	h, _ := newTestHandler(t)

	tests := []struct {
		name string
		body string
		code string
	}{
		{name: "некорректный JSON", body: `{"name":`, code: "VALIDATION_ERROR"},
		{name: "пустое имя", body: `{"name":"","gdrive_id":"gd"}`, code: "VALIDATION_ERROR"},
		{name: "без gdrive_id", body: `{"name":"app"}`, code: "VALIDATION_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(h.AddFile, http.MethodPost, "/admin/add_file", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("статус = %d, ожидается 400", rec.Code)
			}
			var resp map[string]string
			_ = json.Unmarshal(rec.Body.Bytes(), &resp)
			if resp["code"] != tt.code {
				t.Errorf("code = %q, ожидается %q", resp["code"], tt.code)
			}
		})
	}
}

func TestGetFiles_OrderedNewestFirst(t *testing.T) {
	h, _ := newTestHandler(t)

	for _, name := range []string{"a", "b", "c"} {
		rec := doRequest(h.AddFile, http.MethodPost, "/admin/add_file", `{"name":"`+name+`","gdrive_id":"gd-`+name+`"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("AddFile(%s) статус = %d", name, rec.Code)
		}
	}

	body := listFiles(t, h)
	var names []string
	for _, f := range body.Files {
		names = append(names, f.Name)
	}
	if strings.Join(names, ",") != "c,b,a" {
		t.Errorf("порядок = %v, ожидается [c b a]", names)
	}
}

// --- Лицензии ---

func TestCreateLicense(t *testing.T) {
	h, db := newTestHandler(t)

	tests := []struct {
		name         string
		body         string
		wantDuration int
	}{
		{name: "без тела", body: "", wantDuration: 24},
		{name: "пустой объект", body: `{}`, wantDuration: 24},
		{name: "тело null", body: `null`, wantDuration: 24},
		{name: "duration 5", body: `{"duration":5}`, wantDuration: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(h.CreateLicense, http.MethodPost, "/admin/create", tt.body)
			if rec.Code != http.StatusOK {
				t.Fatalf("статус = %d, тело: %s", rec.Code, rec.Body.String())
			}

			var resp struct {
				Key      string `json:"key"`
				Duration int    `json:"duration"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("ответ не JSON: %v", err)
			}
			if !hexKeyRe.MatchString(resp.Key) {
				t.Errorf("key = %q, ожидается 16 hex-символов", resp.Key)
			}
			if resp.Duration != tt.wantDuration {
				t.Errorf("duration = %d, ожидается %d", resp.Duration, tt.wantDuration)
			}

			var status string
			var stored int
			row := db.QueryRowx(`SELECT status, duration_hours FROM licenses WHERE key_code = ?`, resp.Key)
			if err := row.Scan(&status, &stored); err != nil {
				t.Fatalf("лицензия не сохранена: %v", err)
			}
			if status != "unused" || stored != tt.wantDuration {
				t.Errorf("в хранилище (%q, %d), ожидается (unused, %d)", status, stored, tt.wantDuration)
			}
		})
	}
}

func TestCreateLicense_DistinctKeys(t *testing.T) {
	h, _ := newTestHandler(t)

	seen := make(map[string]struct{}, 100)
	for i := 0; i < 100; i++ {
		rec := doRequest(h.CreateLicense, http.MethodPost, "/admin/create", "")
		var resp struct {
			Key string `json:"key"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("ответ #%d не JSON: %v", i, err)
		}
		seen[resp.Key] = struct{}{}
	}
	if len(seen) != 100 {
		t.Errorf("получено %d уникальных ключей из 100", len(seen))
	}
}

func TestCreateLicense_Errors(t *testing.T) {
	h, db := newTestHandler(t)

	rec := doRequest(h.CreateLicense, http.MethodPost, "/admin/create", `{"duration":-1}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("отрицательный срок: статус = %d, ожидается 400", rec.Code)
	}

	rec = doRequest(h.CreateLicense, http.MethodPost, "/admin/create", `{"duration":`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("некорректный JSON: статус = %d, ожидается 400", rec.Code)
	}

	if _, err := db.Exec(`DROP TABLE licenses`); err != nil {
		t.Fatalf("удаление таблицы: %v", err)
	}
	rec = doRequest(h.CreateLicense, http.MethodPost, "/admin/create", "")
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("ошибка хранилища: статус = %d, ожидается 500", rec.Code)
	}
}

// --- Статические ответы и health ---

func TestHome(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := doRequest(h.Home, http.MethodGet, "/", "")
	if rec.Body.String() != "Admin Dashboard Ready." {
		t.Errorf("тело = %q", rec.Body.String())
	}
	if !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/plain") {
		t.Errorf("Content-Type = %q, ожидается text/plain", rec.Header().Get("Content-Type"))
	}
}

func TestAdminPanel(t *testing.T) {
	h, _ := newTestHandler(t)

	first := doRequest(h.AdminPanel, http.MethodGet, "/admin", "")
	second := doRequest(h.AdminPanel, http.MethodGet, "/admin", "")

	if !strings.HasPrefix(first.Header().Get("Content-Type"), "text/html") {
		t.Errorf("Content-Type = %q, ожидается text/html", first.Header().Get("Content-Type"))
	}
	for _, want := range []string{"/admin/get_files", "/admin/add_file", "/admin/create"} {
		if !strings.Contains(first.Body.String(), want) {
			t.Errorf("страница не обращается к %s", want)
		}
	}
	if first.Body.String() != second.Body.String() {
		t.Error("разметка страницы должна быть постоянной")
	}
}

func TestOpenAPI(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := doRequest(h.OpenAPI, http.MethodGet, "/openapi.yaml", "")
	if !strings.HasPrefix(rec.Body.String(), "openapi: 3") {
		t.Errorf("тело не похоже на OpenAPI-контракт: %.40q", rec.Body.String())
	}
}

func TestHealthReady(t *testing.T) {
	tests := []struct {
		name       string
		checker    ReadinessChecker
		wantStatus int
		wantBody   string
	}{
		{name: "хранилище доступно", checker: stubChecker{status: "ok"}, wantStatus: http.StatusOK, wantBody: "ok"},
		{name: "хранилище недоступно", checker: stubChecker{status: "fail", message: "down"}, wantStatus: http.StatusServiceUnavailable, wantBody: "fail"},
		{name: "checker не задан", checker: nil, wantStatus: http.StatusServiceUnavailable, wantBody: "fail"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(tt.checker, nil)
			rec := httptest.NewRecorder()
			h.HealthReady(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

			if rec.Code != tt.wantStatus {
				t.Errorf("статус = %d, ожидается %d", rec.Code, tt.wantStatus)
			}
			var resp healthReadyResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("ответ не JSON: %v", err)
			}
			if resp.Status != tt.wantBody || resp.Service != serviceName {
				t.Errorf("ответ = %+v", resp)
			}
		})
	}
}

func TestHealthLive(t *testing.T) {
	h := NewHealthHandler(nil, nil)
	rec := httptest.NewRecorder()
	h.HealthLive(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	var resp healthLiveResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("ответ не JSON: %v", err)
	}
	if rec.Code != http.StatusOK || resp.Status != "ok" || resp.Version != config.Version {
		t.Errorf("статус = %d, ответ = %+v", rec.Code, resp)
	}
}

// stubDeps - заглушка DependencyHealth.
type stubDeps map[string]bool

func (s stubDeps) Health() map[string]bool { return s }

func TestHealthReady_Dependencies(t *testing.T) {
	tests := []struct {
		name       string
		checker    ReadinessChecker
		deps       DependencyHealth
		wantStatus int
		wantBody   string
		wantDeps   map[string]string
	}{
		{
			name:       "зависимость в норме",
			checker:    stubChecker{status: "ok"},
			deps:       stubDeps{"postgresql": true},
			wantStatus: http.StatusOK,
			wantBody:   "ok",
			wantDeps:   map[string]string{"postgresql": "ok"},
		},
		{
			name:       "проверка зависимости не пройдена",
			checker:    stubChecker{status: "ok"},
			deps:       stubDeps{"postgresql": false},
			wantStatus: http.StatusOK,
			wantBody:   "degraded",
			wantDeps:   map[string]string{"postgresql": "degraded"},
		},
		{
			name:       "хранилище недоступно",
			checker:    stubChecker{status: "fail"},
			deps:       stubDeps{"postgresql": false},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   "fail",
			wantDeps:   map[string]string{"postgresql": "degraded"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(tt.checker, tt.deps)
			rec := httptest.NewRecorder()
			h.HealthReady(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

			if rec.Code != tt.wantStatus {
				t.Errorf("статус = %d, ожидается %d", rec.Code, tt.wantStatus)
			}
			var resp healthReadyResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("ответ не JSON: %v", err)
			}
			if resp.Status != tt.wantBody {
				t.Errorf("status = %q, ожидается %q", resp.Status, tt.wantBody)
			}
			for name, want := range tt.wantDeps {
				if got := resp.Checks.Dependencies[name].Status; got != want {
					t.Errorf("checks.dependencies[%s] = %q, ожидается %q", name, got, want)
				}
			}
		})
	}
}

func TestHealthReady_NoDependenciesOmitted(t *testing.T) {
	h := NewHealthHandler(stubChecker{status: "ok"}, nil)
	rec := httptest.NewRecorder()
	h.HealthReady(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	if strings.Contains(rec.Body.String(), "dependencies") {
		t.Errorf("без topologymetrics блок dependencies не ожидается: %s", rec.Body.String())
	}
}
