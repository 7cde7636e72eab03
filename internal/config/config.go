// Пакет config - загрузка и валидация конфигурации License Admin
// из переменных окружения.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Версия приложения, задаётся при сборке через -ldflags.
var Version = "dev"

// Dialect - тип реляционного хранилища.
type Dialect string

const (
	// DialectPostgres - PostgreSQL (production).
	DialectPostgres Dialect = "postgres"
	// DialectSQLite - локальный файловый SQLite (fallback без DATABASE_URL).
	DialectSQLite Dialect = "sqlite"
)

// ErrUnsupportedDatabaseURL - схема DATABASE_URL не поддерживается.
var ErrUnsupportedDatabaseURL = errors.New("неподдерживаемая схема DATABASE_URL")

// Config содержит все параметры конфигурации License Admin.
type Config struct {
	// --- Сервер ---

	// Порт HTTP-сервера
	Port int `env:"PORT" envDefault:"10000"`
	// Уровень логирования (debug, info, warn, error)
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"info"`
	// Формат логов (json, text)
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
	// Таймаут graceful shutdown HTTP-сервера
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s"`
	// Разрешённые origins для CORS (пусто - CORS выключен)
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`

	// --- Хранилище ---

	// Строка подключения (postgres://, postgresql:// или sqlite://).
	// Пустое значение - локальный SQLite по пути SQLitePath.
	DatabaseURL string `env:"DATABASE_URL"`
	// Путь к файлу SQLite, используется без DATABASE_URL
	SQLitePath string `env:"SQLITE_PATH" envDefault:"temp_admin.db"`

	// --- topologymetrics ---

	// Группа в метриках зависимостей
	DephealthGroup string `env:"DEPHEALTH_GROUP" envDefault:"license-admin"`
	// Интервал проверки зависимостей
	DephealthCheckInterval time.Duration `env:"DEPHEALTH_CHECK_INTERVAL" envDefault:"15s"`
}

// Load загружает конфигурацию из переменных окружения, валидирует
// значения и возвращает Config или ошибку.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("ошибка разбора переменных окружения: %w", err)
	}

	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("PORT: значение %d вне допустимого диапазона 1-65535", cfg.Port)
	}

	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("LOG_FORMAT: недопустимое значение %q, допустимые: json, text", cfg.LogFormat)
	}

	if cfg.ShutdownTimeout <= 0 {
		return nil, fmt.Errorf("SHUTDOWN_TIMEOUT: должен быть положительным, получено %s", cfg.ShutdownTimeout)
	}
	if cfg.DephealthCheckInterval <= 0 {
		return nil, fmt.Errorf("DEPHEALTH_CHECK_INTERVAL: должен быть положительным, получено %s", cfg.DephealthCheckInterval)
	}

	cfg.DatabaseURL = NormalizeDatabaseURL(strings.TrimSpace(cfg.DatabaseURL))
	if _, err := cfg.Dialect(); err != nil {
		return nil, fmt.Errorf("DATABASE_URL: %w", err)
	}

	if cfg.SQLitePath == "" {
		return nil, errors.New("SQLITE_PATH: не может быть пустым")
	}

	cfg.CORSAllowedOrigins = trimEmpty(cfg.CORSAllowedOrigins)

	return cfg, nil
}

// NormalizeDatabaseURL приводит схему postgres:// к postgresql://.
// Остальные строки возвращаются без изменений.
func NormalizeDatabaseURL(raw string) string {
	if strings.HasPrefix(raw, "postgres://") {
		return "postgresql://" + strings.TrimPrefix(raw, "postgres://")
	}
	return raw
}

// Dialect определяет тип хранилища по DATABASE_URL.
func (c *Config) Dialect() (Dialect, error) {
	switch {
	case c.DatabaseURL == "":
		return DialectSQLite, nil
	case strings.HasPrefix(c.DatabaseURL, "sqlite://"):
		return DialectSQLite, nil
	case strings.HasPrefix(c.DatabaseURL, "postgresql://"),
		strings.HasPrefix(c.DatabaseURL, "postgres://"):
		return DialectPostgres, nil
	default:
		return "", ErrUnsupportedDatabaseURL
	}
}

// SQLiteFile возвращает путь к файлу SQLite: из sqlite://path
// либо SQLitePath, если DATABASE_URL не задан.
func (c *Config) SQLiteFile() string {
	if path, ok := strings.CutPrefix(c.DatabaseURL, "sqlite://"); ok && path != "" {
		return path
	}
	return c.SQLitePath
}

// SetupLogger настраивает глобальный slog-логгер на основе конфигурации.
func SetupLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// trimEmpty убирает пробелы вокруг элементов и пустые элементы.
func trimEmpty(items []string) []string {
	result := make([]string, 0, len(items))
	for _, s := range items {
		s = strings.TrimSpace(s)
		if s != "" {
			result = append(result, s)
		}
	}
	if len(result) == 0 {
		return nil
	}
	return result
}
