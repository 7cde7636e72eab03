// Точка входа License Admin - административный бэкенд выпуска
// лицензионных ключей и реестра файлов.
// Загружает конфигурацию, инициализирует схему хранилища, подключается
// к PostgreSQL или локальному SQLite, создаёт сервисный слой и API handlers,
// запускает topologymetrics и HTTP-сервер с graceful shutdown.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/sd-unl/license-server-admin/internal/api/contract"
	"github.com/sd-unl/license-server-admin/internal/api/handlers"
	"github.com/sd-unl/license-server-admin/internal/api/middleware"
	"github.com/sd-unl/license-server-admin/internal/config"
	"github.com/sd-unl/license-server-admin/internal/database"
	"github.com/sd-unl/license-server-admin/internal/repository"
	"github.com/sd-unl/license-server-admin/internal/server"
	"github.com/sd-unl/license-server-admin/internal/service"
)

func main() {
	// 1. Загрузка конфигурации из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Ошибка загрузки конфигурации", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 2. Настройка логирования
	logger := config.SetupLogger(cfg)
	dialect, _ := cfg.Dialect()
	logger.Info("License Admin запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
		slog.String("dialect", string(dialect)),
	)

	// 3. Инициализация схемы хранилища
	logger.Info("Применение миграций...")
	if err := database.Migrate(cfg, logger); err != nil {
		logger.Error("Ошибка миграций", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 4. Подключение к хранилищу
	ctx := context.Background()
	db, err := database.Open(ctx, cfg, logger)
	if err != nil {
		logger.Error("Ошибка подключения к хранилищу", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.Close()

	// 5. Repositories
	fileRepo := repository.NewFileRegistryRepository(db)
	licenseRepo := repository.NewLicenseRepository(db)

	// 6. Services
	filesSvc := service.NewFileRegistryService(fileRepo, logger)
	licensesSvc := service.NewLicenseService(licenseRepo, nil, logger)

	// 7. topologymetrics - только для PostgreSQL
	var dephealthSvc *service.DephealthService
	if db.Dialect() == config.DialectPostgres {
		if os.Getenv("DEPHEALTH_GROUP") == "" {
			logger.Warn("DEPHEALTH_GROUP не задана, используется значение по умолчанию",
				slog.String("default", cfg.DephealthGroup),
			)
		}

		svc, dephealthErr := service.NewDephealthService(
			"license-admin",
			cfg.DephealthGroup,
			db.SQL(),
			cfg.DatabaseURL,
			cfg.DephealthCheckInterval,
			logger,
		)
		if dephealthErr != nil {
			logger.Warn("topologymetrics недоступен, запуск без мониторинга зависимостей",
				slog.String("error", dephealthErr.Error()),
			)
		} else if startErr := svc.Start(ctx); startErr != nil {
			logger.Warn("Ошибка запуска topologymetrics",
				slog.String("error", startErr.Error()),
			)
		} else {
			dephealthSvc = svc
			logger.Info("topologymetrics запущен",
				slog.String("group", cfg.DephealthGroup),
				slog.String("check_interval", cfg.DephealthCheckInterval.String()),
			)
		}
	}

	// 8. Handlers
	// Интерфейс присваивается только запущенному сервису, иначе nil.
	var deps handlers.DependencyHealth
	if dephealthSvc != nil {
		deps = dephealthSvc
	}
	healthHandler := handlers.NewHealthHandler(database.NewReadinessChecker(db), deps)
	apiHandler := handlers.NewAPIHandler(healthHandler, filesSvc, licensesSvc, logger)

	validator, err := middleware.NewRequestValidator(contract.OpenAPI())
	if err != nil {
		logger.Error("Ошибка загрузки OpenAPI-контракта", slog.String("error", err.Error()))
		if dephealthSvc != nil {
			dephealthSvc.Stop()
		}
		db.Close()
		os.Exit(1)
	}

	// 9. Создание и запуск HTTP-сервера
	srv := server.New(cfg, logger, apiHandler, validator)
	if err := srv.Run(); err != nil {
		logger.Error("Ошибка сервера", slog.String("error", err.Error()))
		if dephealthSvc != nil {
			dephealthSvc.Stop()
		}
		db.Close()
		os.Exit(1)
	}

	// 10. Остановка фоновых задач
	if dephealthSvc != nil {
		dephealthSvc.Stop()
	}

	logger.Info("License Admin остановлен")
}
