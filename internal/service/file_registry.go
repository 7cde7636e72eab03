// file_registry.go - сервис реестра файлов.
// Добавление записи и полный список; обновление и удаление не поддерживаются.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sd-unl/license-server-admin/internal/domain/model"
	"github.com/sd-unl/license-server-admin/internal/repository"
)

// FileRegistryService - сервис реестра файлов.
type FileRegistryService struct {
	fileRepo repository.FileRegistryRepository
	logger   *slog.Logger
}

// NewFileRegistryService создаёт сервис реестра файлов.
func NewFileRegistryService(fileRepo repository.FileRegistryRepository, logger *slog.Logger) *FileRegistryService {
	return &FileRegistryService{
		fileRepo: fileRepo,
		logger:   logger.With(slog.String("component", "file_registry_service")),
	}
}

// Add добавляет файл в реестр.
func (s *FileRegistryService) Add(ctx context.Context, name, gdriveID string) error {
	if strings.TrimSpace(name) == "" {
		return newDetailedError(ErrValidation, "имя файла (name) обязательно")
	}
	if strings.TrimSpace(gdriveID) == "" {
		return newDetailedError(ErrValidation, "идентификатор файла (gdrive_id) обязателен")
	}

	f := &model.FileEntry{Name: name, GDriveID: gdriveID}
	if err := s.fileRepo.Add(ctx, f); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return newDetailedError(ErrConflict, "файл с именем '%s' уже зарегистрирован", name)
		}
		return fmt.Errorf("добавление файла: %w", err)
	}

	filesRegisteredTotal.Inc()
	s.logger.Info("Файл добавлен в реестр",
		slog.String("name", name),
		slog.String("gdrive_id", gdriveID),
	)

	return nil
}

// List возвращает все файлы реестра, последние добавленные - первыми.
func (s *FileRegistryService) List(ctx context.Context) ([]*model.FileEntry, error) {
	files, err := s.fileRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("получение списка файлов: %w", err)
	}
	return files, nil
}
