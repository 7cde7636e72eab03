package repository

import (
	"context"
	"fmt"

	"github.com/sd-unl/license-server-admin/internal/domain/model"
)

// FileRegistryRepository - интерфейс для таблицы file_registry.
type FileRegistryRepository interface {
	// Add вставляет новую запись. Дубликат имени - ErrConflict.
	Add(ctx context.Context, f *model.FileEntry) error
	// List возвращает все записи, последние добавленные - первыми.
	List(ctx context.Context) ([]*model.FileEntry, error)
}

// fileRegistryRepo - реализация FileRegistryRepository.
type fileRegistryRepo struct {
	db DBTX
}

// NewFileRegistryRepository создаёт репозиторий реестра файлов.
func NewFileRegistryRepository(db DBTX) FileRegistryRepository {
	return &fileRegistryRepo{db: db}
}

func (r *fileRegistryRepo) Add(ctx context.Context, f *model.FileEntry) error {
	query := r.db.Rebind(`INSERT INTO file_registry (name, gdrive_id) VALUES (?, ?)`)

	if _, err := r.db.ExecContext(ctx, query, f.Name, f.GDriveID); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: файл с именем %q уже зарегистрирован", ErrConflict, f.Name)
		}
		return fmt.Errorf("ошибка добавления файла: %w", err)
	}
	return nil
}

// List без пагинации: реестр небольшой, UI показывает его целиком.
func (r *fileRegistryRepo) List(ctx context.Context) ([]*model.FileEntry, error) {
	query := `
		SELECT id, name, gdrive_id
		FROM file_registry
		ORDER BY id DESC`

	result := []*model.FileEntry{}
	if err := r.db.SelectContext(ctx, &result, query); err != nil {
		return nil, fmt.Errorf("ошибка получения списка файлов: %w", err)
	}
	return result, nil
}
