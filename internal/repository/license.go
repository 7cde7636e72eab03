package repository

import (
	"context"
	"fmt"

	"github.com/sd-unl/license-server-admin/internal/domain/model"
)

// LicenseRepository - интерфейс для таблицы licenses.
type LicenseRepository interface {
	// Create вставляет ключ; статус берётся из DEFAULT столбца.
	// Совпадение key_code - ErrConflict.
	Create(ctx context.Context, l *model.License) error
}

// licenseRepo - реализация LicenseRepository.
type licenseRepo struct {
	db DBTX
}

// NewLicenseRepository создаёт репозиторий лицензий.
func NewLicenseRepository(db DBTX) LicenseRepository {
	return &licenseRepo{db: db}
}

func (r *licenseRepo) Create(ctx context.Context, l *model.License) error {
	query := r.db.Rebind(`
		INSERT INTO licenses (key_code, duration_hours)
		VALUES (?, ?)
		RETURNING status`)

	if err := r.db.QueryRowxContext(ctx, query, l.KeyCode, l.DurationHours).Scan(&l.Status); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: ключ уже выпущен", ErrConflict)
		}
		return fmt.Errorf("ошибка создания лицензии: %w", err)
	}
	return nil
}
