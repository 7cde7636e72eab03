// license.go - сервис выпуска лицензионных ключей.
package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sd-unl/license-server-admin/internal/domain/model"
	"github.com/sd-unl/license-server-admin/internal/repository"
)

const (
	// keyBytes - энтропия ключа; в hex получается 16 символов.
	keyBytes = 8
	// maxKeyAttempts - попытки выпуска при совпадении ключа с существующим.
	maxKeyAttempts = 3
)

// KeyGenerator возвращает новый лицензионный ключ.
type KeyGenerator func() (string, error)

// GenerateKey возвращает 8 случайных байт из crypto/rand в виде
// 16 hex-символов в нижнем регистре.
func GenerateKey() (string, error) {
	b := make([]byte, keyBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("ошибка генерации ключа: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// LicenseService - сервис выпуска лицензий.
type LicenseService struct {
	repo   repository.LicenseRepository
	genKey KeyGenerator
	logger *slog.Logger
}

// NewLicenseService создаёт сервис выпуска лицензий.
// genKey == nil - используется GenerateKey.
func NewLicenseService(repo repository.LicenseRepository, genKey KeyGenerator, logger *slog.Logger) *LicenseService {
	if genKey == nil {
		genKey = GenerateKey
	}
	return &LicenseService{
		repo:   repo,
		genKey: genKey,
		logger: logger.With(slog.String("component", "license_service")),
	}
}

// Issue выпускает ключ на durationHours часов.
// Уникальность обеспечивает энтропия ключа; при редком совпадении
// с уже выпущенным ключом генерируется новый, не более maxKeyAttempts раз.
func (s *LicenseService) Issue(ctx context.Context, durationHours int) (*model.License, error) {
	if durationHours < 1 {
		return nil, newDetailedError(ErrValidation, "срок действия должен быть положительным, получено %d", durationHours)
	}

	for attempt := 1; attempt <= maxKeyAttempts; attempt++ {
		key, err := s.genKey()
		if err != nil {
			return nil, err
		}

		l := &model.License{KeyCode: key, DurationHours: durationHours}
		err = s.repo.Create(ctx, l)
		if err == nil {
			licensesIssuedTotal.Inc()
			s.logger.Info("Лицензионный ключ выпущен",
				slog.Int("duration_hours", l.DurationHours),
				slog.Int("attempt", attempt),
			)
			return l, nil
		}

		if !errors.Is(err, repository.ErrConflict) {
			return nil, fmt.Errorf("выпуск лицензии: %w", err)
		}

		licenseKeyCollisionsTotal.Inc()
		s.logger.Warn("Сгенерированный ключ уже существует, повторная генерация",
			slog.Int("attempt", attempt),
		)
	}

	return nil, ErrKeyCollision
}
