// errors.go - ошибки бизнес-логики сервисного слоя.
package service

import (
	"errors"
	"fmt"
)

var (
	// ErrConflict - конфликт (дублирующийся ресурс).
	ErrConflict = errors.New("конфликт: ресурс уже существует")
	// ErrValidation - ошибка валидации входных данных.
	ErrValidation = errors.New("ошибка валидации")
	// ErrKeyCollision - не удалось выпустить уникальный ключ за отведённые попытки.
	ErrKeyCollision = errors.New("не удалось сгенерировать уникальный ключ")
)

// detailedError - ошибка с готовым сообщением для клиента.
// errors.Is сопоставляет её с kind, а Error() отдаёт только msg.
type detailedError struct {
	kind error
	msg  string
}

func (e *detailedError) Error() string { return e.msg }

func (e *detailedError) Unwrap() error { return e.kind }

// newDetailedError создаёт ошибку вида kind с сообщением без префикса kind.
func newDetailedError(kind error, format string, args ...any) error {
	return &detailedError{kind: kind, msg: fmt.Sprintf(format, args...)}
}
