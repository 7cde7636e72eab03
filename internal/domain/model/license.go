package model

// Статусы лицензии. Переходы выполняет внешний потребитель (погашение ключа),
// License Admin только выпускает ключи в статусе unused.
const (
	LicenseStatusUnused = "unused"
)

// DefaultDurationHours - срок действия ключа по умолчанию.
const DefaultDurationHours = 24

// License - выпущенный лицензионный ключ.
// Хранится в таблице licenses.
type License struct {
	// KeyCode - 16 hex-символов, первичный ключ
	KeyCode string `db:"key_code"`
	// Status - статус ключа (по умолчанию unused)
	Status string `db:"status"`
	// DurationHours - срок действия в часах
	DurationHours int `db:"duration_hours"`
}
