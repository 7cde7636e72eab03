package model

// FileEntry - запись реестра файлов: имя → идентификатор файла
// во внешнем хранилище (Google Drive). Сам файл здесь не хранится.
// Хранится в таблице file_registry; created_at проставляет хранилище
// и наружу не отдаётся.
type FileEntry struct {
	// ID - автоинкремент, назначается хранилищем
	ID int64 `db:"id"`
	// Name - уникальное имя, задаётся вызывающим
	Name string `db:"name"`
	// GDriveID - идентификатор во внешнем хранилище
	GDriveID string `db:"gdrive_id"`
}
