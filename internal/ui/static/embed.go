// Пакет static - встроенная страница панели управления.
// Разметка постоянна и раздаётся как есть; данные страница
// получает сама запросами к /admin/* того же origin.
package static

import _ "embed"

//go:embed admin.html
var adminPage []byte

// AdminPage возвращает HTML панели управления.
func AdminPage() []byte {
	return adminPage
}
