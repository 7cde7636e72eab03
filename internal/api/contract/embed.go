// Пакет contract - встроенный OpenAPI-контракт License Admin API.
// Используется middleware валидации запросов и раздаётся на /openapi.yaml.
package contract

import _ "embed"

//go:embed openapi.yaml
var document []byte

// OpenAPI возвращает содержимое openapi.yaml.
func OpenAPI() []byte {
	return document
}
