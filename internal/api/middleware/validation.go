// validation.go - валидация формы входящих запросов по встроенному
// OpenAPI-контракту (kin-openapi). Некорректный запрос отклоняется
// с 400 до обращения к хранилищу.
package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/legacy"

	apierrors "github.com/sd-unl/license-server-admin/internal/api/errors"
)

// RequestValidator проверяет запросы на соответствие OpenAPI-контракту.
type RequestValidator struct {
	router routers.Router
}

// NewRequestValidator загружает и валидирует контракт, строит роутер kin-openapi.
func NewRequestValidator(document []byte) (*RequestValidator, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(document)
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки OpenAPI-контракта: %w", err)
	}
	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("некорректный OpenAPI-контракт: %w", err)
	}

	router, err := legacy.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания роутера OpenAPI: %w", err)
	}

	return &RequestValidator{router: router}, nil
}

// Middleware возвращает HTTP middleware валидации.
// Пути и методы, отсутствующие в контракте, пропускаются без проверки.
func (v *RequestValidator) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Ошибка поиска маршрута (*routers.RouteError) означает, что путь
			// или метод не описан в контракте; ответ формирует chi (404/405).
			route, pathParams, err := v.router.FindRoute(r)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    r,
				PathParams: pathParams,
				Route:      route,
				Options: &openapi3filter.Options{
					AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
				},
			}

			// Тело запроса после проверки возвращается в r.Body
			if err := openapi3filter.ValidateRequest(r.Context(), input); err != nil {
				apierrors.ValidationError(w, validationMessage(err))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// validationMessage формирует сообщение об ошибке валидации.
// Для ошибок схемы возвращается причина без дампа всей схемы.
func validationMessage(err error) string {
	var schemaErr *openapi3.SchemaError
	if errors.As(err, &schemaErr) {
		field := schemaErr.JSONPointer()
		if len(field) > 0 {
			return fmt.Sprintf("некорректное поле %q: %s", field[len(field)-1], schemaErr.Reason)
		}
		return "некорректное тело запроса: " + schemaErr.Reason
	}

	var reqErr *openapi3filter.RequestError
	if errors.As(err, &reqErr) {
		if reqErr.Reason != "" {
			return "некорректный запрос: " + reqErr.Reason
		}
		if reqErr.Err != nil {
			return "некорректный запрос: " + reqErr.Err.Error()
		}
	}

	return "некорректный запрос: " + err.Error()
}
