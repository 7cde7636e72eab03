// metrics.go - Prometheus-метрики сервисного слоя.
package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	licensesIssuedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "la_licenses_issued_total",
		Help: "Общее количество выпущенных лицензионных ключей.",
	})
	licenseKeyCollisionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "la_license_key_collisions_total",
		Help: "Количество совпадений сгенерированного ключа с уже выпущенным.",
	})
	filesRegisteredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "la_files_registered_total",
		Help: "Общее количество файлов, добавленных в реестр.",
	})
)
