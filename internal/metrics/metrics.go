// Package metrics define las métricas Prometheus del motor CRUD.
// Paquete standalone para evitar ciclos de import entre adapter y HTTP.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	AdapterOps = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "crudkit_adapter_operations_total",
		Help: "Operaciones de adapter por entidad, operación y resultado",
	}, []string{"entity", "op", "outcome"})

	AdapterOpLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "crudkit_adapter_operation_duration_ms",
		Help:    "Latencia de operaciones de adapter en milisegundos",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12),
	}, []string{"entity", "op"})

	RealtimeEvents = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "crudkit_realtime_events_total",
		Help: "Notificaciones de cambio recibidas por scope de entidad",
	}, []string{"entity"})

	RealtimeReloads = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "crudkit_realtime_reloads_total",
		Help: "Callbacks onUpdate disparados después del debounce",
	})

	BulkFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "crudkit_bulk_item_failures_total",
		Help: "Items fallidos en operaciones masivas",
	}, []string{"entity", "op"})
)

// RegisterAll registra todas las métricas en el registry dado
// (default si es nil). Tolera doble registro.
func RegisterAll(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	cs := []prometheus.Collector{
		AdapterOps, AdapterOpLatency, RealtimeEvents, RealtimeReloads, BulkFailures,
	}
	for _, c := range cs {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}
	return nil
}
