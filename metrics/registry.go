// Package metrics bündelt die Prometheus-Metriken des Servers: HTTP-Requests,
// GORM-Abfragen und fachliche Zähler rund um Wells und Bilder.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// NewRegistry erstellt eine Registry mit Go-/Prozess-Collectoren sowie allen
// Metriken dieses Pakets. Die Collectoren selbst sind paketweit, daher kann
// jede Registry (z.B. pro Test) sie erneut registrieren.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		httpRequestsTotal,
		httpRequestDuration,
		httpRequestsInFlight,
		dbQueriesTotal,
		dbQueryDuration,
		dbConnectionsOpen,
		dbConnectionsInUse,
		WellsCreated,
		WellConflicts,
		ImagesUploaded,
		BlobDeleteFailures,
		LoginFailures,
	)
	return reg
}
