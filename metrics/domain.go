package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	WellsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "screen_ai_wells_created_total",
		Help: "Total number of wells created.",
	})
	// WellConflicts zählt abgelehnte Well-Anlagen auf bereits belegter Position.
	WellConflicts = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "screen_ai_well_conflicts_total",
		Help: "Total number of well creations rejected because the position was taken.",
	})
	ImagesUploaded = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "screen_ai_images_uploaded_total",
		Help: "Total number of microscopy images stored.",
	})
	BlobDeleteFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "screen_ai_blob_delete_failures_total",
		Help: "Blob objects that could not be removed after their rows were deleted.",
	})
	LoginFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "screen_ai_login_failures_total",
		Help: "Failed login attempts by reason.",
	}, []string{"reason"})
)
