package service

import "github.com/prometheus/client_golang/prometheus"

var (
	importsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reviews_imports_total",
			Help: "Total number of review batch imports by source and status",
		},
		[]string{"source", "status"},
	)

	reviewsAcceptedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reviews_accepted_total",
			Help: "Reviews that passed sanitization, normalization, and filtering",
		},
		[]string{"source"},
	)

	reviewsFilteredTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reviews_filtered_total",
			Help: "Reviews dropped by the quality filter during import",
		},
		[]string{"source"},
	)
)

func init() {
	prometheus.MustRegister(importsTotal, reviewsAcceptedTotal, reviewsFilteredTotal)
}
