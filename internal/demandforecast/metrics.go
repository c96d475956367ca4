package demandforecast

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prediction outcomes
const (
	outcomeOK              = "ok"
	outcomeValidationError = "validation_error"
	outcomeEncodingError   = "encoding_error"
	outcomeInferenceError  = "inference_error"
)

var (
	predictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "demand_predictions_total",
			Help: "Total number of prediction requests by outcome",
		},
		[]string{"outcome"},
	)

	inferenceDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "demand_inference_duration_seconds",
			Help:    "Model inference latency in seconds",
			Buckets: []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05},
		},
	)
)
