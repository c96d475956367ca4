package demandforecast

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/richxcame/delivery-demand/pkg/mlmodel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Invoker calls the model and rounds its score
type Invoker struct {
	model mlmodel.Predictor
}

// NewInvoker creates an invoker for model
func NewInvoker(model mlmodel.Predictor) *Invoker {
	return &Invoker{model: model}
}

// Invoke scores one vector and rounds half away from zero (7.5 -> 8, -2.5 -> -3).
// Negative scores are returned unchanged. Failures are *InferenceError and are not retried.
func (i *Invoker) Invoke(ctx context.Context, v FeatureVector) (int, error) {
	_, span := tracer.Start(ctx, "demandforecast.Invoke")
	defer span.End()

	start := time.Now()
	raw, err := i.model.Predict(v.Slice())
	inferenceDuration.Observe(time.Since(start).Seconds())

	if err == nil {
		err = checkScore(raw)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "inference failed")
		return 0, &InferenceError{Err: err}
	}

	rounded := math.Round(raw)
	span.SetAttributes(
		attribute.Float64("demand.raw_score", raw),
		attribute.Int64("demand.predicted", int64(rounded)),
	)
	return int(rounded), nil
}

func checkScore(raw float64) error {
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		return fmt.Errorf("model returned non-finite score %v", raw)
	}
	if math.Abs(raw) > math.MaxInt32 {
		return errors.New("model score is out of range")
	}
	return nil
}
