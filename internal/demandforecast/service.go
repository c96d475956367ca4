package demandforecast

import (
	"context"

	"github.com/richxcame/delivery-demand/pkg/logger"
	"github.com/richxcame/delivery-demand/pkg/mlmodel"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("github.com/richxcame/delivery-demand/internal/demandforecast")

// probeVector is a known-good encoded request used by readiness checks
var probeVector = FeatureVector{5, 3, 2, 1, 3, 14, 4, 23}

// Service runs validate, encode and invoke for each request. It holds no
// per-request state and is safe for concurrent use.
type Service struct {
	model   mlmodel.Model
	tables  *CodeTables
	encoder *Encoder
	invoker *Invoker
}

// NewService creates a new demand prediction service
func NewService(model mlmodel.Model, tables *CodeTables) *Service {
	return &Service{
		model:   model,
		tables:  tables,
		encoder: NewEncoder(tables),
		invoker: NewInvoker(model),
	}
}

// ========================================
// PREDICTION
// ========================================

// Predict validates req, encodes it and returns the rounded model output
func (s *Service) Predict(ctx context.Context, req *PredictionRequest) (*PredictionResponse, error) {
	ctx, span := tracer.Start(ctx, "demandforecast.Predict")
	defer span.End()

	log := logger.WithContext(ctx)

	validated, err := Validate(req)
	if err != nil {
		predictionsTotal.WithLabelValues(outcomeValidationError).Inc()
		span.SetStatus(codes.Error, "validation failed")
		log.Debug("Prediction request rejected", zap.Error(err))
		return nil, err
	}

	vector, err := s.encoder.Encode(validated)
	if err != nil {
		predictionsTotal.WithLabelValues(outcomeEncodingError).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "encoding failed")
		return nil, err
	}
	span.SetAttributes(attribute.Float64Slice("demand.features", vector.Slice()))

	demand, err := s.invoker.Invoke(ctx, vector)
	if err != nil {
		predictionsTotal.WithLabelValues(outcomeInferenceError).Inc()
		span.SetStatus(codes.Error, "inference failed")
		return nil, err
	}

	predictionsTotal.WithLabelValues(outcomeOK).Inc()
	log.Debug("Prediction served",
		zap.Float64s("features", vector.Slice()),
		zap.Int("predicted_demand", demand),
	)

	return &PredictionResponse{PredictedDemand: demand}, nil
}

// ========================================
// MODEL METADATA
// ========================================

// ModelInfo describes the loaded model and the code table drift
func (s *Service) ModelInfo() *ModelInfoResponse {
	return &ModelInfoResponse{
		Model:        s.model.Info(),
		FeatureOrder: FeatureNames,
		Drift:        s.tables.Drift(),
	}
}

// Probe scores a fixed vector for readiness checks. It bypasses the invoker
// and records no metrics or spans.
func (s *Service) Probe() error {
	raw, err := s.model.Predict(probeVector.Slice())
	if err != nil {
		return err
	}
	return checkScore(raw)
}
