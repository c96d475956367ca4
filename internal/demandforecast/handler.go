package demandforecast

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"

	"github.com/gin-gonic/gin"
	"github.com/richxcame/delivery-demand/pkg/common"
	"github.com/richxcame/delivery-demand/pkg/logger"
	"github.com/richxcame/delivery-demand/pkg/monitoring"
	"github.com/richxcame/delivery-demand/pkg/validation"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for demand prediction
type Handler struct {
	service *Service
}

// NewHandler creates a new demand prediction handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ========================================
// PREDICTION ENDPOINT
// ========================================

// Predict returns the predicted demand for one order context
// POST /predict
func (h *Handler) Predict(c *gin.Context) {
	var req PredictionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, bindingError(err))
		return
	}

	resp, err := h.service.Predict(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ========================================
// MODEL METADATA ENDPOINT
// ========================================

// GetModel returns the loaded model's metadata and the code table drift report
// GET /model
func (h *Handler) GetModel(c *gin.Context) {
	common.SuccessResponse(c, h.service.ModelInfo())
}

// respondError maps domain errors to status codes. Encoding and inference
// errors are server-side faults and go to Sentry.
func (h *Handler) respondError(c *gin.Context, err error) {
	log := logger.WithContext(c.Request.Context())

	var valErr *validation.ValidationError
	var encErr *EncodingError
	var infErr *InferenceError

	switch {
	case errors.As(err, &valErr):
		common.AppErrorResponse(c, common.NewBadRequestError(valErr.Error(), err).WithFields(valErr.Errors))

	case errors.As(err, &encErr):
		log.Error("Code tables out of sync with request validation",
			zap.String("field", encErr.Field),
			zap.String("value", encErr.Value),
		)
		monitoring.CaptureError(c, err)
		common.AppErrorResponse(c, common.NewUnprocessableEntityError(encErr.Error(), err).
			WithFields(map[string]string{encErr.Field: fmt.Sprintf("%q has no model code", encErr.Value)}))

	case errors.As(err, &infErr):
		log.Error("Model inference failed", zap.Error(infErr.Err))
		monitoring.CaptureError(c, err)
		common.AppErrorResponse(c, common.NewInternalError("failed to generate prediction", err))

	default:
		log.Error("Unexpected prediction error", zap.Error(err))
		monitoring.CaptureError(c, err)
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to generate prediction")
	}
}

// bindingError turns a JSON decoding failure into a field-level validation error
func bindingError(err error) *validation.ValidationError {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return validation.NewFieldError(typeErr.Field,
			fmt.Sprintf("%s must be %s (got JSON %s)", typeErr.Field, jsonTypeName(typeErr.Type), typeErr.Value))
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return validation.NewFieldError("body", fmt.Sprintf("malformed JSON at offset %d", syntaxErr.Offset))
	}

	return validation.NewFieldError("body", "request body must be a JSON object")
}

func jsonTypeName(t reflect.Type) string {
	if t == nil {
		return "a valid value"
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "an integer"
	case reflect.String:
		return "a string"
	default:
		return "a " + t.Kind().String()
	}
}

// ========================================
// ROUTE REGISTRATION
// ========================================

// RegisterRoutes registers demand prediction routes
func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.POST("/predict", h.Predict)
	r.GET("/model", h.GetModel)
}
