package demandforecast

import (
	"fmt"

	"github.com/richxcame/delivery-demand/pkg/validation"
)

// Validate checks every field of req and returns a typed copy. All violations are
// reported together in a *validation.ValidationError.
func Validate(req *PredictionRequest) (*ValidatedRequest, error) {
	if req == nil {
		return nil, validation.NewFieldError("body", "request body is required")
	}

	if err := validation.ValidateStruct(req); err != nil {
		return nil, err
	}

	// iso_date already accepted the value
	date, err := validation.ParseDate(req.OrderDate)
	if err != nil {
		return nil, validation.NewFieldError("order_date", fmt.Sprintf("order_date is invalid: %v", err))
	}

	return &ValidatedRequest{
		Weather:        req.Weather,
		TrafficDensity: req.TrafficDensity,
		OrderType:      req.OrderType,
		Festival:       req.Festival,
		City:           req.City,
		Hour:           *req.Hour,
		DayOfWeek:      req.DayOfWeek,
		OrderDate:      date,
	}, nil
}
