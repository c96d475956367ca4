package demandforecast

import (
	"time"

	"github.com/richxcame/delivery-demand/pkg/mlmodel"
)

// Values accepted by request validation. The validate tags on PredictionRequest
// must list the same values.
var (
	WeatherValues        = []string{"Sunny", "Cloudy", "Stormy", "Fog", "Windy"}
	TrafficDensityValues = []string{"Low", "Medium", "High", "Jam"}
	OrderTypeValues      = []string{"Drinks", "Meal", "Snack"}
	FestivalValues       = []string{"no", "yes"}
	CityValues           = []string{"Urban", "Semi-Urban", "Rural"}
	WeekdayValues        = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
)

// Year window for order_date
const (
	MinOrderYear = 2000
	MaxOrderYear = 2099
)

// PredictionRequest is the body of POST /predict
type PredictionRequest struct {
	Weather        string `json:"weather" validate:"required,oneof=Sunny Cloudy Stormy Fog Windy"`
	TrafficDensity string `json:"traffic_density" validate:"required,oneof=Low Medium High Jam"`
	OrderType      string `json:"order_type" validate:"required,oneof=Drinks Meal Snack"`
	Festival       string `json:"festival" validate:"required,ci_oneof=no yes"`
	City           string `json:"city" validate:"required,oneof=Urban Semi-Urban Rural"`
	Hour           *int   `json:"hour" validate:"required,gte=0,lte=23"`
	DayOfWeek      string `json:"day_of_week" validate:"required,ci_oneof=Monday Tuesday Wednesday Thursday Friday Saturday Sunday"`
	OrderDate      string `json:"order_date" validate:"required,iso_date,year_between=2000 2099"`
}

// ValidatedRequest is a request that passed validation. Festival and DayOfWeek
// keep the caller's casing; the encoder normalizes them.
type ValidatedRequest struct {
	Weather        string
	TrafficDensity string
	OrderType      string
	Festival       string
	City           string
	Hour           int
	DayOfWeek      string
	OrderDate      time.Time
}

// FeatureVector is the model input in training order:
// weather, traffic_density, order_type, festival, city, hour, day_of_week, day_of_month
type FeatureVector [8]float64

// FeatureNames names the FeatureVector positions. Model artifacts must use the same order.
var FeatureNames = []string{
	"weather",
	"traffic_density",
	"order_type",
	"festival",
	"city",
	"hour",
	"day_of_week",
	"day_of_month",
}

// Slice returns the vector as a slice for mlmodel.Predictor
func (v FeatureVector) Slice() []float64 {
	out := make([]float64, len(v))
	copy(out, v[:])
	return out
}

// PredictionResponse is the body of a successful POST /predict
type PredictionResponse struct {
	PredictedDemand int `json:"predicted_demand"`
}

// ModelInfoResponse is returned by GET /model
type ModelInfoResponse struct {
	Model        mlmodel.Info `json:"model"`
	FeatureOrder []string     `json:"feature_order"`
	Drift        DriftReport  `json:"drift"`
}
