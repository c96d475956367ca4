package demandforecast

import (
	"github.com/richxcame/delivery-demand/pkg/mlmodel"
	"github.com/stretchr/testify/mock"
)

// mockModel is a mock implementation of mlmodel.Model
type mockModel struct {
	mock.Mock
}

func (m *mockModel) Predict(features []float64) (float64, error) {
	args := m.Called(features)
	return args.Get(0).(float64), args.Error(1)
}

func (m *mockModel) Info() mlmodel.Info {
	args := m.Called()
	return args.Get(0).(mlmodel.Info)
}

// sumModel scores a vector as the sum of its features
type sumModel struct{}

func (sumModel) Predict(features []float64) (float64, error) {
	var total float64
	for _, f := range features {
		total += f
	}
	return total, nil
}

func (sumModel) Info() mlmodel.Info {
	return mlmodel.Info{Kind: mlmodel.KindLinear, Version: "sum", NumFeatures: len(FeatureNames)}
}

func intPtr(v int) *int {
	return &v
}

// fixtureRequest encodes to [5,3,2,1,3,14,4,23] with the default code tables
func fixtureRequest() *PredictionRequest {
	return &PredictionRequest{
		Weather:        "Sunny",
		TrafficDensity: "Medium",
		OrderType:      "Snack",
		Festival:       "no",
		City:           "Urban",
		Hour:           intPtr(14),
		DayOfWeek:      "Friday",
		OrderDate:      "2024-11-23",
	}
}

var fixtureVector = []float64{5, 3, 2, 1, 3, 14, 4, 23}
