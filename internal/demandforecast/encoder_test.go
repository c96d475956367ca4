package demandforecast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeRequest(t *testing.T, req *PredictionRequest) (FeatureVector, error) {
	t.Helper()
	validated, err := Validate(req)
	require.NoError(t, err)
	return NewEncoder(DefaultCodeTables()).Encode(validated)
}

func TestEncode_Fixture(t *testing.T) {
	got, err := encodeRequest(t, fixtureRequest())
	require.NoError(t, err)
	assert.Equal(t, FeatureVector{5, 3, 2, 1, 3, 14, 4, 23}, got)
	assert.Equal(t, fixtureVector, got.Slice())
}

func TestEncode_Positions(t *testing.T) {
	req := &PredictionRequest{
		Weather:        "Windy",
		TrafficDensity: "Jam",
		OrderType:      "Meal",
		Festival:       "yes",
		City:           "Semi-Urban",
		Hour:           intPtr(0),
		DayOfWeek:      "Sunday",
		OrderDate:      "2000-02-29",
	}

	got, err := encodeRequest(t, req)
	require.NoError(t, err)
	assert.Equal(t, FeatureVector{6, 1, 1, 2, 2, 0, 6, 29}, got)
	assert.Len(t, FeatureNames, len(got))
}

func TestEncode_CaseInsensitiveFieldsEncodeIdentically(t *testing.T) {
	for _, festival := range []string{"yes", "YES", "Yes"} {
		req := fixtureRequest()
		req.Festival = festival
		got, err := encodeRequest(t, req)
		require.NoError(t, err)
		assert.Equal(t, float64(2), got[3], festival)
	}

	for _, day := range []string{"monday", "MONDAY", "Monday", "mOnDaY"} {
		req := fixtureRequest()
		req.DayOfWeek = day
		got, err := encodeRequest(t, req)
		require.NoError(t, err)
		assert.Equal(t, float64(0), got[6], day)
	}
}

func TestEncode_MissingCodeIsAnError(t *testing.T) {
	req := fixtureRequest()
	req.City = "Rural"

	got, err := encodeRequest(t, req)

	var encErr *EncodingError
	require.ErrorAs(t, err, &encErr)
	assert.Equal(t, TableCity, encErr.Field)
	assert.Equal(t, "Rural", encErr.Value)
	assert.Equal(t, FeatureVector{}, got)
}

func TestEncode_EveryAcceptedValue(t *testing.T) {
	// Every accepted value except the known Rural drift encodes
	encoder := NewEncoder(DefaultCodeTables())
	for _, weather := range WeatherValues {
		for _, traffic := range TrafficDensityValues {
			for _, order := range OrderTypeValues {
				for _, city := range CityValues {
					req := fixtureRequest()
					req.Weather, req.TrafficDensity, req.OrderType, req.City = weather, traffic, order, city

					validated, err := Validate(req)
					require.NoError(t, err)

					_, err = encoder.Encode(validated)
					if city == "Rural" {
						assert.Error(t, err)
						continue
					}
					assert.NoError(t, err, "%s/%s/%s/%s", weather, traffic, order, city)
				}
			}
		}
	}
}
