package demandforecast

import "strings"

// Encoder turns validated requests into feature vectors
type Encoder struct {
	tables *CodeTables
}

// NewEncoder creates an encoder over tables
func NewEncoder(tables *CodeTables) *Encoder {
	return &Encoder{tables: tables}
}

// Encode looks up each category in its table. A value without a code fails with
// *EncodingError and is never defaulted.
func (e *Encoder) Encode(req *ValidatedRequest) (FeatureVector, error) {
	var v FeatureVector

	lookups := []struct {
		pos   int
		table string
		value string
	}{
		{0, TableWeather, req.Weather},
		{1, TableTrafficDensity, req.TrafficDensity},
		{2, TableOrderType, req.OrderType},
		{3, TableFestival, strings.ToLower(req.Festival)},
		{4, TableCity, req.City},
		{6, TableWeekday, strings.ToLower(req.DayOfWeek)},
	}
	for _, l := range lookups {
		code, ok := e.tables.Code(l.table, l.value)
		if !ok {
			return FeatureVector{}, &EncodingError{Field: l.table, Value: l.value}
		}
		v[l.pos] = float64(code)
	}

	v[5] = float64(req.Hour)
	v[7] = float64(req.OrderDate.Day())

	return v, nil
}
