package demandforecast

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/goccy/go-json"
)

// Table names used in code table files, encoding errors and drift reports
const (
	TableWeather        = "weather"
	TableTrafficDensity = "traffic_density"
	TableOrderType      = "order_type"
	TableFestival       = "festival"
	TableCity           = "city"
	TableWeekday        = "day_of_week"
)

var tableNames = []string{TableWeather, TableTrafficDensity, TableOrderType, TableFestival, TableCity, TableWeekday}

// caseInsensitiveTables are keyed by lower-case names
var caseInsensitiveTables = map[string]bool{
	TableFestival: true,
	TableWeekday:  true,
}

// CodeTables maps category names to the integer codes the model was trained with.
// Tables are built once and never modified afterwards.
type CodeTables struct {
	tables map[string]map[string]int
}

// DefaultCodeTables returns the encoding used to train the shipped model.
// Sandstorms and Metropolitian cannot be requested but stay for training compatibility.
func DefaultCodeTables() *CodeTables {
	return &CodeTables{tables: map[string]map[string]int{
		TableWeather: {
			"Cloudy":     0,
			"Fog":        1,
			"Sandstorms": 3,
			"Stormy":     4,
			"Sunny":      5,
			"Windy":      6,
		},
		TableTrafficDensity: {
			"High":   0,
			"Jam":    1,
			"Low":    2,
			"Medium": 3,
		},
		TableOrderType: {
			"Drinks": 0,
			"Meal":   1,
			"Snack":  2,
		},
		TableFestival: {
			"no":  1,
			"yes": 2,
		},
		TableCity: {
			"Metropolitian": 0,
			"Semi-Urban":    2,
			"Urban":         3,
		},
		TableWeekday: {
			"monday":    0,
			"tuesday":   1,
			"wednesday": 2,
			"thursday":  3,
			"friday":    4,
			"saturday":  5,
			"sunday":    6,
		},
	}}
}

// LoadCodeTables reads code tables from a JSON object with one object per table,
// e.g. {"weather": {"Sunny": 5, ...}, "festival": {"no": 1, "yes": 2}, ...}.
// All six tables are required. Festival and weekday keys are lower-cased.
func LoadCodeTables(path string) (*CodeTables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read code tables: %w", err)
	}

	var raw map[string]map[string]int
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse code tables %s: %w", path, err)
	}

	return NewCodeTables(raw)
}

// NewCodeTables copies raw into a CodeTables value
func NewCodeTables(raw map[string]map[string]int) (*CodeTables, error) {
	tables := make(map[string]map[string]int, len(tableNames))
	for _, name := range tableNames {
		src, ok := raw[name]
		if !ok || len(src) == 0 {
			return nil, fmt.Errorf("code table %q is missing or empty", name)
		}

		dst := make(map[string]int, len(src))
		for key, code := range src {
			if caseInsensitiveTables[name] {
				key = strings.ToLower(key)
			}
			if _, dup := dst[key]; dup {
				return nil, fmt.Errorf("code table %q has duplicate key %q", name, key)
			}
			dst[key] = code
		}
		tables[name] = dst
	}

	for name := range raw {
		if _, known := tables[name]; !known {
			return nil, fmt.Errorf("unknown code table %q", name)
		}
	}

	return &CodeTables{tables: tables}, nil
}

// Code looks up value in the named table. Case-insensitive tables expect a lower-case value.
func (t *CodeTables) Code(table, value string) (int, bool) {
	code, ok := t.tables[table][value]
	return code, ok
}

// DriftReport lists disagreements between validation and the code tables, by table
type DriftReport struct {
	// Missing values pass validation but have no code. Requests using them fail to encode.
	Missing map[string][]string `json:"missing,omitempty"`
	// Unreachable values have a code but never pass validation
	Unreachable map[string][]string `json:"unreachable,omitempty"`
}

// Empty reports whether validation and the tables agree
func (d DriftReport) Empty() bool {
	return len(d.Missing) == 0 && len(d.Unreachable) == 0
}

// Drift compares the tables with the values request validation accepts
func (t *CodeTables) Drift() DriftReport {
	accepted := map[string][]string{
		TableWeather:        WeatherValues,
		TableTrafficDensity: TrafficDensityValues,
		TableOrderType:      OrderTypeValues,
		TableFestival:       FestivalValues,
		TableCity:           CityValues,
		TableWeekday:        WeekdayValues,
	}

	report := DriftReport{}
	for _, name := range tableNames {
		allowed := make(map[string]bool, len(accepted[name]))
		for _, value := range accepted[name] {
			key := value
			if caseInsensitiveTables[name] {
				key = strings.ToLower(value)
			}
			allowed[key] = true
			if _, ok := t.tables[name][key]; !ok {
				if report.Missing == nil {
					report.Missing = make(map[string][]string)
				}
				report.Missing[name] = append(report.Missing[name], value)
			}
		}

		var unreachable []string
		for key := range t.tables[name] {
			if !allowed[key] {
				unreachable = append(unreachable, key)
			}
		}
		if len(unreachable) > 0 {
			sort.Strings(unreachable)
			if report.Unreachable == nil {
				report.Unreachable = make(map[string][]string)
			}
			report.Unreachable[name] = unreachable
		}
	}

	return report
}
