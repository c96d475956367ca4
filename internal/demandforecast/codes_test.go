package demandforecast

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCodeTables_Codes(t *testing.T) {
	tables := DefaultCodeTables()

	tests := []struct {
		table string
		value string
		want  int
	}{
		{TableWeather, "Cloudy", 0},
		{TableWeather, "Fog", 1},
		{TableWeather, "Sandstorms", 3},
		{TableWeather, "Stormy", 4},
		{TableWeather, "Sunny", 5},
		{TableWeather, "Windy", 6},
		{TableTrafficDensity, "High", 0},
		{TableTrafficDensity, "Jam", 1},
		{TableTrafficDensity, "Low", 2},
		{TableTrafficDensity, "Medium", 3},
		{TableOrderType, "Drinks", 0},
		{TableOrderType, "Meal", 1},
		{TableOrderType, "Snack", 2},
		{TableFestival, "no", 1},
		{TableFestival, "yes", 2},
		{TableCity, "Metropolitian", 0},
		{TableCity, "Semi-Urban", 2},
		{TableCity, "Urban", 3},
		{TableWeekday, "monday", 0},
		{TableWeekday, "friday", 4},
		{TableWeekday, "sunday", 6},
	}

	for _, tt := range tests {
		code, ok := tables.Code(tt.table, tt.value)
		require.True(t, ok, "%s/%s", tt.table, tt.value)
		assert.Equal(t, tt.want, code, "%s/%s", tt.table, tt.value)
	}

	_, ok := tables.Code(TableCity, "Rural")
	assert.False(t, ok)
	_, ok = tables.Code("colour", "red")
	assert.False(t, ok)
}

func TestDefaultCodeTables_Drift(t *testing.T) {
	drift := DefaultCodeTables().Drift()

	assert.False(t, drift.Empty())
	assert.Equal(t, map[string][]string{TableCity: {"Rural"}}, drift.Missing)
	assert.Equal(t, map[string][]string{
		TableWeather: {"Sandstorms"},
		TableCity:    {"Metropolitian"},
	}, drift.Unreachable)
}

func TestNewCodeTables_NoDrift(t *testing.T) {
	raw := rawDefaultTables()
	raw[TableCity]["Rural"] = 1
	delete(raw[TableCity], "Metropolitian")
	delete(raw[TableWeather], "Sandstorms")

	tables, err := NewCodeTables(raw)
	require.NoError(t, err)
	assert.True(t, tables.Drift().Empty())
}

func TestNewCodeTables_LowercasesCaseInsensitiveTables(t *testing.T) {
	raw := rawDefaultTables()
	raw[TableFestival] = map[string]int{"No": 1, "YES": 2}

	tables, err := NewCodeTables(raw)
	require.NoError(t, err)

	code, ok := tables.Code(TableFestival, "yes")
	require.True(t, ok)
	assert.Equal(t, 2, code)
	_, ok = tables.Code(TableFestival, "YES")
	assert.False(t, ok)
}

func TestNewCodeTables_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(raw map[string]map[string]int)
		wantErr string
	}{
		{"missing table", func(raw map[string]map[string]int) { delete(raw, TableWeekday) }, `"day_of_week" is missing`},
		{"empty table", func(raw map[string]map[string]int) { raw[TableOrderType] = map[string]int{} }, `"order_type" is missing or empty`},
		{"unknown table", func(raw map[string]map[string]int) { raw["colour"] = map[string]int{"red": 1} }, `unknown code table "colour"`},
		{"case collision", func(raw map[string]map[string]int) { raw[TableFestival]["Yes"] = 3 }, `duplicate key "yes"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := rawDefaultTables()
			tt.mutate(raw)
			_, err := NewCodeTables(raw)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadCodeTables(t *testing.T) {
	dir := t.TempDir()

	t.Run("valid file", func(t *testing.T) {
		path := filepath.Join(dir, "tables.json")
		require.NoError(t, os.WriteFile(path, []byte(`{
			"weather": {"Sunny": 5, "Cloudy": 0, "Stormy": 4, "Fog": 1, "Windy": 6},
			"traffic_density": {"High": 0, "Jam": 1, "Low": 2, "Medium": 3},
			"order_type": {"Drinks": 0, "Meal": 1, "Snack": 2},
			"festival": {"No": 1, "Yes": 2},
			"city": {"Urban": 3, "Semi-Urban": 2, "Rural": 1},
			"day_of_week": {"Monday": 0, "Tuesday": 1, "Wednesday": 2, "Thursday": 3, "Friday": 4, "Saturday": 5, "Sunday": 6}
		}`), 0o644))

		tables, err := LoadCodeTables(path)
		require.NoError(t, err)
		assert.True(t, tables.Drift().Empty())

		code, ok := tables.Code(TableWeekday, "friday")
		require.True(t, ok)
		assert.Equal(t, 4, code)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadCodeTables(filepath.Join(dir, "absent.json"))
		assert.ErrorContains(t, err, "failed to read code tables")
	})

	t.Run("bad json", func(t *testing.T) {
		path := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"weather": ["Sunny"]}`), 0o644))
		_, err := LoadCodeTables(path)
		assert.ErrorContains(t, err, "failed to parse code tables")
	})
}

func rawDefaultTables() map[string]map[string]int {
	defaults := DefaultCodeTables()
	raw := make(map[string]map[string]int, len(defaults.tables))
	for name, table := range defaults.tables {
		raw[name] = make(map[string]int, len(table))
		for k, v := range table {
			raw[name][k] = v
		}
	}
	return raw
}
