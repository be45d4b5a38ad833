package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeHeader(t *testing.T) {
	testCases := []struct {
		in       string
		expected string
	}{
		{"Max. Valve Torque [Nm]", "maxvalvetorquenm"},
		{"  Gearbox type ", "gearboxtype"},
		{"REDUCTION_RATIO", "reductionratio"},
		{"turns for 90°", "turnsfor90"},
		{"", ""},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.expected, NormalizeHeader(tc.in), "header %q", tc.in)
	}
}

func TestLevenshtein(t *testing.T) {
	assert.Equal(t, 0, Levenshtein("torque", "torque"))
	assert.Equal(t, 1, Levenshtein("torque", "torqe"))
	assert.Equal(t, 2, Levenshtein("weightkg", "weighkgs"))
	assert.Equal(t, 5, Levenshtein("", "valve"))
	assert.Equal(t, 3, Levenshtein("abc", ""))
}

func TestResolveHeaders(t *testing.T) {
	schema := CatalogSchema{
		Table: "test_table",
		Columns: []ColumnSpec{
			{Name: "gearbox_type", Aliases: []string{"type"}},
			{Name: "max_valve_torque_nm", Aliases: []string{"maxvalvetorque"}, Numeric: true},
			{Name: "gearbox_weight_kg", Aliases: []string{"weightapproxkg"}, Numeric: true},
		},
	}

	t.Run("exact normalized match", func(t *testing.T) {
		mapping, missing := schema.ResolveHeaders([]string{
			"Gearbox Type", "Max. Valve Torque [Nm]", "Gearbox Weight (kg)",
		})
		require.Nil(t, missing)
		assert.Equal(t, 0, mapping["gearbox_type"])
		assert.Equal(t, 1, mapping["max_valve_torque_nm"])
		assert.Equal(t, 2, mapping["gearbox_weight_kg"])
	})

	t.Run("alias match", func(t *testing.T) {
		mapping, missing := schema.ResolveHeaders([]string{
			"Type", "Max valve torque", "Weight approx. [kg]",
		})
		require.Nil(t, missing)
		assert.Equal(t, 0, mapping["gearbox_type"])
		assert.Equal(t, 1, mapping["max_valve_torque_nm"])
		assert.Equal(t, 2, mapping["gearbox_weight_kg"])
	})

	t.Run("fuzzy match within edit distance", func(t *testing.T) {
		// One typo and one dropped letter, both within distance 2.
		mapping, missing := schema.ResolveHeaders([]string{
			"gearbox_tpye", "max_valve_torqu_nm", "gearbox_weight_kg",
		})
		require.Nil(t, missing)
		assert.Equal(t, 0, mapping["gearbox_type"])
		assert.Equal(t, 1, mapping["max_valve_torque_nm"])
	})

	t.Run("fail closed on unresolvable column", func(t *testing.T) {
		mapping, missing := schema.ResolveHeaders([]string{
			"Gearbox Type", "Completely Different", "Gearbox Weight (kg)",
		})
		assert.Nil(t, mapping)
		assert.Equal(t, []string{"max_valve_torque_nm"}, missing)
	})
}

func TestResolveHeaders_MissingSiblingColumnFailsClosed(t *testing.T) {
	// The 50Hz and 60Hz speed headers are one edit apart. A sheet without
	// the 60Hz column must be rejected, not double-bound to the 50Hz cell.
	headers := make([]string, 0, len(MultiturnActuatorSchema.Columns)-1)
	for _, col := range MultiturnActuatorSchema.Columns {
		if col.Name == "output_speed_rpm_60hz" {
			continue
		}
		headers = append(headers, col.Name)
	}

	mapping, missing := MultiturnActuatorSchema.ResolveHeaders(headers)
	assert.Nil(t, mapping)
	assert.Equal(t, []string{"output_speed_rpm_60hz"}, missing)
}

func TestResolveHeaders_AmbiguousFuzzyTieFailsClosed(t *testing.T) {
	schema := CatalogSchema{
		Table: "test_table",
		Columns: []ColumnSpec{
			{Name: "output_speed_rpm_60hz", Numeric: true},
		},
	}

	// Both headers are one edit from the target; neither is a safe pick.
	mapping, missing := schema.ResolveHeaders([]string{
		"output_speed_rpm_50hz", "output_speed_rpm_70hz",
	})
	assert.Nil(t, mapping)
	assert.Equal(t, []string{"output_speed_rpm_60hz"}, missing)
}

func TestResolveHeaders_RealPartturnSheet(t *testing.T) {
	headers := make([]string, 0, len(PartturnGearboxSchema.Columns))
	for _, col := range PartturnGearboxSchema.Columns {
		headers = append(headers, col.Name)
	}

	mapping, missing := PartturnGearboxSchema.ResolveHeaders(headers)
	require.Nil(t, missing)
	assert.Len(t, mapping, len(PartturnGearboxSchema.Columns))
}

func TestParseNumericCell(t *testing.T) {
	testCases := []struct {
		in       string
		expected *float64
	}{
		{"250", f(250)},
		{"1,5", f(1.5)},
		{"250 Nm", f(250)},
		{" 12.7 ", f(12.7)},
		{"-", nil},
		{"–", nil},
		{"", nil},
		{"n/a", nil},
	}
	for _, tc := range testCases {
		got := ParseNumericCell(tc.in)
		if tc.expected == nil {
			assert.Nil(t, got, "cell %q", tc.in)
		} else {
			require.NotNil(t, got, "cell %q", tc.in)
			assert.InDelta(t, *tc.expected, *got, 1e-9, "cell %q", tc.in)
		}
	}
}

func f(v float64) *float64 { return &v }
