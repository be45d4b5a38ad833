package services

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rsahana30/AUMA-DZ/models"
)

func TestFamilyForValveType(t *testing.T) {
	testCases := []struct {
		valveType string
		expected  ValveFamily
	}{
		{"Ball", FamilyPartturn},
		{"Butterfly", FamilyPartturn},
		{"  butterfly  ", FamilyPartturn},
		{"Gate", FamilyMultiturn},
		{"PENSTOCK", FamilyMultiturn},
		{"Globe", FamilyUnknown},
		{"", FamilyUnknown},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.expected, FamilyForValveType(tc.valveType), "valve type %q", tc.valveType)
	}
}

func TestRequiredTorque(t *testing.T) {
	testCases := []struct {
		name         string
		torque       string
		safetyFactor string
		expected     float64
	}{
		{"nominal", "600", "1.5", 900},
		{"missing safety factor defaults to 1", "600", "", 600},
		{"zero safety factor defaults to 1", "600", "0", 600},
		{"negative safety factor defaults to 1", "600", "-2", 600},
		{"unparseable torque contributes zero", "abc", "2", 0},
		{"negative torque contributes zero", "-50", "2", 0},
		{"whitespace tolerated", " 250 ", " 2 ", 500},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.expected, RequiredTorque(tc.torque, tc.safetyFactor), 1e-9)
		})
	}
}

func TestRequiredTorqueFloat(t *testing.T) {
	assert.InDelta(t, 900.0, RequiredTorqueFloat(600, 1.5), 1e-9)
	assert.InDelta(t, 600.0, RequiredTorqueFloat(600, 0), 1e-9)
	assert.InDelta(t, 0.0, RequiredTorqueFloat(-5, 2), 1e-9)
}

func TestFindCandidates_MultiturnQueriesMultiturnTable(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// Gate valve, 600 Nm at safety factor 1.5: the 900 Nm requirement must
	// reach the multiturn table, and a 500 Nm model must not come back.
	mock.ExpectQuery(`FROM multiturn`).
		WithArgs("gate", 900.0, "F10", "", "").
		WillReturnRows(sqlmock.NewRows([]string{
			"model_code", "max_valve_nominal_torque", "valve_flange_iso5210",
			"gearbox_reduction_ratio", "gearbox_weight", "unit_price",
		}).
			AddRow("SA07.6", 1000.0, "F10", "52:1", 21.0, 45000.0).
			AddRow("SA10.2", 1800.0, "F10", "52:1", 28.0, 61000.0))

	svc := NewMatcherService(db)
	matches, err := svc.FindCandidates(context.Background(), models.MatchRequest{
		ValveType:    "Gate",
		ValveTorque:  "600",
		SafetyFactor: "1.5",
		TopFlange:    "F10",
	})
	require.NoError(t, err)
	require.Len(t, matches, 2)

	assert.Equal(t, "SA07.6", matches[0].ModelCode)
	assert.Equal(t, "SA07.6-1000Nm [F10, Ratio: 52:1]", matches[0].AumaModel)
	assert.InDelta(t, 45000.0, matches[0].UnitPrice, 1e-9)
	assert.Equal(t, "SA10.2", matches[1].ModelCode)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindCandidates_PartturnQueriesPartturnTable(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM partturn`).
		WithArgs("butterfly", 500.0, "", "", "").
		WillReturnRows(sqlmock.NewRows([]string{
			"model_code", "valve_max_valve_torque", "valve_flange_iso5211",
			"gearbox_reduction_ratio", "gearbox_weight", "unit_price",
		}).AddRow("GS50.3", 500.0, "F07/F10", "51:1", 9.8, 18000.0))

	svc := NewMatcherService(db)
	matches, err := svc.FindCandidates(context.Background(), models.MatchRequest{
		ValveType:   "Butterfly",
		ValveTorque: "500",
	})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "GS50.3", matches[0].ModelCode)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindCandidates_UnsupportedValveType(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	svc := NewMatcherService(db)
	_, err = svc.FindCandidates(context.Background(), models.MatchRequest{ValveType: "Globe"})
	assert.ErrorIs(t, err, ErrUnsupportedValveType)
}

func TestValidateModelFamily(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	svc := NewMatcherService(db)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM partturn`).
		WithArgs("GS50.3-500Nm [F07/F10, Ratio: 51:1]").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	assert.NoError(t, svc.ValidateModelFamily(context.Background(), "Ball", "GS50.3-500Nm [F07/F10, Ratio: 51:1]"))

	// A part-turn model assigned to a Gate line must be rejected.
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM multiturn`).
		WithArgs("GS50.3-500Nm [F07/F10, Ratio: 51:1]").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	assert.ErrorIs(t,
		svc.ValidateModelFamily(context.Background(), "Gate", "GS50.3-500Nm [F07/F10, Ratio: 51:1]"),
		ErrModelFamilyMismatch)

	assert.ErrorIs(t,
		svc.ValidateModelFamily(context.Background(), "Globe", "GS50.3"),
		ErrUnsupportedValveType)

	assert.NoError(t, mock.ExpectationsWereMet())
}
