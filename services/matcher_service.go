package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rsahana30/AUMA-DZ/models"
)

// ErrUnsupportedValveType is returned when a valve type belongs to neither
// catalog family. Callers treat it as "no candidates", not a failure.
var ErrUnsupportedValveType = errors.New("unsupported valve type")

// ValveFamily selects which catalog table a valve type is sized against.
type ValveFamily int

const (
	FamilyUnknown ValveFamily = iota
	FamilyPartturn
	FamilyMultiturn
)

// FamilyForValveType maps a valve type to its catalog family. Ball and
// Butterfly valves are quarter-turn; Gate and Penstock valves need
// multi-turn gearing.
func FamilyForValveType(valveType string) ValveFamily {
	switch strings.ToLower(strings.TrimSpace(valveType)) {
	case "ball", "butterfly":
		return FamilyPartturn
	case "gate", "penstock":
		return FamilyMultiturn
	default:
		return FamilyUnknown
	}
}

// RequiredTorque computes nominal torque times safety factor. Unparseable or
// negative torque contributes 0; a missing or unparseable safety factor
// defaults to 1. Matching must never crash on dirty form input.
func RequiredTorque(valveTorque, safetyFactor string) float64 {
	torque, err := strconv.ParseFloat(strings.TrimSpace(valveTorque), 64)
	if err != nil || torque < 0 {
		torque = 0
	}
	sf, err := strconv.ParseFloat(strings.TrimSpace(safetyFactor), 64)
	if err != nil || sf <= 0 {
		sf = 1
	}
	return torque * sf
}

// RequiredTorqueFloat is the numeric variant used by the ingestion flow.
func RequiredTorqueFloat(valveTorque, safetyFactor float64) float64 {
	if valveTorque < 0 {
		valveTorque = 0
	}
	if safetyFactor <= 0 {
		safetyFactor = 1
	}
	return valveTorque * safetyFactor
}

// MatcherService queries the family product tables for catalog entries whose
// torque rating covers a line item's required torque.
type MatcherService struct {
	DB *sql.DB
}

func NewMatcherService(db *sql.DB) *MatcherService {
	return &MatcherService{DB: db}
}

// FindCandidates returns every catalog entry of the valve type's family whose
// max torque is at least the required torque and which matches the non-empty
// attribute filters exactly (flange as substring). Empty filters are
// wildcards. Rows come back ordered by max torque ascending so the first row
// is the lowest sufficient rating; the operator can pick any other.
func (s *MatcherService) FindCandidates(ctx context.Context, req models.MatchRequest) ([]models.MatchedModel, error) {
	family := FamilyForValveType(req.ValveType)
	if family == FamilyUnknown {
		return nil, ErrUnsupportedValveType
	}

	requiredTorque := RequiredTorque(req.ValveTorque, req.SafetyFactor)

	var table, torqueCol, flangeCol string
	switch family {
	case FamilyPartturn:
		table, torqueCol, flangeCol = "partturn", "valve_max_valve_torque", "valve_flange_iso5211"
	case FamilyMultiturn:
		table, torqueCol, flangeCol = "multiturn", "max_valve_nominal_torque", "valve_flange_iso5210"
	}

	query := fmt.Sprintf(`
		SELECT model_code, %[1]s, %[2]s, gearbox_reduction_ratio, gearbox_weight, unit_price
		FROM %[3]s
		WHERE LOWER(valve_type) = $1
		  AND %[1]s >= $2
		  AND ($3 = '' OR %[2]s LIKE '%%' || $3 || '%%')
		  AND ($4 = '' OR protection_type = $4)
		  AND ($5 = '' OR painting = $5)
		ORDER BY %[1]s ASC, model_code ASC`, torqueCol, flangeCol, table)

	rows, err := s.DB.QueryContext(ctx, query,
		strings.ToLower(strings.TrimSpace(req.ValveType)),
		requiredTorque,
		strings.TrimSpace(req.TopFlange),
		strings.TrimSpace(req.Weatherproof),
		strings.TrimSpace(req.Painting),
	)
	if err != nil {
		return nil, fmt.Errorf("matching query failed: %w", err)
	}
	defer rows.Close()

	var matches []models.MatchedModel
	for rows.Next() {
		var m models.MatchedModel
		var weight, price sql.NullFloat64
		var ratio sql.NullString
		if err := rows.Scan(&m.ModelCode, &m.MaxValveTorque, &m.Flange, &ratio, &weight, &price); err != nil {
			return nil, fmt.Errorf("matching scan failed: %w", err)
		}
		m.ReductionRatio = ratio.String
		m.WeightKg = weight.Float64
		m.UnitPrice = price.Float64
		m.AumaModel = fmt.Sprintf("%s-%.0fNm [%s, Ratio: %s]",
			m.ModelCode, m.MaxValveTorque, m.Flange, m.ReductionRatio)
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return matches, nil
}

// ValidateModelFamily rejects assigning a catalog model from the wrong family
// to a line item. The model must exist in the family product table matching
// the line's valve type.
func (s *MatcherService) ValidateModelFamily(ctx context.Context, valveType, modelCode string) error {
	family := FamilyForValveType(valveType)
	if family == FamilyUnknown {
		return ErrUnsupportedValveType
	}

	table := "partturn"
	if family == FamilyMultiturn {
		table = "multiturn"
	}

	// The stored auma_model string embeds the code; match on its prefix.
	var count int
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE $1 LIKE model_code || '%%'`, table)
	if err := s.DB.QueryRowContext(ctx, query, modelCode).Scan(&count); err != nil {
		return fmt.Errorf("family check failed: %w", err)
	}
	if count == 0 {
		return ErrModelFamilyMismatch
	}
	return nil
}

// ErrModelFamilyMismatch is returned when a selected model does not belong to
// the line item's valve-type family.
var ErrModelFamilyMismatch = errors.New("selected model family does not match valve type")
