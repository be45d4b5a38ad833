package services

import (
	"strconv"
	"strings"
	"unicode"
)

// Catalog spreadsheets arrive with headers that vary in case, spacing,
// punctuation and unit suffixes. Each catalog family has a fixed canonical
// column list; incoming headers are resolved against it by normalization,
// then an alias table, then bounded edit distance. If any canonical column
// stays unresolved the whole import is rejected with the missing list.

// MaxHeaderEditDistance bounds the fuzzy fallback. Distance 3 confuses the
// torque column variants with each other, so 2.
const MaxHeaderEditDistance = 2

// ColumnSpec is one canonical column of a catalog sheet.
type ColumnSpec struct {
	Name    string
	Aliases []string
	Numeric bool
}

// CatalogSchema is the canonical ordered column list for one catalog table.
type CatalogSchema struct {
	Table   string
	Columns []ColumnSpec
}

// PartturnGearboxSchema covers the part-turn gearbox datasheet sheet.
var PartturnGearboxSchema = CatalogSchema{
	Table: "partturn_gearbox",
	Columns: []ColumnSpec{
		{Name: "duty_class", Aliases: []string{"dutyclass"}},
		{Name: "description", Aliases: []string{"description"}},
		{Name: "max_valve_torque_nm", Aliases: []string{"maxvalvetorquenm", "maxvalvetorque"}, Numeric: true},
		{Name: "valve_attachment_flange_iso5211", Aliases: []string{"valveattachmentflangeiso5211", "valveflangeiso5211"}},
		{Name: "valve_attachment_max_shaft_diameter_mm", Aliases: []string{"valveattachmentmaxshaftdiametermm", "maxshaftdiameter"}, Numeric: true},
		{Name: "gearbox_type", Aliases: []string{"gearboxtype", "type"}},
		{Name: "gearbox_reduction_ratio", Aliases: []string{"gearboxreductionratio", "reductionratio"}, Numeric: true},
		{Name: "gearbox_factor", Aliases: []string{"gearboxfactor"}, Numeric: true},
		{Name: "gearbox_turns_for_90", Aliases: []string{"gearboxturnsfor90", "turnsfor90"}, Numeric: true},
		{Name: "gearbox_input_shaft_mm", Aliases: []string{"gearboxinputshaftmm", "inputshaft"}, Numeric: true},
		{Name: "gearbox_input_mounting_flange", Aliases: []string{"gearboxinputmountingflange", "inputmountingflange"}},
		{Name: "gearbox_max_input_torque_nm", Aliases: []string{"gearboxmaxinputtorquenm", "maxinputtorques"}, Numeric: true},
		{Name: "gearbox_weight_kg", Aliases: []string{"gearboxweightkg", "weightapproxkg", "weightkg"}, Numeric: true},
		{Name: "gearbox_additional_weight_extension_flange", Aliases: []string{"gearboxadditionalweightextensionflange", "additionalweightextensionflange"}, Numeric: true},
		{Name: "gearbox_handwheel_density_mm", Aliases: []string{"gearboxhandwheeldensitymm", "handwheeldiameter"}, Numeric: true},
		{Name: "gearbox_manual_force_n", Aliases: []string{"gearboxmanualforcen", "manualforce"}, Numeric: true},
	},
}

// MultiturnGearboxSchema covers the multi-turn gearbox datasheet sheet.
var MultiturnGearboxSchema = CatalogSchema{
	Table: "multiturn_gearbox",
	Columns: []ColumnSpec{
		{Name: "gearbox_type", Aliases: []string{"gearboxtype"}},
		{Name: "gearbox_reduction_ratio", Aliases: []string{"gearboxreductionratio"}},
		{Name: "actuator_type", Aliases: []string{"aumamultiturnactuators", "actuatortype"}},
		{Name: "input_mounting_flange_en_iso_5210", Aliases: []string{"inputmountingflangeeniso5210", "inputmountingflangeenis05210"}},
		{Name: "input_mounting_flange_din_3210", Aliases: []string{"inputmountingflangedin3210"}},
		{Name: "permissible_weight_multi_turn_actuator", Aliases: []string{"permissibleweightmultiturnactuator"}, Numeric: true},
		{Name: "gearbox_factor", Aliases: []string{"gearboxfactor"}, Numeric: true},
		{Name: "gearbox_max_input_nominal_torque_nm", Aliases: []string{"gearboxmaxinputnominaltorquenm"}, Numeric: true},
		{Name: "gearbox_max_input_modulating_torque_nm", Aliases: []string{"gearboxmaxinputmodulatingtorquenm"}, Numeric: true},
		{Name: "gearbox_input_shaft_standard_mm", Aliases: []string{"gearboxinputshaftstandardmm"}, Numeric: true},
		{Name: "gearbox_input_shaft_option_mm", Aliases: []string{"gearboxinputshaftoptionmm"}, Numeric: true},
		{Name: "gearbox_weight_kg", Aliases: []string{"gearboxweightkg", "weightapproxkg"}, Numeric: true},
		{Name: "valve_attachment_standard_en_iso_5210", Aliases: []string{"valveattachmentstandardeniso5210"}},
		{Name: "valve_attachment_option_din_3210", Aliases: []string{"valveattachmentoptiondin3210", "valveattachmentoptionoptiondin3210"}},
		{Name: "max_valve_nominal_torque_nm", Aliases: []string{"maxvalvenominaltorquenm", "maxvalvenominaltorque"}, Numeric: true},
		{Name: "max_valve_modulating_torque_nm", Aliases: []string{"maxvalvemodulatingtorquenm", "maxvalvemodulatingtorque"}, Numeric: true},
	},
}

// MultiturnActuatorSchema covers the multi-turn actuator datasheet sheet.
var MultiturnActuatorSchema = CatalogSchema{
	Table: "multiturn_actuator",
	Columns: []ColumnSpec{
		{Name: "actuator_type", Aliases: []string{"actuatortype"}},
		{Name: "output_speed_rpm_50hz", Aliases: []string{"outputspeedrpm50hz"}, Numeric: true},
		{Name: "output_speed_rpm_60hz", Aliases: []string{"outputspeedrpm60hz"}, Numeric: true},
		{Name: "torque_range_min_nm", Aliases: []string{"torquerangeminnm", "torquerangemin"}, Numeric: true},
		{Name: "torque_range_s2_15min_max_nm", Aliases: []string{"torqueranges215minmaxnm"}, Numeric: true},
		{Name: "torque_range_s2_30min_max_nm", Aliases: []string{"torqueranges230minmaxnm"}, Numeric: true},
		{Name: "run_torque_s2_15min_max_nm", Aliases: []string{"runtorques215minmaxnm"}, Numeric: true},
		{Name: "run_torque_s2_30min_max_nm", Aliases: []string{"runtorques230minmaxnm"}, Numeric: true},
		{Name: "number_of_starts_per_hour", Aliases: []string{"numberofstartsperhour", "numberofstartsstartsmax1h"}, Numeric: true},
		{Name: "valve_attachment_standard_iso5210", Aliases: []string{"valveattachmentstandardeniso5210", "valveattachmentstandardiso5210"}},
		{Name: "valve_attachment_option_din3210", Aliases: []string{"valveattachmentoptiondin3210"}},
		{Name: "valve_attachment_max_density_rising_stem_mm", Aliases: []string{"valveattachmentmaxdensityrisingstemmm"}, Numeric: true},
		{Name: "handwheel_density_mm", Aliases: []string{"handwheeldensitymm"}, Numeric: true},
		{Name: "handwheel_reduction_ratio", Aliases: []string{"handwheelreductionratio"}},
		{Name: "weight_kg", Aliases: []string{"weightkg", "weightapproxkg", "weightapprox"}, Numeric: true},
	},
}

// NormalizeHeader lowercases a header and strips everything that is not a
// letter or digit, so "Max. Valve Torque [Nm]" and "maxvalvetorquenm" agree.
func NormalizeHeader(h string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(h) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Levenshtein is the plain edit distance between two strings.
func Levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

// ResolveHeaders maps each canonical column to the index of its sheet header.
// Resolution per column: exact normalized match, then alias match, then the
// closest header within MaxHeaderEditDistance. Fail-closed: when any column
// stays unresolved the mapping is nil and the missing canonical names are
// returned so the whole import can be rejected.
func (s CatalogSchema) ResolveHeaders(headers []string) (map[string]int, []string) {
	normalized := make([]string, len(headers))
	byNorm := make(map[string]int, len(headers))
	for i, h := range headers {
		normalized[i] = NormalizeHeader(h)
		if _, exists := byNorm[normalized[i]]; !exists {
			byNorm[normalized[i]] = i
		}
	}

	mapping := make(map[string]int, len(s.Columns))
	claimed := make(map[int]bool, len(headers))
	var unresolved []ColumnSpec

	for _, col := range s.Columns {
		if idx, ok := byNorm[NormalizeHeader(col.Name)]; ok {
			mapping[col.Name] = idx
			claimed[idx] = true
			continue
		}

		found := false
		for _, alias := range col.Aliases {
			if idx, ok := byNorm[NormalizeHeader(alias)]; ok {
				mapping[col.Name] = idx
				claimed[idx] = true
				found = true
				break
			}
		}
		if !found {
			unresolved = append(unresolved, col)
		}
	}

	// The fuzzy pass only sees headers no exact or alias match claimed.
	// Sibling columns can sit within the edit bound of each other (the 50Hz
	// and 60Hz speed columns, the S2 torque pairs), so a claimed header must
	// never also satisfy a near-miss, and an ambiguous tie is not a match.
	var missing []string
	for _, col := range unresolved {
		target := NormalizeHeader(col.Name)
		bestIdx, bestDist, tied := -1, MaxHeaderEditDistance+1, false
		for i, n := range normalized {
			if claimed[i] {
				continue
			}
			switch d := Levenshtein(n, target); {
			case d < bestDist:
				bestDist, bestIdx, tied = d, i, false
			case d == bestDist:
				tied = true
			}
		}
		if bestIdx >= 0 && !tied {
			mapping[col.Name] = bestIdx
			claimed[bestIdx] = true
			continue
		}

		missing = append(missing, col.Name)
	}

	if len(missing) > 0 {
		return nil, missing
	}
	return mapping, nil
}

// ParseNumericCell coerces a spreadsheet cell to a float. Comma decimals,
// unit suffixes and dash placeholders all occur in the source sheets; a cell
// that carries no digits is null rather than an error.
func ParseNumericCell(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "-" || raw == "–" {
		return nil
	}

	var b strings.Builder
	for _, r := range raw {
		if unicode.IsDigit(r) || r == '.' || r == ',' || r == '-' {
			b.WriteRune(r)
		}
	}
	cleaned := strings.ReplaceAll(b.String(), ",", ".")
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil
	}
	return &v
}
