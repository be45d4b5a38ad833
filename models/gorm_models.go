package models

import (
	"time"
)

// GORM-managed catalog tables. These hold immutable reference data created by
// spreadsheet import or manual entry, never by the matching flow.

// PartturnModel is a sellable part-turn gearbox row (Ball/Butterfly valves).
type PartturnModel struct {
	ID             uint    `gorm:"primaryKey;column:id" json:"id"`
	ModelCode      string  `gorm:"column:model_code;not null" json:"model_code"`
	ValveType      string  `gorm:"column:valve_type;not null" json:"valve_type"`
	Description    string  `gorm:"column:description" json:"description"`
	DutyClass      string  `gorm:"column:duty_class" json:"duty_class"`
	MaxValveTorque float64 `gorm:"column:valve_max_valve_torque;not null" json:"valve_max_valve_torque"`
	FlangeISO5211  string  `gorm:"column:valve_flange_iso5211" json:"valve_flange_iso5211"`
	ProtectionType string  `gorm:"column:protection_type" json:"protection_type"`
	Painting       string  `gorm:"column:painting" json:"painting"`
	MountingFlange string  `gorm:"column:gearbox_input_mounting_flange" json:"gearbox_input_mounting_flange"`
	ReductionRatio string  `gorm:"column:gearbox_reduction_ratio" json:"gearbox_reduction_ratio"`
	WeightKg       float64 `gorm:"column:gearbox_weight" json:"gearbox_weight"`
	UnitPrice      float64 `gorm:"column:unit_price" json:"unit_price"`
}

func (PartturnModel) TableName() string {
	return "partturn"
}

// MultiturnModel is a sellable multi-turn row (Gate/Penstock valves).
type MultiturnModel struct {
	ID                    uint    `gorm:"primaryKey;column:id" json:"id"`
	ModelCode             string  `gorm:"column:model_code;not null" json:"model_code"`
	ValveType             string  `gorm:"column:valve_type;not null" json:"valve_type"`
	Description           string  `gorm:"column:description" json:"description"`
	MaxValveNominalTorque float64 `gorm:"column:max_valve_nominal_torque;not null" json:"max_valve_nominal_torque"`
	FlangeISO5210         string  `gorm:"column:valve_flange_iso5210" json:"valve_flange_iso5210"`
	ProtectionType        string  `gorm:"column:protection_type" json:"protection_type"`
	Painting              string  `gorm:"column:painting" json:"painting"`
	ReductionRatio        string  `gorm:"column:gearbox_reduction_ratio" json:"gearbox_reduction_ratio"`
	WeightKg              float64 `gorm:"column:gearbox_weight" json:"gearbox_weight"`
	UnitPrice             float64 `gorm:"column:unit_price" json:"unit_price"`
}

func (MultiturnModel) TableName() string {
	return "multiturn"
}

// PartturnGearbox mirrors the part-turn gearbox datasheet catalog.
type PartturnGearbox struct {
	ID                      uint     `gorm:"primaryKey;column:id" json:"id"`
	DutyClass               string   `gorm:"column:duty_class" json:"duty_class"`
	Description             string   `gorm:"column:description" json:"description"`
	MaxValveTorqueNm        *float64 `gorm:"column:max_valve_torque_nm" json:"max_valve_torque_nm"`
	ValveAttachmentFlange   string   `gorm:"column:valve_attachment_flange_iso5211" json:"valve_attachment_flange_iso5211"`
	MaxShaftDiameterMm      *float64 `gorm:"column:valve_attachment_max_shaft_diameter_mm" json:"valve_attachment_max_shaft_diameter_mm"`
	GearboxType             string   `gorm:"column:gearbox_type" json:"gearbox_type"`
	ReductionRatio          *float64 `gorm:"column:gearbox_reduction_ratio" json:"gearbox_reduction_ratio"`
	GearboxFactor           *float64 `gorm:"column:gearbox_factor" json:"gearbox_factor"`
	TurnsFor90              *float64 `gorm:"column:gearbox_turns_for_90" json:"gearbox_turns_for_90"`
	InputShaftMm            *float64 `gorm:"column:gearbox_input_shaft_mm" json:"gearbox_input_shaft_mm"`
	InputMountingFlange     string   `gorm:"column:gearbox_input_mounting_flange" json:"gearbox_input_mounting_flange"`
	MaxInputTorqueNm        *float64 `gorm:"column:gearbox_max_input_torque_nm" json:"gearbox_max_input_torque_nm"`
	WeightKg                *float64 `gorm:"column:gearbox_weight_kg" json:"gearbox_weight_kg"`
	AdditionalWeightFlange  *float64 `gorm:"column:gearbox_additional_weight_extension_flange" json:"gearbox_additional_weight_extension_flange"`
	HandwheelDensityMm      *float64 `gorm:"column:gearbox_handwheel_density_mm" json:"gearbox_handwheel_density_mm"`
	ManualForceN            *float64 `gorm:"column:gearbox_manual_force_n" json:"gearbox_manual_force_n"`
	CreatedAt               time.Time `gorm:"column:created_at" json:"created_at"`
}

func (PartturnGearbox) TableName() string {
	return "partturn_gearbox"
}

// MultiturnGearbox mirrors the multi-turn gearbox datasheet catalog.
type MultiturnGearbox struct {
	ID                        uint     `gorm:"primaryKey;column:id" json:"id"`
	GearboxType               string   `gorm:"column:gearbox_type" json:"gearbox_type"`
	ReductionRatio            string   `gorm:"column:gearbox_reduction_ratio" json:"gearbox_reduction_ratio"`
	ActuatorType              string   `gorm:"column:actuator_type" json:"actuator_type"`
	InputMountingFlangeISO    string   `gorm:"column:input_mounting_flange_en_iso_5210" json:"input_mounting_flange_en_iso_5210"`
	InputMountingFlangeDIN    string   `gorm:"column:input_mounting_flange_din_3210" json:"input_mounting_flange_din_3210"`
	PermissibleActuatorWeight *float64 `gorm:"column:permissible_weight_multi_turn_actuator" json:"permissible_weight_multi_turn_actuator"`
	GearboxFactor             *float64 `gorm:"column:gearbox_factor" json:"gearbox_factor"`
	MaxInputNominalTorqueNm   *float64 `gorm:"column:gearbox_max_input_nominal_torque_nm" json:"gearbox_max_input_nominal_torque_nm"`
	MaxInputModulatingTorque  *float64 `gorm:"column:gearbox_max_input_modulating_torque_nm" json:"gearbox_max_input_modulating_torque_nm"`
	InputShaftStandardMm      *float64 `gorm:"column:gearbox_input_shaft_standard_mm" json:"gearbox_input_shaft_standard_mm"`
	InputShaftOptionMm        *float64 `gorm:"column:gearbox_input_shaft_option_mm" json:"gearbox_input_shaft_option_mm"`
	WeightKg                  *float64 `gorm:"column:gearbox_weight_kg" json:"gearbox_weight_kg"`
	ValveAttachmentStandard   string   `gorm:"column:valve_attachment_standard_en_iso_5210" json:"valve_attachment_standard_en_iso_5210"`
	ValveAttachmentOption     string   `gorm:"column:valve_attachment_option_din_3210" json:"valve_attachment_option_din_3210"`
	MaxValveNominalTorqueNm   *float64 `gorm:"column:max_valve_nominal_torque_nm" json:"max_valve_nominal_torque_nm"`
	MaxValveModulatingTorque  *float64 `gorm:"column:max_valve_modulating_torque_nm" json:"max_valve_modulating_torque_nm"`
	MaxAllowableStemDiameter  *float64 `gorm:"column:maximum_allowable_stem_dia" json:"maximum_allowable_stem_dia"`
	CreatedAt                 time.Time `gorm:"column:created_at" json:"created_at"`
}

func (MultiturnGearbox) TableName() string {
	return "multiturn_gearbox"
}

// MultiturnActuator mirrors the multi-turn actuator datasheet catalog.
type MultiturnActuator struct {
	ID                      uint     `gorm:"primaryKey;column:id" json:"id"`
	ActuatorType            string   `gorm:"column:actuator_type" json:"actuator_type"`
	OutputSpeedRpm50Hz      *float64 `gorm:"column:output_speed_rpm_50hz" json:"output_speed_rpm_50hz"`
	OutputSpeedRpm60Hz      *float64 `gorm:"column:output_speed_rpm_60hz" json:"output_speed_rpm_60hz"`
	TorqueRangeMinNm        *float64 `gorm:"column:torque_range_min_nm" json:"torque_range_min_nm"`
	TorqueRangeS215MaxNm    *float64 `gorm:"column:torque_range_s2_15min_max_nm" json:"torque_range_s2_15min_max_nm"`
	TorqueRangeS230MaxNm    *float64 `gorm:"column:torque_range_s2_30min_max_nm" json:"torque_range_s2_30min_max_nm"`
	RunTorqueS215MaxNm      *float64 `gorm:"column:run_torque_s2_15min_max_nm" json:"run_torque_s2_15min_max_nm"`
	RunTorqueS230MaxNm      *float64 `gorm:"column:run_torque_s2_30min_max_nm" json:"run_torque_s2_30min_max_nm"`
	NumberOfStartsPerHour   *float64 `gorm:"column:number_of_starts_per_hour" json:"number_of_starts_per_hour"`
	ValveAttachmentStandard string   `gorm:"column:valve_attachment_standard_iso5210" json:"valve_attachment_standard_iso5210"`
	ValveAttachmentOption   string   `gorm:"column:valve_attachment_option_din3210" json:"valve_attachment_option_din3210"`
	MaxRisingStemMm         *float64 `gorm:"column:valve_attachment_max_density_rising_stem_mm" json:"valve_attachment_max_density_rising_stem_mm"`
	HandwheelDensityMm      *float64 `gorm:"column:handwheel_density_mm" json:"handwheel_density_mm"`
	HandwheelReductionRatio string   `gorm:"column:handwheel_reduction_ratio" json:"handwheel_reduction_ratio"`
	WeightKg                *float64 `gorm:"column:weight_kg" json:"weight_kg"`
	CreatedAt               time.Time `gorm:"column:created_at" json:"created_at"`
}

func (MultiturnActuator) TableName() string {
	return "multiturn_actuator"
}
