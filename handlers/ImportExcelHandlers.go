package handlers

import (
	"log"
	"mime/multipart"
	"net/http"

	"github.com/rsahana30/AUMA-DZ/models"
	"github.com/rsahana30/AUMA-DZ/services"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// Catalog spreadsheet import. Headers are resolved fuzzily against the
// family's canonical column list; an import with any unresolvable canonical
// column is rejected whole with the missing list. Rows insert in one
// transaction so a bad row never leaves a partial catalog.

// readSheet opens the uploaded workbook and returns the first sheet's rows.
func readSheet(file *multipart.FileHeader) ([][]string, error) {
	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	return f.GetRows(sheets[0])
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func rowIsEmpty(row []string) bool {
	for _, c := range row {
		if c != "" {
			return false
		}
	}
	return true
}

// importSheet runs the shared upload flow: parse, resolve headers against
// schema, build one record per data row, insert all in one transaction.
func importSheet(c *gin.Context, gdb *gorm.DB, schema services.CatalogSchema,
	build func(get func(col string) string, getNum func(col string) *float64) interface{}) {

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file not found"})
		return
	}

	rows, err := readSheet(file)
	if err != nil {
		log.Printf("catalog sheet read failed: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to process Excel file"})
		return
	}
	if len(rows) < 2 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is empty"})
		return
	}

	mapping, missing := schema.ResolveHeaders(rows[0])
	if mapping == nil {
		c.JSON(http.StatusBadRequest, models.ImportRejectedResponse{
			Error:          "Unresolvable column headers",
			MissingColumns: missing,
		})
		return
	}

	var records []interface{}
	for _, row := range rows[1:] {
		if rowIsEmpty(row) {
			continue
		}
		get := func(col string) string {
			return cell(row, mapping[col])
		}
		getNum := func(col string) *float64 {
			return services.ParseNumericCell(cell(row, mapping[col]))
		}
		records = append(records, build(get, getNum))
	}
	if len(records) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No valid data to insert"})
		return
	}

	err = gdb.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		for _, rec := range records {
			if err := tx.Create(rec).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("catalog import failed for %s: %v", schema.Table, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database insert failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Uploaded successfully",
		"rows":    len(records),
	})
}

// ImportPartturnGearbox godoc
// @Summary      Import part-turn gearbox catalog from Excel
// @Tags         import
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "xlsx file"
// @Success      200   {object}  object
// @Failure      400   {object}  models.ImportRejectedResponse
// @Router       /api/upload-partturn-gearbox [post]
func ImportPartturnGearbox(gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		importSheet(c, gdb, services.PartturnGearboxSchema,
			func(get func(string) string, getNum func(string) *float64) interface{} {
				return &models.PartturnGearbox{
					DutyClass:              get("duty_class"),
					Description:            get("description"),
					MaxValveTorqueNm:       getNum("max_valve_torque_nm"),
					ValveAttachmentFlange:  get("valve_attachment_flange_iso5211"),
					MaxShaftDiameterMm:     getNum("valve_attachment_max_shaft_diameter_mm"),
					GearboxType:            get("gearbox_type"),
					ReductionRatio:         getNum("gearbox_reduction_ratio"),
					GearboxFactor:          getNum("gearbox_factor"),
					TurnsFor90:             getNum("gearbox_turns_for_90"),
					InputShaftMm:           getNum("gearbox_input_shaft_mm"),
					InputMountingFlange:    get("gearbox_input_mounting_flange"),
					MaxInputTorqueNm:       getNum("gearbox_max_input_torque_nm"),
					WeightKg:               getNum("gearbox_weight_kg"),
					AdditionalWeightFlange: getNum("gearbox_additional_weight_extension_flange"),
					HandwheelDensityMm:     getNum("gearbox_handwheel_density_mm"),
					ManualForceN:           getNum("gearbox_manual_force_n"),
				}
			})
	}
}

// ImportMultiturnGearbox godoc
// @Summary      Import multi-turn gearbox catalog from Excel
// @Tags         import
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "xlsx file"
// @Success      200   {object}  object
// @Failure      400   {object}  models.ImportRejectedResponse
// @Router       /api/upload-multiturn-gearbox [post]
func ImportMultiturnGearbox(gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		importSheet(c, gdb, services.MultiturnGearboxSchema,
			func(get func(string) string, getNum func(string) *float64) interface{} {
				return &models.MultiturnGearbox{
					GearboxType:               get("gearbox_type"),
					ReductionRatio:            get("gearbox_reduction_ratio"),
					ActuatorType:              get("actuator_type"),
					InputMountingFlangeISO:    get("input_mounting_flange_en_iso_5210"),
					InputMountingFlangeDIN:    get("input_mounting_flange_din_3210"),
					PermissibleActuatorWeight: getNum("permissible_weight_multi_turn_actuator"),
					GearboxFactor:             getNum("gearbox_factor"),
					MaxInputNominalTorqueNm:   getNum("gearbox_max_input_nominal_torque_nm"),
					MaxInputModulatingTorque:  getNum("gearbox_max_input_modulating_torque_nm"),
					InputShaftStandardMm:      getNum("gearbox_input_shaft_standard_mm"),
					InputShaftOptionMm:        getNum("gearbox_input_shaft_option_mm"),
					WeightKg:                  getNum("gearbox_weight_kg"),
					ValveAttachmentStandard:   get("valve_attachment_standard_en_iso_5210"),
					ValveAttachmentOption:     get("valve_attachment_option_din_3210"),
					MaxValveNominalTorqueNm:   getNum("max_valve_nominal_torque_nm"),
					MaxValveModulatingTorque:  getNum("max_valve_modulating_torque_nm"),
				}
			})
	}
}

// ImportMultiturnActuator godoc
// @Summary      Import multi-turn actuator catalog from Excel
// @Tags         import
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "xlsx file"
// @Success      200   {object}  object
// @Failure      400   {object}  models.ImportRejectedResponse
// @Router       /api/upload-multiturn-actuator [post]
func ImportMultiturnActuator(gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		importSheet(c, gdb, services.MultiturnActuatorSchema,
			func(get func(string) string, getNum func(string) *float64) interface{} {
				return &models.MultiturnActuator{
					ActuatorType:            get("actuator_type"),
					OutputSpeedRpm50Hz:      getNum("output_speed_rpm_50hz"),
					OutputSpeedRpm60Hz:      getNum("output_speed_rpm_60hz"),
					TorqueRangeMinNm:        getNum("torque_range_min_nm"),
					TorqueRangeS215MaxNm:    getNum("torque_range_s2_15min_max_nm"),
					TorqueRangeS230MaxNm:    getNum("torque_range_s2_30min_max_nm"),
					RunTorqueS215MaxNm:      getNum("run_torque_s2_15min_max_nm"),
					RunTorqueS230MaxNm:      getNum("run_torque_s2_30min_max_nm"),
					NumberOfStartsPerHour:   getNum("number_of_starts_per_hour"),
					ValveAttachmentStandard: get("valve_attachment_standard_iso5210"),
					ValveAttachmentOption:   get("valve_attachment_option_din3210"),
					MaxRisingStemMm:         getNum("valve_attachment_max_density_rising_stem_mm"),
					HandwheelDensityMm:      getNum("handwheel_density_mm"),
					HandwheelReductionRatio: get("handwheel_reduction_ratio"),
					WeightKg:                getNum("weight_kg"),
				}
			})
	}
}
