package handlers

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"

	"github.com/rsahana30/AUMA-DZ/models"
	"github.com/rsahana30/AUMA-DZ/services"
	"github.com/rsahana30/AUMA-DZ/utils"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

func numCell(v *float64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}

// writeWorkbook streams one sheet with the schema's canonical headers and the
// given rows back as an xlsx attachment.
func writeWorkbook(c *gin.Context, schema services.CatalogSchema, rows [][]interface{}) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, col := range schema.Columns {
		ref, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, ref, col.Name)
	}
	for r, row := range rows {
		for i, v := range row {
			ref, _ := excelize.CoordinatesToCellName(i+1, r+2)
			f.SetCellValue(sheet, ref, v)
		}
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.xlsx", schema.Table))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(c.Writer); err != nil {
		log.Printf("xlsx export of %s failed: %v", schema.Table, err)
	}
}

// ExportPartturnGearbox godoc
// @Summary      Export part-turn gearbox catalog as xlsx
// @Tags         export
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200
// @Router       /api/export-partturn-gearbox [get]
func ExportPartturnGearbox(gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var items []models.PartturnGearbox
		if err := gdb.WithContext(c.Request.Context()).Order("id").Find(&items).Error; err != nil {
			log.Printf("partturn gearbox export failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}

		rows := make([][]interface{}, 0, len(items))
		for _, it := range items {
			rows = append(rows, []interface{}{
				it.DutyClass, it.Description, numCell(it.MaxValveTorqueNm),
				it.ValveAttachmentFlange, numCell(it.MaxShaftDiameterMm),
				it.GearboxType, numCell(it.ReductionRatio), numCell(it.GearboxFactor),
				numCell(it.TurnsFor90), numCell(it.InputShaftMm), it.InputMountingFlange,
				numCell(it.MaxInputTorqueNm), numCell(it.WeightKg),
				numCell(it.AdditionalWeightFlange), numCell(it.HandwheelDensityMm),
				numCell(it.ManualForceN),
			})
		}
		writeWorkbook(c, services.PartturnGearboxSchema, rows)
	}
}

// ExportMultiturnGearbox godoc
// @Summary      Export multi-turn gearbox catalog as xlsx
// @Tags         export
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200
// @Router       /api/export-multiturn-gearbox [get]
func ExportMultiturnGearbox(gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var items []models.MultiturnGearbox
		if err := gdb.WithContext(c.Request.Context()).Order("id").Find(&items).Error; err != nil {
			log.Printf("multiturn gearbox export failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}

		rows := make([][]interface{}, 0, len(items))
		for _, it := range items {
			rows = append(rows, []interface{}{
				it.GearboxType, it.ReductionRatio, it.ActuatorType,
				it.InputMountingFlangeISO, it.InputMountingFlangeDIN,
				numCell(it.PermissibleActuatorWeight), numCell(it.GearboxFactor),
				numCell(it.MaxInputNominalTorqueNm), numCell(it.MaxInputModulatingTorque),
				numCell(it.InputShaftStandardMm), numCell(it.InputShaftOptionMm),
				numCell(it.WeightKg), it.ValveAttachmentStandard, it.ValveAttachmentOption,
				numCell(it.MaxValveNominalTorqueNm), numCell(it.MaxValveModulatingTorque),
			})
		}
		writeWorkbook(c, services.MultiturnGearboxSchema, rows)
	}
}

// ExportMultiturnActuator godoc
// @Summary      Export multi-turn actuator catalog as xlsx
// @Tags         export
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200
// @Router       /api/export-multiturn-actuator [get]
func ExportMultiturnActuator(gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var items []models.MultiturnActuator
		if err := gdb.WithContext(c.Request.Context()).Order("id").Find(&items).Error; err != nil {
			log.Printf("multiturn actuator export failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}

		rows := make([][]interface{}, 0, len(items))
		for _, it := range items {
			rows = append(rows, []interface{}{
				it.ActuatorType, numCell(it.OutputSpeedRpm50Hz), numCell(it.OutputSpeedRpm60Hz),
				numCell(it.TorqueRangeMinNm), numCell(it.TorqueRangeS215MaxNm),
				numCell(it.TorqueRangeS230MaxNm), numCell(it.RunTorqueS215MaxNm),
				numCell(it.RunTorqueS230MaxNm), numCell(it.NumberOfStartsPerHour),
				it.ValveAttachmentStandard, it.ValveAttachmentOption,
				numCell(it.MaxRisingStemMm), numCell(it.HandwheelDensityMm),
				it.HandwheelReductionRatio, numCell(it.WeightKg),
			})
		}
		writeWorkbook(c, services.MultiturnActuatorSchema, rows)
	}
}

// ExportRFQ godoc
// @Summary      Export one request's line items as xlsx
// @Tags         export
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        rfqNo  path  string  true  "RFQ number"
// @Success      200
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/rfqs/{rfqNo}/export [get]
func ExportRFQ(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		rfqNo := c.Param("rfqNo")

		ctx, cancel := utils.GetDefaultQueryContext(c.Request.Context())
		defer cancel()

		rows, err := db.QueryContext(ctx, `
			SELECT valve_tag_no, valve_type, valve_size, valve_torque, safety_factor,
			       calculated_torque, auma_model, quantity
			FROM rfqs WHERE rfq_no = $1 ORDER BY id`, rfqNo)
		if err != nil {
			log.Printf("rfq export query failed for %s: %v", rfqNo, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		defer rows.Close()

		headers := []string{"Tag Number", "Valve Type", "Valve Size", "Valve Torque",
			"Safety Factor", "Calculated Torque", "AUMA Model", "Quantity"}

		f := excelize.NewFile()
		defer f.Close()
		sheet := f.GetSheetName(0)
		for i, h := range headers {
			ref, _ := excelize.CoordinatesToCellName(i+1, 1)
			f.SetCellValue(sheet, ref, h)
		}

		n := 0
		for rows.Next() {
			var tag, vtype, vsize, model string
			var torque, sf, calc float64
			var qty int
			if err := rows.Scan(&tag, &vtype, &vsize, &torque, &sf, &calc, &model, &qty); err != nil {
				log.Printf("rfq export scan failed for %s: %v", rfqNo, err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
				return
			}
			vals := []interface{}{tag, vtype, vsize, torque, sf, calc, model, qty}
			for i, v := range vals {
				ref, _ := excelize.CoordinatesToCellName(i+1, n+2)
				f.SetCellValue(sheet, ref, v)
			}
			n++
		}
		if err := rows.Err(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		if n == 0 {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "RFQ not found"})
			return
		}

		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.xlsx", rfqNo))
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		if err := f.Write(c.Writer); err != nil {
			log.Printf("rfq export write failed for %s: %v", rfqNo, err)
		}
	}
}
