package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/rsahana30/AUMA-DZ/models"
	"github.com/rsahana30/AUMA-DZ/repository"
	"github.com/rsahana30/AUMA-DZ/services"
	"github.com/rsahana30/AUMA-DZ/utils"

	"github.com/gin-gonic/gin"
)

// UploadRFQ godoc
// @Summary      Submit an RFQ batch
// @Description  Persists the shared manual fields plus one row per valve line item under a freshly allocated RFQ number. The batch is all-or-nothing.
// @Tags         rfq
// @Accept       json
// @Produce      json
// @Param        body  body      models.RFQUploadRequest  true  "Manual fields and line items"
// @Success      200   {object}  models.RFQCreatedResponse
// @Failure      400   {object}  models.ErrorResponse
// @Router       /api/rfq [post]
func UploadRFQ(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.RFQUploadRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		if req.ManualFields == nil || len(req.LineItems) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing data"})
			return
		}

		ctx, cancel := utils.GetDefaultQueryContext(c.Request.Context())
		defer cancel()

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			log.Printf("rfq tx begin failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			return
		}
		defer tx.Rollback()

		rfqNo, err := repository.NextDocumentNumber(ctx, tx, repository.KindRFQ, time.Now())
		if err != nil {
			log.Printf("rfq number allocation failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			return
		}

		mf := req.ManualFields
		for i, row := range req.LineItems {
			quantity := row.Quantity
			if quantity <= 0 {
				quantity = 1
			}
			calculated := services.RequiredTorqueFloat(row.ValveTorque, mf.SafetyFactor)

			_, err := tx.ExecContext(ctx, `
				INSERT INTO rfqs (
					rfq_no, customer, safety_factor, actuator_voltage, communication,
					motor_duty, actuator_series, controller_type, gearbox_location,
					weatherproof_type, certification, painting,
					item, valve_type, valve_tag_no, valve_size, valve_rating,
					duty_type, raising_stem, valve_torque, top_flange, stem_dia,
					mast, number_of_turns, quantity, calculated_torque
				) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$26)`,
				rfqNo, mf.Customer, mf.SafetyFactor, mf.ActuatorVoltage, mf.Communication,
				mf.MotorDuty, mf.ActuatorSeries, mf.ControllerType, mf.GearboxLocation,
				mf.Weatherproof, mf.Certification, mf.Painting,
				row.Item, row.ValveType, row.ValveTagNo, row.ValveSize, row.ValveRating,
				row.DutyType, row.RaisingStem, row.ValveTorque, row.TopFlange, row.StemDia,
				row.Mast, row.NumberOfTurns, quantity, calculated,
			)
			if err != nil {
				// Whole batch rolls back; an RFQ is never half-populated.
				log.Printf("rfq row insert failed (row %d): %v", i, err)
				c.JSON(http.StatusInternalServerError, gin.H{
					"error":  "Insertion failed",
					"detail": fmt.Sprintf("row %d could not be saved", i+1),
				})
				return
			}
		}

		if err := tx.Commit(); err != nil {
			log.Printf("rfq commit failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			return
		}

		c.JSON(http.StatusOK, models.RFQCreatedResponse{
			Message: "RFQ uploaded successfully",
			RFQNo:   rfqNo,
			Lines:   len(req.LineItems),
		})
	}
}

// GetRFQs godoc
// @Summary      List RFQs
// @Tags         rfq
// @Produce      json
// @Success      200  {array}  models.RFQSummary
// @Router       /api/rfqs [get]
func GetRFQs(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := db.Query(`
			SELECT rfq_no, customer FROM rfqs
			GROUP BY rfq_no, customer
			ORDER BY MAX(created_at) DESC`)
		if err != nil {
			log.Printf("rfq list failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			return
		}
		defer rows.Close()

		summaries := []models.RFQSummary{}
		for rows.Next() {
			var s models.RFQSummary
			if err := rows.Scan(&s.RFQNo, &s.Customer); err != nil {
				log.Printf("rfq list scan failed: %v", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
				return
			}
			summaries = append(summaries, s)
		}
		c.JSON(http.StatusOK, summaries)
	}
}

// GetRFQDetails godoc
// @Summary      Line items of one RFQ
// @Tags         rfq
// @Produce      json
// @Param        rfqNo  path      string  true  "RFQ number"
// @Success      200    {array}   models.RFQLineItem
// @Failure      404    {object}  models.ErrorResponse
// @Router       /api/rfq-details/{rfqNo} [get]
func GetRFQDetails(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		rfqNo := c.Param("rfqNo")

		rows, err := db.Query(`
			SELECT id, rfq_no, customer, safety_factor, actuator_voltage, communication,
				motor_duty, actuator_series, controller_type, gearbox_location,
				weatherproof_type, certification, painting,
				item, valve_type, valve_tag_no, valve_size, valve_rating,
				duty_type, raising_stem, valve_torque, top_flange, stem_dia,
				mast, number_of_turns, quantity, calculated_torque, auma_model, created_at
			FROM rfqs WHERE rfq_no = $1 ORDER BY id ASC`, rfqNo)
		if err != nil {
			log.Printf("rfq details failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load data"})
			return
		}
		defer rows.Close()

		var items []models.RFQLineItem
		for rows.Next() {
			var it models.RFQLineItem
			if err := rows.Scan(
				&it.ID, &it.RFQNo, &it.Customer, &it.SafetyFactor, &it.ActuatorVoltage, &it.Communication,
				&it.MotorDuty, &it.ActuatorSeries, &it.ControllerType, &it.GearboxLocation,
				&it.Weatherproof, &it.Certification, &it.Painting,
				&it.Item, &it.ValveType, &it.ValveTagNo, &it.ValveSize, &it.ValveRating,
				&it.DutyType, &it.RaisingStem, &it.ValveTorque, &it.TopFlange, &it.StemDia,
				&it.Mast, &it.NumberOfTurns, &it.Quantity, &it.CalculatedTorque, &it.AumaModel, &it.CreatedAt,
			); err != nil {
				log.Printf("rfq details scan failed: %v", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load data"})
				return
			}
			items = append(items, it)
		}
		if len(items) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "RFQ not found"})
			return
		}

		c.JSON(http.StatusOK, items)
	}
}

// GetCustomers godoc
// @Summary      Customer names for the RFQ form
// @Tags         rfq
// @Produce      json
// @Success      200  {object}  object
// @Router       /api/customers [get]
func GetCustomers(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := db.Query(`SELECT name FROM customers ORDER BY name ASC`)
		if err != nil {
			log.Printf("customer list failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load customers"})
			return
		}
		defer rows.Close()

		names := []string{}
		for rows.Next() {
			var name string
			if err := rows.Scan(&name); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load customers"})
				return
			}
			names = append(names, name)
		}
		c.JSON(http.StatusOK, gin.H{"customers": names})
	}
}

// UpdateValveRow godoc
// @Summary      Update one RFQ line item
// @Description  Partial update. Selecting a model re-checks that its catalog family matches the line's valve type; torque or safety-factor edits recompute the required torque.
// @Tags         rfq
// @Accept       json
// @Produce      json
// @Param        id    path      int                     true  "Line item id"
// @Param        body  body      models.LineItemUpdate  true  "Fields to update"
// @Success      200   {object}  models.MessageResponse
// @Failure      404   {object}  models.ErrorResponse
// @Failure      409   {object}  models.ErrorResponse
// @Router       /api/update-valve-row/{id} [put]
func UpdateValveRow(db *sql.DB, matcher *services.MatcherService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid line id"})
			return
		}

		var upd models.LineItemUpdate
		if err := c.ShouldBindJSON(&upd); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		ctx, cancel := utils.GetDefaultQueryContext(c.Request.Context())
		defer cancel()

		var valveType string
		var torque, safetyFactor float64
		err = db.QueryRowContext(ctx,
			`SELECT valve_type, valve_torque, safety_factor FROM rfqs WHERE id = $1`, id).
			Scan(&valveType, &torque, &safetyFactor)
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Line item not found"})
			return
		}
		if err != nil {
			log.Printf("line item lookup failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			return
		}

		if upd.AumaModel != nil && *upd.AumaModel != "" {
			if err := matcher.ValidateModelFamily(ctx, valveType, *upd.AumaModel); err != nil {
				if errors.Is(err, services.ErrModelFamilyMismatch) || errors.Is(err, services.ErrUnsupportedValveType) {
					c.JSON(http.StatusConflict, gin.H{"error": "Selected model does not match the valve type family"})
					return
				}
				log.Printf("family check failed: %v", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
				return
			}
		}

		if upd.ValveTorque != nil {
			torque = *upd.ValveTorque
		}
		if upd.SafetyFactor != nil {
			safetyFactor = *upd.SafetyFactor
		}
		calculated := services.RequiredTorqueFloat(torque, safetyFactor)

		set := "valve_torque = $1, safety_factor = $2, calculated_torque = $3"
		args := []interface{}{torque, safetyFactor, calculated}
		n := 3

		addSet := func(col string, val interface{}) {
			n++
			set += fmt.Sprintf(", %s = $%d", col, n)
			args = append(args, val)
		}
		if upd.AumaModel != nil {
			addSet("auma_model", *upd.AumaModel)
		}
		if upd.Quantity != nil {
			addSet("quantity", *upd.Quantity)
		}
		if upd.TopFlange != nil {
			addSet("top_flange", *upd.TopFlange)
		}
		if upd.ValveTagNo != nil {
			addSet("valve_tag_no", *upd.ValveTagNo)
		}
		if upd.DutyType != nil {
			addSet("duty_type", *upd.DutyType)
		}
		if upd.NumberOfTurns != nil {
			addSet("number_of_turns", *upd.NumberOfTurns)
		}

		args = append(args, id)
		query := fmt.Sprintf(`UPDATE rfqs SET %s WHERE id = $%d`, set, n+1)
		if _, err := db.ExecContext(ctx, query, args...); err != nil {
			log.Printf("line item update failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Update failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Row updated successfully"})
	}
}
