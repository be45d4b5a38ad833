package handlers

import (
	"database/sql"
	"errors"
	"log"
	"net/http"

	"github.com/rsahana30/AUMA-DZ/models"
	"github.com/rsahana30/AUMA-DZ/services"
	"github.com/rsahana30/AUMA-DZ/utils"

	"github.com/gin-gonic/gin"
)

// GetMatchingModels godoc
// @Summary      Match catalog models against a valve line
// @Description  Returns every catalog entry of the valve type's family whose torque rating covers valveTorque x safetyFactor and which matches the non-empty attribute filters. An unsupported valve type yields an empty list with a reason, not an error.
// @Tags         matching
// @Accept       json
// @Produce      json
// @Param        body  body      models.MatchRequest  true  "Valve line and filters"
// @Success      200   {object}  models.MatchResponse
// @Router       /api/get-matching-models [post]
func GetMatchingModels(matcher *services.MatcherService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.MatchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		ctx, cancel := utils.GetDefaultQueryContext(c.Request.Context())
		defer cancel()

		matches, err := matcher.FindCandidates(ctx, req)
		if err != nil {
			if errors.Is(err, services.ErrUnsupportedValveType) {
				c.JSON(http.StatusOK, models.MatchResponse{
					Models: []models.MatchedModel{},
					Reason: "unsupported valve type",
				})
				return
			}
			log.Printf("matching failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch matching models"})
			return
		}
		if matches == nil {
			matches = []models.MatchedModel{}
		}

		c.JSON(http.StatusOK, models.MatchResponse{Models: matches})
	}
}

// SelectModelDefaults godoc
// @Summary      Default gearbox candidates per RFQ line
// @Description  Joins each line item with the family gearbox catalog rows whose torque rating covers its required torque, lowest rating first. The first candidate per line is the deterministic default; the operator can override it.
// @Tags         matching
// @Produce      json
// @Param        rfqNo  path     string  true  "RFQ number"
// @Success      200    {array}  models.DefaultCandidate
// @Router       /api/select-model/{rfqNo} [get]
func SelectModelDefaults(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		rfqNo := c.Param("rfqNo")

		rows, err := db.Query(`
			SELECT r.id, r.rfq_no, r.valve_type, r.quantity, r.calculated_torque,
				COALESCE(g.max_valve_torque_nm, mg.max_valve_nominal_torque_nm, 0),
				COALESCE(g.gearbox_type, mg.gearbox_type, ''),
				COALESCE(CAST(g.gearbox_reduction_ratio AS TEXT), mg.gearbox_reduction_ratio, ''),
				COALESCE(g.gearbox_factor, mg.gearbox_factor, 0)
			FROM rfqs r
			LEFT JOIN partturn_gearbox g
				ON LOWER(r.valve_type) IN ('ball', 'butterfly')
				AND r.calculated_torque <= g.max_valve_torque_nm
			LEFT JOIN multiturn_gearbox mg
				ON LOWER(r.valve_type) IN ('gate', 'penstock')
				AND r.calculated_torque <= mg.max_valve_nominal_torque_nm
			WHERE r.rfq_no = $1
			ORDER BY r.id ASC,
				COALESCE(g.max_valve_torque_nm, mg.max_valve_nominal_torque_nm, 0) ASC`, rfqNo)
		if err != nil {
			log.Printf("select-model query failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			return
		}
		defer rows.Close()

		candidates := []models.DefaultCandidate{}
		for rows.Next() {
			var cand models.DefaultCandidate
			if err := rows.Scan(&cand.LineID, &cand.RFQNo, &cand.ValveType, &cand.Quantity,
				&cand.CalculatedTorque, &cand.MaxValveTorque, &cand.GearboxType,
				&cand.ReductionRatio, &cand.GearboxFactor); err != nil {
				log.Printf("select-model scan failed: %v", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
				return
			}
			candidates = append(candidates, cand)
		}

		c.JSON(http.StatusOK, candidates)
	}
}
