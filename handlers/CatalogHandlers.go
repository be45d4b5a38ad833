package handlers

import (
	"log"
	"net/http"

	"github.com/rsahana30/AUMA-DZ/models"
	"github.com/rsahana30/AUMA-DZ/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Manual catalog entry and listing. The catalog is reference data: rows are
// created here or by spreadsheet import, never by the matching flow.

// SavePartturnModel godoc
// @Summary      Add a part-turn catalog model
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Param        body  body      models.PartturnModel  true  "Catalog row"
// @Success      200   {object}  models.MessageResponse
// @Failure      400   {object}  models.ErrorResponse
// @Router       /api/save-partturn [post]
func SavePartturnModel(gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var row models.PartturnModel
		if err := c.ShouldBindJSON(&row); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		if row.ModelCode == "" || services.FamilyForValveType(row.ValveType) != services.FamilyPartturn {
			c.JSON(http.StatusBadRequest, gin.H{"error": "model_code and a part-turn valve_type are required"})
			return
		}
		if err := gdb.WithContext(c.Request.Context()).Create(&row).Error; err != nil {
			log.Printf("partturn save failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database insert failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Partturn saved successfully"})
	}
}

// SaveMultiturnModel godoc
// @Summary      Add a multi-turn catalog model
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Param        body  body      models.MultiturnModel  true  "Catalog row"
// @Success      200   {object}  models.MessageResponse
// @Failure      400   {object}  models.ErrorResponse
// @Router       /api/save-multiturn [post]
func SaveMultiturnModel(gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var row models.MultiturnModel
		if err := c.ShouldBindJSON(&row); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		if row.ModelCode == "" || services.FamilyForValveType(row.ValveType) != services.FamilyMultiturn {
			c.JSON(http.StatusBadRequest, gin.H{"error": "model_code and a multi-turn valve_type are required"})
			return
		}
		if err := gdb.WithContext(c.Request.Context()).Create(&row).Error; err != nil {
			log.Printf("multiturn save failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database insert failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Multiturn saved successfully"})
	}
}

// SavePartturnGearbox godoc
// @Summary      Add a part-turn gearbox datasheet row
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Param        body  body      models.PartturnGearbox  true  "Catalog row"
// @Success      200   {object}  models.MessageResponse
// @Router       /api/save-partturn-gearbox [post]
func SavePartturnGearbox(gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var row models.PartturnGearbox
		if err := c.ShouldBindJSON(&row); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		if err := gdb.WithContext(c.Request.Context()).Create(&row).Error; err != nil {
			log.Printf("partturn gearbox save failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database insert failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Partturn gearbox saved successfully"})
	}
}

// SaveMultiturnGearbox godoc
// @Summary      Add a multi-turn gearbox datasheet row
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Param        body  body      models.MultiturnGearbox  true  "Catalog row"
// @Success      200   {object}  models.MessageResponse
// @Router       /api/save-multiturn-gearbox [post]
func SaveMultiturnGearbox(gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var row models.MultiturnGearbox
		if err := c.ShouldBindJSON(&row); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		if err := gdb.WithContext(c.Request.Context()).Create(&row).Error; err != nil {
			log.Printf("multiturn gearbox save failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database insert failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Multiturn gearbox saved successfully"})
	}
}

// SaveMultiturnActuator godoc
// @Summary      Add a multi-turn actuator datasheet row
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Param        body  body      models.MultiturnActuator  true  "Catalog row"
// @Success      200   {object}  models.MessageResponse
// @Router       /api/save-multiturn-actuator [post]
func SaveMultiturnActuator(gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var row models.MultiturnActuator
		if err := c.ShouldBindJSON(&row); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		if err := gdb.WithContext(c.Request.Context()).Create(&row).Error; err != nil {
			log.Printf("multiturn actuator save failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database insert failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Multiturn actuator saved successfully"})
	}
}

// ListPartturnGearboxes godoc
// @Summary      List part-turn gearbox catalog rows
// @Tags         catalog
// @Produce      json
// @Success      200  {array}  models.PartturnGearbox
// @Router       /api/partturn-gearboxes [get]
func ListPartturnGearboxes(gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var rows []models.PartturnGearbox
		if err := gdb.WithContext(c.Request.Context()).Order("id").Find(&rows).Error; err != nil {
			log.Printf("partturn gearbox list failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

// ListMultiturnGearboxes godoc
// @Summary      List multi-turn gearbox catalog rows
// @Tags         catalog
// @Produce      json
// @Success      200  {array}  models.MultiturnGearbox
// @Router       /api/multiturn-gearboxes [get]
func ListMultiturnGearboxes(gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var rows []models.MultiturnGearbox
		if err := gdb.WithContext(c.Request.Context()).Order("id").Find(&rows).Error; err != nil {
			log.Printf("multiturn gearbox list failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

// ListMultiturnActuators godoc
// @Summary      List multi-turn actuator catalog rows
// @Tags         catalog
// @Produce      json
// @Success      200  {array}  models.MultiturnActuator
// @Router       /api/multiturn-actuators [get]
func ListMultiturnActuators(gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var rows []models.MultiturnActuator
		if err := gdb.WithContext(c.Request.Context()).Order("id").Find(&rows).Error; err != nil {
			log.Printf("multiturn actuator list failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}
