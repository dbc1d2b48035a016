package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/resto-pos/events"
	"github.com/yeremiapane/resto-pos/models"
	"github.com/yeremiapane/resto-pos/services"
	"github.com/yeremiapane/resto-pos/utils"
)

type MaterialController struct {
	DB *gorm.DB
}

func NewMaterialController(db *gorm.DB) *MaterialController {
	return &MaterialController{DB: db}
}

// GetAllMaterials -> daftar material untuk admin, urut nama
func (mc *MaterialController) GetAllMaterials(c *gin.Context) {
	var materials []models.Material
	if err := mc.DB.Order("name ASC").Find(&materials).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of materials", materials)
}

// GetLowStockMaterials -> material dengan stok di bawah ambang min_stock
func (mc *MaterialController) GetLowStockMaterials(c *gin.Context) {
	var materials []models.Material
	if err := mc.DB.Where("stock <= min_stock").Order("stock ASC").Find(&materials).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Low stock materials", materials)
}

// CreateMaterial
func (mc *MaterialController) CreateMaterial(c *gin.Context) {
	type request struct {
		Name     string `json:"name" binding:"required"`
		Stock    *int   `json:"stock" binding:"required"`
		Unit     string `json:"unit" binding:"required"`
		MinStock *int   `json:"min_stock"`
	}

	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	minStock := 10
	if req.MinStock != nil {
		minStock = *req.MinStock
	}

	material := models.Material{
		Name:     req.Name,
		Stock:    *req.Stock,
		Unit:     req.Unit,
		MinStock: minStock,
	}

	if err := mc.DB.Create(&material).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Material created", material)
}

// GetMaterialByID
func (mc *MaterialController) GetMaterialByID(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("material_id"))

	var material models.Material
	if err := mc.DB.First(&material, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("material not found"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Material detail", material)
}

// UpdateMaterial -> edit admin; perubahan stok dicatat sebagai adjustment
// di stock_history.
func (mc *MaterialController) UpdateMaterial(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("material_id"))

	var material models.Material
	if err := mc.DB.First(&material, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("material not found"))
		return
	}

	type request struct {
		Name     string `json:"name" binding:"required"`
		Stock    *int   `json:"stock" binding:"required"`
		Unit     string `json:"unit" binding:"required"`
		MinStock *int   `json:"min_stock"`
	}

	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	tx := mc.DB.Begin()
	if tx.Error != nil {
		utils.RespondError(c, http.StatusInternalServerError, tx.Error)
		return
	}

	history, err := services.AdjustStock(tx, &material, *req.Stock, "Stock edit by admin")
	if err != nil {
		tx.Rollback()
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	material.Name = req.Name
	material.Stock = *req.Stock
	material.Unit = req.Unit
	if req.MinStock != nil {
		material.MinStock = *req.MinStock
	}
	material.UpdatedAt = time.Now()

	if err := tx.Save(&material).Error; err != nil {
		tx.Rollback()
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if history != nil {
		events.BroadcastStockAdjusted(*history)
	}

	utils.RespondJSON(c, http.StatusOK, "Material updated", material)
}

// RestockMaterial -> tambah stok, catat ke history bertipe "in"
func (mc *MaterialController) RestockMaterial(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("material_id"))

	type request struct {
		Quantity int    `json:"quantity" binding:"required"`
		Notes    string `json:"notes"`
	}

	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	history, err := services.RestockMaterial(mc.DB, uint(id), req.Quantity, req.Notes)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, errors.New("material not found"))
			return
		}
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	events.BroadcastStockAdjusted(*history)

	utils.RespondJSON(c, http.StatusOK, "Material restocked", history)
}

// GetMaterialHistory -> baris stock_history sebuah material, terbaru dulu
func (mc *MaterialController) GetMaterialHistory(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("material_id"))

	var material models.Material
	if err := mc.DB.First(&material, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("material not found"))
		return
	}

	var history []models.StockHistory
	if err := mc.DB.Where("material_id = ?", material.ID).
		Order("created_at DESC").
		Find(&history).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Stock history", gin.H{
		"material": material,
		"history":  history,
	})
}

// DeleteMaterial
func (mc *MaterialController) DeleteMaterial(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("material_id"))

	result := mc.DB.Delete(&models.Material{}, id)
	if result.Error != nil {
		utils.RespondError(c, http.StatusInternalServerError, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondError(c, http.StatusNotFound, errors.New("material not found"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Material deleted", gin.H{"material_id": id})
}
