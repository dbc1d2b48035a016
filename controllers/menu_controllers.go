package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/resto-pos/models"
	"github.com/yeremiapane/resto-pos/services"
	"github.com/yeremiapane/resto-pos/utils"
)

type MenuController struct {
	DB *gorm.DB
}

func NewMenuController(db *gorm.DB) *MenuController {
	return &MenuController{DB: db}
}

type menuMaterialReq struct {
	MaterialID     uint `json:"material_id" binding:"required"`
	QuantityNeeded int  `json:"quantity_needed" binding:"required"`
}

type menuReq struct {
	CategoryID  *uint             `json:"category_id"`
	Name        string            `json:"name" binding:"required"`
	Description string            `json:"description"`
	Price       *float64          `json:"price" binding:"required"`
	Image       *string           `json:"image"`
	IsActive    *bool             `json:"is_active"`
	Materials   []menuMaterialReq `json:"materials"`
}

// GetAllMenus -> daftar menu untuk admin. Flag is_available di sini hanya
// menandai material resep yang stoknya habis total (variasi listing lama).
func (mc *MenuController) GetAllMenus(c *gin.Context) {
	var menus []models.Menu
	if err := mc.DB.Preload("Category").
		Preload("Materials.Material").
		Order("id DESC").
		Find(&menus).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	type menuWithFlag struct {
		models.Menu
		IsAvailable bool `json:"is_available"`
	}

	result := make([]menuWithFlag, 0, len(menus))
	for _, menu := range menus {
		available := true
		for _, mm := range menu.Materials {
			if mm.Material.Stock == 0 {
				available = false
				break
			}
		}
		result = append(result, menuWithFlag{Menu: menu, IsAvailable: available})
	}

	utils.RespondJSON(c, http.StatusOK, "List of menus", result)
}

// GetAvailableMenus -> menu aktif dengan kalkulasi max_servings untuk
// halaman pemesanan customer.
func (mc *MenuController) GetAvailableMenus(c *gin.Context) {
	menus, err := services.ListAvailableMenus(mc.DB)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Available menus", menus)
}

// CheckAvailability -> rincian kecukupan material untuk satu menu
func (mc *MenuController) CheckAvailability(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("menu_id"))

	var menu models.Menu
	if err := mc.DB.First(&menu, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("menu not found"))
		return
	}

	available, materials, err := services.CheckMenuAvailability(mc.DB, menu.ID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Menu availability", gin.H{
		"menu_id":      menu.ID,
		"is_available": available,
		"materials":    materials,
	})
}

// CreateMenu -> buat menu beserta resepnya dalam satu transaksi
func (mc *MenuController) CreateMenu(c *gin.Context) {
	var req menuReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	menu := models.Menu{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		Price:       *req.Price,
		Image:       req.Image,
		IsActive:    isActive,
	}

	tx := mc.DB.Begin()
	if tx.Error != nil {
		utils.RespondError(c, http.StatusInternalServerError, tx.Error)
		return
	}

	if err := tx.Create(&menu).Error; err != nil {
		tx.Rollback()
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	for _, material := range req.Materials {
		if material.QuantityNeeded <= 0 {
			continue
		}
		mm := models.MenuMaterial{
			MenuID:         menu.ID,
			MaterialID:     material.MaterialID,
			QuantityNeeded: material.QuantityNeeded,
		}
		if err := tx.Create(&mm).Error; err != nil {
			tx.Rollback()
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Menu created", menu)
}

// GetMenuByID -> detail menu dengan resep dan flag ketersediaan
func (mc *MenuController) GetMenuByID(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("menu_id"))

	var menu models.Menu
	if err := mc.DB.Preload("Category").
		Preload("Materials.Material").
		First(&menu, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("menu not found"))
		return
	}

	available := menu.IsActive
	for _, mm := range menu.Materials {
		if mm.Material.Stock < mm.QuantityNeeded {
			available = false
			break
		}
	}

	utils.RespondJSON(c, http.StatusOK, "Menu detail", gin.H{
		"menu":         menu,
		"is_available": available,
	})
}

// UpdateMenu -> update field menu dan ganti seluruh resep
func (mc *MenuController) UpdateMenu(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("menu_id"))

	var menu models.Menu
	if err := mc.DB.First(&menu, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("menu not found"))
		return
	}

	var req menuReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	menu.Name = req.Name
	menu.Description = req.Description
	menu.Price = *req.Price
	menu.CategoryID = req.CategoryID
	if req.Image != nil {
		menu.Image = req.Image
	}
	if req.IsActive != nil {
		menu.IsActive = *req.IsActive
	}

	tx := mc.DB.Begin()
	if tx.Error != nil {
		utils.RespondError(c, http.StatusInternalServerError, tx.Error)
		return
	}

	if err := tx.Save(&menu).Error; err != nil {
		tx.Rollback()
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	// Resep lama dibuang dan diganti set yang dikirim
	if err := tx.Where("menu_id = ?", menu.ID).Delete(&models.MenuMaterial{}).Error; err != nil {
		tx.Rollback()
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	for _, material := range req.Materials {
		if material.MaterialID == 0 || material.QuantityNeeded <= 0 {
			continue
		}
		mm := models.MenuMaterial{
			MenuID:         menu.ID,
			MaterialID:     material.MaterialID,
			QuantityNeeded: material.QuantityNeeded,
		}
		if err := tx.Create(&mm).Error; err != nil {
			tx.Rollback()
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Menu updated successfully", menu)
}

// DeleteMenu -> tolak penghapusan menu yang pernah dipesan
func (mc *MenuController) DeleteMenu(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("menu_id"))

	var usageCount int64
	if err := mc.DB.Model(&models.OrderItem{}).
		Where("menu_id = ?", id).
		Count(&usageCount).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if usageCount > 0 {
		utils.RespondError(c, http.StatusBadRequest,
			errors.New("cannot delete menu that has been ordered, consider deactivating it instead"))
		return
	}

	tx := mc.DB.Begin()
	if tx.Error != nil {
		utils.RespondError(c, http.StatusInternalServerError, tx.Error)
		return
	}

	if err := tx.Where("menu_id = ?", id).Delete(&models.MenuMaterial{}).Error; err != nil {
		tx.Rollback()
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	result := tx.Delete(&models.Menu{}, id)
	if result.Error != nil {
		tx.Rollback()
		utils.RespondError(c, http.StatusInternalServerError, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		utils.RespondError(c, http.StatusNotFound, errors.New("menu not found"))
		return
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Menu deleted", gin.H{"menu_id": id})
}
