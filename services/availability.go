package services

import (
	"gorm.io/gorm"

	"github.com/yeremiapane/resto-pos/models"
)

// MaterialRequirement adalah satu baris resep beserta kondisi stoknya.
type MaterialRequirement struct {
	MaterialID     uint   `json:"material_id"`
	MaterialName   string `json:"material_name"`
	QuantityNeeded int    `json:"quantity_needed"`
	CurrentStock   int    `json:"current_stock"`
	Unit           string `json:"unit"`
	MaxServings    int    `json:"max_servings"`
	IsSufficient   bool   `json:"is_sufficient"`
}

// MenuAvailability adalah menu aktif beserta hasil kalkulasi ketersediaan.
type MenuAvailability struct {
	models.Menu
	CategoryName string                `json:"category_name"`
	IsAvailable  bool                  `json:"is_available"`
	MaxServings  int                   `json:"max_servings"`
	Materials    []MaterialRequirement `json:"materials"`
}

// requirementsForMenu memuat resep sebuah menu beserta stok materialnya.
func requirementsForMenu(db *gorm.DB, menuID uint) ([]MaterialRequirement, error) {
	var recipe []models.MenuMaterial
	if err := db.Preload("Material").
		Where("menu_id = ?", menuID).
		Find(&recipe).Error; err != nil {
		return nil, err
	}

	reqs := make([]MaterialRequirement, 0, len(recipe))
	for _, mm := range recipe {
		perMaterial := 0
		if mm.QuantityNeeded > 0 {
			perMaterial = mm.Material.Stock / mm.QuantityNeeded
		}
		reqs = append(reqs, MaterialRequirement{
			MaterialID:     mm.MaterialID,
			MaterialName:   mm.Material.Name,
			QuantityNeeded: mm.QuantityNeeded,
			CurrentStock:   mm.Material.Stock,
			Unit:           mm.Material.Unit,
			MaxServings:    perMaterial,
			IsSufficient:   mm.Material.Stock >= mm.QuantityNeeded,
		})
	}
	return reqs, nil
}

// ListAvailableMenus mengembalikan semua menu aktif dengan flag ketersediaan
// dan max_servings = minimum floor(stok/kebutuhan) di antara semua material.
// Menu tanpa resep mendapat max_servings 0 sehingga tidak available.
func ListAvailableMenus(db *gorm.DB) ([]MenuAvailability, error) {
	var menus []models.Menu
	if err := db.Preload("Category").
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&menus).Error; err != nil {
		return nil, err
	}

	result := make([]MenuAvailability, 0, len(menus))
	for _, menu := range menus {
		reqs, err := requirementsForMenu(db, menu.ID)
		if err != nil {
			return nil, err
		}

		maxServings := 0
		allSufficient := true
		for i, req := range reqs {
			if i == 0 || req.MaxServings < maxServings {
				maxServings = req.MaxServings
			}
			if !req.IsSufficient {
				allSufficient = false
			}
		}
		if len(reqs) == 0 {
			maxServings = 0
		}

		categoryName := ""
		if menu.Category != nil {
			categoryName = menu.Category.Name
		}

		result = append(result, MenuAvailability{
			Menu:         menu,
			CategoryName: categoryName,
			IsAvailable:  menu.IsActive && allSufficient && maxServings > 0,
			MaxServings:  maxServings,
			Materials:    reqs,
		})
	}
	return result, nil
}

// CheckMenuAvailability memeriksa kecukupan stok per material untuk satu menu.
// Berbeda dengan ListAvailableMenus, menu tanpa resep dianggap available di
// sini dan max_servings tidak dihitung; perilaku kedua jalur sengaja
// dipertahankan apa adanya dari sistem lama.
func CheckMenuAvailability(db *gorm.DB, menuID uint) (bool, []MaterialRequirement, error) {
	reqs, err := requirementsForMenu(db, menuID)
	if err != nil {
		return false, nil, err
	}

	allSufficient := true
	for _, req := range reqs {
		if !req.IsSufficient {
			allSufficient = false
			break
		}
	}
	return allSufficient, reqs, nil
}

// MenuOrderable dipakai saat order customer dibuat: menu harus ada, aktif,
// dan semua material resepnya cukup untuk satu porsi.
func MenuOrderable(db *gorm.DB, menuID uint) (bool, *models.Menu, error) {
	var menu models.Menu
	if err := db.First(&menu, menuID).Error; err != nil {
		return false, nil, err
	}

	if !menu.IsActive {
		return false, &menu, nil
	}

	sufficient, _, err := CheckMenuAvailability(db, menuID)
	if err != nil {
		return false, &menu, err
	}
	return sufficient, &menu, nil
}
