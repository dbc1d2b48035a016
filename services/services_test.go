package services

import (
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/resto-pos/models"
	"github.com/yeremiapane/resto-pos/utils"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	utils.InitLogger()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open in-memory sqlite: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Material{},
		&models.Category{},
		&models.Menu{},
		&models.MenuMaterial{},
		&models.Order{},
		&models.OrderItem{},
		&models.StockHistory{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func createMaterial(t *testing.T, db *gorm.DB, name string, stock int) models.Material {
	t.Helper()
	material := models.Material{Name: name, Stock: stock, Unit: "gram", MinStock: 10}
	if err := db.Create(&material).Error; err != nil {
		t.Fatalf("failed to create material: %v", err)
	}
	return material
}

func createMenuWithRecipe(t *testing.T, db *gorm.DB, name string, price float64, recipe map[uint]int) models.Menu {
	t.Helper()
	menu := models.Menu{Name: name, Price: price, IsActive: true}
	if err := db.Create(&menu).Error; err != nil {
		t.Fatalf("failed to create menu: %v", err)
	}
	for materialID, needed := range recipe {
		mm := models.MenuMaterial{MenuID: menu.ID, MaterialID: materialID, QuantityNeeded: needed}
		if err := db.Create(&mm).Error; err != nil {
			t.Fatalf("failed to create recipe row: %v", err)
		}
	}
	return menu
}
