package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/yeremiapane/resto-pos/events"
	"github.com/yeremiapane/resto-pos/models"
	"github.com/yeremiapane/resto-pos/utils"
)

// StockMonitor memindai material secara berkala dan menyiarkan peringatan
// untuk material yang stoknya menyentuh ambang min_stock. Satu material
// hanya diumumkan sekali sampai stoknya pulih di atas ambang.
type StockMonitor struct {
	DB       *gorm.DB
	StopChan chan struct{}
	Interval time.Duration

	notified map[uint]bool
}

func NewStockMonitor(db *gorm.DB) *StockMonitor {
	return &StockMonitor{
		DB:       db,
		StopChan: make(chan struct{}),
		Interval: 30 * time.Second,
		notified: make(map[uint]bool),
	}
}

func (sm *StockMonitor) Start() {
	go func() {
		ticker := time.NewTicker(sm.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				sm.checkLowStock()
			case <-sm.StopChan:
				return
			}
		}
	}()
}

func (sm *StockMonitor) Stop() {
	close(sm.StopChan)
}

func (sm *StockMonitor) checkLowStock() {
	var materials []models.Material
	if err := sm.DB.Find(&materials).Error; err != nil {
		utils.ErrorLogger.Printf("Error scanning materials: %v", err)
		return
	}

	for _, material := range materials {
		low := material.Stock <= material.MinStock

		if low && !sm.notified[material.ID] {
			sm.notified[material.ID] = true
			utils.InfoLogger.Printf("Low stock: %s (%d %s, min %d)",
				material.Name, material.Stock, material.Unit, material.MinStock)
			events.BroadcastStockLow(material)
		}

		if !low && sm.notified[material.ID] {
			delete(sm.notified, material.ID)
		}
	}
}
