package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yeremiapane/resto-pos/models"
)

// ErrOrderNotPending dikembalikan saat order tidak ada atau sudah diproses.
var ErrOrderNotPending = errors.New("order tidak ditemukan atau sudah diproses")

// DeductStockForOrder memotong stok material untuk semua item sebuah order
// dan menulis baris stock_history per material. Harus dipanggil di dalam
// transaksi yang sama dengan update status order.
func DeductStockForOrder(tx *gorm.DB, order *models.Order) error {
	for _, item := range order.OrderItems {
		if item.MenuID == nil {
			continue
		}

		var recipe []models.MenuMaterial
		if err := tx.Preload("Material").
			Where("menu_id = ?", *item.MenuID).
			Find(&recipe).Error; err != nil {
			return err
		}

		for _, mm := range recipe {
			totalNeeded := mm.QuantityNeeded * item.Quantity
			stockBefore := mm.Material.Stock
			stockAfter := stockBefore - totalNeeded

			if err := tx.Model(&models.Material{}).
				Where("id = ?", mm.MaterialID).
				Updates(map[string]interface{}{
					"stock":      gorm.Expr("stock - ?", totalNeeded),
					"updated_at": time.Now(),
				}).Error; err != nil {
				return err
			}

			note := fmt.Sprintf("Order %s - %s", order.OrderNumber, item.MenuName)
			history := models.StockHistory{
				MaterialID:     mm.MaterialID,
				OrderID:        &order.ID,
				QuantityChange: -totalNeeded,
				StockBefore:    stockBefore,
				StockAfter:     stockAfter,
				Type:           StockTypeOut,
				Notes:          &note,
			}
			if err := tx.Create(&history).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

// ProcessOrder menyelesaikan order pending: update status dan field
// pembayaran lalu potong stok, semuanya dalam satu transaksi. Order yang
// bukan pending ditolak tanpa mengubah apa pun.
func ProcessOrder(db *gorm.DB, orderID uint, cashierID uint, paymentMethod string, paidAmount, changeAmount float64) (*models.Order, error) {
	var order models.Order
	if err := db.Preload("OrderItems").
		Where("id = ? AND status = ?", orderID, OrderStatusPending).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotPending
		}
		return nil, err
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	if err := tx.Model(&models.Order{}).
		Where("id = ?", order.ID).
		Updates(map[string]interface{}{
			"status":         OrderStatusCompleted,
			"cashier_id":     cashierID,
			"payment_method": paymentMethod,
			"paid_amount":    paidAmount,
			"change_amount":  changeAmount,
			"updated_at":     time.Now(),
		}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := DeductStockForOrder(tx, &order); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	order.Status = OrderStatusCompleted
	order.CashierID = &cashierID
	order.PaymentMethod = &paymentMethod
	order.PaidAmount = &paidAmount
	order.ChangeAmount = &changeAmount
	return &order, nil
}

// RestockMaterial menambah stok dan menulis baris history bertipe "in".
func RestockMaterial(db *gorm.DB, materialID uint, quantity int, note string) (*models.StockHistory, error) {
	if quantity <= 0 {
		return nil, errors.New("quantity harus lebih dari 0")
	}

	var material models.Material
	if err := db.First(&material, materialID).Error; err != nil {
		return nil, err
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	stockBefore := material.Stock
	stockAfter := stockBefore + quantity

	if err := tx.Model(&models.Material{}).
		Where("id = ?", material.ID).
		Updates(map[string]interface{}{
			"stock":      stockAfter,
			"updated_at": time.Now(),
		}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	history := models.StockHistory{
		MaterialID:     material.ID,
		QuantityChange: quantity,
		StockBefore:    stockBefore,
		StockAfter:     stockAfter,
		Type:           StockTypeIn,
	}
	if note != "" {
		history.Notes = &note
	}
	if err := tx.Create(&history).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	return &history, nil
}

// AdjustStock menimpa stok (edit admin) dan mencatat selisihnya sebagai
// baris history bertipe "adjustment". Tanpa selisih, tidak ada baris.
func AdjustStock(tx *gorm.DB, material *models.Material, newStock int, note string) (*models.StockHistory, error) {
	if newStock == material.Stock {
		return nil, nil
	}

	history := models.StockHistory{
		MaterialID:     material.ID,
		QuantityChange: newStock - material.Stock,
		StockBefore:    material.Stock,
		StockAfter:     newStock,
		Type:           StockTypeAdjustment,
	}
	if note != "" {
		history.Notes = &note
	}
	if err := tx.Create(&history).Error; err != nil {
		return nil, err
	}
	return &history, nil
}
