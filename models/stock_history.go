package models

import "time"

// StockHistory adalah ledger audit untuk setiap mutasi stok material.
// Baris tidak pernah diubah setelah dibuat.
type StockHistory struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	MaterialID     uint      `gorm:"not null;index" json:"material_id"`
	Material       Material  `gorm:"foreignKey:MaterialID" json:"-"`
	OrderID        *uint     `gorm:"index" json:"order_id,omitempty"`
	QuantityChange int       `gorm:"not null" json:"quantity_change"` // signed: negatif untuk "out"
	StockBefore    int       `gorm:"not null" json:"stock_before"`
	StockAfter     int       `gorm:"not null" json:"stock_after"`
	Type           string    `gorm:"type:varchar(20);not null" json:"type"` // in, out, adjustment
	Notes          *string   `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt      time.Time `gorm:"not null" json:"created_at"`
}
