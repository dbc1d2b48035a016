package models

import "time"

// OrderItem menyimpan snapshot nama/harga menu saat order dibuat,
// jadi tidak terpengaruh perubahan menu setelahnya.
type OrderItem struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	OrderID uint `gorm:"not null;index" json:"order_id"`
	// Omitting Order field from JSON to avoid recursive nesting
	Order    Order   `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	MenuID   *uint   `gorm:"index" json:"menu_id,omitempty"`
	Menu     *Menu   `gorm:"foreignKey:MenuID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"menu,omitempty"`
	MenuName string  `gorm:"type:varchar(255);not null" json:"menu_name"`
	Quantity int     `gorm:"not null" json:"quantity"`
	Price    float64 `gorm:"type:decimal(10,2);not null" json:"price"`
	Subtotal float64 `gorm:"type:decimal(10,2);not null" json:"subtotal"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}
