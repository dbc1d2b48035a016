package models

import "time"

// MenuMaterial adalah resep: jumlah material yang dibutuhkan
// untuk satu porsi menu.
type MenuMaterial struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	MenuID         uint      `gorm:"not null;uniqueIndex:idx_menu_material" json:"menu_id"`
	MaterialID     uint      `gorm:"not null;uniqueIndex:idx_menu_material" json:"material_id"`
	Material       Material  `gorm:"foreignKey:MaterialID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"material"`
	QuantityNeeded int       `gorm:"not null" json:"quantity_needed"`
	CreatedAt      time.Time `json:"created_at"`
}
