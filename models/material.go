package models

import "time"

// Material adalah bahan baku yang dikonsumsi oleh menu.
// Stok hanya berubah lewat pemrosesan order, restock, atau edit admin.
type Material struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Stock     int       `gorm:"not null;default:0" json:"stock"`
	Unit      string    `gorm:"type:varchar(50);not null" json:"unit"`
	MinStock  int       `gorm:"not null;default:10" json:"min_stock"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
