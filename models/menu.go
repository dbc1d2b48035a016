package models

import "time"

type Menu struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CategoryID  *uint          `gorm:"index" json:"category_id"`
	Category    *Category      `gorm:"foreignKey:CategoryID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"category,omitempty"`
	Name        string         `gorm:"type:varchar(255);not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Price       float64        `gorm:"type:decimal(10,2);not null" json:"price"`
	Image       *string        `gorm:"type:varchar(255)" json:"image"`
	IsActive    bool           `gorm:"not null;default:true" json:"is_active"`
	Materials   []MenuMaterial `gorm:"foreignKey:MenuID" json:"materials,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}
