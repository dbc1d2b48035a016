package services

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yeremiapane/resto-pos/models"
)

// GenerateOrderNumber membuat nomor order ORD-YYYYMMDD-NNN dengan NNN
// urutan order hari ini. Suffix berbasis COUNT mengikuti sistem lama dan
// tidak aman terhadap insert bersamaan di hari yang sama.
func GenerateOrderNumber(db *gorm.DB) (string, error) {
	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var count int64
	if err := db.Model(&models.Order{}).
		Where("created_at >= ? AND created_at < ?", startOfDay, startOfDay.AddDate(0, 0, 1)).
		Count(&count).Error; err != nil {
		return "", err
	}

	return fmt.Sprintf("ORD-%s-%03d", now.Format("20060102"), count+1), nil
}
