package models

import "time"

const (
	CropStatusActive    = "active"
	CropStatusHarvested = "harvested"
	CropStatusRemoved   = "removed"
)

type CropLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	PlantID   string    `gorm:"not null;default:''" json:"plant_id"`
	PlantName string    `gorm:"not null" json:"plant_name"`
	Status    string    `gorm:"not null;default:active" json:"status"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
