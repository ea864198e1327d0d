package models

import "time"

// DiagnosisSourcePlantID tags records produced from the plant.id vendor API.
const DiagnosisSourcePlantID = "plant.id"

const (
	LabelHealthy     = "Healthy"
	LabelUnhealthy   = "Unhealthy - unspecified"
	LabelUnknown     = "Unknown Issue"
	LabelIdentifiedP = "Identified as: "
)

// Diagnosis is the canonical record produced by normalizing a vendor
// assessment. It is written once and never mutated afterwards.
type Diagnosis struct {
	ID              uint     `gorm:"primaryKey" json:"id"`
	CropLogID       uint     `gorm:"not null;index" json:"crop_log_id"`
	PlantID         string   `gorm:"not null;default:''" json:"plant_id"`
	PestOrDisease   string   `gorm:"not null" json:"pest_or_disease"`
	ConfidenceLevel float64  `gorm:"not null;default:0" json:"confidence_level"`
	Recommendations []string `gorm:"serializer:json" json:"recommendations"`
	RelatedImages   []string `gorm:"serializer:json" json:"related_images"`
	Source          string   `gorm:"not null" json:"source"`
	Latitude        *float64 `json:"latitude,omitempty"`
	Longitude       *float64 `json:"longitude,omitempty"`
	Raw             string    `gorm:"type:text" json:"-"`
	CreatedAt       time.Time `gorm:"not null" json:"created_at"`
}
