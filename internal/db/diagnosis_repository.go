package db

import (
	"github.com/rowanmaple/cropdoc/internal/models"
	"gorm.io/gorm"
)

type DiagnosisRepository struct {
	database *gorm.DB
}

func NewDiagnosisRepository(database *gorm.DB) *DiagnosisRepository {
	return &DiagnosisRepository{database: database}
}

func (repo *DiagnosisRepository) Create(diagnosis *models.Diagnosis) error {
	return repo.database.Create(diagnosis).Error
}

func (repo *DiagnosisRepository) ListByCropLog(cropLogID uint) ([]models.Diagnosis, error) {
	diagnoses := make([]models.Diagnosis, 0)
	if err := repo.database.
		Where("crop_log_id = ?", cropLogID).
		Order("created_at DESC, id DESC").
		Find(&diagnoses).Error; err != nil {
		return nil, err
	}
	return diagnoses, nil
}

func (repo *DiagnosisRepository) FindByID(diagnosisID uint) (models.Diagnosis, bool, error) {
	diagnosis := models.Diagnosis{}
	result := repo.database.Limit(1).Find(&diagnosis, diagnosisID)
	if result.Error != nil {
		return models.Diagnosis{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.Diagnosis{}, false, nil
	}
	return diagnosis, true, nil
}

func (repo *DiagnosisRepository) DeleteByCropLog(cropLogID uint) error {
	return repo.database.Where("crop_log_id = ?", cropLogID).Delete(&models.Diagnosis{}).Error
}
