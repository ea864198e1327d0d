package db

import (
	"github.com/rowanmaple/cropdoc/internal/models"
	"gorm.io/gorm"
)

type CropLogRepository struct {
	database *gorm.DB
}

func NewCropLogRepository(database *gorm.DB) *CropLogRepository {
	return &CropLogRepository{database: database}
}

func (repo *CropLogRepository) Create(entry *models.CropLog) error {
	return repo.database.Create(entry).Error
}

func (repo *CropLogRepository) Save(entry *models.CropLog) error {
	return repo.database.Save(entry).Error
}

func (repo *CropLogRepository) ListByUser(userID uint) ([]models.CropLog, error) {
	entries := make([]models.CropLog, 0)
	if err := repo.database.
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (repo *CropLogRepository) FindByID(cropLogID uint) (models.CropLog, bool, error) {
	entry := models.CropLog{}
	result := repo.database.Limit(1).Find(&entry, cropLogID)
	if result.Error != nil {
		return models.CropLog{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.CropLog{}, false, nil
	}
	return entry, true, nil
}

func (repo *CropLogRepository) DeleteByID(cropLogID uint) error {
	return repo.database.Delete(&models.CropLog{}, cropLogID).Error
}
