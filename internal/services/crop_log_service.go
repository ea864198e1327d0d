package services

import (
	"errors"
	"strings"

	"github.com/rowanmaple/cropdoc/internal/models"
)

var (
	ErrPlantNameRequired   = errors.New("plant name is required")
	ErrInvalidCropStatus   = errors.New("invalid crop status")
	ErrCropLogNotFound     = errors.New("crop log not found")
	ErrCropLogAccessDenied = errors.New("crop log belongs to another user")
	ErrCropLogSaveFailed   = errors.New("save crop log failed")
	ErrCropLogLoadFailed   = errors.New("load crop logs failed")
	ErrCropLogDeleteFailed = errors.New("delete crop log failed")
)

type CropLogRepository interface {
	Create(entry *models.CropLog) error
	Save(entry *models.CropLog) error
	ListByUser(userID uint) ([]models.CropLog, error)
	FindByID(cropLogID uint) (models.CropLog, bool, error)
	DeleteByID(cropLogID uint) error
}

type CropLogInput struct {
	PlantID   string
	PlantName string
	Status    string
	Notes     string
}

type CropLogService struct {
	cropLogs CropLogRepository
}

func NewCropLogService(cropLogs CropLogRepository) *CropLogService {
	return &CropLogService{cropLogs: cropLogs}
}

func (service *CropLogService) CreateForUser(userID uint, input CropLogInput) (models.CropLog, error) {
	plantName := strings.TrimSpace(input.PlantName)
	if plantName == "" {
		return models.CropLog{}, ErrPlantNameRequired
	}

	status, err := normalizeCropStatus(input.Status)
	if err != nil {
		return models.CropLog{}, err
	}

	entry := models.CropLog{
		UserID:    userID,
		PlantID:   strings.TrimSpace(input.PlantID),
		PlantName: plantName,
		Status:    status,
		Notes:     strings.TrimSpace(input.Notes),
	}
	if err := service.cropLogs.Create(&entry); err != nil {
		return models.CropLog{}, ErrCropLogSaveFailed
	}
	return entry, nil
}

func (service *CropLogService) ListForUser(userID uint) ([]models.CropLog, error) {
	entries, err := service.cropLogs.ListByUser(userID)
	if err != nil {
		return nil, ErrCropLogLoadFailed
	}
	return entries, nil
}

// FetchForUser loads a crop log and enforces ownership. Access by a
// different user reports not-found semantics to avoid leaking existence.
func (service *CropLogService) FetchForUser(userID uint, cropLogID uint) (models.CropLog, error) {
	entry, found, err := service.cropLogs.FindByID(cropLogID)
	if err != nil {
		return models.CropLog{}, ErrCropLogLoadFailed
	}
	if !found {
		return models.CropLog{}, ErrCropLogNotFound
	}
	if entry.UserID != userID {
		return models.CropLog{}, ErrCropLogAccessDenied
	}
	return entry, nil
}

func (service *CropLogService) UpdateForUser(userID uint, cropLogID uint, input CropLogInput) (models.CropLog, error) {
	entry, err := service.FetchForUser(userID, cropLogID)
	if err != nil {
		return models.CropLog{}, err
	}

	plantName := strings.TrimSpace(input.PlantName)
	if plantName == "" {
		return models.CropLog{}, ErrPlantNameRequired
	}
	status, err := normalizeCropStatus(input.Status)
	if err != nil {
		return models.CropLog{}, err
	}

	entry.PlantID = strings.TrimSpace(input.PlantID)
	entry.PlantName = plantName
	entry.Status = status
	entry.Notes = strings.TrimSpace(input.Notes)
	if err := service.cropLogs.Save(&entry); err != nil {
		return models.CropLog{}, ErrCropLogSaveFailed
	}
	return entry, nil
}

func (service *CropLogService) DeleteForUser(userID uint, cropLogID uint) error {
	if _, err := service.FetchForUser(userID, cropLogID); err != nil {
		return err
	}
	if err := service.cropLogs.DeleteByID(cropLogID); err != nil {
		return ErrCropLogDeleteFailed
	}
	return nil
}

func normalizeCropStatus(raw string) (string, error) {
	status := strings.ToLower(strings.TrimSpace(raw))
	if status == "" {
		return models.CropStatusActive, nil
	}
	switch status {
	case models.CropStatusActive, models.CropStatusHarvested, models.CropStatusRemoved:
		return status, nil
	default:
		return "", ErrInvalidCropStatus
	}
}
