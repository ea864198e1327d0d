package services

import (
	"context"
	"errors"

	"github.com/rowanmaple/cropdoc/internal/models"
	"github.com/rowanmaple/cropdoc/internal/plantid"
)

var (
	ErrNoImagesProvided    = errors.New("no images provided")
	ErrIdentifyFailed      = errors.New("plant identification failed")
	ErrDiagnosisSaveFailed = errors.New("save diagnosis failed")
	ErrDiagnosisLoadFailed = errors.New("load diagnoses failed")
	ErrDiagnosisNotFound   = errors.New("diagnosis not found")
)

type PlantIdentifier interface {
	Identify(ctx context.Context, request plantid.IdentifyRequest) (*plantid.Assessment, error)
}

type DiagnosisRepository interface {
	Create(diagnosis *models.Diagnosis) error
	ListByCropLog(cropLogID uint) ([]models.Diagnosis, error)
	FindByID(diagnosisID uint) (models.Diagnosis, bool, error)
}

type DiagnosisInput struct {
	Images    []string
	Latitude  *float64
	Longitude *float64
}

// DiagnosisService runs the full diagnose workflow: identify the photo via
// the vendor, normalize the response, persist the record under its crop log.
type DiagnosisService struct {
	identifier PlantIdentifier
	diagnoses  DiagnosisRepository
}

func NewDiagnosisService(identifier PlantIdentifier, diagnoses DiagnosisRepository) *DiagnosisService {
	return &DiagnosisService{
		identifier: identifier,
		diagnoses:  diagnoses,
	}
}

func (service *DiagnosisService) DiagnoseCropLog(ctx context.Context, cropLog models.CropLog, input DiagnosisInput) (models.Diagnosis, error) {
	if len(input.Images) == 0 {
		return models.Diagnosis{}, ErrNoImagesProvided
	}

	assessment, err := service.identifier.Identify(ctx, plantid.IdentifyRequest{
		Images:    input.Images,
		Latitude:  input.Latitude,
		Longitude: input.Longitude,
	})
	if err != nil {
		return models.Diagnosis{}, ErrIdentifyFailed
	}

	record, err := NormalizeDiagnosis(assessment, DiagnosisContext{
		CropLogID: cropLog.ID,
		PlantID:   cropLog.PlantID,
		Latitude:  input.Latitude,
		Longitude: input.Longitude,
	})
	if err != nil {
		return models.Diagnosis{}, err
	}

	if err := service.diagnoses.Create(&record); err != nil {
		return models.Diagnosis{}, ErrDiagnosisSaveFailed
	}
	return record, nil
}

func (service *DiagnosisService) ListForCropLog(cropLogID uint) ([]models.Diagnosis, error) {
	diagnoses, err := service.diagnoses.ListByCropLog(cropLogID)
	if err != nil {
		return nil, ErrDiagnosisLoadFailed
	}
	return diagnoses, nil
}

func (service *DiagnosisService) FetchByID(diagnosisID uint) (models.Diagnosis, error) {
	diagnosis, found, err := service.diagnoses.FindByID(diagnosisID)
	if err != nil {
		return models.Diagnosis{}, ErrDiagnosisLoadFailed
	}
	if !found {
		return models.Diagnosis{}, ErrDiagnosisNotFound
	}
	return diagnosis, nil
}
