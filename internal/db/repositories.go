package db

import "gorm.io/gorm"

type Repositories struct {
	Users     *UserRepository
	CropLogs  *CropLogRepository
	Diagnoses *DiagnosisRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Users:     NewUserRepository(database),
		CropLogs:  NewCropLogRepository(database),
		Diagnoses: NewDiagnosisRepository(database),
	}
}
