package api

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rowanmaple/cropdoc/internal/db"
	"github.com/rowanmaple/cropdoc/internal/services"
	"gorm.io/gorm"
)

type Handler struct {
	db           *gorm.DB
	secretKey    []byte
	location     *time.Location
	repositories *db.Repositories

	authService      *services.AuthService
	cropLogService   *services.CropLogService
	diagnosisService *services.DiagnosisService

	imageProxy   *imageProxy
	loginLimiter *attemptLimiter
}

const (
	authTokenTTL = 7 * 24 * time.Hour

	loginAttemptLimit  = 10
	loginAttemptWindow = 15 * time.Minute
)

type authClaims struct {
	UserID uint `json:"uid"`
	jwt.RegisteredClaims
}

func NewHandler(database *gorm.DB, secretKey string, location *time.Location, identifier services.PlantIdentifier, proxyHosts []string) (*Handler, error) {
	if database == nil {
		return nil, errors.New("database is required")
	}
	if secretKey == "" {
		return nil, errors.New("secret key is required")
	}
	if identifier == nil {
		return nil, errors.New("plant identifier is required")
	}
	if location == nil {
		location = time.UTC
	}

	repositories := db.NewRepositories(database)
	handler := &Handler{
		db:               database,
		secretKey:        []byte(secretKey),
		location:         location,
		repositories:     repositories,
		authService:      services.NewAuthService(repositories.Users),
		cropLogService:   services.NewCropLogService(repositories.CropLogs),
		diagnosisService: services.NewDiagnosisService(identifier, repositories.Diagnoses),
		imageProxy:       newImageProxy(proxyHosts),
		loginLimiter:     newAttemptLimiter(loginAttemptLimit, loginAttemptWindow),
	}
	return handler, nil
}
