package services

import (
	"errors"
	"net/mail"
	"strings"

	"github.com/rowanmaple/cropdoc/internal/models"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailInvalid       = errors.New("email is invalid")
	ErrPasswordTooShort   = errors.New("password is too short")
	ErrEmailAlreadyTaken  = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserCreateFailed   = errors.New("create user failed")
	ErrUserLookupFailed   = errors.New("user lookup failed")
)

const minPasswordLength = 8

type AuthUserRepository interface {
	ExistsByNormalizedEmail(email string) (bool, error)
	FindByNormalizedEmail(email string) (models.User, error)
	FindByID(userID uint) (models.User, error)
	Create(user *models.User) error
}

type AuthService struct {
	users AuthUserRepository
}

func NewAuthService(users AuthUserRepository) *AuthService {
	return &AuthService{users: users}
}

func (service *AuthService) RegisterUser(rawEmail string, password string, displayName string) (models.User, error) {
	email := NormalizeEmail(rawEmail)
	if email == "" {
		return models.User{}, ErrEmailInvalid
	}
	if len(password) < minPasswordLength {
		return models.User{}, ErrPasswordTooShort
	}

	exists, err := service.users.ExistsByNormalizedEmail(email)
	if err != nil {
		return models.User{}, ErrUserLookupFailed
	}
	if exists {
		return models.User{}, ErrEmailAlreadyTaken
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, ErrUserCreateFailed
	}

	user := models.User{
		Email:        email,
		PasswordHash: string(passwordHash),
		DisplayName:  strings.TrimSpace(displayName),
	}
	if err := service.users.Create(&user); err != nil {
		// Unique index race: a concurrent registration won the email.
		return models.User{}, ErrEmailAlreadyTaken
	}
	return user, nil
}

func (service *AuthService) AuthenticateUser(rawEmail string, password string) (models.User, error) {
	email := NormalizeEmail(rawEmail)
	if email == "" {
		return models.User{}, ErrInvalidCredentials
	}

	user, err := service.users.FindByNormalizedEmail(email)
	if err != nil {
		return models.User{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}

func (service *AuthService) FindByID(userID uint) (models.User, error) {
	return service.users.FindByID(userID)
}

func NormalizeEmail(raw string) string {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return ""
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return ""
	}
	return email
}
