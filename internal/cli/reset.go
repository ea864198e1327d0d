package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/rowanmaple/cropdoc/internal/db"
	"github.com/rowanmaple/cropdoc/internal/models"
	"github.com/rowanmaple/cropdoc/internal/security"
	"github.com/rowanmaple/cropdoc/internal/services"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const minResetPasswordLength = 8

// RunResetPasswordCommand replaces a user's password from the server
// console. It prompts for the new password without echo; an empty prompt
// falls back to a generated temporary password that is printed once.
func RunResetPasswordCommand(dbPath string, email string) error {
	normalizedEmail := services.NormalizeEmail(email)
	if normalizedEmail == "" {
		return fmt.Errorf("invalid email address: %q", email)
	}

	database, err := db.OpenSQLite(dbPath)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}

	var user models.User
	if err := database.Where("lower(trim(email)) = ?", normalizedEmail).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("user %s not found", normalizedEmail)
		}
		return fmt.Errorf("load user: %w", err)
	}

	password, generated, err := obtainNewPassword()
	if err != nil {
		return err
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user.PasswordHash = string(passwordHash)
	if err := database.Save(&user).Error; err != nil {
		return fmt.Errorf("update user password: %w", err)
	}

	fmt.Printf("Password reset for %s\n", normalizedEmail)
	if generated {
		fmt.Printf("Temporary password: %s\n", password)
	}
	return nil
}

func obtainNewPassword() (password string, generated bool, err error) {
	fmt.Print("New password (leave empty to generate one): ")
	entered, err := readPasswordNoEcho(os.Stdin)
	fmt.Println()
	if err != nil {
		return "", false, fmt.Errorf("read password: %w", err)
	}

	if len(entered) == 0 {
		temporary, err := generateTemporaryPassword(12)
		if err != nil {
			return "", false, fmt.Errorf("generate temporary password: %w", err)
		}
		return temporary, true, nil
	}

	if len(entered) < minResetPasswordLength {
		return "", false, fmt.Errorf("password must be at least %d characters", minResetPasswordLength)
	}
	return string(entered), false, nil
}

func generateTemporaryPassword(length int) (string, error) {
	if length < minResetPasswordLength {
		length = minResetPasswordLength
	}

	// Ambiguous characters (0/O, 1/l/I) are excluded so the password can be
	// read back over the phone.
	const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz23456789"
	return security.RandomString(length, alphabet)
}
