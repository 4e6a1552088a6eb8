package database

import (
	"github.com/devhub-platform/portal/internal/constants"
	"github.com/devhub-platform/portal/internal/model"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultAdmin defines the default admin user credentials
type DefaultAdmin struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// GetDefaultAdmin returns the default admin user
func GetDefaultAdmin() DefaultAdmin {
	return DefaultAdmin{
		Username:  "admin",
		Email:     "admin@devhub.local",
		Password:  "Admin@123", // Change this in production!
		FirstName: "DevHub",
		LastName:  "Admin",
	}
}

// Seed creates initial data for the database
func Seed(db *gorm.DB) error {
	return SeedUsers(db)
}

// SeedUsers creates the default admin user if not exists
func SeedUsers(db *gorm.DB) error {
	admin := GetDefaultAdmin()

	var existingUser model.User
	result := db.Where("email = ?", admin.Email).First(&existingUser)

	if result.Error == nil {
		// User already exists, skip seeding
		return nil
	}

	if result.Error != gorm.ErrRecordNotFound {
		return result.Error
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := model.User{
		Username:  admin.Username,
		Email:     admin.Email,
		Password:  string(hashedPassword),
		FirstName: admin.FirstName,
		LastName:  admin.LastName,
		Role:      constants.RoleAdmin,
		IsActive:  true,
	}

	return db.Create(&user).Error
}
