package utils

import (
	"errors"

	"github.com/browngirlclub/membership/config"
	"github.com/browngirlclub/membership/models"
	"gorm.io/gorm"
)

// CreateUser creates a new member
func CreateUser(user *models.User) error {
	return config.DB.Create(user).Error
}

// GetUserByID retrieves a member by ID
func GetUserByID(id uint) (*models.User, error) {
	var user models.User
	err := config.DB.First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail retrieves a member by email
func GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := config.DB.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetOrCreateUser finds a member by email or creates one. Signup is
// idempotent by email: joining twice never duplicates the user row.
func GetOrCreateUser(email, name, phone string) (*models.User, error) {
	user, err := GetUserByEmail(email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	created := &models.User{
		Email: email,
		Name:  name,
		Phone: phone,
	}
	if err := CreateUser(created); err != nil {
		return nil, err
	}
	return created, nil
}

// CreateAdmin creates a new admin
func CreateAdmin(admin *models.Admin) error {
	return config.DB.Create(admin).Error
}
