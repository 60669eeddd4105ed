package database

import (
	"errors"
	"fmt"

	"hostel_manager/constants"
	"hostel_manager/helper"
	"hostel_manager/model"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type seedUser struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// SeedData makes sure the default admin exists and, with demo enabled, a sample student.
// The admin password is reset on every start so a stale hash never locks the operator out.
func SeedData(db *gorm.DB, demo bool, log *zap.Logger) error {
	users := []seedUser{
		{Name: "Admin User", Email: constants.DEFAULT_ADMIN_EMAIL, Password: "admin123", Role: constants.ROLE_ADMIN},
	}
	if demo {
		users = append(users, seedUser{Name: "John Doe", Email: "john@example.com", Password: "student123", Role: constants.ROLE_STUDENT})
	}

	for _, u := range users {
		hash, err := helper.HashPassword(u.Password)
		if err != nil {
			return fmt.Errorf("hash password for %s: %w", u.Email, err)
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			var user model.User
			err := tx.Where("email = ?", u.Email).First(&user).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				user = model.User{Name: u.Name, Email: u.Email, Password: hash, Role: u.Role}
				if err := tx.Create(&user).Error; err != nil {
					return err
				}
				log.Info("seeded user", zap.String("email", u.Email), zap.String("role", u.Role))
			case err != nil:
				return err
			case u.Role == constants.ROLE_ADMIN:
				if err := tx.Model(&user).Update("password", hash).Error; err != nil {
					return err
				}
			}

			if u.Role != constants.ROLE_STUDENT {
				return nil
			}
			return tx.Where(model.Student{UserID: user.ID}).FirstOrCreate(&model.Student{UserID: user.ID}).Error
		})
		if err != nil {
			return fmt.Errorf("seed user %s: %w", u.Email, err)
		}
	}
	return nil
}
