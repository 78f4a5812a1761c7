package services

import (
	"context"
	"errors"

	"github.com/tutorcenter/scheduler/models"
	"gorm.io/gorm"
)

// AssignRole makes role the user's only group and ensures the matching
// profile record exists. A profile for the previous role is kept.
func AssignRole(ctx context.Context, db *gorm.DB, username, role string) (*models.User, error) {
	if role != models.GroupStudent && role != models.GroupTutor {
		return nil, ErrUnknownRole
	}

	var user models.User
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("username = ?", username).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		var group models.Group
		if err := tx.Where("name = ?", role).First(&group).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUnknownRole
			}
			return err
		}

		if err := tx.Model(&user).Association("Groups").Replace(&group); err != nil {
			return err
		}

		switch role {
		case models.GroupStudent:
			return tx.Where(models.Student{UserID: user.ID}).FirstOrCreate(&models.Student{}).Error
		default:
			tutor := models.Tutor{UserID: user.ID, ProfilePicture: defaultTutorPicture()}
			return tx.Where(models.Tutor{UserID: user.ID}).Attrs(tutor).FirstOrCreate(&models.Tutor{}).Error
		}
	})
	if err != nil {
		return nil, err
	}
	user.Groups = nil
	if err := db.WithContext(ctx).Preload("Groups").First(&user, user.ID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func defaultTutorPicture() *string {
	p := models.DefaultTutorPicture
	return &p
}
