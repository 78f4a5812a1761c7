package services

import (
	"context"
	"errors"
	"time"

	"github.com/tutorcenter/scheduler/models"
	"gorm.io/gorm"
)

func AddSemester(ctx context.Context, db *gorm.DB, name string, start, end time.Time) (*models.SemesterDates, error) {
	start, end = models.DateOf(start), models.DateOf(end)
	if !start.Before(end) {
		return nil, ErrInvalidSemesterDates
	}

	sem := models.SemesterDates{Name: name, StartDate: start, EndDate: end}
	if err := db.WithContext(ctx).Create(&sem).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateSemester
		}
		return nil, err
	}
	return &sem, nil
}

func ListSemesters(ctx context.Context, db *gorm.DB) ([]models.SemesterDates, error) {
	var sems []models.SemesterDates
	if err := db.WithContext(ctx).Order("start_date asc").Find(&sems).Error; err != nil {
		return nil, err
	}
	return sems, nil
}

// RefreshCurrentSemester flags the semester whose range contains today and
// clears the flag everywhere else. It returns the current semester, or nil
// when today falls outside every range.
func RefreshCurrentSemester(ctx context.Context, db *gorm.DB, today time.Time) (*models.SemesterDates, error) {
	day := models.DateOf(today)
	var current *models.SemesterDates

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var sem models.SemesterDates
		err := tx.Where("start_date <= ? AND end_date >= ?", day, day).
			Order("start_date desc").First(&sem).Error
		switch {
		case err == nil:
			current = &sem
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		q := tx.Model(&models.SemesterDates{}).Where("current_semester = ?", true)
		if current != nil {
			q = q.Where("name <> ?", current.Name)
		}
		if err := q.UpdateColumn("current_semester", false).Error; err != nil {
			return err
		}
		if current == nil {
			return nil
		}
		current.CurrentSemester = true
		return tx.Model(&models.SemesterDates{}).Where("name = ?", current.Name).
			UpdateColumn("current_semester", true).Error
	})
	if err != nil {
		return nil, err
	}
	return current, nil
}
