package services

import (
	"context"
	"time"

	"github.com/tutorcenter/scheduler/models"
	"gorm.io/gorm"
)

// Timeline splits a user's sessions around a reference date.
type Timeline struct {
	Today    []models.Availability `json:"today"`
	Upcoming []models.Availability `json:"upcoming"`
	Done     []models.Availability `json:"done"`
}

func StudentTimeline(ctx context.Context, db *gorm.DB, studentID uint, today time.Time) (*Timeline, error) {
	return timeline(withSlotRelations(db.WithContext(ctx)).Where("booked_by_id = ?", studentID), today)
}

func TutorTimeline(ctx context.Context, db *gorm.DB, tutorID uint, today time.Time) (*Timeline, error) {
	return timeline(withSlotRelations(db.WithContext(ctx)).Where("tutor_id = ?", tutorID), today)
}

func timeline(scope *gorm.DB, today time.Time) (*Timeline, error) {
	day := models.DateOf(today)
	tl := &Timeline{}
	if err := scope.Session(&gorm.Session{}).Where("date = ?", day).Order("timeblock asc").Find(&tl.Today).Error; err != nil {
		return nil, err
	}
	if err := scope.Session(&gorm.Session{}).Where("date > ?", day).Order("date asc").Order("timeblock asc").Find(&tl.Upcoming).Error; err != nil {
		return nil, err
	}
	if err := scope.Session(&gorm.Session{}).Where("date < ?", day).Order("date asc").Order("timeblock asc").Find(&tl.Done).Error; err != nil {
		return nil, err
	}
	return tl, nil
}

// StudentHistory and TutorHistory list sessions dated before today.
func StudentHistory(ctx context.Context, db *gorm.DB, studentID uint, today time.Time) ([]models.Availability, error) {
	var slots []models.Availability
	err := withSlotRelations(db.WithContext(ctx)).
		Where("booked_by_id = ? AND date < ?", studentID, models.DateOf(today)).
		Order("date asc").Find(&slots).Error
	return slots, err
}

func TutorHistory(ctx context.Context, db *gorm.DB, tutorID uint, today time.Time) ([]models.Availability, error) {
	var slots []models.Availability
	err := withSlotRelations(db.WithContext(ctx)).
		Where("tutor_id = ? AND date < ?", tutorID, models.DateOf(today)).
		Order("date asc").Find(&slots).Error
	return slots, err
}

type CourseSessions struct {
	Course   string `json:"course"`
	Sessions int64  `json:"sessions"`
}

type DashboardCounts struct {
	Students         int64            `json:"students_count"`
	Tutors           int64            `json:"tutors_count"`
	Sessions         int64            `json:"sessions_count"`
	Courses          int64            `json:"courses_count"`
	SessionsByCourse []CourseSessions `json:"session_data"`
}

func DashboardStats(ctx context.Context, db *gorm.DB) (*DashboardCounts, error) {
	db = db.WithContext(ctx)
	stats := &DashboardCounts{}
	counts := []struct {
		model interface{}
		dst   *int64
	}{
		{&models.Student{}, &stats.Students},
		{&models.Tutor{}, &stats.Tutors},
		{&models.Availability{}, &stats.Sessions},
		{&models.Course{}, &stats.Courses},
	}
	for _, c := range counts {
		if err := db.Model(c.model).Count(c.dst).Error; err != nil {
			return nil, err
		}
	}

	err := db.Model(&models.Availability{}).
		Select("courses.name AS course, COUNT(availabilities.id) AS sessions").
		Joins("JOIN courses ON courses.id = availabilities.course_id").
		Group("courses.name").
		Order("courses.name asc").
		Scan(&stats.SessionsByCourse).Error
	if err != nil {
		return nil, err
	}
	if stats.SessionsByCourse == nil {
		stats.SessionsByCourse = []CourseSessions{}
	}
	return stats, nil
}
