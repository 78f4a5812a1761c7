package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	config "github.com/tutorcenter/scheduler/configs"
	"github.com/tutorcenter/scheduler/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CreateSlotInput struct {
	TutorID   uint
	Date      time.Time
	Timeblock string
	CourseID  uint
}

// CreateSlot publishes a new Available slot. The (tutor, date, timeblock)
// triple must be unused.
func CreateSlot(ctx context.Context, db *gorm.DB, in CreateSlotInput) (*models.Availability, error) {
	if _, ok := models.LookupTimeblock(in.Timeblock); !ok {
		return nil, ErrInvalidTimeblock
	}
	date := models.DateOf(in.Date)
	db = db.WithContext(ctx)

	var tutor models.Tutor
	if err := db.Preload("User").First(&tutor, in.TutorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTutorNotFound
		}
		return nil, err
	}
	var course models.Course
	if err := db.First(&course, in.CourseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	var count int64
	if err := db.Model(&models.Availability{}).
		Where("tutor_id = ? AND date = ? AND timeblock = ?", tutor.ID, date, in.Timeblock).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrDuplicateSlot
	}

	slot := models.Availability{
		TutorID:   &tutor.ID,
		Date:      date,
		Timeblock: in.Timeblock,
		CourseID:  course.ID,
		Status:    models.StatusAvailable,
	}
	if err := db.Omit(clause.Associations).Create(&slot).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateSlot
		}
		return nil, fmt.Errorf("create slot: %w", err)
	}
	slot.Tutor = &tutor
	slot.Course = course
	return &slot, nil
}

type BookInput struct {
	SlotID    uint
	StudentID uint
	// RequireEnrollment rejects bookings for courses the student does not
	// take. Admins booking on a student's behalf skip it.
	RequireEnrollment bool
}

// BookSlot assigns an Available slot to a student. The status check and the
// write happen in one transaction and the update is conditional on the slot
// still being Available, so two concurrent bookings cannot both succeed.
// The no-show limit is not checked here.
func BookSlot(ctx context.Context, db *gorm.DB, in BookInput) (*models.Availability, error) {
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var slot models.Availability
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&slot, in.SlotID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSlotNotFound
			}
			return err
		}
		if slot.Status != models.StatusAvailable {
			return ErrSlotUnavailable
		}

		var student models.Student
		if err := tx.Preload("Courses").First(&student, in.StudentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrStudentNotFound
			}
			return err
		}
		if in.RequireEnrollment && !student.EnrolledIn(slot.CourseID) {
			return ErrNotEnrolled
		}

		res := tx.Model(&models.Availability{}).
			Where("id = ? AND status = ?", slot.ID, models.StatusAvailable).
			UpdateColumns(map[string]interface{}{
				"booked_by_id": student.ID,
				"status":       models.StatusBooked,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrSlotUnavailable
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return LoadSlot(ctx, db, in.SlotID)
}

// CancelAsStudent releases a booking; the slot returns to Available.
func CancelAsStudent(ctx context.Context, db *gorm.DB, slotID, studentID uint) (*models.Availability, error) {
	var slot models.Availability
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&slot, slotID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSlotNotFound
			}
			return err
		}
		if slot.BookedByID == nil || *slot.BookedByID != studentID {
			return ErrNotBookingStudent
		}
		res := tx.Model(&models.Availability{}).
			Where("id = ? AND booked_by_id = ?", slot.ID, studentID).
			UpdateColumns(map[string]interface{}{
				"booked_by_id": nil,
				"status":       models.StatusAvailable,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotBookingStudent
		}
		slot.BookedByID = nil
		slot.Status = models.StatusAvailable
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

// CancelAsTutor deletes the slot outright. It returns the deleted row.
func CancelAsTutor(ctx context.Context, db *gorm.DB, slotID, tutorID uint) (*models.Availability, error) {
	var slot models.Availability
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&slot, slotID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSlotNotFound
			}
			return err
		}
		if slot.TutorID == nil || *slot.TutorID != tutorID {
			return ErrNotSlotOwner
		}
		res := tx.Where("id = ? AND tutor_id = ?", slot.ID, tutorID).Delete(&models.Availability{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrSlotNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

// RecordNoShow bumps the booking student's no-show counter. tutorID nil
// means an admin is recording it and ownership is not checked.
func RecordNoShow(ctx context.Context, db *gorm.DB, slotID uint, tutorID *uint) (*models.Student, error) {
	var student models.Student
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var slot models.Availability
		if err := tx.First(&slot, slotID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSlotNotFound
			}
			return err
		}
		if tutorID != nil && (slot.TutorID == nil || *slot.TutorID != *tutorID) {
			return ErrNotSlotOwner
		}
		if slot.Status != models.StatusBooked || slot.BookedByID == nil {
			return ErrSlotNotBooked
		}
		if err := tx.Model(&models.Student{}).
			Where("id = ?", *slot.BookedByID).
			UpdateColumn("no_shows", gorm.Expr("no_shows + 1")).Error; err != nil {
			return err
		}
		return tx.Preload("User").First(&student, *slot.BookedByID).Error
	})
	if err != nil {
		return nil, err
	}
	return &student, nil
}

// CanBook is the display-only eligibility flag shown next to offered slots.
func CanBook(student *models.Student) bool {
	return student.EligibleToBook(config.Settings.NoShowLimit)
}

func LoadSlot(ctx context.Context, db *gorm.DB, id uint) (*models.Availability, error) {
	var slot models.Availability
	err := withSlotRelations(db.WithContext(ctx)).First(&slot, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSlotNotFound
		}
		return nil, err
	}
	return &slot, nil
}

type SlotFilter struct {
	// Student restricts the listing to the student's courses. Nil lists
	// every future slot.
	Student *models.Student
	Status  string
}

// OfferedSlots lists the slots dated strictly after today, ordered by date.
func OfferedSlots(ctx context.Context, db *gorm.DB, f SlotFilter, today time.Time) ([]models.Availability, error) {
	q := withSlotRelations(db.WithContext(ctx)).
		Where("date > ?", models.DateOf(today))

	if f.Student != nil {
		courseIDs := make([]uint, 0, len(f.Student.Courses))
		for _, c := range f.Student.Courses {
			courseIDs = append(courseIDs, c.ID)
		}
		if len(courseIDs) == 0 {
			return []models.Availability{}, nil
		}
		q = q.Where("course_id IN ?", courseIDs)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var slots []models.Availability
	if err := q.Order("date asc").Order("timeblock asc").Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

// SessionsOn returns every slot a tutor holds on the given date.
func SessionsOn(ctx context.Context, db *gorm.DB, tutorID uint, date time.Time) ([]models.Availability, error) {
	var slots []models.Availability
	err := db.WithContext(ctx).Preload("Course").
		Where("tutor_id = ? AND date = ?", tutorID, models.DateOf(date)).
		Order("timeblock asc").
		Find(&slots).Error
	if err != nil {
		return nil, err
	}
	return slots, nil
}

func withSlotRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Course").Preload("Tutor.User").Preload("BookedBy.User")
}
