package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

const (
	StatusAvailable = "A"
	StatusBooked    = "B"
	StatusCanceled  = "C"
)

var statusLabels = map[string]string{
	StatusAvailable: "Available",
	StatusBooked:    "Booked",
	StatusCanceled:  "Canceled",
}

func StatusLabel(code string) string {
	if l, ok := statusLabels[code]; ok {
		return l
	}
	return code
}

type Availability struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	TutorID    *uint     `gorm:"uniqueIndex:idx_availability_tutor_date_block" json:"tutor_id"`
	Tutor      *Tutor    `gorm:"foreignKey:TutorID;constraint:OnDelete:CASCADE" json:"tutor,omitempty"`
	Date       time.Time `gorm:"type:date;not null;uniqueIndex:idx_availability_tutor_date_block" json:"date"`
	Timeblock  string    `gorm:"size:1;not null;uniqueIndex:idx_availability_tutor_date_block" json:"timeblock"`
	BookedByID *uint     `gorm:"index" json:"booked_by_id"`
	BookedBy   *Student  `gorm:"foreignKey:BookedByID;constraint:OnDelete:SET NULL" json:"booked_by,omitempty"`
	CourseID   uint      `gorm:"not null;index" json:"course_id"`
	Course     Course    `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"course"`
	Status     string    `gorm:"size:1;not null;default:'A'" json:"status"`
	Semester   string    `gorm:"size:25" json:"semester"`
}

// BeforeSave derives the semester from the slot date; whatever the caller put
// in Semester is overwritten.
func (a *Availability) BeforeSave(tx *gorm.DB) error {
	if a.Date.IsZero() {
		return nil
	}
	a.Date = DateOf(a.Date)
	a.Semester = SemesterFor(a.Date)
	return nil
}

func (a *Availability) String() string {
	tutor, student := "<none>", "<none>"
	if a.Tutor != nil {
		tutor = a.Tutor.User.Username
	}
	if a.BookedBy != nil {
		student = a.BookedBy.User.Username
	}
	return fmt.Sprintf("%s - %s - %s with %s is %s",
		tutor, a.Date.Format(DateLayout), TimeblockLabel(a.Timeblock), student, a.Status)
}
