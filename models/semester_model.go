package models

import "time"

const (
	SemesterSpring = "SPRING"
	SemesterSummer = "SUMMER"
	SemesterFall   = "FALL"
)

type SemesterDates struct {
	Name            string    `gorm:"primaryKey;size:20" json:"name"`
	StartDate       time.Time `gorm:"type:date;not null" json:"start_date"`
	EndDate         time.Time `gorm:"type:date;not null" json:"end_date"`
	CurrentSemester bool      `gorm:"not null;default:false" json:"current_semester"`
}

func (SemesterDates) TableName() string {
	return "semester_dates"
}

// SemesterForMonth maps a calendar month to its semester label. Values
// outside 1..12 fall back to SPRING.
func SemesterForMonth(month int) string {
	switch {
	case month >= 1 && month <= 4:
		return SemesterSpring
	case month >= 5 && month <= 8:
		return SemesterSummer
	case month >= 9 && month <= 12:
		return SemesterFall
	default:
		return SemesterSpring
	}
}

func SemesterFor(date time.Time) string {
	return SemesterForMonth(int(date.Month()))
}

// DateOf truncates t to its calendar date, expressed as midnight UTC.
// Every stored date goes through it so comparisons stay consistent.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

const DateLayout = "2006-01-02"

func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return DateOf(t), nil
}
