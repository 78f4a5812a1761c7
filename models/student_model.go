package models

type Student struct {
	ID             uint     `gorm:"primaryKey" json:"id"`
	UserID         uint     `gorm:"not null;uniqueIndex" json:"user_id"`
	User           User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user"`
	ExternalID     *string  `gorm:"size:20" json:"external_id"`
	Courses        []Course `gorm:"many2many:student_courses;" json:"courses"`
	NoShows        int      `gorm:"not null;default:0;check:chk_students_no_shows,no_shows >= 0" json:"no_shows"`
	ProfilePicture *string  `gorm:"size:255" json:"profile_picture"`
}

// EligibleToBook reports whether the student's no-show record still allows
// booking. limit is the highest tolerated number of no-shows.
func (s *Student) EligibleToBook(limit int) bool {
	return s.NoShows <= limit
}

func (s *Student) EnrolledIn(courseID uint) bool {
	for _, c := range s.Courses {
		if c.ID == courseID {
			return true
		}
	}
	return false
}
