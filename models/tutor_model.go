package models

const DefaultTutorPicture = "static/images/favicons/Blue_logo.png"

type Tutor struct {
	ID             uint     `gorm:"primaryKey" json:"id"`
	UserID         uint     `gorm:"not null;uniqueIndex" json:"user_id"`
	User           User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user"`
	Courses        []Course `gorm:"many2many:tutor_courses;" json:"courses"`
	ProfilePicture *string  `gorm:"size:255;default:'static/images/favicons/Blue_logo.png'" json:"profile_picture"`
}
