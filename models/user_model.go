package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

const (
	GroupStudent = "student"
	GroupTutor   = "tutor"
)

type User struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Username    string     `gorm:"size:150;not null;uniqueIndex" json:"username"`
	Email       string     `gorm:"size:254;index" json:"email"`
	FirstName   string     `gorm:"size:150" json:"first_name"`
	LastName    string     `gorm:"size:150" json:"last_name"`
	Password    string     `gorm:"not null" json:"-"`
	IsActive    bool       `gorm:"not null;default:false" json:"is_active"`
	IsSuperuser bool       `gorm:"not null;default:false" json:"is_superuser"`
	LastLogin   *time.Time `json:"last_login"`
	Groups      []Group    `gorm:"many2many:user_groups;" json:"groups,omitempty"`

	CreatedAt time.Time `json:"date_joined"`
	UpdatedAt time.Time `json:"-"`
}

type Group struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:150;not null;uniqueIndex" json:"name"`
}

func (u *User) SetPassword(raw string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	return nil
}

func (u *User) CheckPassword(raw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(raw)) == nil
}

func (u *User) FullName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.Username
	}
}

func (u *User) InGroup(name string) bool {
	for _, g := range u.Groups {
		if g.Name == name {
			return true
		}
	}
	return false
}
