package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/tutorcenter/scheduler/database"
	"github.com/tutorcenter/scheduler/middleware"
	"github.com/tutorcenter/scheduler/models"
	"github.com/tutorcenter/scheduler/services"
	"gorm.io/gorm"
)

type UpdateStudentProfileRequest struct {
	FirstName      string  `json:"first_name" form:"first_name" validate:"required,max=30"`
	LastName       string  `json:"last_name" form:"last_name" validate:"required,max=30"`
	ExternalID     *string `json:"external_id" form:"external_id" validate:"omitempty,max=20"`
	CourseIDs      []uint  `json:"course_ids" form:"course_ids"`
	ProfilePicture *string `json:"profile_picture" form:"profile_picture" validate:"omitempty,url"`
}

type UpdateTutorProfileRequest struct {
	FirstName      string  `json:"first_name" form:"first_name" validate:"required,max=30"`
	LastName       string  `json:"last_name" form:"last_name" validate:"required,max=30"`
	CourseIDs      []uint  `json:"course_ids" form:"course_ids"`
	ProfilePicture *string `json:"profile_picture" form:"profile_picture" validate:"omitempty,url"`
}

type UpdateAdminProfileRequest struct {
	FirstName string `json:"first_name" form:"first_name" validate:"max=150"`
	LastName  string `json:"last_name" form:"last_name" validate:"max=150"`
	Username  string `json:"username" form:"username" validate:"required,max=150"`
	Email     string `json:"email" form:"email" validate:"omitempty,email"`
}

func GetMyProfile(c *fiber.Ctx) error {
	p := middleware.CurrentPrincipal(c)
	resp := fiber.Map{"role": p.Role.String(), "user": p.User}
	switch p.Role {
	case middleware.RoleStudent:
		resp["profile"] = p.Student
		resp["eligible"] = services.CanBook(p.Student)
	case middleware.RoleTutor:
		resp["profile"] = p.Tutor
	}
	return c.JSON(resp)
}

var errUnknownCourse = errors.New("unknown course")

func loadCourses(tx *gorm.DB, ids []uint) ([]models.Course, error) {
	courses := []models.Course{}
	if len(ids) == 0 {
		return courses, nil
	}
	if err := tx.Where("id IN ?", ids).Find(&courses).Error; err != nil {
		return nil, err
	}
	if len(courses) != len(uniq(ids)) {
		return nil, errUnknownCourse
	}
	return courses, nil
}

func uniq(ids []uint) map[uint]struct{} {
	m := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		m[id] = struct{}{}
	}
	return m
}

func UpdateMyProfile(c *fiber.Ctx) error {
	p := middleware.CurrentPrincipal(c)
	var err error

	switch p.Role {
	case middleware.RoleStudent:
		var req UpdateStudentProfileRequest
		if ok, err := bind(c, &req); !ok {
			return err
		}
		err = database.DB.Transaction(func(tx *gorm.DB) error {
			courses, err := loadCourses(tx, req.CourseIDs)
			if err != nil {
				return err
			}
			if err := updateNames(tx, p.User, req.FirstName, req.LastName); err != nil {
				return err
			}
			if err := tx.Model(p.Student).UpdateColumns(map[string]interface{}{
				"external_id":     req.ExternalID,
				"profile_picture": req.ProfilePicture,
			}).Error; err != nil {
				return err
			}
			return tx.Model(p.Student).Association("Courses").Replace(courses)
		})
	case middleware.RoleTutor:
		var req UpdateTutorProfileRequest
		if ok, err := bind(c, &req); !ok {
			return err
		}
		err = database.DB.Transaction(func(tx *gorm.DB) error {
			courses, err := loadCourses(tx, req.CourseIDs)
			if err != nil {
				return err
			}
			if err := updateNames(tx, p.User, req.FirstName, req.LastName); err != nil {
				return err
			}
			if req.ProfilePicture != nil {
				if err := tx.Model(p.Tutor).UpdateColumn("profile_picture", *req.ProfilePicture).Error; err != nil {
					return err
				}
			}
			return tx.Model(p.Tutor).Association("Courses").Replace(courses)
		})
	case middleware.RoleAdmin:
		var req UpdateAdminProfileRequest
		if ok, err := bind(c, &req); !ok {
			return err
		}
		err = database.DB.Model(p.User).UpdateColumns(map[string]interface{}{
			"first_name": req.FirstName,
			"last_name":  req.LastName,
			"username":   req.Username,
			"email":      req.Email,
		}).Error
	default:
		return errorMessage(c, fiber.StatusForbidden, "User is not a student or tutor.")
	}

	switch {
	case errors.Is(err, errUnknownCourse):
		return errorMessage(c, fiber.StatusBadRequest, "Select valid courses.")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return errorMessage(c, fiber.StatusConflict, "A user with that username already exists.")
	case err != nil:
		return err
	}
	return message(c, fiber.StatusOK, "Profile Updated!")
}

func updateNames(tx *gorm.DB, u *models.User, first, last string) error {
	return tx.Model(u).UpdateColumns(map[string]interface{}{
		"first_name": first,
		"last_name":  last,
	}).Error
}
