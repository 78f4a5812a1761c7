package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tutorcenter/scheduler/database"
	"github.com/tutorcenter/scheduler/models"
)

func ListCourses(c *fiber.Ctx) error {
	var courses []models.Course
	if err := database.DB.Order("name asc").Find(&courses).Error; err != nil {
		return err
	}
	return c.JSON(courses)
}

type tutorEntry struct {
	ID             uint            `json:"id"`
	Name           string          `json:"name"`
	ProfilePicture *string         `json:"profile_picture"`
	Courses        []models.Course `json:"courses"`
}

func ListTutors(c *fiber.Ctx) error {
	var tutors []models.Tutor
	if err := database.DB.Preload("User").Preload("Courses").Order("id asc").Find(&tutors).Error; err != nil {
		return err
	}
	out := make([]tutorEntry, 0, len(tutors))
	for _, t := range tutors {
		out = append(out, tutorEntry{
			ID:             t.ID,
			Name:           t.User.FullName(),
			ProfilePicture: t.ProfilePicture,
			Courses:        t.Courses,
		})
	}
	return c.JSON(out)
}

func ListTimeblocks(c *fiber.Ctx) error {
	return c.JSON(models.ActiveTimeblocks)
}
