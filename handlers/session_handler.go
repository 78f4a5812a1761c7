package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/tutorcenter/scheduler/database"
	"github.com/tutorcenter/scheduler/metrics"
	"github.com/tutorcenter/scheduler/middleware"
	"github.com/tutorcenter/scheduler/models"
	"github.com/tutorcenter/scheduler/services"
	"github.com/tutorcenter/scheduler/websocket"
)

const errSessionNotFound = "Session not found or already cancelled."

func cancelResult(c *fiber.Ctx, errMsg string) error {
	if errMsg == "" {
		return c.JSON(fiber.Map{"success": true})
	}
	return c.JSON(fiber.Map{"success": false, "error": errMsg})
}

// CancelSession answers {success, error?}. Students release their booking;
// tutors delete the slot.
func CancelSession(c *fiber.Ctx) error {
	p := middleware.CurrentPrincipal(c)
	type Request struct {
		SessionID string `json:"session_id" form:"session_id"`
	}
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return cancelResult(c, errSessionNotFound)
	}
	id, err := strconv.ParseUint(req.SessionID, 10, 64)
	if err != nil {
		return cancelResult(c, errSessionNotFound)
	}
	ctx := c.UserContext()

	switch p.Role {
	case middleware.RoleStudent:
		slot, err := services.CancelAsStudent(ctx, database.DB, uint(id), p.Student.ID)
		switch {
		case errors.Is(err, services.ErrSlotNotFound), errors.Is(err, services.ErrNotBookingStudent):
			return cancelResult(c, errSessionNotFound)
		case err != nil:
			return err
		}
		metrics.Cancellations.WithLabelValues("student").Inc()
		websocket.Default.Publish(websocket.NewSlotEvent(websocket.EventSlotCancelled, slot))
	case middleware.RoleTutor:
		slot, err := services.CancelAsTutor(ctx, database.DB, uint(id), p.Tutor.ID)
		switch {
		case errors.Is(err, services.ErrSlotNotFound), errors.Is(err, services.ErrNotSlotOwner):
			return cancelResult(c, errSessionNotFound)
		case err != nil:
			return err
		}
		metrics.Cancellations.WithLabelValues("tutor").Inc()
		websocket.Default.Publish(websocket.NewSlotEvent(websocket.EventSlotDeleted, slot))
	default:
		return cancelResult(c, "User is not a student or tutor.")
	}
	return cancelResult(c, "")
}

func SessionHistory(c *fiber.Ctx) error {
	p := middleware.CurrentPrincipal(c)
	today := services.Today()
	studentHistory, tutorHistory := []models.Availability{}, []models.Availability{}
	var err error

	switch p.Role {
	case middleware.RoleStudent:
		studentHistory, err = services.StudentHistory(c.UserContext(), database.DB, p.Student.ID, today)
	case middleware.RoleTutor:
		tutorHistory, err = services.TutorHistory(c.UserContext(), database.DB, p.Tutor.ID, today)
	}
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"today":                   today.Format(models.DateLayout),
		"student_session_history": toSlotResponses(studentHistory),
		"tutor_session_history":   toSlotResponses(tutorHistory),
	})
}

type sessionEntry struct {
	Timeblock string `json:"timeblock"`
	Course    string `json:"course"`
}

// GetSessions is the polling endpoint used by booking forms: the sessions a
// tutor holds on a date. Bad parameters yield an empty history.
func GetSessions(c *fiber.Ctx) error {
	history := []sessionEntry{}
	tutorID, err := strconv.ParseUint(c.Query("tutor"), 10, 64)
	if err != nil {
		return c.JSON(fiber.Map{"history": history})
	}
	date, err := models.ParseDate(c.Query("date"))
	if err != nil {
		return c.JSON(fiber.Map{"history": history})
	}

	slots, err := services.SessionsOn(c.UserContext(), database.DB, uint(tutorID), date)
	if err != nil {
		return err
	}
	for _, s := range slots {
		history = append(history, sessionEntry{Timeblock: s.Timeblock, Course: s.Course.Name})
	}
	return c.JSON(fiber.Map{"history": history})
}
