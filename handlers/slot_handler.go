package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/tutorcenter/scheduler/database"
	"github.com/tutorcenter/scheduler/metrics"
	"github.com/tutorcenter/scheduler/middleware"
	"github.com/tutorcenter/scheduler/models"
	"github.com/tutorcenter/scheduler/notifications"
	"github.com/tutorcenter/scheduler/services"
	"github.com/tutorcenter/scheduler/websocket"
	"go.uber.org/zap"
)

type CreateSlotRequest struct {
	TutorID   uint   `json:"tutor_id" form:"tutor_id"`
	Date      string `json:"date" form:"date" validate:"required,datetime=2006-01-02"`
	Timeblock string `json:"timeblock" form:"timeblock" validate:"required,len=1"`
	CourseID  uint   `json:"course_id" form:"course_id" validate:"required"`
}

type BookSlotRequest struct {
	StudentID uint `json:"student_id" form:"student_id"`
}

type SlotResponse struct {
	ID             uint   `json:"id"`
	Date           string `json:"date"`
	Timeblock      string `json:"timeblock"`
	TimeblockLabel string `json:"timeblock_label"`
	Status         string `json:"status"`
	StatusLabel    string `json:"status_label"`
	Semester       string `json:"semester"`
	CourseID       uint   `json:"course_id"`
	Course         string `json:"course"`
	TutorID        *uint  `json:"tutor_id"`
	Tutor          string `json:"tutor,omitempty"`
	BookedByID     *uint  `json:"booked_by_id"`
	BookedBy       string `json:"booked_by,omitempty"`
}

func toSlotResponse(s *models.Availability) SlotResponse {
	r := SlotResponse{
		ID:             s.ID,
		Date:           s.Date.Format(models.DateLayout),
		Timeblock:      s.Timeblock,
		TimeblockLabel: models.TimeblockLabel(s.Timeblock),
		Status:         s.Status,
		StatusLabel:    models.StatusLabel(s.Status),
		Semester:       s.Semester,
		CourseID:       s.CourseID,
		Course:         s.Course.Name,
		TutorID:        s.TutorID,
		BookedByID:     s.BookedByID,
	}
	if s.Tutor != nil {
		r.Tutor = s.Tutor.User.FullName()
	}
	if s.BookedBy != nil {
		r.BookedBy = s.BookedBy.User.FullName()
	}
	return r
}

func toSlotResponses(slots []models.Availability) []SlotResponse {
	out := make([]SlotResponse, 0, len(slots))
	for i := range slots {
		out = append(out, toSlotResponse(&slots[i]))
	}
	return out
}

func CreateSlot(c *fiber.Ctx) error {
	p := middleware.CurrentPrincipal(c)
	var req CreateSlotRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}
	date, err := models.ParseDate(req.Date)
	if err != nil {
		return errorMessage(c, fiber.StatusBadRequest, "Enter a valid date.")
	}

	tutorID := req.TutorID
	switch p.Role {
	case middleware.RoleTutor:
		tutorID = p.Tutor.ID
	case middleware.RoleAdmin:
		if tutorID == 0 {
			return errorMessage(c, fiber.StatusBadRequest, "Select a tutor.")
		}
	}

	slot, err := services.CreateSlot(c.UserContext(), database.DB, services.CreateSlotInput{
		TutorID:   tutorID,
		Date:      date,
		Timeblock: req.Timeblock,
		CourseID:  req.CourseID,
	})
	switch {
	case errors.Is(err, services.ErrDuplicateSlot):
		return errorMessage(c, fiber.StatusConflict, "A slot already exists for the selected tutor, date, and timeblock.")
	case errors.Is(err, services.ErrInvalidTimeblock):
		return errorMessage(c, fiber.StatusBadRequest, "Select a valid timeblock.")
	case errors.Is(err, services.ErrCourseNotFound), errors.Is(err, services.ErrTutorNotFound):
		return errorMessage(c, fiber.StatusNotFound, err.Error())
	case err != nil:
		return err
	}
	metrics.SlotsCreated.Inc()
	websocket.Default.Publish(websocket.NewSlotEvent(websocket.EventSlotCreated, slot))

	if err := notifications.SendSessionCreated(c.UserContext(), slot); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Session created successfully.",
		"slot":    toSlotResponse(slot),
	})
}

// AvailableSlots lists the slots offered to the caller. Students only see
// their courses and carry an eligibility flag derived from no-shows.
func AvailableSlots(c *fiber.Ctx) error {
	p := middleware.CurrentPrincipal(c)
	filter := services.SlotFilter{Status: c.Query("status")}
	resp := fiber.Map{}

	if p.Role == middleware.RoleStudent {
		filter.Student = p.Student
		resp["eligible"] = services.CanBook(p.Student)
		resp["no_shows"] = p.Student.NoShows
	} else {
		resp["eligible"] = true
	}

	slots, err := services.OfferedSlots(c.UserContext(), database.DB, filter, services.Today())
	if err != nil {
		return err
	}
	resp["slots"] = toSlotResponses(slots)
	return c.JSON(resp)
}

func BookSlot(c *fiber.Ctx) error {
	p := middleware.CurrentPrincipal(c)
	slotID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return errorMessage(c, fiber.StatusBadRequest, "Invalid slot ID")
	}

	in := services.BookInput{SlotID: uint(slotID)}
	switch p.Role {
	case middleware.RoleStudent:
		in.StudentID = p.Student.ID
		in.RequireEnrollment = true
	case middleware.RoleAdmin:
		var req BookSlotRequest
		if err := c.BodyParser(&req); err != nil || req.StudentID == 0 {
			return errorMessage(c, fiber.StatusBadRequest, "Select a student.")
		}
		in.StudentID = req.StudentID
	default:
		return errorMessage(c, fiber.StatusForbidden, "Only students can book sessions.")
	}

	slot, err := services.BookSlot(c.UserContext(), database.DB, in)
	switch {
	case errors.Is(err, services.ErrSlotNotFound), errors.Is(err, services.ErrStudentNotFound):
		metrics.Bookings.WithLabelValues("not_found").Inc()
		return errorMessage(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrSlotUnavailable):
		metrics.Bookings.WithLabelValues("unavailable").Inc()
		return errorMessage(c, fiber.StatusConflict, "This session is no longer available.")
	case errors.Is(err, services.ErrNotEnrolled):
		metrics.Bookings.WithLabelValues("not_enrolled").Inc()
		return errorMessage(c, fiber.StatusForbidden, "You are not enrolled in this course.")
	case err != nil:
		metrics.Bookings.WithLabelValues("error").Inc()
		return err
	}
	metrics.Bookings.WithLabelValues("booked").Inc()
	websocket.Default.Publish(websocket.NewSlotEvent(websocket.EventSlotBooked, slot))
	zap.S().Infow("slot booked", "slot", slot.ID, "student", in.StudentID)

	if err := notifications.SendSessionBooked(c.UserContext(), slot); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Session booked successfully",
		"slot":    toSlotResponse(slot),
	})
}

func RecordNoShow(c *fiber.Ctx) error {
	p := middleware.CurrentPrincipal(c)
	slotID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return errorMessage(c, fiber.StatusBadRequest, "Invalid slot ID")
	}
	var tutorID *uint
	if p.Role == middleware.RoleTutor {
		tutorID = &p.Tutor.ID
	}

	student, err := services.RecordNoShow(c.UserContext(), database.DB, uint(slotID), tutorID)
	switch {
	case errors.Is(err, services.ErrSlotNotFound):
		return errorMessage(c, fiber.StatusNotFound, "Session not found.")
	case errors.Is(err, services.ErrNotSlotOwner):
		return errorMessage(c, fiber.StatusForbidden, "You are not authorized to access this page.")
	case errors.Is(err, services.ErrSlotNotBooked):
		return errorMessage(c, fiber.StatusConflict, "Only booked sessions can be marked as a no-show.")
	case err != nil:
		return err
	}
	metrics.NoShows.Inc()
	return c.JSON(fiber.Map{
		"message":  "No-show recorded.",
		"student":  student.ID,
		"no_shows": student.NoShows,
		"eligible": services.CanBook(student),
	})
}
