package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tutorcenter/scheduler/database"
	"github.com/tutorcenter/scheduler/middleware"
	"github.com/tutorcenter/scheduler/models"
	"github.com/tutorcenter/scheduler/services"
)

type timelineResponse struct {
	Today    []SlotResponse `json:"today"`
	Upcoming []SlotResponse `json:"upcoming"`
	Done     []SlotResponse `json:"done"`
}

func toTimelineResponse(tl *services.Timeline) *timelineResponse {
	if tl == nil {
		return nil
	}
	return &timelineResponse{
		Today:    toSlotResponses(tl.Today),
		Upcoming: toSlotResponses(tl.Upcoming),
		Done:     toSlotResponses(tl.Done),
	}
}

// Home is the dashboard: the caller's sessions around today plus center
// wide counts.
func Home(c *fiber.Ctx) error {
	p := middleware.CurrentPrincipal(c)
	ctx := c.UserContext()
	today := services.Today()

	stats, err := services.DashboardStats(ctx, database.DB)
	if err != nil {
		return err
	}
	resp := fiber.Map{
		"today":    today.Format(models.DateLayout),
		"role":     p.Role.String(),
		"stats":    stats,
		"no_show":  0,
		"student":  nil,
		"tutor":    nil,
		"username": p.User.Username,
	}

	switch p.Role {
	case middleware.RoleStudent:
		tl, err := services.StudentTimeline(ctx, database.DB, p.Student.ID, today)
		if err != nil {
			return err
		}
		resp["student"] = toTimelineResponse(tl)
		resp["no_show"] = p.Student.NoShows
	case middleware.RoleTutor:
		tl, err := services.TutorTimeline(ctx, database.DB, p.Tutor.ID, today)
		if err != nil {
			return err
		}
		resp["tutor"] = toTimelineResponse(tl)
	}
	return c.JSON(resp)
}
