package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tutorcenter/scheduler/handlers"
	"github.com/tutorcenter/scheduler/middleware"
)

func SessionRoutes(api fiber.Router) {
	user := authenticated()
	staff := with(user, middleware.RoleRequired(middleware.RoleTutor, middleware.RoleAdmin))

	api.Get("/home", with(user, handlers.Home)...)

	api.Get("/slots/available", with(user, handlers.AvailableSlots)...)
	api.Post("/slots", with(staff, handlers.CreateSlot)...)
	api.Post("/slots/:id/book", with(user, handlers.BookSlot)...)
	api.Post("/slots/:id/no-show", with(staff, handlers.RecordNoShow)...)

	// /sessions stays public for the booking form's availability polling.
	api.Get("/sessions", handlers.GetSessions)
	api.Post("/sessions/cancel", with(user, handlers.CancelSession)...)
	api.Get("/sessions/history", with(user, handlers.SessionHistory)...)
}
