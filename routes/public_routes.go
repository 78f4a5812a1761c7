package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tutorcenter/scheduler/handlers"
)

func PublicRoutes(api fiber.Router) {
	api.Get("/courses", handlers.ListCourses)
	api.Get("/tutors", handlers.ListTutors)
	api.Get("/timeblocks", handlers.ListTimeblocks)
}
