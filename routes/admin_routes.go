package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tutorcenter/scheduler/handlers"
	"github.com/tutorcenter/scheduler/middleware"
)

func AdminRoutes(api fiber.Router) {
	admin := api.Group("/admin", with(authenticated(), middleware.AdminRequired())...)

	admin.Post("/roles", handlers.AssignRole)
	admin.Get("/users", handlers.ListUsers)

	semesters := admin.Group("/semesters")
	semesters.Get("", handlers.ListSemesters)
	semesters.Post("", handlers.AddSemester)

	admin.Get("/courses", handlers.ListCourses)
	admin.Post("/courses", handlers.CreateCourse)
	admin.Get("/departments", handlers.ListDepartments)
	admin.Post("/departments", handlers.CreateDepartment)

	reports := admin.Group("/reports")
	reports.Get("/sessions", handlers.SessionReport)
}
