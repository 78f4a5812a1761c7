package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tutorcenter/scheduler/handlers"
)

func ProfileRoutes(api fiber.Router) {
	profile := api.Group("/profile/me", authenticated()...)
	profile.Get("", handlers.GetMyProfile)
	profile.Put("", handlers.UpdateMyProfile)
}
