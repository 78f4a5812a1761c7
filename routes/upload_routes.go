package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tutorcenter/scheduler/handlers"
)

func UploadRoutes(api fiber.Router) {
	uploads := api.Group("/uploads", authenticated()...)
	uploads.Get("/signature", handlers.GenerateUploadSignature)
}
