package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tutorcenter/scheduler/metrics"
	"github.com/tutorcenter/scheduler/middleware"
)

// Setup mounts every route. Call it after configuration is loaded, since
// the JWT middleware captures the signing key at construction.
func Setup(app *fiber.App) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", metrics.Handler())

	api := app.Group("/api/v1")

	PublicRoutes(api)
	AuthRoutes(api)
	SessionRoutes(api)
	ProfileRoutes(api)
	UploadRoutes(api)
	AdminRoutes(api)
	LiveRoutes(api)
}

func authenticated() []fiber.Handler {
	return []fiber.Handler{middleware.Protected(), middleware.ResolvePrincipal()}
}

func with(chain []fiber.Handler, h ...fiber.Handler) []fiber.Handler {
	out := make([]fiber.Handler, 0, len(chain)+len(h))
	out = append(out, chain...)
	return append(out, h...)
}
