package routes

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/tutorcenter/scheduler/handlers"
)

func LiveRoutes(api fiber.Router) {
	api.Use("/ws", handlers.WsUpgrade)
	api.Get("/ws", websocket.New(handlers.ServeWs))
}
