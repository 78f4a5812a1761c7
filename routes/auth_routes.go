package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tutorcenter/scheduler/handlers"
)

func AuthRoutes(api fiber.Router) {
	auth := api.Group("/auth")
	auth.Post("/signup", handlers.Signup)
	auth.Post("/login", handlers.Login)
	auth.Post("/logout", handlers.Logout)
	auth.Get("/activate/:uidb64/:token", handlers.Activate)
	auth.Post("/forgot-password", handlers.ForgotPassword)
	auth.Get("/password-reset/:uidb64/:token", handlers.CheckPasswordResetLink)
	auth.Post("/password-reset/:uidb64/:token", handlers.ConfirmPasswordReset)
	auth.Post("/change-password", with(authenticated(), handlers.ChangePassword)...)
}
