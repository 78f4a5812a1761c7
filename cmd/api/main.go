package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	config "github.com/tutorcenter/scheduler/configs"
	"github.com/tutorcenter/scheduler/database"
	"github.com/tutorcenter/scheduler/handlers"
	"github.com/tutorcenter/scheduler/jobs"
	"github.com/tutorcenter/scheduler/logging"
	"github.com/tutorcenter/scheduler/metrics"
	"github.com/tutorcenter/scheduler/models"
	"github.com/tutorcenter/scheduler/notifications"
	"github.com/tutorcenter/scheduler/observability"
	"github.com/tutorcenter/scheduler/routes"
	"github.com/tutorcenter/scheduler/websocket"
	"go.uber.org/zap"
)

var version = "dev"

func main() {
	settings, err := config.Load()
	if err != nil {
		panic(err)
	}

	lg, err := logging.Init(settings.LogLevel, settings.Env)
	if err != nil {
		panic(err)
	}
	defer lg.Closer()

	flush, err := observability.InitSentry(settings.SentryDSN, settings.Env, version)
	if err != nil {
		zap.S().Warnw("sentry disabled", "error", err)
	}
	defer flush()

	if err := models.UseTimeblockScheme(settings.TimeblockScheme); err != nil {
		zap.S().Fatalw("timeblock scheme", "error", err)
	}
	if err := database.ConnectDB(settings.DatabaseURL); err != nil {
		zap.S().Fatalw("database", "error", err)
	}
	if err := database.Migrate(database.DB); err != nil {
		zap.S().Fatalw("migrate", "error", err)
	}
	if err := database.SeedAdmin(database.DB, settings); err != nil {
		zap.S().Fatalw("seed admin", "error", err)
	}
	notifications.InitEmailService(settings)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go websocket.Default.Run(ctx)

	jobs.Run(ctx, "refresh_semester", jobs.RefreshSemester)()
	c := cron.New(cron.WithLocation(settings.Location))
	if err := jobs.Schedule(ctx, c); err != nil {
		zap.S().Fatalw("schedule jobs", "error", err)
	}
	c.Start()
	zap.S().Info("cron jobs scheduled")

	app := fiber.New(fiber.Config{
		Prefork:       false,
		AppName:       "Tutoring Center Scheduler",
		CaseSensitive: true,
		StrictRouting: true,
		ReadTimeout:   15 * time.Second,
		WriteTimeout:  15 * time.Second,
		IdleTimeout:   60 * time.Second,
		ErrorHandler:  handlers.ErrorHandler,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Content-Disposition, Authorization",
		MaxAge:        86400,
	}))
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   settings.Location.String(),
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(metrics.Middleware())

	routes.Setup(app)

	go func() {
		<-ctx.Done()
		zap.S().Info("shutting down")
		<-c.Stop().Done()
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			zap.S().Errorw("shutdown", "error", err)
		}
	}()

	zap.S().Infow("server starting", "port", settings.Port)
	if err := app.Listen(":" + settings.Port); err != nil {
		zap.S().Fatalw("server failed to start", "error", err)
	}
}
