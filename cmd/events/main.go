package main

import (
	"campushub/internal/events/handler"
	"campushub/internal/events/repository"
	"campushub/internal/events/service"
	"campushub/internal/events/validator"
	"campushub/pkg/app"
	"campushub/pkg/auth"
	"campushub/pkg/config"
	"campushub/pkg/model"
)

const ServiceName = "events"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Events service")
	eventService := initServices(cfg)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewEventHandler(
		eventService,
		auth.RoleGuard(cfg.JWTSecret != "", cfg.Log, model.RoleLecturer, model.RoleAdmin),
		cfg.Log,
	))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.EventService {
	eventValidator := validator.NewEventValidator(cfg.Log)
	eventRepo := repository.NewMongoEventRepository(cfg)
	eventService := service.NewEventService(
		eventRepo,
		eventValidator,
		cfg,
	)

	cfg.Log.Info("Event service initialized", "database", cfg.MongoDatabaseName)
	return eventService
}
