package main

import (
	"campushub/internal/schedules/handler"
	"campushub/internal/schedules/repository"
	"campushub/internal/schedules/service"
	"campushub/internal/schedules/validator"
	"campushub/pkg/app"
	"campushub/pkg/config"
)

const ServiceName = "schedules"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Schedules service")
	scheduleService := initServices(cfg)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewScheduleHandler(scheduleService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.ScheduleService {
	scheduleValidator := validator.NewScheduleValidator(cfg.Log)
	scheduleRepo := repository.NewMongoScheduleRepository(cfg)
	scheduleService := service.NewScheduleService(
		scheduleRepo,
		scheduleValidator,
		cfg,
	)

	cfg.Log.Info("Schedule service initialized", "database", cfg.MongoDatabaseName)
	return scheduleService
}
