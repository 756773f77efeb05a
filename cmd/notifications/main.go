package main

import (
	"campushub/internal/notifications/handler"
	"campushub/internal/notifications/ingest"
	"campushub/internal/notifications/repository"
	"campushub/internal/notifications/service"
	"campushub/internal/notifications/validator"
	"campushub/pkg/app"
	"campushub/pkg/config"
)

const ServiceName = "notifications"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Notifications service")
	notificationService := initServices(cfg)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewNotificationHandler(notificationService, cfg.Log))

	ingestor, err := ingest.New(notificationService, cfg)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize notification ingest", "error", err)
	}
	serverApp.RegisterWorker(ingestor)

	serverApp.Run()
}

func initServices(cfg *config.Config) service.NotificationService {
	notificationValidator := validator.NewNotificationValidator(cfg.Log)
	notificationRepo := repository.NewMongoNotificationRepository(cfg)
	notificationService := service.NewNotificationService(
		notificationRepo,
		notificationValidator,
		cfg,
	)

	cfg.Log.Info("Notification service initialized", "database", cfg.MongoDatabaseName)
	return notificationService
}
