package main

import (
	"campushub/internal/resources/handler"
	"campushub/internal/resources/repository"
	"campushub/internal/resources/service"
	"campushub/internal/resources/sweeper"
	"campushub/internal/resources/validator"
	"campushub/pkg/app"
	"campushub/pkg/auth"
	"campushub/pkg/config"
	"campushub/pkg/kafka"
	kafka_config "campushub/pkg/kafka/config"
	"campushub/pkg/model"
	"campushub/pkg/realtime"
)

const ServiceName = "resources"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Resources service")

	notifier := initNotifier(cfg)
	defer notifier.Close()

	resourceRepo := repository.NewMongoResourceRepository(cfg)
	resourceService := initServices(cfg, resourceRepo, notifier)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewResourceHandler(
		resourceService,
		auth.RoleGuard(cfg.JWTSecret != "", cfg.Log, model.RoleAdmin),
		cfg.Log,
	))
	serverApp.RegisterWorker(sweeper.New(resourceRepo, resourceService.Usage, notifier, cfg))
	serverApp.Run()
}

func initNotifier(cfg *config.Config) *realtime.KafkaNotifier {
	kafkaCfg := kafka_config.Load()
	producer, err := kafka.NewProducer(kafkaCfg, cfg.RealtimeTopic, cfg.RealtimeDLQTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to create realtime producer", "error", err)
	}

	notifier, err := realtime.NewKafkaNotifier(producer, ServiceName, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize realtime notifier", "error", err)
	}

	cfg.Log.Info("Realtime notifier initialized", "topic", cfg.RealtimeTopic)
	return notifier
}

func initServices(
	cfg *config.Config,
	resourceRepo repository.ResourceRepository,
	notifier realtime.Notifier,
) service.ResourceService {
	resourceValidator := validator.NewResourceValidator(cfg.Log)
	resourceService := service.NewResourceService(
		resourceRepo,
		resourceValidator,
		notifier,
		cfg,
	)

	cfg.Log.Info("Resource service initialized", "database", cfg.MongoDatabaseName)
	return resourceService
}
