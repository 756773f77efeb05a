package main

import (
	"campushub/internal/courses/handler"
	"campushub/internal/courses/repository"
	"campushub/internal/courses/service"
	"campushub/internal/courses/validator"
	"campushub/pkg/app"
	"campushub/pkg/auth"
	"campushub/pkg/client"
	"campushub/pkg/config"
	"campushub/pkg/mailer"
	"campushub/pkg/model"
	"campushub/pkg/storage"
)

const ServiceName = "courses"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Courses service")
	courseService := initServices(cfg)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewCourseHandler(
		courseService,
		auth.RoleGuard(cfg.JWTSecret != "", cfg.Log, model.RoleLecturer, model.RoleAdmin),
		cfg.Log,
	))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.CourseService {
	materialStore, err := storage.NewFilesystemStore(cfg.MaterialsDir, cfg.MaxUploadSize)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize material store", "dir", cfg.MaterialsDir, "error", err)
	}

	userClient := client.NewUserClient(cfg.UserServiceURL)
	if err := userClient.WaitForHealthy(cfg.UserServiceWaitTimeout); err != nil {
		// Registration lookups will surface Unavailable until it comes up.
		cfg.Log.Warn("Users service not healthy at startup", "url", cfg.UserServiceURL, "error", err)
	}

	courseValidator := validator.NewCourseValidator(cfg.Log)
	courseRepo := repository.NewMongoCourseRepository(cfg)
	courseService := service.NewCourseService(
		courseRepo,
		courseValidator,
		userClient,
		mailer.New(cfg.SendGridKey, cfg.EmailFromName, cfg.EmailFromAddress, cfg.Log),
		materialStore,
		cfg,
	)

	cfg.Log.Info("Course service initialized",
		"database", cfg.MongoDatabaseName,
		"materials_dir", cfg.MaterialsDir,
	)
	return courseService
}
