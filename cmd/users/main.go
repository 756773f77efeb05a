package main

import (
	"campushub/internal/users/handler"
	"campushub/internal/users/repository"
	"campushub/internal/users/service"
	"campushub/internal/users/validator"
	"campushub/pkg/app"
	"campushub/pkg/auth"
	"campushub/pkg/config"
	db_mongo "campushub/pkg/db/mongo"
	"campushub/pkg/model"
)

const ServiceName = "users"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Users service")
	userService := initServices(cfg)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewUserHandler(
		userService,
		auth.RoleGuard(cfg.JWTSecret != "", cfg.Log, model.RoleAdmin),
		cfg.Log,
	))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.UserService {
	userValidator := validator.NewUserValidator(cfg.Log)
	userRepo := repository.NewMongoUserRepository(cfg)
	userService := service.NewUserService(
		userRepo,
		userValidator,
		db_mongo.NewTransactionManager(cfg.Client.Mongo),
		cfg,
	)

	cfg.Log.Info("User service initialized", "database", cfg.MongoDatabaseName)
	return userService
}
