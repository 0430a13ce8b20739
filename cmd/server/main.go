package main

import (
	bookinghandler "rentwheels/internal/bookings/handler"
	bookingrepo "rentwheels/internal/bookings/repository"
	bookingservice "rentwheels/internal/bookings/service"
	bookingvalidator "rentwheels/internal/bookings/validator"
	carhandler "rentwheels/internal/cars/handler"
	carrepo "rentwheels/internal/cars/repository"
	carservice "rentwheels/internal/cars/service"
	"rentwheels/internal/cars/storage"
	carvalidator "rentwheels/internal/cars/validator"
	identityhandler "rentwheels/internal/identity/handler"
	authmw "rentwheels/internal/identity/middleware"
	identityrepo "rentwheels/internal/identity/repository"
	identityservice "rentwheels/internal/identity/service"
	"rentwheels/internal/identity/token"
	identityvalidator "rentwheels/internal/identity/validator"
	"rentwheels/pkg/app"
	"rentwheels/pkg/config"
	"rentwheels/pkg/kafka"
	kafka_config "rentwheels/pkg/kafka/config"
	"rentwheels/pkg/mail"
)

const ServiceName = "server"

func main() {
	cfg := config.Load(ServiceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}
	cfg.LogConfiguration()

	cfg.SetMongo()
	cfg.SetMinio()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting API server")

	dispatcher, producer := initMail(cfg)
	defer func() {
		if err := producer.Close(); err != nil {
			cfg.Log.Error("Failed to close mail producer", "error", err)
		}
	}()

	userRepo := identityrepo.NewMongoUserRepository(cfg)
	pendingRepo := identityrepo.NewMongoPendingUserRepository(cfg)
	carRepo := carrepo.NewMongoCarRepository(cfg)
	bookingRepo := bookingrepo.NewMongoBookingRepository(cfg)
	lockRepo := bookingrepo.NewBookingLockRepository(cfg)

	tokens := token.NewManager(cfg.JWTSecret, cfg.TokenTTL)
	auth := authmw.NewAuthenticator(tokens, userRepo, cfg.Log)

	imageStore, err := storage.NewMinioImageStore(cfg)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize image store", "error", err)
	}

	identitySvc := identityservice.NewIdentityService(
		userRepo,
		pendingRepo,
		identityvalidator.NewUserValidator(cfg.Log),
		tokens,
		dispatcher,
		cfg,
	)
	carSvc := carservice.NewCarService(
		carRepo,
		bookingRepo,
		userRepo,
		carvalidator.NewCarValidator(cfg.Log),
		imageStore,
		cfg,
	)
	bookingSvc := bookingservice.NewBookingService(
		bookingRepo,
		lockRepo,
		carRepo,
		userRepo,
		bookingvalidator.NewBookingValidator(cfg.Log),
		cfg,
	)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		identityhandler.NewUserHandler(identitySvc, auth, cfg, cfg.Log),
		carhandler.NewCarHandler(carSvc, auth, cfg.Log),
		bookinghandler.NewBookingHandler(bookingSvc, auth, cfg.Log),
	)
	serverApp.Run()
}

func initMail(cfg *config.Config) (mail.Dispatcher, *kafka.Producer) {
	kafkaCfg := kafka_config.Load()
	producer, err := kafka.NewProducer(kafkaCfg, cfg.MailTopic, cfg.MailDLQTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to create mail producer", "error", err)
	}
	return mail.NewKafkaDispatcher(producer, ServiceName, cfg.Log), producer
}
