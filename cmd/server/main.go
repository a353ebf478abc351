package main

import (
	"database/sql"
	"flag"
	"log"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	_ "github.com/lib/pq"

	httpapi "palanquee-backend/internal/api/http"
	"palanquee-backend/internal/cache"
	"palanquee-backend/internal/config"
	"palanquee-backend/internal/logger"
	"palanquee-backend/internal/repository/postgres"
	"palanquee-backend/internal/security"
	"palanquee-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Palanquee Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry, cfg.JWT.RefreshTokenExpiry)

	// Initialize outing list cache. Redis is optional: without an address
	// configured the service runs with a no-op cache.
	outingCache := cache.NewNoopOutingCache()
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		outingCache = cache.NewRedisOutingCache(redisClient, time.Duration(cfg.Redis.TTLSeconds)*time.Second)
		logger.Info("Redis cache enabled", "addr", cfg.Redis.Addr)
	} else {
		logger.Info("Redis not configured, outing list cache disabled")
	}

	// Initialize Email Service
	emailSvc := service.NewEmailService(cfg.Email.SendGridAPIKey, cfg.Email.FromEmail, cfg.Email.FromName)

	// Initialize Services
	authSvc := service.NewAuthService(store.MemberRepository, tokenManager)
	memberSvc := service.NewMemberService(store.MemberRepository)
	outingSvc := service.NewOutingService(
		store.OutingRepository,
		store.ReservationRepository,
		store.MemberRepository,
		store.NotificationRepository,
		emailSvc,
		outingCache,
	)
	reservationSvc := service.NewReservationService(
		store.ReservationRepository,
		store.OutingRepository,
		store.MemberRepository,
		store.NotificationRepository,
		emailSvc,
		outingCache,
	)
	carpoolSvc := service.NewCarpoolService(
		store.CarpoolRepository,
		store.OutingRepository,
		store.MemberRepository,
		store.NotificationRepository,
		emailSvc,
	)
	gearSvc := service.NewGearService(store.GearRepository, store.MemberRepository)
	noteSvc := service.NewNotificationService(store.NotificationRepository)

	// Initialize HTTP handlers and router
	router := httpapi.NewRouter(httpapi.Handlers{
		Auth:         httpapi.NewAuthHandler(authSvc),
		Member:       httpapi.NewMemberHandler(memberSvc),
		Outing:       httpapi.NewOutingHandler(outingSvc),
		Reservation:  httpapi.NewReservationHandler(reservationSvc),
		Carpool:      httpapi.NewCarpoolHandler(carpoolSvc),
		Gear:         httpapi.NewGearHandler(gearSvc),
		Notification: httpapi.NewNotificationHandler(noteSvc),
	}, tokenManager)

	srv := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("Failed to serve HTTP", "error", err)
		log.Fatalf("Failed to serve: %v", err)
	}
}
