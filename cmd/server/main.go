package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hostelhub/hostel-backend/internal/application"
	"github.com/hostelhub/hostel-backend/internal/config"
	"github.com/hostelhub/hostel-backend/internal/events"
	"github.com/hostelhub/hostel-backend/internal/handler"
	"github.com/hostelhub/hostel-backend/internal/platform/auth"
	"github.com/hostelhub/hostel-backend/internal/platform/database"
	"github.com/hostelhub/hostel-backend/internal/platform/health"
	"github.com/hostelhub/hostel-backend/internal/platform/kafka"
	"github.com/hostelhub/hostel-backend/internal/platform/logger"
	"github.com/hostelhub/hostel-backend/internal/platform/middleware"
	"github.com/hostelhub/hostel-backend/internal/repository"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, "hostel-backend")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting hostel-backend",
		zap.String("port", cfg.Port),
		zap.String("env", cfg.AppEnv),
	)

	// Connect to database
	db, err := database.Connect(cfg.DBConfig, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if cfg.IsDevelopment() {
		if err := db.AutoMigrate(
			&repository.GuestModel{},
			&repository.RoomModel{},
			&repository.OfferModel{},
			&repository.BookingModel{},
		); err != nil {
			log.Fatal("failed to run auto-migration", zap.Error(err))
		}
		log.Info("database migration completed (dev auto-migrate)")
	} else {
		if err := database.RunMigrations(cfg.DBConfig.DatabaseURL(), cfg.MigrationsPath, log); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(cfg.JWTConfig.Secret, cfg.JWTConfig.AccessTTL)

	// Initialize Kafka producer and event publisher
	kafkaProducer := kafka.NewProducer(cfg.KafkaConfig.Brokers, log)
	defer func() { _ = kafkaProducer.Close() }()
	publisher := events.NewPublisher(kafkaProducer, log)

	// Initialize repositories
	txManager := repository.NewTxManager(db)
	roomRepo := repository.NewGormRoomRepository(db)
	bookingRepo := repository.NewGormBookingRepository(db)
	guestRepo := repository.NewGormGuestRepository(db)
	offerRepo := repository.NewGormOfferRepository(db)

	// Initialize application services
	bookingService := application.NewBookingService(
		roomRepo,
		bookingRepo,
		guestRepo,
		offerRepo,
		txManager,
		publisher,
		log,
	)
	roomService := application.NewRoomService(roomRepo, bookingRepo, txManager, log)
	availabilityService := application.NewAvailabilityService(roomRepo, bookingRepo, log)
	offerService := application.NewOfferService(offerRepo, log)

	// Initialize HTTP handlers
	bookingHandler := handler.NewBookingHandler(bookingService)
	roomHandler := handler.NewRoomHandler(roomService)
	availabilityHandler := handler.NewAvailabilityHandler(availabilityService)
	offerHandler := handler.NewOfferHandler(offerService)

	// Setup Gin router
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.CORS(cfg.CORSOrigins))
	router.Use(middleware.SecurityHeaders())

	// Register health check routes
	healthHandler := health.NewHandler(db, "hostel-backend")
	healthHandler.RegisterRoutes(router)

	// Register routes
	bookingHandler.RegisterRoutes(&router.RouterGroup, jwtManager)
	roomHandler.RegisterRoutes(&router.RouterGroup, jwtManager)
	availabilityHandler.RegisterRoutes(&router.RouterGroup, jwtManager)
	offerHandler.RegisterRoutes(&router.RouterGroup, jwtManager)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down hostel-backend...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info("hostel-backend stopped")
}
