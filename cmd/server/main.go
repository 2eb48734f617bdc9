package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"restaurant_ordering/internal/config"
	"restaurant_ordering/internal/database"
	"restaurant_ordering/internal/handlers"
	"restaurant_ordering/internal/logger"
	"restaurant_ordering/internal/messaging"
	"restaurant_ordering/internal/metrics"
	"restaurant_ordering/internal/migrations"
	"restaurant_ordering/internal/redis"
	"restaurant_ordering/internal/repository"
	"restaurant_ordering/internal/services"
	"restaurant_ordering/pkg/mailer"
	"restaurant_ordering/pkg/telegram"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)
	appLog := logger.New("restaurant-api", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL, cfg.LogLevel)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	if err := migrations.RunMigrations(ctx, db, cfg.ResetSchema); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize Redis
	redisClient, err := redis.Initialize(cfg.RedisURL)
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer redisClient.Close()

	serverMetrics := metrics.NewServerMetrics("api")

	// Order events
	var publisher services.EventPublisher = services.NopPublisher{}
	if cfg.RabbitMQURL != "" {
		conn, err := messaging.Dial(cfg.RabbitMQURL, appLog)
		if err != nil {
			log.Fatal("Failed to connect to RabbitMQ:", err)
		}
		defer conn.Close()
		publisher = messaging.NewPublisher(conn, appLog)
	} else {
		log.Println("RABBITMQ_URL not set, order events disabled")
	}
	events := serverMetrics.WrapPublisher(publisher)

	// Outbound notifications
	var mail services.Mailer
	if cfg.MailAPIURL != "" {
		mail = mailer.NewClient(cfg.MailAPIURL, cfg.MailAPIUser, cfg.MailAPIKey, cfg.MailFrom)
	}
	var alerter services.StaffAlerter = services.NopAlerter{}
	if cfg.TelegramToken != "" && cfg.TelegramChatID != 0 {
		tg, err := telegram.NewAlerter(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.Printf("Warning: telegram alerts disabled: %v", err)
		} else {
			alerter = tg
		}
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	menuRepo := repository.NewMenuRepository(db)
	tableRepo := repository.NewTableRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	couponRepo := repository.NewCouponRepository(db)
	paymentRepo := repository.NewPaymentMethodRepository(db)
	staffRepo := repository.NewStaffRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	shiftRepo := repository.NewShiftRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	contactRepo := repository.NewContactRepository(db)
	restaurantRepo := repository.NewRestaurantRepository(db)

	// Initialize services
	sessionTTL := time.Duration(cfg.SessionTimeout) * time.Second
	cacheTTL := time.Duration(cfg.CacheTTL) * time.Second

	userService := services.NewUserService(userRepo, redisClient, sessionTTL)
	notificationService := services.NewNotificationService(mail, alerter, userRepo, appLog)
	svc := handlers.Services{
		Users:      userService,
		Menu:       services.NewMenuService(menuRepo, redisClient, cacheTTL),
		Tables:     services.NewTableService(tableRepo),
		Orders:     services.NewOrderService(orderRepo, menuRepo, tableRepo, notificationService, events),
		Reports:    services.NewReportService(orderRepo),
		Coupons:    services.NewCouponService(couponRepo),
		Payments:   services.NewPaymentService(paymentRepo),
		Staff:      services.NewStaffService(staffRepo, inventoryRepo, shiftRepo, userRepo, notificationService),
		Reviews:    services.NewReviewService(reviewRepo, contactRepo, orderRepo),
		Restaurant: services.NewRestaurantService(restaurantRepo),
	}

	// Setup routes
	checks := map[string]handlers.Pinger{
		"database": database.Pinger{DB: db},
		"redis":    redisClient,
	}
	router := handlers.NewRouter(svc, checks, serverMetrics, appLog)

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server starting on port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server:", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
}
