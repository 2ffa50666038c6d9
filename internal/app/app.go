package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"meetlink_backend/internal/cache"
	"meetlink_backend/internal/config"
	"meetlink_backend/internal/email"
	"meetlink_backend/internal/handlers"
	"meetlink_backend/internal/logger"
	"meetlink_backend/internal/meetinglink"
	"meetlink_backend/internal/middleware"
	"meetlink_backend/internal/models"
	"meetlink_backend/internal/payments"
	"meetlink_backend/internal/repositories"
	"meetlink_backend/internal/routes"
	"meetlink_backend/internal/services"
	"meetlink_backend/internal/storage"
	"meetlink_backend/internal/tasks"
	"meetlink_backend/internal/validator"
	"meetlink_backend/internal/workers"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	gormDB, err := openDatabase(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected", "driver", cfg.Database.Driver)

	if err := gormDB.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.MeetingRequest{},
	); err != nil {
		logger.Fatal("Failed to migrate database", "error", err)
	}

	cache.InitRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)

	if err := seedSuperAdmin(gormDB, cfg); err != nil {
		logger.Fatal("Failed to seed superadmin user", "error", err)
	}

	runner := tasks.NewRunner(0, 0) // значения по умолчанию

	userRepo := repositories.NewUserRepository(gormDB)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(gormDB)

	cleanupWorker := workers.NewCleanupWorker(userRepo, refreshTokenRepo)
	if err := cleanupWorker.Start(); err != nil {
		logger.Fatal("Failed to start cleanup worker", "error", err)
	}

	ginRouter := SetupRouter(cfg, gormDB, runner)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:    address,
		Handler: ginRouter,
	}

	go func() {
		logger.Info(fmt.Sprintf("🚀 Server starting on %s", address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server startup error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Forced server shutdown")
	}

	cleanupWorker.Stop()
	runner.Wait() // дожидаемся фоновых задач (письма, zoom-ссылки)
	logger.Info("Server stopped")
}

func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	switch cfg.Database.Driver {
	case "", "postgres":
		return gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	case "mysql":
		return gorm.Open(mysql.Open(cfg.Database.DSN), &gorm.Config{})
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Database.Driver)
	}
}

func SetupRouter(cfg *config.Config, gormDB *gorm.DB, runner *tasks.Runner) *gin.Engine {
	storageInstance, err := storage.NewStorage(storage.Config{
		Type:     "local",
		BasePath: cfg.Storage.BasePath,
		BaseURL:  cfg.Storage.BaseURL,
	})
	if err != nil {
		logger.Fatal("Failed to initialize storage", "error", err)
	}
	logger.Info("Storage initialized", "path", cfg.Storage.BasePath)

	// 1. Инициализируем сервисы
	serviceContainer := initializeServices(cfg, gormDB, storageInstance, runner)

	// 2. Инициализируем хэндлеры
	appHandlers := initializeHandlers(serviceContainer)

	// 3. Инициализируем Gin
	ginRouter := initializeGinRouter()

	// 4. Делегируем регистрацию маршрутов пакету 'routes'
	routes.RegisterRoutes(ginRouter, appHandlers)

	return ginRouter
}

func initializeServices(cfg *config.Config, gormDB *gorm.DB, storageInstance storage.Storage, runner *tasks.Runner) *services.ServiceContainer {
	// --- Email ---
	var emailProvider email.Provider
	if cfg.Email.SMTPHost != "" {
		renderer, err := email.NewTemplateManager()
		if err != nil {
			logger.Fatal("Failed to load email templates", "error", err)
		}
		emailProvider = email.NewGomailProvider(&email.SMTPConfig{
			Host:      cfg.Email.SMTPHost,
			Port:      cfg.Email.SMTPPort,
			Username:  cfg.Email.SMTPUsername,
			Password:  cfg.Email.SMTPPassword,
			FromEmail: cfg.Email.FromEmail,
			FromName:  cfg.Email.FromName,
		}, renderer)
		logger.Info("Email provider initialized", "host", cfg.Email.SMTPHost)
	} else {
		logger.Warn("SMTP not configured, emails will be dropped")
		emailProvider = email.NewNoopProvider()
	}
	notifier := email.NewNotifier(emailProvider, cfg.Email.ClientURL)

	// --- Видеосвязь ---
	var linkProvider meetinglink.Provider
	if cfg.Zoom.AccountID != "" && cfg.Zoom.ClientID != "" {
		linkProvider = meetinglink.NewZoomProvider(cfg.Zoom.AccountID, cfg.Zoom.ClientID, cfg.Zoom.ClientSecret)
		logger.Info("Zoom provider initialized")
	} else {
		logger.Warn("Zoom not configured, using placeholder meeting links")
		linkProvider = meetinglink.NewDisabledProvider()
	}

	// --- Платежи ---
	var paymentProvider payments.Provider
	if cfg.Stripe.SecretKey != "" {
		paymentProvider = payments.NewStripeProvider(cfg.Stripe.SecretKey)
		logger.Info("Stripe provider initialized")
	} else {
		logger.Warn("Stripe not configured, payments disabled")
		paymentProvider = payments.NewDisabledProvider()
	}

	// --- Репозитории ---
	userRepo := repositories.NewUserRepository(gormDB)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(gormDB)
	meetingRepo := repositories.NewMeetingRepository(gormDB)

	// --- Сервисы ---
	authService := services.NewAuthService(userRepo, refreshTokenRepo, notifier, runner)
	profileService := services.NewProfileService(userRepo, storageInstance, cfg)
	meetingService := services.NewMeetingService(gormDB, meetingRepo, userRepo, notifier, linkProvider, runner)
	searchService := services.NewSearchService(userRepo, meetingRepo)
	paymentService := services.NewPaymentService(meetingRepo, paymentProvider)
	adminService := services.NewAdminService(userRepo, meetingRepo)

	return &services.ServiceContainer{
		AuthService:    authService,
		ProfileService: profileService,
		MeetingService: meetingService,
		SearchService:  searchService,
		PaymentService: paymentService,
		AdminService:   adminService,
	}
}

func initializeHandlers(container *services.ServiceContainer) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	return &handlers.AppHandlers{
		AuthHandler:    handlers.NewAuthHandler(baseHandler, container.AuthService),
		ProfileHandler: handlers.NewProfileHandler(baseHandler, container.ProfileService),
		MeetingHandler: handlers.NewMeetingHandler(baseHandler, container.MeetingService),
		SearchHandler:  handlers.NewSearchHandler(baseHandler, container.SearchService),
		PaymentHandler: handlers.NewPaymentHandler(baseHandler, container.PaymentService),
		AdminHandler:   handlers.NewAdminHandler(baseHandler, container.AdminService),
	}
}

func initializeGinRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	return router
}

func seedSuperAdmin(db *gorm.DB, cfg *config.Config) error {
	adminEmail := cfg.SuperAdminEmail
	adminPassword := cfg.SuperAdminPassword

	if adminEmail == "" || adminPassword == "" {
		logger.Warn("SUPERADMIN_EMAIL or SUPERADMIN_PASSWORD is not set. Skipping superadmin seeding.")
		return nil
	}

	tx := db.Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}
	defer tx.Rollback()

	var adminUser models.User
	result := tx.Where("email = ?", adminEmail).First(&adminUser)

	if result.Error == nil {
		logger.Info("Superadmin already exists. Skipping creation.", "email", adminEmail)
		tx.Rollback()
		return nil
	}

	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check for superadmin: %w", result.Error)
	}

	logger.Warn("No superadmin found. Creating...", "email", adminEmail)

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash superadmin password: %w", err)
	}

	newAdmin := &models.User{
		Email:              adminEmail,
		PasswordHash:       string(hashedPassword),
		Role:               models.UserRoleSuperAdmin,
		FirstName:          "MeetLink",
		LastName:           "Admin",
		MeetingPreferences: datatypes.NewJSONType(models.DefaultMeetingPreferences()),
		MeetingLimits:      datatypes.NewJSONType(models.DefaultMeetingLimits()),
		Pricing:            datatypes.NewJSONType(models.DefaultPricing()),
		PublicMeetingLink:  models.GeneratePublicMeetingLink(adminEmail),
		IsActive:           true,
		IsEmailVerified:    true,
	}

	if err := tx.Create(newAdmin).Error; err != nil {
		return fmt.Errorf("failed to create superadmin: %w", err)
	}

	logger.Info("✅ Superadmin created", "email", adminEmail)
	return tx.Commit().Error
}
