package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"edulearn_backend/database"
	"edulearn_backend/internal/auth"
	"edulearn_backend/internal/config"
	"edulearn_backend/internal/email"
	"edulearn_backend/internal/handlers"
	"edulearn_backend/internal/logger"
	"edulearn_backend/internal/metrics"
	"edulearn_backend/internal/middleware"
	"edulearn_backend/internal/models"
	"edulearn_backend/internal/repositories"
	"edulearn_backend/internal/resetcode"
	"edulearn_backend/internal/routes"
	"edulearn_backend/internal/services"
	"edulearn_backend/internal/storage"
	"edulearn_backend/internal/validator"
	"edulearn_backend/internal/workers"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	logger.Info("Connecting to database...", "driver", cfg.Database.Driver)
	gormDB, err := database.ConnectGorm(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	logger.Info("Database connected")

	if err := database.AutoMigrate(gormDB); err != nil {
		logger.Fatal("Failed to migrate database", "error", err)
	}

	if err := seedFirstAdmin(gormDB, cfg); err != nil {
		// Если не удалось создать админа - не запускаем сервер
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ginRouter, container, err := SetupRouter(cfg, gormDB, sqlDB)
	if err != nil {
		logger.Fatal("Failed to build application", "error", err)
	}

	if purger, ok := container.ResetCodes.(workers.ExpiredCodePurger); ok {
		worker := workers.NewResetCodeWorker(purger, cfg.ResetCode.SweepSchedule)
		if err := worker.Start(ctx); err != nil {
			logger.Fatal("Failed to start reset code worker", "error", err)
		}
	}

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:              address,
		Handler:           ginRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "address", address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server startup error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}
	if err := sqlDB.Close(); err != nil {
		logger.Error("Failed to close database", "error", err)
	}
}

// Option подменяет внешние зависимости (почта, хранилище кодов) в тестах
type Option func(*dependencies)

type dependencies struct {
	mailer     email.Mailer
	resetCodes resetcode.Store
	redis      *redis.Client
}

func WithMailer(m email.Mailer) Option {
	return func(d *dependencies) { d.mailer = m }
}

func WithResetCodeStore(s resetcode.Store) Option {
	return func(d *dependencies) { d.resetCodes = s }
}

// SetupRouter собирает сервисы, хэндлеры и маршруты
func SetupRouter(cfg *config.Config, gormDB *gorm.DB, sqlDB *sql.DB, opts ...Option) (*gin.Engine, *services.ServiceContainer, error) {
	deps := &dependencies{}
	for _, opt := range opts {
		opt(deps)
	}

	storageInstance, err := storage.NewStorage(storage.Config{
		Type:     cfg.Storage.Type,
		BasePath: cfg.Storage.BasePath,
		BaseURL:  cfg.Storage.BaseURL,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("initialize storage: %w", err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	if deps.mailer == nil {
		if deps.mailer, err = initializeMailer(cfg); err != nil {
			return nil, nil, err
		}
	}
	if deps.resetCodes == nil {
		if err := initializeResetCodes(cfg, deps); err != nil {
			return nil, nil, err
		}
	}

	// 1. Инициализируем сервисы
	serviceContainer, err := initializeServices(cfg, deps, storageInstance)
	if err != nil {
		return nil, nil, err
	}

	// 2. Инициализируем хэндлеры
	appHandlers := initializeHandlers(serviceContainer, sqlDB, deps.redis)

	// 3. Инициализируем Gin
	ginRouter := initializeGinRouter(cfg, gormDB)

	// 4. Делегируем регистрацию маршрутов пакету 'routes'
	routes.RegisterRoutes(ginRouter, appHandlers, cfg.JWT.Secret)

	return ginRouter, serviceContainer, nil
}

func initializeMailer(cfg *config.Config) (email.Mailer, error) {
	smtpConfig := email.ConfigFrom(cfg)
	if !smtpConfig.Configured() {
		logger.Warn("SMTP is not configured, emails will only be logged")
		return email.NewLogMailer(), nil
	}

	mailer := email.NewSMTPMailer(smtpConfig)
	if err := mailer.Validate(); err != nil {
		return nil, fmt.Errorf("invalid smtp configuration: %w", err)
	}
	logger.Info("SMTP mailer initialized", "host", smtpConfig.Host)
	return mailer, nil
}

func initializeResetCodes(cfg *config.Config, deps *dependencies) error {
	switch cfg.ResetCode.Store {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis unavailable at %s: %w", cfg.Redis.Addr, err)
		}
		deps.redis = client
		deps.resetCodes = resetcode.NewRedisStore(client, cfg.ResetCode.TTL)
		logger.Info("Reset codes stored in redis", "addr", cfg.Redis.Addr)
	default:
		deps.resetCodes = resetcode.NewMemoryStore(cfg.ResetCode.TTL)
		logger.Info("Reset codes stored in memory")
	}
	return nil
}

func initializeServices(cfg *config.Config, deps *dependencies, storageInstance storage.Storage) (*services.ServiceContainer, error) {
	templates := email.NewTemplateManager()
	if dir := cfg.Email.TemplatesDir; dir != "" {
		if err := templates.LoadTemplates(dir); err != nil {
			return nil, fmt.Errorf("load email templates from %s: %w", dir, err)
		}
	}
	notifier := email.NewNotifier(deps.mailer, templates)

	// --- Инициализация репозиториев ---
	userRepo := repositories.NewUserRepository()
	courseRepo := repositories.NewCourseRepository()
	enrollmentRepo := repositories.NewEnrollmentRepository()

	// --- Инициализация сервисов ---
	authService := services.NewAuthService(userRepo, deps.resetCodes, notifier, services.AuthConfig{
		JWTSecret:    cfg.JWT.Secret,
		TokenTTL:     cfg.TokenTTL(),
		ResetCodeTTL: cfg.ResetCode.TTL,
	})
	courseService := services.NewCourseService(courseRepo, userRepo, storageInstance, cfg.Upload.MaxSize)
	enrollmentService := services.NewEnrollmentService(enrollmentRepo, courseRepo)

	return &services.ServiceContainer{
		AuthService:       authService,
		CourseService:     courseService,
		EnrollmentService: enrollmentService,
		Notifier:          notifier,
		ResetCodes:        deps.resetCodes,
		Storage:           storageInstance,
	}, nil
}

func initializeHandlers(container *services.ServiceContainer, sqlDB *sql.DB, redisClient *redis.Client) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	return &handlers.AppHandlers{
		AuthHandler:       handlers.NewAuthHandler(baseHandler, container.AuthService),
		CourseHandler:     handlers.NewCourseHandler(baseHandler, container.CourseService),
		EnrollmentHandler: handlers.NewEnrollmentHandler(baseHandler, container.EnrollmentService),
		FileHandler:       handlers.NewFileHandler(baseHandler, container.Storage, repositories.NewCourseRepository()),
		HealthHandler:     handlers.NewHealthHandler(sqlDB, redisClient),
	}
}

func initializeGinRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(metrics.Middleware())
	router.Use(middleware.CORSMiddleware(cfg.Server.CORSOrigins))
	router.Use(middleware.DBMiddleware(db))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return router
}

// seedFirstAdmin создает администратора из конфигурации, если его еще нет.
// Публичная регистрация роль admin не принимает.
func seedFirstAdmin(db *gorm.DB, cfg *config.Config) error {
	adminEmail := cfg.FirstAdminEmail
	adminPassword := cfg.FirstAdminPassword

	if adminEmail == "" || adminPassword == "" {
		logger.Warn("FIRST_ADMIN_EMAIL or FIRST_ADMIN_PASSWORD is not set. Skipping admin seeding.")
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		userRepo := repositories.NewUserRepository()

		_, err := userRepo.FindByEmail(tx, adminEmail)
		if err == nil {
			logger.Info("Admin user already exists. Skipping creation.", "email", adminEmail)
			return nil
		}
		if !errors.Is(err, repositories.ErrUserNotFound) {
			return fmt.Errorf("failed to check for admin user: %w", err)
		}

		logger.Warn("No admin user found with specified email. Creating first admin...", "email", adminEmail)

		hash, err := auth.HashPassword(adminPassword)
		if err != nil {
			return fmt.Errorf("failed to hash admin password: %w", err)
		}

		admin := &models.User{
			FirstName:    "Admin",
			LastName:     "EduLearn",
			Email:        adminEmail,
			Phone:        "-",
			Role:         models.UserRoleAdmin,
			PasswordHash: hash,
		}
		if err := userRepo.Create(tx, admin); err != nil {
			return fmt.Errorf("failed to create admin user in database: %w", err)
		}

		logger.Info("Successfully created first admin user", "email", adminEmail)
		return nil
	})
}
