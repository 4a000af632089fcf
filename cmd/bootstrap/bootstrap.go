package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"medtrack/config"
	deliveryHttp "medtrack/internal/delivery/http"
	"medtrack/internal/delivery/http/handler"
	"medtrack/internal/delivery/http/middleware"
	"medtrack/internal/delivery/http/render"
	"medtrack/internal/infrastructure/cache"
	"medtrack/internal/infrastructure/database"
	"medtrack/internal/notifier"
	"medtrack/internal/repository"
	"medtrack/internal/session"
	"medtrack/internal/usecase"
	"medtrack/pkg/token"
	"medtrack/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const templatesDir = "web/templates"

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	Publisher   *notifier.AMQPPublisher
	Dispatcher  *notifier.Dispatcher
	Server      *http.Server
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	setupLogger()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg
	logrus.Info("Configuration loaded successfully")

	db, err := database.NewPostgresConnection(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db

	if err := database.RunMigrations(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient

	app.Dispatcher = initializeDispatcher(app, cfg)

	server, err := initializeServer(cfg, db, redisClient, app.Dispatcher)
	if err != nil {
		return nil, err
	}
	app.Server = server

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)
}

// initializeDispatcher wires the notification transports. Either channel can
// be disabled by config; an unreachable broker at startup disables the topic
// channel instead of failing the whole app.
func initializeDispatcher(app *App, cfg *config.Config) *notifier.Dispatcher {
	log := logrus.StandardLogger()

	var email notifier.EmailSender
	if cfg.Notify.EmailEnabled {
		email = notifier.NewSMTPSender(cfg.SMTP)
	}

	var topic notifier.TopicPublisher
	topicEnabled := cfg.Notify.TopicEnabled
	if topicEnabled {
		publisher, err := notifier.NewAMQPPublisher(cfg.Broker)
		if err != nil {
			logrus.Errorf("Failed to connect to message broker, topic notifications disabled: %v", err)
			topicEnabled = false
		} else {
			app.Publisher = publisher
			topic = publisher
		}
	}

	return notifier.NewDispatcher(log, email, topic, cfg.Notify.EmailEnabled, topicEnabled)
}

// initializeServer creates and configures the HTTP server
func initializeServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, dispatcher *notifier.Dispatcher) (*http.Server, error) {
	renderer, err := render.NewRenderer(templatesDir, cfg.Session.Secret)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	tokenService := token.NewService(cfg.Session)
	sessionStore := session.NewRedisStore(redisClient)
	customValidator := validator.NewValidator()

	// Initialize repositories
	userRepo := repository.NewUserRepository()
	patientProfileRepo := repository.NewPatientProfileRepository()
	doctorProfileRepo := repository.NewDoctorProfileRepository()
	appointmentRepo := repository.NewAppointmentRepository()

	log := logrus.StandardLogger()

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(db, log, userRepo, patientProfileRepo, doctorProfileRepo, tokenService, sessionStore)
	appointmentUsecase := usecase.NewAppointmentUsecase(db, log, userRepo, appointmentRepo, dispatcher)

	// Initialize handlers
	pagesHandler := handler.NewPagesHandler(renderer)
	authHandler := handler.NewAuthHandler(authUsecase, customValidator, renderer)
	patientHandler := handler.NewPatientHandler(authUsecase, appointmentUsecase, customValidator, renderer)
	doctorHandler := handler.NewDoctorHandler(authUsecase, appointmentUsecase, customValidator, renderer)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(tokenService, sessionStore, renderer)
	recoverMiddleware := middleware.NewRecoverMiddleware(renderer)

	// Initialize router
	router := deliveryHttp.NewRouter(pagesHandler, authHandler, patientHandler, doctorHandler, authMiddleware, recoverMiddleware)
	httpRouter := router.Setup()

	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:    serverAddr,
		Handler: httpRouter,
	}, nil
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	app.Close()

	logrus.Info("Server shutdown complete")
}

// Close drains the notification queue and closes all connections
func (app *App) Close() {
	if app.Dispatcher != nil {
		app.Dispatcher.Close()
	}

	if app.Publisher != nil {
		if err := app.Publisher.Close(); err != nil {
			logrus.Warnf("Failed to close broker connection: %v", err)
		}
	}

	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
