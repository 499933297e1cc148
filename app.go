package main

import (
	"errors"
	"fmt"
	"time"

	"tasteofegypt/internal/config"
	"tasteofegypt/internal/events"
	"tasteofegypt/internal/handlers"
	"tasteofegypt/internal/middleware"
	"tasteofegypt/internal/notifications"
	"tasteofegypt/internal/pricing"
	"tasteofegypt/internal/repositories"
	"tasteofegypt/internal/services"
	"tasteofegypt/pkg/kafka"
	"tasteofegypt/pkg/metrics"
	"tasteofegypt/pkg/rabbitmq"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// application owns every long-lived resource of the service.
type application struct {
	app        *fiber.App
	db         *gorm.DB
	dispatcher *notifications.Dispatcher
	publisher  events.Publisher
	logger     *zap.Logger
}

func newApplication(cfg *config.Config, logger *zap.Logger) (*application, error) {
	// --- Database ---
	db, err := openDatabase(cfg.Database)
	if err != nil {
		return nil, err
	}

	// --- Repositories ---
	orderRepo := repositories.NewGORMOrderRepository(db)
	userRepo := repositories.NewGORMUserRepository(db)
	if err := orderRepo.AutoMigrate(); err != nil {
		return nil, err
	}
	if err := userRepo.AutoMigrate(); err != nil {
		return nil, err
	}
	menuRepo := repositories.NewStaticMenuRepository(repositories.DefaultMenu())

	// --- Side effects ---
	m := metrics.New()
	publisher, err := newPublisher(cfg.Events)
	if err != nil {
		return nil, err
	}
	formatter, err := notifications.NewFormatter(cfg.Restaurant)
	if err != nil {
		return nil, err
	}
	dispatcher := notifications.NewDispatcher(notifications.DispatcherConfig{
		Workers:   cfg.Notify.Workers,
		QueueSize: cfg.Notify.QueueSize,
	}, logger, m)
	dispatcher.Start()
	notifier := notifications.NewNotifier(notifications.NotifierDeps{
		Mailer:     notifications.NewMailer(cfg.Email, logger),
		Formatter:  formatter,
		Publisher:  publisher,
		Dispatcher: dispatcher,
		AdminEmail: cfg.Admin.Email,
		Logger:     logger,
	})

	// --- Services ---
	authService := services.NewAuthService(userRepo, services.AuthConfig{
		JWTSecret:     cfg.JWT.Secret,
		TokenTTL:      cfg.JWT.TTL,
		AdminEmail:    cfg.Admin.Email,
		AdminPassword: cfg.Admin.Password,
	}, logger)
	menuService := services.NewMenuService(menuRepo)
	orderService := services.NewOrderService(services.OrderServiceDeps{
		Orders:   orderRepo,
		Users:    userRepo,
		Menu:     menuRepo,
		Pricing:  pricing.NewEngine(pricing.Config{TaxRate: cfg.Pricing.TaxRate, DeliveryFee: cfg.Pricing.DeliveryFee}),
		Notifier: notifier,
		Metrics:  m,
		Logger:   logger,
	})

	// --- Fiber App ---
	app := fiber.New(fiber.Config{AppName: cfg.Restaurant.Name})
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(middleware.Metrics(m))

	app.Get("/health", func(c *fiber.Ctx) error {
		dbStatus := "connected"
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.UserContext()) != nil {
			dbStatus = "unavailable"
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": dbStatus,
			"broker":   cfg.Events.Broker,
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))

	// --- API Routes ---
	api := app.Group("/api")
	auth := middleware.AuthRequired(authService, logger)

	handlers.NewAuthHandler(authService, logger).RegisterRoutes(api, auth)
	handlers.NewMenuHandler(menuService, logger).RegisterRoutes(api)
	handlers.NewOrderHandler(orderService, logger).RegisterRoutes(api, auth)
	handlers.NewAdminHandler(orderService, authService, logger).RegisterRoutes(api, auth, middleware.AdminOnly())

	return &application{
		app:        app,
		db:         db,
		dispatcher: dispatcher,
		publisher:  publisher,
		logger:     logger,
	}, nil
}

// Close stops the HTTP server, drains pending notifications and releases
// connections, in that order.
func (a *application) Close() {
	if err := a.app.Shutdown(); err != nil {
		a.logger.Error("error during fiber shutdown", zap.Error(err))
	}
	a.dispatcher.Close()
	if err := a.publisher.Close(); err != nil {
		a.logger.Error("error closing event publisher", zap.Error(err))
	}
	if sqlDB, err := a.db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			a.logger.Error("error closing database", zap.Error(err))
		}
	}
}

func openDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.DSN)
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.Driver == config.DriverSQLite {
		// sqlite allows a single writer.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to access database handle: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

func newPublisher(cfg config.EventsConfig) (events.Publisher, error) {
	switch cfg.Broker {
	case config.BrokerRabbitMQ:
		client, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Exchange: cfg.RabbitMQExchange})
		if err != nil {
			return nil, err
		}
		return events.NewRabbitMQPublisher(client), nil
	case config.BrokerKafka:
		writer, err := kafka.NewClient(cfg.KafkaBrokers).NewWriter(cfg.KafkaTopic)
		if err != nil {
			return nil, err
		}
		return events.NewKafkaPublisher(writer), nil
	case config.BrokerNone, "":
		return events.NopPublisher{}, nil
	}
	return nil, errors.New("unsupported event broker " + cfg.Broker)
}
