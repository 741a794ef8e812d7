package router

import (
	"context"

	"github.com/hjo3-cse40/SlugConnect/internal/handlers"
	"github.com/hjo3-cse40/SlugConnect/internal/middleware"
	"github.com/hjo3-cse40/SlugConnect/internal/repositories"
	"github.com/hjo3-cse40/SlugConnect/internal/services"
	"github.com/hjo3-cse40/SlugConnect/pkg/config"
	"github.com/hjo3-cse40/SlugConnect/pkg/metrics"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps is everything SetupRoutes wires together. Mongo and TokenVerifier may be nil.
type Deps struct {
	Config        *config.Config
	SQL           *gorm.DB
	Mongo         *mongo.Client
	TokenVerifier services.TokenVerifier
	Metrics       *metrics.Metrics
	Logger        *zap.Logger
}

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo, log *zap.Logger, m *metrics.Metrics) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.RequestIDWithConfig(eMiddleware.RequestIDConfig{
		Generator: middleware.RequestIDGenerator,
	}))
	if m != nil {
		e.Use(m.Middleware())
	}
	// AccessLog sits inside metrics so it sees the handler's error.
	e.Use(middleware.AccessLog(log))
	e.Use(eMiddleware.CORS())
	log.Debug("Global middleware configured.")
}

// SetupRoutes builds repositories and services and registers every route.
func SetupRoutes(e *echo.Echo, d Deps) error {
	log := d.Logger
	cfg := d.Config

	e.GET("/health", handlers.HealthCheck)
	e.GET("/", handlers.Root)

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(d.SQL)
	profileRepo := repositories.NewPostgresProfileRepository(d.SQL)
	connectionRepo := repositories.NewPostgresConnectionRepository(d.SQL)
	notificationRepo := repositories.NewPostgresNotificationRepository(d.SQL)

	var activityRepo repositories.ActivityRepository
	if d.Mongo != nil {
		mongoRepo := repositories.NewMongoActivityRepository(d.Mongo.Database(cfg.MongoDatabase))
		if err := mongoRepo.EnsureIndexes(context.Background()); err != nil {
			return err
		}
		activityRepo = mongoRepo
	}

	// --- Services ---
	var recorder services.ActionRecorder
	if d.Metrics != nil {
		recorder = d.Metrics
	}
	catalog := services.DefaultCatalog()
	authService := services.NewAuthService(userRepo, profileRepo, d.TokenVerifier, services.AuthConfig{
		JWTSecret:         cfg.JWTSecret,
		TokenTTL:          cfg.JWTTTL,
		AllowedDomain:     cfg.AllowedEmailDomain,
		MinPasswordLength: cfg.MinPasswordLength,
	})
	profileService := services.NewProfileService(profileRepo, catalog, cfg.MaxInterests, cfg.StrictCatalog)
	connectionService := services.NewConnectionService(connectionRepo, profileRepo, notificationRepo, activityRepo, recorder, log)

	// --- Unprotected routes ---
	authHandler := handlers.NewAuthHandler(authService, log)
	authGroup := e.Group("/api/v1/auth", middleware.AuthRateLimit(cfg.AuthRateLimit))
	authHandler.RegisterAuthRoutes(authGroup)

	public := e.Group("/api/v1")
	handlers.NewCatalogHandler(catalog, profileService.MaxInterests()).RegisterCatalogRoutes(public)

	// --- Protected routes (require an open session) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware(authService, services.IsAuthError, log))

	authHandler.RegisterSessionRoutes(api)
	handlers.NewProfileHandler(profileService, connectionService, log).RegisterProfileRoutes(api)
	handlers.NewDiscoverHandler(profileService, connectionService, log).RegisterDiscoverRoutes(api)
	handlers.NewConnectionHandler(connectionService, log).RegisterConnectionRoutes(api)
	handlers.NewNotificationHandler(notificationRepo, profileRepo, log).RegisterNotificationRoutes(api)
	handlers.NewActivityHandler(activityRepo, log).RegisterActivityRoutes(api)

	log.Info("All routes configured.", zap.Bool("activity_log", activityRepo != nil), zap.Bool("firebase", d.TokenVerifier != nil))
	return nil
}
