package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/examportal/internal/app/controllers"
	appMigrations "github.com/yigit/examportal/internal/app/migrations"
	appRepos "github.com/yigit/examportal/internal/app/repositories"
	appRoutes "github.com/yigit/examportal/internal/app/routes"
	appServices "github.com/yigit/examportal/internal/app/services"
	"github.com/yigit/examportal/internal/config"
	"github.com/yigit/examportal/internal/db"
	appMiddleware "github.com/yigit/examportal/internal/middleware"
	pkgAuth "github.com/yigit/examportal/internal/pkg/auth"
	"github.com/yigit/examportal/internal/pkg/helpers"
	"github.com/yigit/examportal/internal/pkg/logger"
	"github.com/yigit/examportal/internal/pkg/ratelimit"
	"github.com/yigit/examportal/internal/pkg/validation"
	"github.com/yigit/examportal/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos *appRepos.Repositories

	SessionCodec *pkgAuth.SessionCodec
	EdgeVerifier *pkgAuth.EdgeVerifier
	Redis        *redis.Client // nil when the login throttle is disabled

	AuthService         *appServices.AuthService
	RegistrationService *appServices.RegistrationService
	FormService         *appServices.RegistrationFormService
	StudentService      *appServices.StudentService

	AuthController         *appControllers.AuthController
	RegistrationController *appControllers.RegistrationController
	FormController         *appControllers.RegistrationFormController
	StudentController      *appControllers.StudentController
	DepartmentController   *appControllers.DepartmentController
	HealthController       *appControllers.HealthController

	AuthMiddleware *appMiddleware.AuthMiddleware
	Gatekeeper     *appMiddleware.Gatekeeper

	Logger zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	lgr := logger.Configure(logger.ConfigFromStrings(cfg.Logging.Level, cfg.Logging.Format))
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool
	lgr.Info().Msg("Database connection successfully established.")

	migrationsDir := cfg.Database.MigrationsDir
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		dbPool.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	lgr.Info().Str("dir", migrationsDir).Msg("Running database migrations...")
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := appMigrations.NewMigrator(dbPool, lgr).MigrateFromDirectory(ctx, migrationsDir); err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	return dbPool, nil
}

// SetupRedis connects the login throttle store. A failed ping is logged and the
// client is kept; the throttle lets logins through while the store is down.
func SetupRedis(cfg *config.Config, lgr zerolog.Logger) *redis.Client {
	if !cfg.Redis.Enabled {
		lgr.Info().Msg("Redis disabled, login throttling off")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		lgr.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis unreachable at startup")
	} else {
		lgr.Info().Str("addr", cfg.Redis.Addr).Msg("Redis connected")
	}
	return client
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	if err := validation.RegisterWithGin(); err != nil {
		return nil, err
	}

	deps.Repos = appRepos.NewRepositories(dbPool)

	sessionTTL := helpers.ParseDuration(cfg.Session.TTL, pkgAuth.DefaultSessionTTL)
	deps.SessionCodec = pkgAuth.NewSessionCodec(pkgAuth.SessionConfig{
		Secret: cfg.Session.Secret,
		TTL:    sessionTTL,
		Issuer: cfg.Session.Issuer,
	}, lgr.With().Str("component", "session").Logger())
	deps.EdgeVerifier = pkgAuth.NewEdgeVerifier(lgr.With().Str("component", "gatekeeper").Logger())

	var throttle ratelimit.Throttle = ratelimit.Noop{}
	deps.Redis = SetupRedis(cfg, lgr)
	if deps.Redis != nil {
		throttle = ratelimit.NewLoginThrottle(deps.Redis, ratelimit.Config{
			MaxAttempts: cfg.LoginThrottle.MaxAttempts,
			Window:      helpers.ParseDuration(cfg.LoginThrottle.Window, 15*time.Minute),
		})
	}

	deps.AuthService = appServices.NewAuthService(deps.Repos.AdminUserRepository, deps.SessionCodec, throttle, lgr)
	deps.RegistrationService = appServices.NewRegistrationService(
		deps.Repos.RegistrationFormRepository,
		deps.Repos.RegistrationRepository,
		lgr,
	)
	deps.FormService = appServices.NewRegistrationFormService(deps.Repos.RegistrationFormRepository, cfg.App.BaseURL, lgr)
	deps.StudentService = appServices.NewStudentService(deps.Repos.StudentRepository, deps.Repos.RegistrationRepository, lgr)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.SessionCodec, cfg.Session.CookieName, lgr)
	deps.Gatekeeper = appMiddleware.NewGatekeeper(deps.EdgeVerifier, cfg.Session.CookieName, cfg.App.ProtectedPrefix, cfg.App.LoginPath)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService, appControllers.CookieConfig{
		Name:   cfg.Session.CookieName,
		Secure: cfg.Session.SecureCookie || cfg.IsProduction(),
		MaxAge: sessionTTL,
	}, lgr)
	deps.RegistrationController = appControllers.NewRegistrationController(deps.RegistrationService, lgr)
	deps.FormController = appControllers.NewRegistrationFormController(deps.FormService, lgr)
	deps.StudentController = appControllers.NewStudentController(deps.StudentService, lgr)
	deps.DepartmentController = appControllers.NewDepartmentController(deps.Repos.DepartmentRepository, lgr)
	deps.HealthController = appControllers.NewHealthController(dbPool, lgr)

	return deps, nil
}

// SeedDefaults creates default departments, classes and the admin account.
// Errors are logged and startup continues.
func SeedDefaults(cfg *config.Config, deps *Dependencies) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err := seed.CreateDefaultData(ctx, deps.Repos.DepartmentRepository, deps.AuthService, seed.AdminAccount{
		Username: cfg.Seed.AdminUsername,
		Password: cfg.Seed.AdminPassword,
		Email:    cfg.Seed.AdminEmail,
	}, deps.Logger)
	if err != nil {
		deps.Logger.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery(), appMiddleware.RequestLogger(lgr))

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.RegistrationController,
		deps.FormController,
		deps.StudentController,
		deps.DepartmentController,
		deps.HealthController,
		deps.AuthMiddleware,
		deps.Gatekeeper,
		cfg.App.LoginPath,
	)

	return router
}
