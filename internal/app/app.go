package app

import (
	"context"
	"fmt"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nutrilog/server/internal/module/auth"
	"github.com/nutrilog/server/internal/module/diary"
	"github.com/nutrilog/server/internal/module/profile"
	"github.com/nutrilog/server/internal/module/recognition"
	"github.com/nutrilog/server/internal/module/weight"
	sharedcache "github.com/nutrilog/server/internal/shared/cache"
	"github.com/nutrilog/server/internal/shared/config"
	"github.com/nutrilog/server/internal/shared/database"
	"github.com/nutrilog/server/internal/shared/logger"
	"github.com/nutrilog/server/internal/shared/metrics"
	"github.com/nutrilog/server/internal/shared/middleware"
	"github.com/nutrilog/server/internal/shared/storage"
)

// App wires configuration, infrastructure and modules together.
type App struct {
	config    *config.Config
	db        *gorm.DB
	redis     redis.UniversalClient
	router    *gin.Engine
	logger    *logger.Logger
	zapLogger *zap.Logger
	metrics   *metrics.Metrics

	jwtManager *auth.JWTManager

	recognitionHandler *recognition.Handler
	profileHandler     *profile.Handler
	weightHandler      *weight.Handler
	diaryHandler       *diary.Handler
}

// New creates a new application instance.
func New(cfg *config.Config) (*App, error) {
	log := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	zapLog, err := logger.NewZapLogger(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		return nil, fmt.Errorf("init zap logger: %w", err)
	}

	app := &App{
		config:    cfg,
		logger:    log,
		zapLogger: zapLog,
		metrics:   metrics.New(prometheus.DefaultRegisterer),
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	app.db = db

	if err := db.AutoMigrate(
		&profile.User{},
		&profile.Profile{},
		&auth.RefreshToken{},
		&weight.Entry{},
		&diary.FoodEntry{},
		&diary.ExerciseEntry{},
	); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	redisClient, err := sharedcache.NewRedisClient(&cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("init redis: %w", err)
	}
	app.redis = redisClient

	if err := app.initModules(); err != nil {
		return nil, fmt.Errorf("init modules: %w", err)
	}

	app.router = app.setupRouter()
	return app, nil
}

// initModules builds all module services and handlers.
func (a *App) initModules() error {
	cfg := a.config

	a.jwtManager = auth.NewJWTManager(&auth.JWTConfig{
		Secret:             cfg.Auth.JWTSecret,
		AccessTokenExpiry:  cfg.Auth.AccessTokenExpiry,
		RefreshTokenExpiry: cfg.Auth.RefreshTokenExpiry,
		Issuer:             "nutrilog",
	})

	// Profile
	profileRepo := profile.NewRepository(a.db)
	tokenRepo := auth.NewRefreshTokenRepository(a.db)
	profileService := profile.NewService(profileRepo, tokenRepo, a.jwtManager, a.zapLogger)
	a.profileHandler = profile.NewHandler(profileService)

	// Recognition
	primary := recognition.NewPrimaryProvider(
		cfg.Recognition.PrimaryBaseURL,
		cfg.Recognition.PrimaryAPIKey,
		cfg.Recognition.Model,
	)
	fallback := recognition.NewFallbackProvider(
		cfg.Recognition.FallbackBaseURL,
		cfg.Recognition.FallbackAPIKey,
		cfg.Recognition.Model,
	)
	quota := recognition.NewQuotaTracker(
		recognition.NewRedisQuotaStore(a.redis),
		cfg.Recognition.DailyQuota,
	)
	recognitionService := recognition.NewService(primary, fallback, quota, recognition.ServiceConfig{
		Cache:         recognition.NewRedisCache(a.redis),
		CacheTTL:      cfg.Recognition.LookupCacheTTL,
		Metrics:       a.metrics,
		Logger:        a.zapLogger,
		LookupTimeout: cfg.Recognition.LookupTimeout,
		ImageTimeout:  cfg.Recognition.ImageTimeout,
	})
	a.recognitionHandler = recognition.NewHandler(recognitionService)

	// Weight
	weightService := weight.NewService(weight.NewRepository(a.db), a.zapLogger)
	a.weightHandler = weight.NewHandler(weightService)

	// Diary, with S3-backed meal photos when a bucket is configured
	var photos storage.PhotoStore
	if cfg.Storage.Bucket != "" {
		s3Client, err := storage.NewS3Client(context.Background(), cfg.Storage)
		if err != nil {
			return fmt.Errorf("init s3 client: %w", err)
		}
		photos = storage.NewS3Store(s3Client, cfg.Storage.Bucket)
	}
	diaryService := diary.NewService(diary.NewRepository(a.db), photos, profileService, a.zapLogger)
	a.diaryHandler = diary.NewHandler(diaryService)

	return nil
}

// setupRouter creates and configures the gin router.
func (a *App) setupRouter() *gin.Engine {
	if a.config.Log.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	r.Use(middleware.Recovery(a.logger))
	r.Use(middleware.Metrics(a.metrics))

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	a.profileHandler.RegisterRoutes(api)

	protected := api.Group("")
	protected.Use(auth.Middleware(a.jwtManager))
	a.profileHandler.RegisterProtectedRoutes(protected)
	a.recognitionHandler.RegisterRoutes(protected)
	a.weightHandler.RegisterRoutes(protected)
	a.diaryHandler.RegisterRoutes(protected)

	return r
}

// Router returns the HTTP router.
func (a *App) Router() *gin.Engine {
	return a.router
}

// Stop releases infrastructure resources.
func (a *App) Stop() {
	if a.redis != nil {
		if err := sharedcache.Close(a.redis); err != nil {
			a.logger.Error("close redis", logger.Err(err))
		}
	}
	if a.db != nil {
		if err := database.Close(a.db); err != nil {
			a.logger.Error("close database", logger.Err(err))
		}
	}
	_ = a.zapLogger.Sync()
}
