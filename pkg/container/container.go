package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"mealmates-backend/internal/config"
	infraCache "mealmates-backend/internal/infrastructure/cache"
	"mealmates-backend/internal/infrastructure/database"
	"mealmates-backend/internal/infrastructure/storage"
	"mealmates-backend/pkg/cache"
	"mealmates-backend/pkg/clock"
	"mealmates-backend/pkg/jwt"

	donationHandler "mealmates-backend/internal/domains/donation/handler"
	donationRepo "mealmates-backend/internal/domains/donation/repository"
	donationService "mealmates-backend/internal/domains/donation/service"
	"mealmates-backend/internal/domains/user"
	userHandler "mealmates-backend/internal/domains/user/handler"
	userRepo "mealmates-backend/internal/domains/user/repository"
	userService "mealmates-backend/internal/domains/user/service"

	"github.com/hibiken/asynq"
)

// Container holds every dependency of the application.
// Initialization order matters: config, then infrastructure, then
// repositories, services, handlers.
type Container struct {
	// Infrastructure
	Config      *config.Config
	DB          *database.PostgresDB
	Cache       cache.Cache
	Storage     *storage.MinIOStorage
	JWTManager  *jwt.Manager
	Clock       clock.Clock
	AsynqClient *asynq.Client

	// Repositories
	UserRepo     user.Repository
	DonationRepo donationRepo.Repository

	// Services
	UserService     userService.Service
	DonationService donationService.Service

	// Handlers
	UserHandler     *userHandler.UserHandler
	DonationHandler *donationHandler.DonationHandler
}

// NewContainer builds the full dependency graph.
func NewContainer() (*Container, error) {
	log.Println("Initializing DI container...")

	c := &Container{}

	// Step 1: configuration
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Printf("Config loaded (environment: %s)", cfg.App.Environment)

	// Step 2: database
	db := database.NewPostgresDB(&database.DBConfig{
		Host:              cfg.Database.Host,
		Port:              cfg.Database.Port,
		Username:          cfg.Database.User,
		Password:          cfg.Database.Password,
		DBName:            cfg.Database.Database,
		SSLMode:           cfg.Database.SSLMode,
		MaxConns:          int32(cfg.Database.MaxConns),
		MinConns:          int32(cfg.Database.MinConns),
		MaxConnLifetime:   time.Hour,
		MaxConnIdleTime:   30 * time.Minute,
		HealthCheckPeriod: time.Minute,
		MaxRetries:        5,
		RetryDelay:        time.Second,
		ConnectTimeout:    10 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(context.Background()); err != nil {
		return nil, fmt.Errorf("database health check failed: %w", err)
	}
	c.DB = db

	// Step 3: cache
	redisCache := infraCache.NewRedisCache(
		cfg.Redis.Host,
		cfg.Redis.Password,
		cfg.Redis.DB,
	)
	if err := redisCache.Connect(context.Background()); err != nil {
		// Redis failure is non-critical: reads degrade to the database.
		log.Printf("Redis connection failed (non-critical): %v", err)
	}
	c.Cache = redisCache

	// Step 4: object storage
	minioStorage, err := storage.NewMinIOStorage(cfg.MinIO)
	if err != nil {
		return nil, fmt.Errorf("failed to init minio storage: %w", err)
	}
	c.Storage = minioStorage

	// Step 5: shared components
	c.JWTManager = jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	c.Clock = clock.System{}
	c.AsynqClient = asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Host,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	c.initRepositories()
	c.initServices()
	c.initHandlers()

	log.Println("DI container initialized successfully")
	return c, nil
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.UserRepo = userRepo.NewPostgresRepository(pool)
	c.DonationRepo = donationRepo.NewPostgresRepository(pool)
}

func (c *Container) initServices() {
	c.UserService = userService.NewUserService(c.UserRepo, c.JWTManager, c.Clock)

	imageProcessor := storage.NewImageProcessor(c.Config.Donation.MaxImageSizeBytes)

	c.DonationService = donationService.NewDonationService(
		c.DonationRepo,
		donationService.NewPolicy(),
		c.Cache,
		c.Clock,
		c.Storage,
		imageProcessor,
		c.AsynqClient,
		c.Config.Donation.FeedCacheTTL,
		c.Config.Donation.DefaultPageSize,
		c.Config.Donation.MaxPageSize,
	)
}

func (c *Container) initHandlers() {
	c.UserHandler = userHandler.NewUserHandler(c.UserService)
	c.DonationHandler = donationHandler.NewDonationHandler(
		c.DonationService,
		c.Config.Donation.MaxImageSizeBytes,
	)
}

// Cleanup releases infrastructure resources. Called on shutdown.
func (c *Container) Cleanup() {
	log.Println("Cleaning up DI container...")

	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			log.Printf("Failed to close asynq client: %v", err)
		}
	}

	if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
		if err := rc.Close(); err != nil {
			log.Printf("Failed to close redis client: %v", err)
		}
	}

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			log.Printf("Failed to close database: %v", err)
		}
	}
}
