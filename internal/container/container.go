package container

import (
	"context"

	"github.com/RohanLambture/InteractiveQ/internal/config"
	"github.com/RohanLambture/InteractiveQ/internal/repository"
	"github.com/RohanLambture/InteractiveQ/internal/repository/memory"
	"github.com/RohanLambture/InteractiveQ/internal/repository/postgres"
	"github.com/RohanLambture/InteractiveQ/internal/service"
	"github.com/RohanLambture/InteractiveQ/internal/service/auth"
	"github.com/RohanLambture/InteractiveQ/pkg/database"
	"github.com/RohanLambture/InteractiveQ/pkg/logger"
	"github.com/RohanLambture/InteractiveQ/pkg/redis"
)

// Container holds all application dependencies
type Container struct {
	Config       *config.Config
	Logger       *logger.Logger
	DB           *database.PostgresDB
	RedisClient  *redis.Client
	Repositories *repository.Repositories
	Services     *service.Services
}

// New creates a new dependency injection container. Without DATABASE_URL
// the in-memory store is used; without REDIS_URL snapshots are served
// straight from the store.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Container, error) {
	var db *database.PostgresDB
	var repos *repository.Repositories

	if cfg.DatabaseURL != "" {
		pg, err := database.NewPostgresDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		db = pg
		repos = postgres.NewRepositories(pg)
		log.Info("Postgres store initialized")
	} else {
		repos = memory.NewRepositories()
		log.Warn("DATABASE_URL not configured, using in-memory store")
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		client, err := redis.NewClient(cfg.RedisURL, cfg.Environment, log.Logger)
		if err != nil {
			log.WithError(err).Warn("Failed to initialize Redis client, proceeding without snapshot caching")
		} else {
			redisClient = client
			log.Info("Redis client initialized successfully")
		}
	} else {
		log.Info("Redis URL not configured, proceeding without snapshot caching")
	}

	snapshotService := service.NewSnapshotService(repos, redisClient, log)
	roomService := service.NewRoomService(repos.Rooms, snapshotService, log)
	questionService := service.NewQuestionService(repos.Questions, repos.Rooms, snapshotService, log)
	pollService := service.NewPollService(repos.Polls, repos.Rooms, snapshotService, log)
	authService := auth.NewService(repos.Users, cfg.JWTSecret, cfg.TokenTTL, log)

	services := &service.Services{
		Auth:      authService,
		Rooms:     roomService,
		Questions: questionService,
		Polls:     pollService,
		Snapshots: snapshotService,
	}

	return &Container{
		Config:       cfg,
		Logger:       log,
		DB:           db,
		RedisClient:  redisClient,
		Repositories: repos,
		Services:     services,
	}, nil
}

// GetConfig returns the configuration
func (c *Container) GetConfig() *config.Config {
	return c.Config
}

// GetLogger returns the logger
func (c *Container) GetLogger() *logger.Logger {
	return c.Logger
}

// GetServices returns the application services
func (c *Container) GetServices() *service.Services {
	return c.Services
}

// HasRedis returns true if the Redis client is available
func (c *Container) HasRedis() bool {
	return c.RedisClient != nil
}
