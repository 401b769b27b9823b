package app

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"github.com/techtrack/techtrack/internal/config"
	"github.com/techtrack/techtrack/internal/event_bus"
	"github.com/techtrack/techtrack/internal/utils"
	"github.com/techtrack/techtrack/pkg/activity"
	"github.com/techtrack/techtrack/pkg/github"
	"github.com/techtrack/techtrack/pkg/kvstore"
	"github.com/techtrack/techtrack/pkg/settings"
	"github.com/techtrack/techtrack/pkg/stats"
	"github.com/techtrack/techtrack/pkg/technology"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Clock    utils.Clock
	EventBus *event_bus.EventBus

	TechnologyRepo    technology.Repository
	TechnologyService *technology.ServiceImpl
	TechnologyHandler *technology.Handler

	StatsService     *stats.StatsServiceImpl
	CsvStatsRenderer *stats.CsvStatsRendererImpl
	StatsHandler     *stats.StatsHandler

	SettingsService *settings.ServiceImpl
	SettingsHandler *settings.Handler

	ActivityService *activity.ServiceImpl
	ActivityHandler *activity.Handler

	RedisClient   *redis.Client
	GitHubClient  github.Client
	GitHubCache   github.Cache
	GitHubService *github.ServiceImpl
	GitHubHandler *github.Handler
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(store kvstore.Store, cfg config.Application, clock utils.Clock) *Dependencies {
	deps := &Dependencies{}

	deps.Clock = clock
	deps.EventBus = event_bus.NewEventBus()

	deps.TechnologyRepo = technology.NewRepository(store)
	deps.TechnologyService = technology.NewService(deps.TechnologyRepo, deps.EventBus, deps.Clock)
	deps.TechnologyHandler = technology.NewHandler(deps.TechnologyService)

	deps.StatsService = stats.NewStatsServiceImpl(deps.TechnologyService)
	deps.CsvStatsRenderer = stats.NewCsvStatsRenderer()
	deps.StatsHandler = stats.NewStatsHandler(deps.StatsService, deps.CsvStatsRenderer)

	deps.SettingsService = settings.NewService(settings.NewRepository(store))
	deps.SettingsHandler = settings.NewHandler(deps.SettingsService)

	deps.ActivityService = activity.NewService(activity.NewRepository(store))
	deps.ActivityService.Subscribe(deps.EventBus)
	deps.ActivityHandler = activity.NewHandler(deps.ActivityService)

	deps.GitHubClient = github.NewClient(cfg.GitHub.BaseURL, cfg.GitHub.Token, cfg.GitHub.Timeout)
	deps.GitHubCache = github.NewMemoryCache(deps.Clock)
	if cfg.Redis.Enabled {
		if client := connectRedis(cfg.Redis); client != nil {
			deps.RedisClient = client
			deps.GitHubCache = github.NewRedisCache(client)
		}
	}
	deps.GitHubService = github.NewService(deps.GitHubClient, deps.GitHubCache, cfg.GitHub.CacheTTL)
	deps.GitHubHandler = github.NewHandler(deps.GitHubService)

	return deps
}

// Close releases connections held by the dependencies.
func (deps *Dependencies) Close() {
	if deps.RedisClient != nil {
		if err := deps.RedisClient.Close(); err != nil {
			log.Errorf("failed to close Redis client: %v", err)
		}
	}
}

// connectRedis returns nil when Redis cannot be reached, so lookups fall back
// to the in-process cache.
func connectRedis(cfg config.Redis) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	pong, err := client.Ping(ctx).Result()
	if err != nil {
		log.Warnf("Could not connect to Redis at %s, using in-memory cache: %v", cfg.Addr, err)
		_ = client.Close()
		return nil
	}
	log.Infof("Successfully connected to Redis cache: %s", pong)
	return client
}
