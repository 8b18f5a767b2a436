package commands

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/stitts-dev/nba-lineup/internal/optimizer"
	"github.com/stitts-dev/nba-lineup/internal/projection"
	"github.com/stitts-dev/nba-lineup/internal/providers"
	"github.com/stitts-dev/nba-lineup/internal/services"
	"github.com/stitts-dev/nba-lineup/pkg/config"
	"github.com/stitts-dev/nba-lineup/pkg/database"
	"github.com/stitts-dev/nba-lineup/pkg/logger"
)

// runtime holds the long-lived clients a command needs. Close releases them.
type runtime struct {
	cfg    *config.Config
	client *providers.BasketballReferenceClient
	redis  *redis.Client
	db     *database.DB
}

// newRuntime builds the stats site client. The page cache is used when
// REDIS_URL is set and reachable; otherwise pages are always fetched.
func newRuntime(ctx context.Context, cfg *config.Config) *runtime {
	rt := &runtime{cfg: cfg}
	log := logger.WithComponent("runtime")

	var cache providers.PageCache
	if cfg.RedisURL != "" {
		client, err := services.ConnectRedis(ctx, cfg.RedisURL)
		if err != nil {
			log.WithError(err).Warn("page cache disabled")
		} else {
			rt.redis = client
			cache = services.NewPageCacheService(client, cfg.PageCacheTTL, logger.WithComponent("page_cache"))
		}
	}

	breaker := services.NewCircuitBreaker("basketball-reference",
		cfg.CircuitBreakerThreshold, cfg.CircuitBreakerTimeout, logger.WithComponent("circuit_breaker"))
	opts := providers.ClientOptions{
		UserAgent:    cfg.UserAgent,
		RequestDelay: cfg.RequestDelay,
		FetchTimeout: cfg.FetchTimeout,
		Breaker:      breaker,
		Cache:        cache,
	}
	rt.client = providers.NewBasketballReferenceClient(opts, logger.WithComponent("client"))
	return rt
}

// directoryStore opens the directory database and migrates it.
func (rt *runtime) directoryStore() (*services.DirectoryStore, error) {
	if rt.db == nil {
		db, err := database.NewConnection(rt.cfg.DatabaseURL, rt.cfg.IsDevelopment())
		if err != nil {
			return nil, err
		}
		rt.db = db
	}
	store := services.NewDirectoryStore(rt.db, logger.WithComponent("directory_store"))
	if err := store.Migrate(); err != nil {
		return nil, err
	}
	return store, nil
}

func (rt *runtime) resolver(directory providers.Directory) *providers.Resolver {
	extractor := providers.NewGameLogExtractor(rt.client, rt.cfg.GameWindow)
	return providers.NewResolver(extractor, providers.ResolverOptions{
		BaseURL:    rt.cfg.BaseURL,
		Season:     rt.cfg.Season,
		Directory:  directory,
		Strategies: providers.DefaultStrategies(rt.cfg.MaxSuffixBumps),
	}, logger.WithComponent("resolver"))
}

func (rt *runtime) model() *projection.Model {
	return projection.NewModel(projection.FanDuelScoring(), rt.cfg.GameWindow)
}

func (rt *runtime) projector(directory providers.Directory) *services.Projector {
	return services.NewProjector(rt.resolver(directory), rt.model(), services.ProjectorOptions{
		Workers: rt.cfg.Workers,
		Limit:   rt.cfg.ProjectLimit,
	}, logger.WithComponent("projector"))
}

func (rt *runtime) rules() optimizer.Rules {
	return optimizer.FanDuelRules(rt.cfg.SalaryCap)
}

func (rt *runtime) solverOptions() optimizer.SolverOptions {
	return optimizer.SolverOptions{MaxNodes: rt.cfg.MaxNodes}
}

func (rt *runtime) Close() {
	if rt.redis != nil {
		if err := rt.redis.Close(); err != nil {
			logger.WithComponent("runtime").WithError(err).Warn("failed to close redis")
		}
	}
	if rt.db != nil {
		if err := rt.db.Close(); err != nil {
			logger.WithComponent("runtime").WithError(err).Warn("failed to close database")
		}
	}
}
