package app

import (
	"context"
	"fmt"
	"time"

	"github.com/bilalsxadad1231231/to-do-fullstack-ai/internal/ai"
	"github.com/bilalsxadad1231231/to-do-fullstack-ai/internal/cache"
	"github.com/bilalsxadad1231231/to-do-fullstack-ai/internal/config"
	"github.com/bilalsxadad1231231/to-do-fullstack-ai/internal/logging"
	"github.com/bilalsxadad1231231/to-do-fullstack-ai/internal/repo"
	"github.com/bilalsxadad1231231/to-do-fullstack-ai/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type App struct {
	cfg    config.Config
	log    logging.Logger
	store  *repo.SQLStore
	redis  *redis.Client
	router *gin.Engine
}

// New opens the store (migrating it when configured), the optional Redis
// cache and the AI client, and builds the router.
func New(ctx context.Context, cfg config.Config, log logging.Logger) (*App, error) {
	a := &App{cfg: cfg, log: log}

	store, err := repo.Open(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	a.store = store

	if cfg.DB.AutoMigrate {
		if err := store.Migrate(ctx, repo.MigrateUp, log); err != nil {
			_ = store.Close()
			return nil, err
		}
	}

	var todoCache *cache.TodoCache
	if cfg.Redis.Enabled() {
		rdb, err := newRedis(ctx, cfg.Redis)
		if err != nil {
			log.Warn(ctx, "redis unavailable, read cache disabled", "addr", cfg.Redis.Addr, "err", err)
		} else {
			a.redis = rdb
			todoCache = cache.NewTodoCache(rdb, cfg.Redis.DefaultTTL.Duration())
		}
	}

	svc := service.NewTodoService(store, newCollaborator(ctx, cfg.AI, log), todoCache, log)
	a.router = NewRouter(cfg, log, svc)
	return a, nil
}

func (a *App) Router() *gin.Engine {
	return a.router
}

func (a *App) Close(ctx context.Context) error {
	_ = ctx
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.store != nil {
		return a.store.Close()
	}
	return nil
}

func newRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return rdb, nil
}

func newCollaborator(ctx context.Context, cfg config.AIConfig, log logging.Logger) ai.Collaborator {
	if cfg.APIKey == "" {
		log.Warn(ctx, "GROQ_API_KEY is not set, AI features are disabled")
		return ai.Disabled{}
	}
	return ai.NewGroqClient(ai.GroqOptions{
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		Model:       cfg.Model,
		Timeout:     cfg.Timeout.Duration(),
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
	})
}
