package backend

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/akmalqodirov005/e-commerse/internal/cart"
	"github.com/akmalqodirov005/e-commerse/internal/config"
	"github.com/akmalqodirov005/e-commerse/internal/database"
	"github.com/akmalqodirov005/e-commerse/internal/sessions"
	"github.com/akmalqodirov005/e-commerse/pkg/logger"
)

// Collections used by the mongo backend.
const (
	SessionCollection = "session"
	CartCollection    = "cart"
)

// Backend bundles the durable stores selected by STORAGE_BACKEND.
type Backend struct {
	Name     string
	Sessions sessions.Store
	Cart     cart.Repository
	// Redis is set whenever a Redis connection is available, also for the
	// memory and mongo backends, so the rate limiter can share it.
	Redis *redis.Client
	mongo *mongo.Client
}

// Open connects the configured backend. Mongo connections are retried with
// exponential backoff to tolerate startup races.
func Open(ctx context.Context, cfg *config.Config) (*Backend, error) {
	b := &Backend{Name: cfg.Storage.Backend}

	if cfg.Storage.Backend == config.BackendRedis || cfg.RateLimit.UseRedis {
		client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr(), Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			if cfg.Storage.Backend == config.BackendRedis {
				return nil, fmt.Errorf("redis %s: %w", cfg.Redis.Addr(), err)
			}
			logger.Warnf("redis %s unavailable, rate limiter falls back to memory: %v", cfg.Redis.Addr(), err)
		} else {
			logger.Infof("connected to Redis %s", cfg.Redis.Addr())
			b.Redis = client
		}
	}

	switch cfg.Storage.Backend {
	case config.BackendRedis:
		b.Sessions = sessions.NewRedisStore(b.Redis, cfg.Storage.Prefix)
		b.Cart = cart.NewRedisRepository(b.Redis, cfg.Storage.Prefix)
	case config.BackendMongo:
		client, err := connectMongo(ctx, cfg.MongoDB, 5)
		if err != nil {
			b.Close(ctx)
			return nil, err
		}
		b.mongo = client
		db := client.Database(cfg.MongoDB.Database)
		b.Sessions = sessions.NewMongoStore(db.Collection(SessionCollection), cfg.Storage.Prefix)
		b.Cart = cart.NewMongoRepository(db.Collection(CartCollection), cfg.Storage.Prefix)
	default:
		b.Sessions = sessions.NewMemoryStore()
		b.Cart = cart.NewMemoryRepository()
	}
	logger.Infof("storage backend: %s", b.Name)
	return b, nil
}

func connectMongo(ctx context.Context, cfg config.MongoDBConfig, maxAttempts int) (*mongo.Client, error) {
	backoff := time.Second
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		client, err := database.ConnectMongo(ctx, cfg)
		if err == nil {
			return client, nil
		}
		lastErr = err
		logger.Warnf("attempt %d/%d: failed to connect to MongoDB: %v", attempt, maxAttempts, err)
		if attempt < maxAttempts {
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			backoff *= 2
		}
	}
	return nil, fmt.Errorf("could not connect to MongoDB after %d attempts: %w", maxAttempts, lastErr)
}

// Close releases every connection opened by Open.
func (b *Backend) Close(ctx context.Context) {
	if b.Redis != nil {
		if err := b.Redis.Close(); err != nil {
			logger.Warnf("close redis: %v", err)
		}
	}
	if b.mongo != nil {
		if err := b.mongo.Disconnect(ctx); err != nil {
			logger.Warnf("disconnect mongo: %v", err)
		}
	}
}
