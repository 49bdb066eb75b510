package integration

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/wgparish/buy-it-for-life-tracker/app/common/config"
)

func NewRedisConnection(ctx context.Context, inMemoryStorageConfig config.InMemoryStorageConfig) (*redis.Client, error) {
	redisClientOptions := &redis.Options{
		Addr:         inMemoryStorageConfig.Addr(),
		Password:     inMemoryStorageConfig.Password,
		DB:           0,
		DialTimeout:  8 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}

	redisConnection := redis.NewClient(redisClientOptions)

	if _, err := redisConnection.Ping(ctx).Result(); err != nil {
		return nil, errors.Wrap(err, "error occurred while pinging Redis")
	}

	return redisConnection, nil
}
