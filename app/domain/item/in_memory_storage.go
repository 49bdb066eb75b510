package item

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const (
	keyForCachedCategories = "items:categories"

	cachedCategoriesTTL = 1 * time.Hour
)

type InMemoryStorage struct {
	client *redis.Client
}

func NewInMemoryStorage(client *redis.Client) *InMemoryStorage {
	return &InMemoryStorage{client: client}
}

// ReadCachedCategories returns nil without an error when the cache is cold.
func (s *InMemoryStorage) ReadCachedCategories(ctx context.Context) ([]string, error) {
	rawCategories, err := s.client.Get(ctx, keyForCachedCategories).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}

		return nil, errors.Wrap(err, "couldn't read cached categories")
	}

	var categories []string

	if err := json.Unmarshal([]byte(rawCategories), &categories); err != nil {
		return nil, errors.Wrap(err, "couldn't unmarshal cached categories")
	}

	return categories, nil
}

func (s *InMemoryStorage) StoreCachedCategories(ctx context.Context, categories []string) error {
	rawCategories, err := json.Marshal(categories)
	if err != nil {
		return errors.Wrap(err, "couldn't marshal categories")
	}

	if err := s.client.Set(ctx, keyForCachedCategories, rawCategories, cachedCategoriesTTL).Err(); err != nil {
		return errors.Wrap(err, "couldn't store categories in cache")
	}

	return nil
}

func (s *InMemoryStorage) InvalidateCachedCategories(ctx context.Context) error {
	if err := s.client.Del(ctx, keyForCachedCategories).Err(); err != nil {
		return errors.Wrap(err, "couldn't invalidate cached categories")
	}

	return nil
}
