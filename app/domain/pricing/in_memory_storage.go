package pricing

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const (
	keyFormatForSentAlert = "price_alert_sent:%s:%s"

	// A user gets at most one alert per item per day regardless of how many
	// sweeps detect the same drop.
	sentAlertTTL = 24 * time.Hour
)

type InMemoryStorage struct {
	client *redis.Client
}

func NewInMemoryStorage(client *redis.Client) *InMemoryStorage {
	return &InMemoryStorage{client: client}
}

func (s *InMemoryStorage) WasRecentlyNotified(ctx context.Context, userID, itemID string) (bool, error) {
	key := fmt.Sprintf(keyFormatForSentAlert, userID, itemID)

	_, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}

		return false, errors.Wrap(err, "couldn't check sent alert marker")
	}

	return true, nil
}

func (s *InMemoryStorage) MarkNotified(ctx context.Context, userID, itemID string) error {
	key := fmt.Sprintf(keyFormatForSentAlert, userID, itemID)

	if err := s.client.Set(ctx, key, "1", sentAlertTTL).Err(); err != nil {
		return errors.Wrap(err, "couldn't store sent alert marker")
	}

	return nil
}
