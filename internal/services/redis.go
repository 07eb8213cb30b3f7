package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"rewards-platform-backend/internal/config"
	"rewards-platform-backend/internal/models"
)

// RedisService holds the ephemeral state that never belongs in the ledger:
// bet cooldowns, request rate limits and the balance event feed.
type RedisService struct {
	client *redis.Client
	ctx    context.Context
}

func NewRedisService(cfg *config.Config) (*RedisService, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisURL,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})

	ctx := context.Background()

	_, err := client.Ping(ctx).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %v", err)
	}

	return &RedisService{client: client, ctx: ctx}, nil
}

func (s *RedisService) CooldownActive(ctx context.Context, accountID string) (bool, error) {
	key := fmt.Sprintf(KeyBetCooldown, accountID)
	n, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check cooldown: %v", err)
	}
	return n > 0, nil
}

func (s *RedisService) MarkCooldown(ctx context.Context, accountID string, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	key := fmt.Sprintf(KeyBetCooldown, accountID)
	return s.client.SetNX(ctx, key, 1, d).Err()
}

// CheckRateLimit counts requests per action in a rolling window and reports
// whether the caller is still under the limit.
func (s *RedisService) CheckRateLimit(ctx context.Context, accountID, action string, limit int, window time.Duration) (bool, error) {
	key := fmt.Sprintf(KeyRateLimit, accountID, action)

	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check rate limit: %v", err)
	}

	if count == 1 {
		s.client.Expire(ctx, key, window)
	}

	return count <= int64(limit), nil
}

// NotifyBalanceChange publishes the event on the shared feed channel so
// other instances can push it to their websocket clients. Failures are
// logged and dropped; the ledger write already happened.
func (s *RedisService) NotifyBalanceChange(event models.BalanceEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("failed to marshal balance event: %v", err)
		return
	}
	if err := s.client.Publish(s.ctx, ChanBalanceFeed, data).Err(); err != nil {
		log.Printf("failed to publish balance event: %v", err)
	}
}

// SubscribeBalanceFeed delivers every published balance event to handler
// until ctx is cancelled. Malformed payloads are skipped.
func (s *RedisService) SubscribeBalanceFeed(ctx context.Context, handler func(models.BalanceEvent)) {
	sub := s.client.Subscribe(ctx, ChanBalanceFeed)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var event models.BalanceEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				log.Printf("failed to decode balance event: %v", err)
				continue
			}
			handler(event)
		}
	}
}

func (s *RedisService) Close() error {
	return s.client.Close()
}
