package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rpupo63/chantier-backend/config"
	"github.com/rpupo63/chantier-backend/errs"
)

// NewRedisClient returns nil when REDIS_ADDR is not configured.
func NewRedisClient(c map[string]string) *redis.Client {
	addr := config.GetString(c, "REDIS_ADDR", "")
	if addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: config.GetString(c, "REDIS_PASSWORD", ""),
		DB:       config.GetInt(c, "REDIS_DB", 0),
	})
}

// RedisBroadcaster pushes realtime events over redis pub/sub. The websocket
// edge subscribes to the per-user channels.
type RedisBroadcaster struct {
	client redis.UniversalClient
}

func NewRedisBroadcaster(client redis.UniversalClient) *RedisBroadcaster {
	return &RedisBroadcaster{client: client}
}

func UserChannel(userID uuid.UUID) string {
	return "users." + userID.String()
}

func (b *RedisBroadcaster) Publish(ctx context.Context, channel string, payload any) error {
	message, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal broadcast payload: %w", err)
	}
	if err := b.client.Publish(ctx, channel, message).Err(); err != nil {
		return errs.NewBroadcastError(channel, err)
	}
	return nil
}
