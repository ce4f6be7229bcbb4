package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Publisher publishes JSON messages to named channels.
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Close() error
}

type redisPublisher struct {
	client *redis.Client
}

// NewRedisPublisher connects to redis and verifies the connection.
func NewRedisPublisher(addr, password string, db int) (Publisher, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", addr, err)
	}

	return NewPublisherFromClient(client), nil
}

// NewPublisherFromClient wraps an existing redis client.
func NewPublisherFromClient(client *redis.Client) Publisher {
	return &redisPublisher{client: client}
}

func (r *redisPublisher) Publish(ctx context.Context, channel string, message interface{}) error {
	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("marshal message for %s: %w", channel, err)
	}

	return r.client.Publish(ctx, channel, payload).Err()
}

func (r *redisPublisher) Close() error {
	return r.client.Close()
}
