package service

import (
	"context"

	"github.com/go-redis/redis/v8"
)

type redisPublisher struct {
	client  *redis.Client
	channel string
}

// NewRedisPublisher publishes normalized events on a Redis pub/sub channel.
func NewRedisPublisher(client *redis.Client, channel string) EventPublisher {
	return &redisPublisher{
		client:  client,
		channel: channel,
	}
}

func (p *redisPublisher) Publish(ctx context.Context, payload []byte) error {
	return p.client.Publish(ctx, p.channel, payload).Err()
}
