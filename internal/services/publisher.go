package services

import (
	"context"
	"encoding/json"
	"fmt"

	"campusconnect/internal/models"

	"github.com/redis/go-redis/v9"
)

// MessagePublisher pushes new direct messages to live subscribers.
type MessagePublisher interface {
	PublishMessage(ctx context.Context, msg *models.Message) error
}

// MessageChannel is the Redis channel a recipient's clients subscribe to.
func MessageChannel(recipientID uint) string {
	return fmt.Sprintf("campus:messages:%d", recipientID)
}

type RedisPublisher struct {
	client *redis.Client
}

func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{client: client}
}

func (p *RedisPublisher) PublishMessage(ctx context.Context, msg *models.Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}
	if err := p.client.Publish(ctx, MessageChannel(msg.RecipientID), payload).Err(); err != nil {
		return fmt.Errorf("publish message: %w", err)
	}
	return nil
}

// NopPublisher is used when Redis is not configured.
type NopPublisher struct{}

func (NopPublisher) PublishMessage(context.Context, *models.Message) error { return nil }
