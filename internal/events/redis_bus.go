package events

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

const channel = "events:posts"

// RedisBus implements Bus over Redis pub/sub
type RedisBus struct {
	client *redis.Client
	pubsub *redis.PubSub
	ctx    context.Context
}

func NewRedisBus(redisURL string) (*RedisBus, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisBus{
		client: client,
		ctx:    ctx,
	}, nil
}

func (b *RedisBus) Publish(ev PostEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	return b.client.Publish(b.ctx, channel, data).Err()
}

func (b *RedisBus) Subscribe() (<-chan PostEvent, error) {
	b.pubsub = b.client.Subscribe(b.ctx, channel)

	// Wait for the subscription to be confirmed so no event published
	// right after startup is missed.
	if _, err := b.pubsub.Receive(b.ctx); err != nil {
		return nil, err
	}

	evChan := make(chan PostEvent, 100)

	go func() {
		defer close(evChan)

		for msg := range b.pubsub.Channel() {
			var ev PostEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				continue
			}
			evChan <- ev
		}
	}()

	return evChan, nil
}

func (b *RedisBus) Close() error {
	if b.pubsub != nil {
		b.pubsub.Close()
	}
	return b.client.Close()
}
