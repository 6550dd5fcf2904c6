package db

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"buzzmap/internal/stream"
)

const (
	FeedKeyInstagram = "buzzmap:changes:instagram"
	FeedKeyYoutube   = "buzzmap:changes:youtube"
	FeedKeyCandidate = "buzzmap:changes:candidate"
)

// Changefeed carries change batches between pipeline stages over Redis lists.
type Changefeed struct {
	client *redis.Client
}

func ConnectRedis(ctx context.Context) (*Changefeed, error) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		return nil, fmt.Errorf("REDIS_URL environment variable is not set")
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		opt = &redis.Options{Addr: redisURL}
	}

	client := redis.NewClient(opt)
	if _, err := client.Ping(ctx).Result(); err != nil {
		client.Close()
		return nil, err
	}
	return &Changefeed{client: client}, nil
}

func (f *Changefeed) Close() error {
	return f.client.Close()
}

func (f *Changefeed) Publish(ctx context.Context, key string, batch stream.Batch) error {
	data, err := json.Marshal(batch)
	if err != nil {
		return err
	}
	return f.client.LPush(ctx, key, data).Err()
}

// Next blocks up to timeout waiting for a batch on any of the given keys.
// A nil batch with nil error means the wait timed out.
func (f *Changefeed) Next(ctx context.Context, timeout time.Duration, keys ...string) (*stream.Batch, error) {
	result, err := f.client.BRPop(ctx, timeout, keys...).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var batch stream.Batch
	if err := json.Unmarshal([]byte(result[1]), &batch); err != nil {
		return nil, err
	}
	return &batch, nil
}

func (f *Changefeed) Len(ctx context.Context, key string) (int64, error) {
	return f.client.LLen(ctx, key).Result()
}
