package platform

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis establishes a connection to redis for the leaderboard cache.
func ConnectRedis(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}
