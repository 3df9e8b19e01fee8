package db

import (
	"context"
	"log"
	"time"

	"backend-stridelog/internal/config"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis returns the client used for event fan-out, or nil when redis
// is not configured or does not answer.
func ConnectRedis(cfg config.Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:        cfg.RedisAddr,
		Password:    cfg.RedisPassword,
		DialTimeout: 2 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("redis unavailable, streaming locally: %v", err)
		_ = client.Close()
		return nil
	}
	return client
}
