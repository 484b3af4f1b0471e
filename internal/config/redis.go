package config

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

var errNotConnected = errors.New("database not connected")

// ConnectRedis returns nil when REDIS_URL is unset; realtime fanout is then disabled.
func ConnectRedis(env Env) (*redis.Client, error) {
	if env.RedisURL == "" {
		log.Println("[REDIS] REDIS_URL not set, realtime chat disabled")
		return nil, nil
	}
	opt, err := redis.ParseURL(env.RedisURL)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	log.Println("[REDIS] connected")
	return client, nil
}
