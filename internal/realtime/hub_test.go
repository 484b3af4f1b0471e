package realtime

import (
	"context"
	"testing"
	"time"

	"rideshare/internal/domain/models"

	"github.com/redis/go-redis/v9"
)

func TestChannelName(t *testing.T) {
	if got := Channel(42); got != "conversation:42" {
		t.Fatalf("unexpected channel %q", got)
	}
}

func TestPublishReportsUnreachableRedis(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 200 * time.Millisecond, MaxRetries: -1})
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := (Hub{Client: client}).Publish(ctx, models.Message{ID: 1, ConversationID: 42, Body: "hi"}); err == nil {
		t.Fatalf("expected publish error without a reachable server")
	}
}
