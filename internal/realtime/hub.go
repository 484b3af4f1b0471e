// Package realtime fans chat messages out to live subscribers over Redis pub/sub.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"rideshare/internal/domain"
	"rideshare/internal/domain/models"

	"github.com/redis/go-redis/v9"
)

// Channel is the pub/sub channel carrying one conversation's messages.
func Channel(conversationID domain.ID) string {
	return fmt.Sprintf("conversation:%d", conversationID)
}

type Hub struct {
	Client *redis.Client
}

func (h Hub) Publish(ctx context.Context, msg models.Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return h.Client.Publish(ctx, Channel(msg.ConversationID), payload).Err()
}

// Subscribe relays messages of a conversation until ctx is done. The returned
// channel is closed when the subscription ends.
func (h Hub) Subscribe(ctx context.Context, conversationID domain.ID) (<-chan models.Message, error) {
	sub := h.Client.Subscribe(ctx, Channel(conversationID))
	// Wait for the subscription confirmation so no message published after
	// this call returns is missed.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, err
	}

	out := make(chan models.Message, 16)
	go func() {
		defer close(out)
		defer sub.Close()

		in := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-in:
				if !ok {
					return
				}
				var msg models.Message
				if err := json.Unmarshal([]byte(m.Payload), &msg); err != nil {
					log.Printf("[REALTIME] drop malformed payload on %s: %v", m.Channel, err)
					continue
				}
				select {
				case out <- msg:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
