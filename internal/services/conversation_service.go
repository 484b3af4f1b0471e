package services

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	intconfig "rideshare/internal/config"
	"rideshare/internal/domain"
	"rideshare/internal/domain/models"
	"rideshare/internal/repositories"
	"rideshare/internal/utils"

	"github.com/jmoiron/sqlx"
)

const maxMessageLength = 2000

// Broadcaster pushes freshly stored messages to live subscribers.
type Broadcaster interface {
	Publish(ctx context.Context, msg models.Message) error
}

// ConversationService resolves one-to-one conversations and carries their messages.
type ConversationService struct {
	DB          *sqlx.DB
	Broadcaster Broadcaster
	RequestID   string
	Now         func() time.Time
}

func (s ConversationService) db() *sqlx.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s ConversationService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return utils.NowUTC()
}

// GetOrCreateConversation returns the single conversation between two users,
// in either argument order.
func (s ConversationService) GetOrCreateConversation(ctx context.Context, userA, userB domain.ID) (domain.ID, error) {
	if userA <= 0 || userB <= 0 {
		return 0, domain.ValidationError{Field: "user_id", Msg: "invalid user id"}
	}
	if userA == userB {
		return 0, domain.ValidationError{Field: "user_id", Msg: "cannot start a conversation with yourself"}
	}
	db := s.db()
	if db == nil {
		return 0, domain.TransportError{Op: "get conversation"}
	}

	user1, user2 := models.CanonicalPair(userA, userB)
	id, err := repositories.ConversationRepo{DB: db}.Upsert(ctx, user1, user2)
	if err != nil {
		return 0, domain.TransportError{Op: "upsert conversation", Err: err}
	}
	utils.LogEventf(s.RequestID, "chat", "get_or_create", "conversation_id=%d users=%d,%d", id, user1, user2)
	return id, nil
}

func (s ConversationService) ListConversations(ctx context.Context, userID domain.ID) ([]models.Conversation, error) {
	db := s.db()
	if db == nil {
		return nil, domain.TransportError{Op: "list conversations"}
	}
	out, err := repositories.ConversationRepo{DB: db}.ListByUser(ctx, userID)
	if err != nil {
		return nil, domain.TransportError{Op: "list conversations", Err: err}
	}
	return out, nil
}

// Participant loads the conversation and checks that userID belongs to it.
func (s ConversationService) Participant(ctx context.Context, conversationID, userID domain.ID) (models.Conversation, error) {
	db := s.db()
	if db == nil {
		return models.Conversation{}, domain.TransportError{Op: "read conversation"}
	}
	conv, err := repositories.ConversationRepo{DB: db}.GetByID(ctx, conversationID)
	if err != nil {
		if domain.IsNotFound(err) {
			return models.Conversation{}, err
		}
		return models.Conversation{}, domain.TransportError{Op: "read conversation", Err: err}
	}
	if !conv.Has(userID) {
		return models.Conversation{}, domain.ForbiddenError{Msg: "not a participant of this conversation"}
	}
	return conv, nil
}

// SendMessage stores a message and then hands it to the broadcaster. A failed
// broadcast is logged only; the message is already durable.
func (s ConversationService) SendMessage(ctx context.Context, conversationID, senderID domain.ID, body string) (models.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return models.Message{}, domain.ValidationError{Field: "body", Msg: "message is empty"}
	}
	if utf8.RuneCountInString(body) > maxMessageLength {
		return models.Message{}, domain.ValidationError{Field: "body", Msg: "message is too long"}
	}

	if _, err := s.Participant(ctx, conversationID, senderID); err != nil {
		return models.Message{}, err
	}

	id, err := repositories.MessageRepo{DB: s.db()}.Insert(ctx, conversationID, senderID, body)
	if err != nil {
		return models.Message{}, domain.TransportError{Op: "insert message", Err: err}
	}
	msg := models.Message{
		ID:             id,
		ConversationID: conversationID,
		SenderID:       senderID,
		Body:           body,
		CreatedAt:      s.now(),
	}

	if s.Broadcaster != nil {
		if err := s.Broadcaster.Publish(ctx, msg); err != nil {
			utils.LogEventf(s.RequestID, "chat", "publish_failed", "conversation_id=%d message_id=%d err=%v", conversationID, id, err)
		}
	}
	return msg, nil
}

func (s ConversationService) ListMessages(ctx context.Context, conversationID, userID domain.ID, page domain.Pagination) ([]models.Message, error) {
	if _, err := s.Participant(ctx, conversationID, userID); err != nil {
		return nil, err
	}
	out, err := repositories.MessageRepo{DB: s.db()}.List(ctx, conversationID, page.Normalize())
	if err != nil {
		return nil, domain.TransportError{Op: "list messages", Err: err}
	}
	return out, nil
}
