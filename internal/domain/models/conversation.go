package models

import (
	"time"

	"rideshare/internal/domain"
)

// Conversation pairs exactly two users. Stored with User1ID < User2ID.
type Conversation struct {
	ID        domain.ID `db:"id" json:"id"`
	User1ID   domain.ID `db:"user1_id" json:"user1Id"`
	User2ID   domain.ID `db:"user2_id" json:"user2Id"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Has reports whether userID is one of the two participants.
func (c Conversation) Has(userID domain.ID) bool {
	return c.User1ID == userID || c.User2ID == userID
}

// CanonicalPair orders two user ids so an unordered pair has one storage form.
func CanonicalPair(a, b domain.ID) (domain.ID, domain.ID) {
	if a > b {
		return b, a
	}
	return a, b
}

type Message struct {
	ID             domain.ID `db:"id" json:"id"`
	ConversationID domain.ID `db:"conversation_id" json:"conversationId"`
	SenderID       domain.ID `db:"sender_id" json:"senderId"`
	Body           string    `db:"body" json:"body"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
}
