package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventChatCreated    EventType = "chat_created"
	EventMessageCreated EventType = "message_created"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string          `json:"id"`
	Type      EventType       `json:"type"`
	ChatID    int64           `json:"chat_id,omitempty"`
	ActorID   int64           `json:"actor_id"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// NewEvent builds an event with a fresh id and an encoded payload.
func NewEvent(eventType EventType, chatID, actorID int64, payload any) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("encode %s payload: %w", eventType, err)
	}
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		ChatID:    chatID,
		ActorID:   actorID,
		Timestamp: time.Now().UTC(),
		Payload:   raw,
	}, nil
}

// Decode unmarshals the payload into v.
func (e Event) Decode(v any) error {
	return json.Unmarshal(e.Payload, v)
}

// MessageCreatedPayload payload.
type MessageCreatedPayload struct {
	MessageID int64  `json:"message_id"`
	ChatID    int64  `json:"chatId"`
	Message   string `json:"message"`
	// Origin is the connection that sent the message; it is skipped on broadcast.
	Origin string `json:"origin,omitempty"`
}

// ChatCreatedPayload payload.
type ChatCreatedPayload struct {
	ChatID  int64   `json:"chat_id"`
	UserIDs []int64 `json:"user_ids"`
}
