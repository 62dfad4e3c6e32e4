package chat

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/blog-service/internal/events"
)

// Sink receives frames for one connection.
type Sink interface {
	WriteJSON(v interface{}) error
}

// Session is one connected, authenticated socket.
type Session struct {
	ID     string
	UserID int64

	mu   sync.Mutex
	sink Sink
}

// NewSession binds a sink to a user.
func NewSession(id string, userID int64, sink Sink) *Session {
	return &Session{ID: id, UserID: userID, sink: sink}
}

// Send writes one frame. Writes on a session are serialized.
func (s *Session) Send(frame Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sink.WriteJSON(frame)
}

// Hub tracks rooms and the sessions joined to them.
type Hub struct {
	mu       sync.RWMutex
	rooms    map[int64]map[*Session]struct{}
	sessions map[*Session]struct{}
	logger   *zap.Logger
}

// NewHub builds an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		rooms:    make(map[int64]map[*Session]struct{}),
		sessions: make(map[*Session]struct{}),
		logger:   logger,
	}
}

// Register makes the session known to the hub.
func (h *Hub) Register(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sessions[s] = struct{}{}
}

// Unregister drops the session from the hub and every room.
func (h *Hub) Unregister(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.sessions, s)
	for chatID, members := range h.rooms {
		delete(members, s)
		if len(members) == 0 {
			delete(h.rooms, chatID)
		}
	}
}

// Join adds the session to the chat room.
func (h *Hub) Join(s *Session, chatID int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	members, ok := h.rooms[chatID]
	if !ok {
		members = make(map[*Session]struct{})
		h.rooms[chatID] = members
	}
	members[s] = struct{}{}
}

// JoinUsers adds every registered session of the given users to the room.
func (h *Hub) JoinUsers(chatID int64, userIDs []int64) {
	wanted := make(map[int64]struct{}, len(userIDs))
	for _, id := range userIDs {
		wanted[id] = struct{}{}
	}

	h.mu.RLock()
	var joining []*Session
	for s := range h.sessions {
		if _, ok := wanted[s.UserID]; ok {
			joining = append(joining, s)
		}
	}
	h.mu.RUnlock()

	for _, s := range joining {
		h.Join(s, chatID)
	}
}

// Broadcast sends frame to every session in the room except the one
// whose ID is exceptID.
func (h *Hub) Broadcast(chatID int64, exceptID string, frame Frame) {
	h.mu.RLock()
	targets := make([]*Session, 0, len(h.rooms[chatID]))
	for s := range h.rooms[chatID] {
		if s.ID != exceptID {
			targets = append(targets, s)
		}
	}
	h.mu.RUnlock()

	for _, s := range targets {
		if err := s.Send(frame); err != nil {
			h.logger.Debug("drop frame", zap.String("session_id", s.ID), zap.Error(err))
		}
	}
}

// Subscribe routes chat events from the dispatcher into rooms.
func (h *Hub) Subscribe(dispatcher events.Dispatcher) {
	dispatcher.Subscribe(events.EventMessageCreated, func(_ context.Context, event events.Event) error {
		var payload events.MessageCreatedPayload
		if err := event.Decode(&payload); err != nil {
			return err
		}
		h.Broadcast(payload.ChatID, payload.Origin, Frame{Event: EventReceiveMessage, Data: ReceivedMessage{
			ID:       payload.MessageID,
			ChatID:   payload.ChatID,
			AuthorID: event.ActorID,
			Message:  payload.Message,
		}})
		return nil
	})
	dispatcher.Subscribe(events.EventChatCreated, func(_ context.Context, event events.Event) error {
		var payload events.ChatCreatedPayload
		if err := event.Decode(&payload); err != nil {
			return err
		}
		h.JoinUsers(payload.ChatID, payload.UserIDs)
		return nil
	})
}
