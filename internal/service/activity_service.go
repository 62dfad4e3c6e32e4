package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/blog-service/internal/events"
)

// ActivityService records chat activity in the structured log.
type ActivityService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewActivityService creates the service.
func NewActivityService(dispatcher events.Dispatcher, logger *zap.Logger) *ActivityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActivityService{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes to events.
func (a *ActivityService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventChatCreated, a.handleChatCreated)
	a.dispatcher.Subscribe(events.EventMessageCreated, a.handleMessageCreated)
}

func (a *ActivityService) handleChatCreated(_ context.Context, event events.Event) error {
	var payload events.ChatCreatedPayload
	if err := event.Decode(&payload); err != nil {
		return err
	}
	a.logger.Info("ChatCreated",
		zap.String("event_id", event.ID),
		zap.Int64("chat_id", payload.ChatID),
		zap.Int64("actor_id", event.ActorID),
		zap.Int64s("user_ids", payload.UserIDs))
	return nil
}

func (a *ActivityService) handleMessageCreated(_ context.Context, event events.Event) error {
	var payload events.MessageCreatedPayload
	if err := event.Decode(&payload); err != nil {
		return err
	}
	a.logger.Info("MessageCreated",
		zap.String("event_id", event.ID),
		zap.Int64("chat_id", payload.ChatID),
		zap.Int64("message_id", payload.MessageID),
		zap.Int64("actor_id", event.ActorID))
	return nil
}
