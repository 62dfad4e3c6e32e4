package service

import (
	"context"
	"net/http"
	"slices"

	"go.uber.org/zap"

	"github.com/spec-kit/blog-service/internal/domain"
	"github.com/spec-kit/blog-service/internal/events"
	"github.com/spec-kit/blog-service/internal/repository"
	apperrors "github.com/spec-kit/blog-service/pkg/util/errorutil"
)

// ErrNotChatMember rejects access to a chat the caller does not belong to.
var ErrNotChatMember = apperrors.NewDomainError("NOT_CHAT_MEMBER", "you are not a member of this chat", http.StatusForbidden, nil)

// ChatService coordinates chats and messages.
type ChatService struct {
	chats      repository.ChatRepository
	messages   repository.MessageRepository
	tx         repository.Transactor
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// ChatDependencies bundles collaborators for the chat service.
type ChatDependencies struct {
	ChatRepo    repository.ChatRepository
	MessageRepo repository.MessageRepository
	Transactor  repository.Transactor
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// NewChatService constructs the service.
func NewChatService(deps ChatDependencies) *ChatService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	dispatcher := deps.Dispatcher
	if dispatcher == nil {
		dispatcher = events.NewInMemoryDispatcher(logger)
	}
	return &ChatService{
		chats:      deps.ChatRepo,
		messages:   deps.MessageRepo,
		tx:         deps.Transactor,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Paginate lists chats.
func (s *ChatService) Paginate(ctx context.Context, q domain.CursorQuery) (*domain.Page[domain.Chat], error) {
	return s.chats.Paginate(ctx, q)
}

// PaginateMessages lists messages of an existing chat.
func (s *ChatService) PaginateMessages(ctx context.Context, chatID int64, q domain.CursorQuery) (*domain.Page[domain.Message], error) {
	exists, err := s.chats.Exists(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.NewNotFound("chat", nil)
	}
	return s.messages.PaginateByChat(ctx, chatID, q)
}

// CreateChat creates a room for creatorID and userIDs.
func (s *ChatService) CreateChat(ctx context.Context, creatorID int64, userIDs []int64) (*domain.Chat, error) {
	members := []int64{creatorID}
	for _, id := range userIDs {
		if id > 0 && !slices.Contains(members, id) {
			members = append(members, id)
		}
	}

	chat := &domain.Chat{UserIDs: members}
	if err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		return s.chats.Create(ctx, chat)
	}); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventChatCreated, chat.ID, creatorID, events.ChatCreatedPayload{ChatID: chat.ID, UserIDs: members})
	return chat, nil
}

// Exists reports whether the chat is present.
func (s *ChatService) Exists(ctx context.Context, chatID int64) (bool, error) {
	return s.chats.Exists(ctx, chatID)
}

// EnsureMember returns the chat when userID belongs to it.
func (s *ChatService) EnsureMember(ctx context.Context, chatID, userID int64) (*domain.Chat, error) {
	chat, err := s.chats.GetByID(ctx, chatID)
	if err != nil {
		return nil, notFound(err, "chat")
	}
	if !slices.Contains(chat.UserIDs, userID) {
		return nil, ErrNotChatMember
	}
	return chat, nil
}

// SendMessage stores a message and announces it to the room. origin names
// the sending connection so it is not echoed back.
func (s *ChatService) SendMessage(ctx context.Context, authorID, chatID int64, text, origin string) (*domain.Message, error) {
	if _, err := s.EnsureMember(ctx, chatID, authorID); err != nil {
		return nil, err
	}
	message := &domain.Message{ChatID: chatID, AuthorID: authorID, Message: text}
	if err := s.messages.Create(ctx, message); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventMessageCreated, chatID, authorID, events.MessageCreatedPayload{
		MessageID: message.ID,
		ChatID:    chatID,
		Message:   text,
		Origin:    origin,
	})
	return message, nil
}

func (s *ChatService) publish(ctx context.Context, eventType events.EventType, chatID, actorID int64, payload any) {
	event, err := events.NewEvent(eventType, chatID, actorID, payload)
	if err == nil {
		err = s.dispatcher.Publish(ctx, event)
	}
	if err != nil {
		s.logger.Warn("publish event failed", zap.String("event_type", string(eventType)), zap.Int64("chat_id", chatID), zap.Error(err))
	}
}
