package chat

import (
	"context"
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/blog-service/internal/api/dto"
	"github.com/spec-kit/blog-service/internal/auth"
	"github.com/spec-kit/blog-service/internal/domain"
	apperrors "github.com/spec-kit/blog-service/pkg/util/errorutil"
)

// Chats is what the gateway needs from the chat service.
type Chats interface {
	CreateChat(ctx context.Context, creatorID int64, userIDs []int64) (*domain.Chat, error)
	EnsureMember(ctx context.Context, chatID, userID int64) (*domain.Chat, error)
	SendMessage(ctx context.Context, authorID, chatID int64, text, origin string) (*domain.Message, error)
}

// QueryToken carries the access token for clients that cannot set
// headers on the upgrade request.
const QueryToken = "token"

// Authenticator resolves the handshake Authorization header.
type Authenticator interface {
	Authenticate(ctx context.Context, header string, kind auth.TokenKind) (*auth.Principal, error)
}

// Gateway serves the chat websocket.
type Gateway struct {
	hub    *Hub
	chats  Chats
	authn  Authenticator
	logger *zap.Logger
}

// NewGateway constructs the gateway.
func NewGateway(hub *Hub, chats Chats, authn Authenticator, logger *zap.Logger) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gateway{hub: hub, chats: chats, authn: authn, logger: logger}
}

// Upgrade authenticates the handshake with an access token and lets the
// websocket handler run.
func (g *Gateway) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	principal, err := g.authn.Authenticate(c.UserContext(), handshakeAuthorization(c), auth.TokenAccess)
	if err != nil {
		return err
	}
	c.Locals(auth.PrincipalLocalsKey, principal)
	return c.Next()
}

// handshakeAuthorization prefers the Authorization header and falls back
// to ?token=.
func handshakeAuthorization(c *fiber.Ctx) string {
	if header := c.Get(fiber.HeaderAuthorization); header != "" {
		return header
	}
	if token := c.Query(QueryToken); token != "" {
		return auth.SchemeBearer + " " + token
	}
	return ""
}

// Handler returns the websocket handler mounted after Upgrade.
func (g *Gateway) Handler() fiber.Handler {
	return websocket.New(g.serve)
}

func (g *Gateway) serve(conn *websocket.Conn) {
	principal, ok := auth.PrincipalFromValue(conn.Locals(auth.PrincipalLocalsKey))
	if !ok || principal.User == nil {
		_ = conn.Close()
		return
	}

	session := NewSession(uuid.NewString(), principal.User.ID, conn)
	g.hub.Register(session)
	defer g.hub.Unregister(session)
	g.logger.Info("chat connected", zap.String("session_id", session.ID), zap.Int64("user_id", session.UserID))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			g.logger.Info("chat disconnected", zap.String("session_id", session.ID), zap.Error(err))
			return
		}
		g.HandleFrame(ctx, session, raw)
	}
}

// HandleFrame processes one inbound frame. Failures go back to the
// session as an exception frame; the connection stays open.
func (g *Gateway) HandleFrame(ctx context.Context, session *Session, raw []byte) {
	if err := g.dispatch(ctx, session, raw); err != nil {
		de := apperrors.ToDomainError(err)
		if de.HTTPStatus >= 500 {
			g.logger.Error("chat frame failed", zap.String("session_id", session.ID), zap.Error(err))
		}
		_ = session.Send(Frame{Event: EventException, Data: Exception{Code: de.Code, Message: de.Message}})
	}
}

func (g *Gateway) dispatch(ctx context.Context, session *Session, raw []byte) error {
	var in inboundFrame
	if err := json.Unmarshal(raw, &in); err != nil {
		return apperrors.NewValidationError("invalid frame", nil)
	}

	switch in.Event {
	case EventCreateChat:
		var req dto.CreateChatFrame
		if err := decodeFrame(in.Data, &req); err != nil {
			return err
		}
		chat, err := g.chats.CreateChat(ctx, session.UserID, req.UserIDs)
		if err != nil {
			return err
		}
		g.hub.Join(session, chat.ID)
		return session.Send(Frame{Event: EventChatCreated, Data: dto.NewChatResponse(*chat)})

	case EventEnterChat:
		var req dto.EnterChatFrame
		if err := decodeFrame(in.Data, &req); err != nil {
			return err
		}
		for _, chatID := range req.ChatIDs {
			if _, err := g.chats.EnsureMember(ctx, chatID, session.UserID); err != nil {
				return err
			}
		}
		for _, chatID := range req.ChatIDs {
			g.hub.Join(session, chatID)
		}
		return nil

	case EventSendMessage:
		var req dto.SendMessageFrame
		if err := decodeFrame(in.Data, &req); err != nil {
			return err
		}
		_, err := g.chats.SendMessage(ctx, session.UserID, req.ChatID, req.Message, session.ID)
		return err

	default:
		return apperrors.NewBadRequest("unknown event " + in.Event)
	}
}

func decodeFrame(data json.RawMessage, dst interface{ Validate() error }) error {
	if len(data) == 0 {
		return apperrors.NewValidationError("missing data", nil)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return apperrors.NewValidationError("invalid data", nil)
	}
	return dto.Validate(dst)
}
