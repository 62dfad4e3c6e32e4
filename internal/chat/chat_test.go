package chat

import (
	"context"
	"encoding/json"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/blog-service/internal/domain"
	"github.com/spec-kit/blog-service/internal/events"
	apperrors "github.com/spec-kit/blog-service/pkg/util/errorutil"
)

type recordingSink struct {
	mu     sync.Mutex
	frames []map[string]any
}

func (s *recordingSink) WriteJSON(v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames = append(s.frames, decoded)
	return nil
}

func (s *recordingSink) events() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.frames))
	for _, f := range s.frames {
		out = append(out, f["event"].(string))
	}
	return out
}

func (s *recordingSink) last() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.frames) == 0 {
		return nil
	}
	return s.frames[len(s.frames)-1]
}

// fakeChats publishes the same events the chat service does.
type fakeChats struct {
	dispatcher events.Dispatcher
	chats      map[int64][]int64
	nextID     int64
}

func (f *fakeChats) CreateChat(ctx context.Context, creatorID int64, userIDs []int64) (*domain.Chat, error) {
	f.nextID++
	members := append([]int64{creatorID}, userIDs...)
	f.chats[f.nextID] = members
	event, err := events.NewEvent(events.EventChatCreated, f.nextID, creatorID, events.ChatCreatedPayload{ChatID: f.nextID, UserIDs: members})
	if err != nil {
		return nil, err
	}
	_ = f.dispatcher.Publish(ctx, event)
	return &domain.Chat{ID: f.nextID, UserIDs: members}, nil
}

func (f *fakeChats) EnsureMember(_ context.Context, chatID, userID int64) (*domain.Chat, error) {
	members, ok := f.chats[chatID]
	if !ok {
		return nil, apperrors.NewNotFound("chat", nil)
	}
	if !slices.Contains(members, userID) {
		return nil, apperrors.NewForbidden("not a member")
	}
	return &domain.Chat{ID: chatID, UserIDs: members}, nil
}

func (f *fakeChats) SendMessage(ctx context.Context, authorID, chatID int64, text, origin string) (*domain.Message, error) {
	if _, err := f.EnsureMember(ctx, chatID, authorID); err != nil {
		return nil, err
	}
	event, err := events.NewEvent(events.EventMessageCreated, chatID, authorID, events.MessageCreatedPayload{
		MessageID: 1, ChatID: chatID, Message: text, Origin: origin,
	})
	if err != nil {
		return nil, err
	}
	_ = f.dispatcher.Publish(ctx, event)
	return &domain.Message{ID: 1, ChatID: chatID, AuthorID: authorID, Message: text}, nil
}

type gatewayFixture struct {
	hub     *Hub
	gateway *Gateway
}

func newGatewayFixture() *gatewayFixture {
	dispatcher := events.NewInMemoryDispatcher(nil)
	hub := NewHub(nil)
	hub.Subscribe(dispatcher)
	chats := &fakeChats{dispatcher: dispatcher, chats: map[int64][]int64{}}
	return &gatewayFixture{hub: hub, gateway: NewGateway(hub, chats, nil, nil)}
}

func (f *gatewayFixture) connect(id string, userID int64) (*Session, *recordingSink) {
	sink := &recordingSink{}
	session := NewSession(id, userID, sink)
	f.hub.Register(session)
	return session, sink
}

func (f *gatewayFixture) send(t *testing.T, s *Session, event string, data any) {
	t.Helper()
	raw, err := json.Marshal(map[string]any{"event": event, "data": data})
	require.NoError(t, err)
	f.gateway.HandleFrame(context.Background(), s, raw)
}

func TestGateway_CreateChatJoinsOnlineMembers(t *testing.T) {
	f := newGatewayFixture()
	alice, aliceSink := f.connect("a", 1)
	bob, bobSink := f.connect("b", 2)
	_, carolSink := f.connect("c", 3)

	f.send(t, alice, EventCreateChat, map[string]any{"userIds": []int64{2}})
	assert.Equal(t, []string{EventChatCreated}, aliceSink.events())

	f.send(t, alice, EventSendMessage, map[string]any{"chatId": 1, "message": "hello"})

	assert.Equal(t, []string{EventChatCreated}, aliceSink.events(), "sender is not echoed")
	assert.Equal(t, []string{EventReceiveMessage}, bobSink.events())
	assert.Empty(t, carolSink.events())

	data := bobSink.last()["data"].(map[string]any)
	assert.Equal(t, "hello", data["message"])
	assert.Equal(t, float64(1), data["authorId"])

	f.send(t, bob, EventSendMessage, map[string]any{"chatId": 1, "message": "hi back"})
	assert.Equal(t, EventReceiveMessage, aliceSink.last()["event"])
}

func TestGateway_EnterChat(t *testing.T) {
	f := newGatewayFixture()
	alice, _ := f.connect("a", 1)
	f.send(t, alice, EventCreateChat, map[string]any{"userIds": []int64{2}})

	// bob connects after the chat was created and must enter explicitly
	bob, bobSink := f.connect("b", 2)

	f.send(t, alice, EventSendMessage, map[string]any{"chatId": 1, "message": "before"})
	assert.Empty(t, bobSink.events())

	f.send(t, bob, EventEnterChat, map[string]any{"chatIds": []int64{1}})
	f.send(t, alice, EventSendMessage, map[string]any{"chatId": 1, "message": "after"})
	assert.Equal(t, []string{EventReceiveMessage}, bobSink.events())

	eve, eveSink := f.connect("e", 5)
	f.send(t, eve, EventEnterChat, map[string]any{"chatIds": []int64{1}})
	assert.Equal(t, EventException, eveSink.last()["event"])
	assert.Equal(t, "FORBIDDEN", eveSink.last()["data"].(map[string]any)["code"])
}

func TestGateway_Exceptions(t *testing.T) {
	f := newGatewayFixture()
	alice, sink := f.connect("a", 1)

	f.gateway.HandleFrame(context.Background(), alice, []byte("not json"))
	f.send(t, alice, "dance", nil)
	f.send(t, alice, EventSendMessage, map[string]any{"chatId": 0, "message": "x"})
	f.send(t, alice, EventSendMessage, map[string]any{"chatId": 9, "message": "x"})

	assert.Equal(t, []string{EventException, EventException, EventException, EventException}, sink.events())
	assert.Equal(t, "NOT_FOUND", sink.last()["data"].(map[string]any)["code"])
}

func TestHub_UnregisterLeavesRooms(t *testing.T) {
	hub := NewHub(nil)
	sink := &recordingSink{}
	s := NewSession("a", 1, sink)
	hub.Register(s)
	hub.Join(s, 7)
	hub.Unregister(s)

	hub.Broadcast(7, "", Frame{Event: EventReceiveMessage})
	assert.Empty(t, sink.events())
	assert.Empty(t, hub.rooms)
}
