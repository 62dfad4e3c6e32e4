package chat

import "encoding/json"

// Socket event names.
const (
	EventCreateChat     = "create_chat"
	EventEnterChat      = "enter_chat"
	EventSendMessage    = "send_message"
	EventReceiveMessage = "receive_message"
	EventChatCreated    = "chat_created"
	EventException      = "exception"
)

// Frame is the envelope of every socket message in both directions.
type Frame struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

// inboundFrame keeps data raw until the event is known.
type inboundFrame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// ReceivedMessage is the receive_message payload.
type ReceivedMessage struct {
	ID       int64  `json:"id"`
	ChatID   int64  `json:"chatId"`
	AuthorID int64  `json:"authorId"`
	Message  string `json:"message"`
}

// Exception is the exception payload.
type Exception struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
