package models

// MessageType classifies who (or what) produced a chat message.
type MessageType string

const (
	MessageUser   MessageType = "user"
	MessageSystem MessageType = "system"
	MessageMod    MessageType = "mod"
	MessageAdmin  MessageType = "admin"
)

// ChatMessage is one line of room chat. The server assigns IDs and ordering;
// the client appends in arrival order and never reorders.
type ChatMessage struct {
	ID        string      `json:"id"`
	Username  string      `json:"username"`
	Message   string      `json:"message"`
	Type      MessageType `json:"type"`
	Timestamp int64       `json:"timestamp"`
}
