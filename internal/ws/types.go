package ws

import (
	"encoding/json"
)

// MessageType represents the different kinds of messages our system can handle
type MessageType string

const (
	MessageTypeMove      MessageType = "move"
	MessageTypeTakeMe    MessageType = "takeMe"
	MessageTypeBotMove   MessageType = "botMove"
	MessageTypeGetState  MessageType = "getState"
	MessageTypeGameState MessageType = "gameState"
	MessageTypeError     MessageType = "error"
)

// Message represents a WebSocket message in our system
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewMessage marshals payload into a message of the given type.
func NewMessage(t MessageType, payload interface{}) (Message, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: t, Payload: raw}, nil
}

// ErrorMessage builds an error message whose payload is the JSON string msg.
func ErrorMessage(msg string) Message {
	raw, _ := json.Marshal(msg)
	return Message{Type: MessageTypeError, Payload: raw}
}
