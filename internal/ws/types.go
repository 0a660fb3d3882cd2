// Package ws defines the websocket message envelope shared by the server and
// its clients.
package ws

import "encoding/json"

type MessageType string

const (
	MessageTypeMove  MessageType = "move"
	MessageTypeState MessageType = "state"
	MessageTypeError MessageType = "error"
)

// Message is the envelope for every websocket frame.
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// MovePayload carries one move request; Move is UCI or SAN text.
type MovePayload struct {
	Move string `json:"move"`
}

// ErrorPayload carries a human-readable rejection reason.
type ErrorPayload struct {
	Message string `json:"message"`
}
