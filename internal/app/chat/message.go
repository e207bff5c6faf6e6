/*
Package chat contains the core logic for the realtime channel: connection
authentication, the live-connection registry, and message broadcasting.

This file defines the wire vocabulary: the tagged-union message payloads, the
event envelope, and the exact event names clients interoperate with.
*/
package chat

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/kurenai-11/socket-chat-app/internal/pkg/randx"
)

// Wire event names. These identifiers are part of the protocol and must be
// preserved exactly for interop with existing clients.
const (
	// EventUserConnected announces a new connection to all members.
	EventUserConnected = "user connected"

	// EventUserDisconnected announces a departed connection to all members.
	EventUserDisconnected = "user disconnected"

	// EventMessageSent delivers a chat message to all members.
	EventMessageSent = "message sent"

	// EventSendMessage is the inbound chat message submission.
	EventSendMessage = "send message"
)

// Kind discriminates the two message payload variants.
type Kind string

const (
	// KindServer marks a system-generated notice (join/leave).
	KindServer Kind = "serverMessage"

	// KindUser marks chat content attributed to a display name.
	KindUser Kind = "userMessage"
)

// Message is the tagged-union payload carried by server-to-client events.
// ServerMessage omits the author; UserMessage carries it.
type Message struct {
	Type    Kind   `json:"type"`
	ID      string `json:"id"`
	Content string `json:"content"`
	Author  string `json:"author,omitempty"`
	Date    string `json:"date"`
}

// NewServerMessage builds a system notice with a fresh unique id and the
// server-side creation instant.
func NewServerMessage(content string) (Message, error) {
	id, err := randx.EventID()
	if err != nil {
		return Message{}, fmt.Errorf("failed to build server message: %w", err)
	}

	return Message{
		Type:    KindServer,
		ID:      id,
		Content: content,
		Date:    time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// NewUserMessage builds a chat message attributed to the given display name.
// The timestamp is the server-side creation instant, never client-submitted.
func NewUserMessage(content, author string) (Message, error) {
	id, err := randx.EventID()
	if err != nil {
		return Message{}, fmt.Errorf("failed to build user message: %w", err)
	}

	return Message{
		Type:    KindUser,
		ID:      id,
		Content: content,
		Author:  author,
		Date:    time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// Envelope frames every websocket message in both directions: the event name
// plus its payload.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// outboundEnvelope is the marshal-side counterpart of Envelope.
type outboundEnvelope struct {
	Event string  `json:"event"`
	Data  Message `json:"data"`
}

// EncodeEvent marshals an outbound event envelope.
func EncodeEvent(event string, msg Message) ([]byte, error) {
	return json.Marshal(outboundEnvelope{Event: event, Data: msg})
}

// SendMessagePayload is the inbound "send message" submission. Content is a
// pointer so an absent field can be told apart from an empty string; a missing
// content is a silent no-op. The author field is accepted but never trusted.
type SendMessagePayload struct {
	Content *string `json:"content"`
	Author  string  `json:"author,omitempty"`
}

// HandshakePayload is the first client frame after the transport upgrade,
// optionally carrying the access token.
type HandshakePayload struct {
	AccessToken string `json:"accessToken,omitempty"`
}
