/*
Package chat contains the core logic for the realtime channel: connection
authentication, the live-connection registry, and message broadcasting.

This file defines the Client struct, representing one live websocket session.
It manages the connection lifecycle, the ReadPump/WritePump loops, and the
per-event re-validation of the credential captured at handshake.
*/
package chat

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/kurenai-11/socket-chat-app/internal/app/user"
	"github.com/kurenai-11/socket-chat-app/internal/pkg/logx"
	"github.com/kurenai-11/socket-chat-app/internal/pkg/randx"
)

const (
	// timeout duration for writing to the websocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed to wait for a Pong message from the client.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of an inbound frame.
	maxMessageSize = 4096

	// HandshakeWait bounds how long a fresh connection may take to present its
	// handshake frame before being treated as a protocol error.
	HandshakeWait = 10 * time.Second
)

// Client represents one live transport session with its attached identity.
type Client struct {
	// id is the opaque, transport-generated connection identifier.
	id string

	hub *Hub

	conn *websocket.Conn

	// identity is attached before registration and immutable for the lifetime
	// of the connection.
	identity user.Identity

	// accessToken is the raw credential presented at handshake, kept so it can
	// be re-validated before each inbound event. Empty for anonymous sessions.
	accessToken string

	// send is the buffered queue of outbound frames drained by WritePump.
	send chan []byte

	logger zerolog.Logger
}

// NewClient constructs a Client for an authenticated (or anonymous) connection.
func NewClient(hub *Hub, wsConn *websocket.Conn, identity user.Identity, accessToken string) *Client {
	id := randx.ConnectionID()

	clientLogger := logx.Logger().With().
		Str("connection_id", id).
		Str("display_name", identity.DisplayName).
		Logger()

	return &Client{
		id:          id,
		hub:         hub,
		conn:        wsConn,
		identity:    identity,
		accessToken: accessToken,
		send:        make(chan []byte, 256),
		logger:      clientLogger,
	}
}

// ID returns the opaque connection identifier.
func (c *Client) ID() string {
	return c.id
}

// Identity returns the identity attached to this connection.
func (c *Client) Identity() user.Identity {
	return c.identity
}

// ReadPump reads frames from the websocket connection until it closes. It
// handles heartbeats (Pong), dispatches inbound events, and performs cleanup
// when the loop ends for any reason.
func (c *Client) ReadPump() {
	defer c.cleanupOnDisconnect()

	c.conn.SetReadLimit(maxMessageSize)

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("Error reading frame (client close/going away)")
			}
			break
		}

		if !c.processInboundFrame(frame) {
			break
		}
	}
}

// cleanupOnDisconnect unregisters the connection and closes the transport.
// Unregistering is idempotent, so a connection that was dropped by the hub or
// never registered at all is handled safely.
func (c *Client) cleanupOnDisconnect() {
	c.hub.Unregister(c)

	if err := c.conn.Close(); err != nil {
		c.logger.Debug().Err(err).Msg("Connection close error during cleanup")
	}
}

// processInboundFrame dispatches one raw inbound frame. It returns false when
// the connection must be forcibly closed (protocol anomaly or failed
// re-authentication).
func (c *Client) processInboundFrame(frame []byte) bool {
	var env Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		c.logger.Warn().Err(err).Msg("Client sent an unparseable frame, closing connection")
		return false
	}

	switch env.Event {
	case EventSendMessage:
		return c.handleSendMessage(env.Data)

	default:
		c.logger.Warn().Str("event", env.Event).Msg("Client sent an unsupported event, closing connection")
		return false
	}
}

// handleSendMessage processes one inbound chat message submission.
func (c *Client) handleSendMessage(data json.RawMessage) bool {
	// Strict variant: the credential captured at handshake is re-validated
	// before every dispatch, so a token expiring mid-session terminates the
	// connection instead of silently degrading it.
	if c.accessToken != "" {
		if _, err := c.hub.auth.Authenticate(c.accessToken); err != nil {
			c.logger.Warn().Err(err).Msg("Re-authentication failed, closing connection")
			c.writeClose(websocket.ClosePolicyViolation, "not authenticated")
			return false
		}
	}

	var payload SendMessagePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		c.logger.Warn().Err(err).Msg("Client sent an invalid send message payload, dropping")
		return true
	}

	if payload.Content == nil {
		c.logger.Debug().Msg("Dropping send message without content")
		return true
	}

	// The client-submitted author field is never trusted; attribution always
	// comes from the identity verified at handshake.
	msg, err := NewUserMessage(*payload.Content, c.identity.DisplayName)
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to build user message for broadcast")
		return true
	}

	c.hub.Broadcast(EventMessageSent, msg)
	return true
}

// writeClose sends a close control frame with the given code and reason.
func (c *Client) writeClose(code int, reason string) {
	deadline := time.Now().Add(writeWait)
	message := websocket.FormatCloseMessage(code, reason)

	if err := c.conn.WriteControl(websocket.CloseMessage, message, deadline); err != nil {
		c.logger.Debug().Err(err).Msg("Failed to write close frame")
	}
}

// WritePump drains the send channel to the websocket connection and keeps the
// heartbeat alive. It exits when the send channel closes or a write fails.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()

		if err := c.conn.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("Connection close error in WritePump")
		}
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !c.writeQueuedMessage(message, ok) {
				return
			}

		case <-ticker.C:
			if !c.writePingMessage() {
				return
			}
		}
	}
}

// writeQueuedMessage writes one message pulled from the send channel.
// Returns false when the WritePump loop should terminate.
func (c *Client) writeQueuedMessage(message []byte, ok bool) bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline")
		return false
	}

	if !ok {
		if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
			c.logger.Debug().Err(err).Msg("Error writing close message")
		}
		return false
	}

	if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
		c.logger.Error().Err(err).Msg("Error writing message")
		return false
	}

	return true
}

// writePingMessage sends a periodic Ping to maintain the heartbeat.
// Returns false when the WritePump loop should terminate.
func (c *Client) writePingMessage() bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
		return false
	}

	if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
		c.logger.Debug().Err(err).Msg("Error writing ping")
		return false
	}

	return true
}
