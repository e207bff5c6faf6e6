/*
Package chat contains the core logic for the realtime channel: connection
authentication, the live-connection registry, and message broadcasting.

This file defines the Hub, the single event loop that owns the registry and
fans every event out to the full current membership. All registry mutations and
broadcasts execute as short non-blocking steps inside Run; nothing else touches
the membership.
*/
package chat

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/kurenai-11/socket-chat-app/internal/app/user"
	"github.com/kurenai-11/socket-chat-app/internal/pkg/logx"
)

// requestQueueBuffer absorbs bursts of events without blocking connection
// goroutines.
const requestQueueBuffer = 1024

// The three request kinds carried on the hub's queue. A single FIFO queue for
// all of them means requests issued in sequence by one connection goroutine
// are processed in that sequence; in particular a member's final message is
// always fanned out before its departure notice.
type registerRequest struct {
	client *Client
}

type unregisterRequest struct {
	client *Client
}

type broadcastRequest struct {
	event   string
	message Message
}

// Hub is the broadcast engine. It accepts register/unregister/broadcast
// requests over a single ordered queue and processes them sequentially in Run.
type Hub struct {
	auth *Authenticator

	// registry is owned exclusively by the Run loop.
	registry *registry

	// requests carries registerRequest, unregisterRequest and broadcastRequest
	// values in submission order.
	requests chan any

	// stop signals Run to terminate; done is closed when it has.
	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}

	logger zerolog.Logger
}

// NewHub constructs a Hub. Call Run in its own goroutine before registering
// connections, and Shutdown to stop it.
func NewHub(auth *Authenticator) *Hub {
	hubLogger := logx.Logger().With().Str("component", "hub").Logger()

	return &Hub{
		auth:     auth,
		registry: newRegistry(),
		requests: make(chan any, requestQueueBuffer),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
		logger:   hubLogger,
	}
}

// Authenticator exposes the hub's connection authenticator for the transport
// handshake.
func (h *Hub) Authenticator() *Authenticator {
	return h.auth
}

// Run is the hub's event loop. Requests are processed strictly in the order
// they were queued, so a connection's join notice, its chat messages and its
// disconnect notice are emitted in that order; across connections the order is
// the order in which requests arrived.
func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case req := <-h.requests:
			switch req := req.(type) {
			case registerRequest:
				h.addAndAnnounce(req.client)
			case unregisterRequest:
				h.removeAndAnnounce(req.client)
			case broadcastRequest:
				h.fanout(req.event, req.message)
			}

		case <-h.stop:
			for _, client := range h.registry.all() {
				h.registry.remove(client.id)
				close(client.send)
			}
			h.logger.Info().Msg("Hub stopped")
			return
		}
	}
}

// addAndAnnounce registers the connection and announces the arrival to the
// full membership, the new member included.
func (h *Hub) addAndAnnounce(client *Client) {
	h.registry.add(client)
	h.logger.Info().
		Str("connection_id", client.id).
		Str("display_name", client.identity.DisplayName).
		Int("total_connections", h.registry.size()).
		Msg("Connection registered")

	msg, err := NewServerMessage(fmt.Sprintf("%s connected to the chat...", announceName(client.identity)))
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to build connect notice")
		return
	}
	h.fanout(EventUserConnected, msg)
}

// removeAndAnnounce unregisters the connection and, if it was actually a
// member, announces the departure. Double unregisters are silent no-ops and
// never emit a second notice.
func (h *Hub) removeAndAnnounce(client *Client) {
	if _, ok := h.registry.remove(client.id); !ok {
		return
	}

	close(client.send)

	h.logger.Info().
		Str("connection_id", client.id).
		Str("display_name", client.identity.DisplayName).
		Int("total_connections", h.registry.size()).
		Msg("Connection unregistered")

	msg, err := NewServerMessage(fmt.Sprintf("%s disconnected from the chat...", announceName(client.identity)))
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to build disconnect notice")
		return
	}
	h.fanout(EventUserDisconnected, msg)
}

// fanout delivers one event to every currently registered connection,
// including the originator. Connections whose send queue is full are dropped
// and unregistered so one stuck client cannot stall the loop.
func (h *Hub) fanout(event string, msg Message) {
	payload, err := EncodeEvent(event, msg)
	if err != nil {
		h.logger.Error().Str("event", event).Str("message_id", msg.ID).Err(err).Msg("Failed to encode event for broadcast")
		return
	}

	var dropped []*Client

	for _, client := range h.registry.all() {
		select {
		case client.send <- payload:
		default:
			h.logger.Warn().
				Str("connection_id", client.id).
				Msg("Connection send queue full, dropping connection")
			dropped = append(dropped, client)
		}
	}

	for _, client := range dropped {
		h.removeAndAnnounce(client)
	}
}

// Register queues a freshly authenticated connection for the run loop. It
// reports false when the hub is already stopped, in which case the connection
// was not registered and its send channel has been closed.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.requests <- registerRequest{client: client}:
		return true
	case <-h.stop:
		close(client.send)
		return false
	}
}

// Unregister queues removal of a connection. It blocks until the run loop
// accepts the request, so a departure is never lost; callers are per-connection
// goroutines, never the run loop itself. Safe to call at any point of the
// connection lifecycle, including for connections that never registered.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.requests <- unregisterRequest{client: client}:
	case <-h.stop:
	}
}

// Broadcast queues one event for delivery to the full current membership.
func (h *Hub) Broadcast(event string, msg Message) {
	select {
	case h.requests <- broadcastRequest{event: event, message: msg}:
	case <-h.stop:
	}
}

// Shutdown stops the run loop and closes all member send channels. Safe to
// call from multiple goroutines; every call returns once the loop has exited.
func (h *Hub) Shutdown() {
	h.stopOnce.Do(func() { close(h.stop) })
	<-h.done
}

// announceName is the wording used for join/leave notices.
func announceName(identity user.Identity) string {
	if identity.IsAnonymous() {
		return "an anonymous user"
	}
	return identity.DisplayName
}
