package chat

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/kurenai-11/socket-chat-app/internal/app/user"
)

func startTestHub(t *testing.T) *Hub {
	t.Helper()

	hub := NewHub(NewAuthenticator(testSecret))
	go hub.Run()
	t.Cleanup(hub.Shutdown)

	return hub
}

// recvEvent reads the next queued frame from a member's send channel without
// running the write pump.
func recvEvent(t *testing.T, c *Client) (string, Message) {
	t.Helper()

	select {
	case frame, ok := <-c.send:
		if !ok {
			t.Fatal("send channel closed while expecting an event")
		}

		var env Envelope
		if err := json.Unmarshal(frame, &env); err != nil {
			t.Fatalf("unparseable envelope %s: %v", frame, err)
		}

		var msg Message
		if err := json.Unmarshal(env.Data, &msg); err != nil {
			t.Fatalf("unparseable payload %s: %v", env.Data, err)
		}

		return env.Event, msg

	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for an event")
	}

	return "", Message{}
}

func mustRecvEvent(t *testing.T, c *Client, wantEvent string) Message {
	t.Helper()

	event, msg := recvEvent(t, c)
	if event != wantEvent {
		t.Fatalf("expected event %q, got %q (payload %+v)", wantEvent, event, msg)
	}
	return msg
}

// A member's own messages must be delivered before its departure notice, even
// when the message and the unregister are queued back to back.
func TestLastMessageDeliveredBeforeDeparture(t *testing.T) {
	hub := startTestHub(t)

	observer := testClient(user.Identity{UserID: 1, Username: "bob", DisplayName: "Bob"})
	if !hub.Register(observer) {
		t.Fatal("failed to register observer")
	}
	mustRecvEvent(t, observer, EventUserConnected)

	for i := 0; i < 100; i++ {
		sender := testClient(user.Identity{UserID: 2, Username: "alice", DisplayName: "Alice"})
		hub.Register(sender)
		mustRecvEvent(t, observer, EventUserConnected)

		msg, err := NewUserMessage("bye", "Alice")
		if err != nil {
			t.Fatal(err)
		}

		// both requests pending at once, the state of a hub under load
		hub.Broadcast(EventMessageSent, msg)
		hub.Unregister(sender)

		got := mustRecvEvent(t, observer, EventMessageSent)
		if got.Content != "bye" || got.Author != "Alice" {
			t.Fatalf("unexpected message payload: %+v", got)
		}

		notice := mustRecvEvent(t, observer, EventUserDisconnected)
		if notice.Type != KindServer {
			t.Fatalf("departure notice must be a server message, got %q", notice.Type)
		}
	}
}

// Every disconnect must eventually be announced and clear the registry, even
// when departures arrive in a burst from many goroutines at once.
func TestBurstDisconnectsAllAnnounced(t *testing.T) {
	hub := startTestHub(t)

	observer := testClient(user.Anonymous())
	if !hub.Register(observer) {
		t.Fatal("failed to register observer")
	}
	mustRecvEvent(t, observer, EventUserConnected)

	const members = 100

	clients := make([]*Client, 0, members)
	for i := 0; i < members; i++ {
		c := testClient(user.Identity{
			UserID:      int64(i + 1),
			Username:    fmt.Sprintf("user%d", i),
			DisplayName: fmt.Sprintf("User %d", i),
		})
		hub.Register(c)
		clients = append(clients, c)
		mustRecvEvent(t, observer, EventUserConnected)
	}

	var wg sync.WaitGroup
	for _, c := range clients {
		wg.Add(1)
		go func(c *Client) {
			defer wg.Done()
			hub.Unregister(c)
		}(c)
	}
	wg.Wait()

	for i := 0; i < members; i++ {
		mustRecvEvent(t, observer, EventUserDisconnected)
	}

	// shutdown drains the loop and clears the remaining observer
	hub.Shutdown()
	if hub.registry.size() != 0 {
		t.Fatalf("expected an empty registry after shutdown, got %d members", hub.registry.size())
	}
}

func TestShutdownIsIdempotent(t *testing.T) {
	hub := NewHub(NewAuthenticator(testSecret))
	go hub.Run()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hub.Shutdown()
		}()
	}
	wg.Wait()

	// a late caller must return immediately instead of panicking
	hub.Shutdown()
}
