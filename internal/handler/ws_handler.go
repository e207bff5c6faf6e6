/*
Package handler provides the HTTP handler for websocket connection upgrading
and initialization.

The connection lifecycle is: upgrade, read the handshake frame, authenticate,
and only then register with the hub. A connection whose credential fails
validation is refused with a close frame and never becomes a member.
*/
package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/kurenai-11/socket-chat-app/internal/app/chat"
	"github.com/kurenai-11/socket-chat-app/internal/app/user"
	"github.com/kurenai-11/socket-chat-app/internal/pkg/logx"
)

// HandleWebSocket creates an HTTP HandlerFunc that upgrades the connection,
// runs the authentication handshake, and hands the session to the hub.
func HandleWebSocket(upgrader websocket.Upgrader, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to websocket")
			return
		}

		identity, accessToken, ok := performHandshake(conn, deps.Hub.Authenticator())
		if !ok {
			// refused before ever entering the registry
			conn.Close()
			return
		}

		client := chat.NewClient(deps.Hub, conn, identity, accessToken)

		go client.WritePump()

		if !deps.Hub.Register(client) {
			conn.Close()
			return
		}

		logx.Info("Websocket connection established",
			"connection_id", client.ID(),
			"display_name", client.Identity().DisplayName,
		)

		client.ReadPump()
	}
}

// performHandshake reads the first client frame ({"accessToken": ...}) and
// derives the connection identity from it. An unreadable handshake is a
// protocol error; a present-but-invalid token is an authentication failure.
// In both cases a close frame is written and ok is false.
func performHandshake(conn *websocket.Conn, auth *chat.Authenticator) (user.Identity, string, bool) {
	if err := conn.SetReadDeadline(time.Now().Add(chat.HandshakeWait)); err != nil {
		logx.Error(err, "Failed to set handshake read deadline")
		return user.Identity{}, "", false
	}

	_, frame, err := conn.ReadMessage()
	if err != nil {
		logx.Warn("Connection closed before completing handshake", "error", err)
		return user.Identity{}, "", false
	}

	var payload chat.HandshakePayload
	if err := json.Unmarshal(frame, &payload); err != nil {
		logx.Warn("Connection sent an unparseable handshake frame", "error", err)
		writeRefusal(conn, websocket.CloseProtocolError, "malformed handshake")
		return user.Identity{}, "", false
	}

	identity, err := auth.Authenticate(payload.AccessToken)
	if err != nil {
		logx.Warn("Connection refused: authentication failed", "error", err)
		writeRefusal(conn, websocket.ClosePolicyViolation, "not authenticated")
		return user.Identity{}, "", false
	}

	return identity, payload.AccessToken, true
}

// writeRefusal sends a close control frame explaining why the connection was refused.
func writeRefusal(conn *websocket.Conn, code int, reason string) {
	deadline := time.Now().Add(5 * time.Second)
	message := websocket.FormatCloseMessage(code, reason)

	if err := conn.WriteControl(websocket.CloseMessage, message, deadline); err != nil {
		logx.Warn("Failed to write refusal close frame", "error", err)
	}
}
