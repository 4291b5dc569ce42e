package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/set-night/erpchat/internal/domain"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 << 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// wsRequest is one question on the chat socket. Mode defaults to "chat".
type wsRequest struct {
	domain.ChatRequest
	Mode string `json:"mode"`
}

type wsError struct {
	Error string `json:"error"`
}

// handleWebSocket answers each question sent on the socket in order. A
// question without session_id continues the socket's current session.
func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}
	ctx := r.Context()
	send := make(chan any, 8)
	done := make(chan struct{})
	go writePump(conn, send, done)
	defer func() {
		close(send)
		<-done
	}()

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	session := uuid.NewString()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("websocket read error", "error", err)
			}
			return
		}

		var req wsRequest
		if err := json.Unmarshal(data, &req); err != nil {
			send <- wsError{Error: "invalid JSON message: " + err.Error()}
			continue
		}
		m := ModeChat
		if req.Mode != "" {
			if m, err = h.ParseMode(req.Mode); err != nil {
				send <- wsError{Error: err.Error()}
				continue
			}
		}
		if req.SessionID == "" {
			req.SessionID = session
		}
		session = req.SessionID

		resp, err := h.answer(ctx, m, req.ChatRequest)
		if err != nil {
			send <- wsError{Error: err.Error()}
			continue
		}
		send <- resp
	}
}

func writePump(conn *websocket.Conn, send <-chan any, done chan<- struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
		close(done)
	}()

	for {
		select {
		case msg, ok := <-send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := conn.WriteJSON(msg); err != nil {
				slog.Warn("websocket write error", "error", err)
				drain(conn, send)
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				drain(conn, send)
				return
			}
		}
	}
}

// drain unblocks the reader by closing the connection, then discards
// whatever it still queues until it closes send.
func drain(conn *websocket.Conn, send <-chan any) {
	conn.Close()
	for range send {
	}
}
