package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/dmarrero/promptdeck-be/internal/auth"
	"github.com/dmarrero/promptdeck-be/internal/services"
)

// ChatHandler handles the simulated chat endpoints.
type ChatHandler struct {
	chat     services.ChatServiceProvider
	sessions services.SessionServiceProvider
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(chat services.ChatServiceProvider, sessions services.SessionServiceProvider) *ChatHandler {
	return &ChatHandler{chat: chat, sessions: sessions}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins (consider tightening this in production).
		return true
	},
}

// projectIDParam reads the optional ?project= query value. Anything that
// does not parse as an id counts as no project.
func projectIDParam(r *http.Request) *int64 {
	raw := r.URL.Query().Get("project")
	if raw == "" {
		return nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	return &id
}

// Get answers a chat message passed as a query parameter. Handy for quick
// browser tests.
func (h *ChatHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "auth required")
		return
	}

	msg := r.URL.Query().Get("msg")
	if msg == "" {
		msg = "hello"
	}

	writeText(w, http.StatusOK, h.chat.ComposeReply(userID, projectIDParam(r), msg))
}

// Post answers a chat message sent as a text/plain body. The whole exchange
// is plain text, so the auth check happens here rather than in the JSON
// middleware.
func (h *ChatHandler) Post(w http.ResponseWriter, r *http.Request) {
	token, ok := auth.FromHeader(r.Header.Get("Authorization"))
	if !ok {
		writeText(w, http.StatusUnauthorized, "error: auth required")
		return
	}
	userID, ok := h.sessions.Resolve(token)
	if !ok {
		writeText(w, http.StatusUnauthorized, "error: auth required")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeText(w, http.StatusBadRequest, "error: unreadable body")
		return
	}

	writeText(w, http.StatusOK, h.chat.ComposeReply(userID, projectIDParam(r), string(body)))
}

// ServeWS runs an interactive chat over a websocket. Each inbound text
// frame is treated as one message and answered with one reply frame. The
// optional project binding is fixed at connection time.
func (h *ChatHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "auth required")
		return
	}
	projectID := projectIDParam(r)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade websocket connection")
		return
	}
	defer conn.Close()

	for {
		msgType, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Int64("user_id", userID).Msg("Chat websocket closed unexpectedly")
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		reply := h.chat.ComposeReply(userID, projectID, string(message))
		if err := conn.WriteMessage(websocket.TextMessage, []byte(reply)); err != nil {
			log.Warn().Err(err).Int64("user_id", userID).Msg("Failed to write chat reply")
			return
		}
	}
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	io.WriteString(w, body)
}
