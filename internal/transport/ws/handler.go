// Package ws exposes the conversation over a plain websocket, speaking
// the same event/reply contract as the messenger channels. It exists for
// local runs and diagnostics: no external credentials required.
package ws

import (
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"quizbot/internal/app"
	"quizbot/internal/domain"
	"quizbot/internal/transport"
)

const playerNamespace = "ws:"

type Handler struct {
	conv     *app.Conversation
	log      *zap.SugaredLogger
	upgrader websocket.Upgrader
}

func NewHandler(conv *app.Conversation, log *zap.SugaredLogger) *Handler {
	return &Handler{
		conv: conv,
		log:  log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Text string `json:"text"`
}

type outboundMessage struct {
	Text    string   `json:"text"`
	Options []string `json:"options,omitempty"`
}

// ServeWS upgrades the request and relays messages to the conversation.
// One connection is one player; the id comes from the playerId query
// parameter and is namespaced before it reaches the store.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	playerID := r.URL.Query().Get("playerId")
	if playerID == "" {
		http.Error(w, "missing playerId", http.StatusBadRequest)
		return
	}
	player := playerNamespace + playerID

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warnw("ws upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			return
		}
		reply := h.conv.Handle(r.Context(), domain.Event{
			Player: player,
			Kind:   transport.MapText(inbound.Text),
			Text:   inbound.Text,
		})
		if err := conn.WriteJSON(outboundMessage{Text: reply.Text, Options: reply.Options}); err != nil {
			h.log.Warnw("ws write failed", "player", player, "error", err)
			return
		}
	}
}
