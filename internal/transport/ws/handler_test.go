package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"quizbot/internal/app"
	"quizbot/internal/corpus"
	"quizbot/internal/domain"
	"quizbot/internal/infra/memory"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	quiz, err := corpus.New([]domain.Entry{
		{Index: 0, Question: "Q0", Answer: "A0. x"},
		{Index: 1, Question: "Q1", Answer: "A1. y"},
	})
	if err != nil {
		t.Fatalf("build corpus: %v", err)
	}
	store := memory.NewSessionStore()
	conv := app.NewConversation(app.NewProgression(quiz, store), store, zap.NewNop().Sugar())
	handler := NewHandler(conv, zap.NewNop().Sugar())

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", handler.ServeWS)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestWebSocketConversationFlow(t *testing.T) {
	server := newTestServer(t)

	u := "ws" + server.URL[len("http"):] + "/ws?playerId=u1"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	reply := roundTrip(t, conn, "/start")
	if !strings.Contains(reply.Text, "Q0") {
		t.Fatalf("expected Q0 after start, got %q", reply.Text)
	}
	if len(reply.Options) == 0 {
		t.Fatalf("expected suggested replies, got none")
	}

	reply = roundTrip(t, conn, "a0")
	if reply.Text != app.RightAnswerText {
		t.Fatalf("expected right-answer reply, got %q", reply.Text)
	}

	reply = roundTrip(t, conn, app.ButtonNextQuestion)
	if !strings.Contains(reply.Text, "Q1") {
		t.Fatalf("expected Q1, got %q", reply.Text)
	}
}

func TestWebSocketRequiresPlayerID(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/ws")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func roundTrip(t *testing.T, conn *websocket.Conn, text string) outboundMessage {
	t.Helper()
	if err := conn.WriteJSON(inboundMessage{Text: text}); err != nil {
		t.Fatalf("write: %v", err)
	}
	var reply outboundMessage
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("read: %v", err)
	}
	return reply
}
