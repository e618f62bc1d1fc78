package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Seednode/doubleagent/game"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

func newAgentsServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := &Config{
		turnLimit:      game.DefaultTurnLimit,
		mistakeLimit:   game.DefaultMistakeLimit,
		sessionTimeout: time.Hour,
	}

	mux := httprouter.New()
	registerAgentsGame(cfg, "/agents", mux, NewMemoryStore())

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return server
}

func identityCookie(t *testing.T, resp *http.Response) string {
	t.Helper()

	for _, c := range resp.Cookies() {
		if c.Name == playerCookieName && c.Value != "" {
			return c.Value
		}
	}

	t.Fatalf("no %s cookie in response", playerCookieName)
	return ""
}

func TestGamePageSetsIdentityCookie(t *testing.T) {
	server := newAgentsServer(t)

	resp, err := http.Get(server.URL + "/agents/g1")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	identityCookie(t, resp)
}

func TestHandshakeSetsIdentityCookie(t *testing.T) {
	server := newAgentsServer(t)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/agents/g1/ws"

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	identityCookie(t, resp)
}

// A page reload reconnects with the same cookie and must land back in the
// same seat instead of filling the open player2 slot.
func TestReconnectKeepsSeat(t *testing.T) {
	server := newAgentsServer(t)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/agents/g1/ws"

	first, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatal(err)
	}
	id := identityCookie(t, resp)

	var info SessionInfoMessage
	if err := first.ReadJSON(&info); err != nil {
		t.Fatal(err)
	}
	if info.Slot != game.Player1 {
		t.Fatalf("creator seated as %q, want %q", info.Slot, game.Player1)
	}
	first.Close()

	header := http.Header{"Cookie": {playerCookieName + "=" + id}}
	second, _, err := websocket.DefaultDialer.Dial(wsURL, header)
	if err != nil {
		t.Fatal(err)
	}
	defer second.Close()

	if err := second.ReadJSON(&info); err != nil {
		t.Fatal(err)
	}
	if info.Slot != game.Player1 {
		t.Fatalf("reconnect seated as %q, want %q", info.Slot, game.Player1)
	}
}

func TestSlowClientDroppedInsteadOfBlocking(t *testing.T) {
	cfg := &Config{turnLimit: game.DefaultTurnLimit, mistakeLimit: game.DefaultMistakeLimit}
	record := game.NewState("g1", "alice", cfg.turnLimit, cfg.mistakeLimit, nil)
	h := newHub(cfg, NewMemoryStore(), record)

	c := &Client{send: make(chan any, 1), playerID: "alice"}
	h.clients[c] = true
	c.send <- struct{}{}

	done := make(chan struct{})
	go func() {
		h.trySend(c, RejectedMessage{Type: "rejected", Reason: "too slow"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("send to a client with a full buffer blocked the hub")
	}

	h.mu.RLock()
	_, registered := h.clients[c]
	h.mu.RUnlock()
	if registered {
		t.Fatal("slow client still registered after drop")
	}

	<-c.send
	if _, open := <-c.send; open {
		t.Fatal("dropped client's send channel left open")
	}
}
