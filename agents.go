// Double Agent
//
// A two-player cooperative word-guessing game on a shared 25-card board.
// Each card carries one hidden identifier per player; players alternate
// giving one-word clues and guessing which cards their partner was cluing
// toward. Three cards are agents for both players at once, three per player
// are assassins, and a single assassin guess ends the game.
//
// Features:
// - WebSockets per game ID: /agents/:gameid and /agents/:gameid/ws
// - Players identified by cookie; first cookie is player1, the next joins
// - Board dealt lazily when the second player joins
// - Actions applied through a pure reducer, relayed to the peer, and
//   persisted to the game store as fire-and-forget effects
// - Presence heartbeats merged best-effort, never blocking gameplay
// - Play-again carries the used words into the next board's exclusion list
// - In-browser QR button to share the current session, backed by go-qrcode
// - Games auto-reaped after a configurable idle timeout; the persisted
//   record outlives the hub, so a reconnect rebuilds it

package main

import (
	"net/http"
	"sync"
	"time"

	"github.com/Seednode/doubleagent/game"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
)

// Messages coming from clients
type ClientMessage struct {
	Type     string `json:"type"` // "hello", "clue", "card", "swap_turn", "unlock_cards", "end_guessing", "end_game", "play_again", "presence"
	Name     string `json:"name,omitempty"`
	Clue     string `json:"clue,omitempty"`
	Position *int   `json:"position,omitempty"`
	Status   string `json:"status,omitempty"`
}

// SessionInfoMessage is sent on connect so the client knows its seat.
type SessionInfoMessage struct {
	Type   string    `json:"type"` // "session_info"
	GameID string    `json:"game_id"`
	Slot   game.Slot `json:"slot,omitempty"` // empty for spectators
}

// StateMessage carries a full snapshot, the InitGame path on the wire.
type StateMessage struct {
	Type string     `json:"type"` // "game_state"
	Game game.State `json:"game"`
}

// EventMessage relays one reducer action to the peer. Origin lets a replica
// suppress its own echo.
type EventMessage struct {
	Type    string      `json:"type"`
	Payload game.Action `json:"payload"`
	Origin  string      `json:"origin"`
}

// RejectedMessage is sent only to the client whose action failed validation.
type RejectedMessage struct {
	Type   string `json:"type"` // "rejected"
	Reason string `json:"reason"`
}

// PresenceMessage fans out the merged presence map wholesale.
type PresenceMessage struct {
	Type  string                       `json:"type"` // "presence"
	Peers map[string]game.PresenceInfo `json:"peers"`
}

// RedirectMessage points both clients at a play-again game.
type RedirectMessage struct {
	Type   string `json:"type"` // "redirect"
	GameID string `json:"game_id"`
}

type Client struct {
	conn     *websocket.Conn
	send     chan any
	playerID string
	name     string
}

type inbound struct {
	client *Client
	msg    ClientMessage
}

type Hub struct {
	id      string
	cfg     *Config
	store   GameStore
	session *Session
	clients map[*Client]bool

	register chan *Client
	unreg    chan *Client
	inbox    chan inbound
	done     chan struct{}

	mu         sync.RWMutex
	lastActive time.Time
}

func newHub(cfg *Config, store GameStore, record game.State) *Hub {
	return &Hub{
		id:         record.ID,
		cfg:        cfg,
		store:      store,
		session:    newSession(record),
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unreg:      make(chan *Client),
		inbox:      make(chan inbound),
		done:       make(chan struct{}),
		lastActive: time.Now(),
	}
}

// run serializes every action for this game through one goroutine, so the
// reducer only ever sees one in-flight action at a time.
func (h *Hub) run() {
	for {
		select {
		case c := <-h.register:
			h.touch()
			h.mu.Lock()
			h.clients[c] = true
			h.mu.Unlock()

			h.trySend(c, SessionInfoMessage{
				Type:   "session_info",
				GameID: h.id,
				Slot:   h.session.State().SlotOf(c.playerID),
			})
			h.trySend(c, StateMessage{Type: "game_state", Game: h.session.State()})

		case c := <-h.unreg:
			h.touch()
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()

			if c.playerID != "" && !h.connected(c.playerID) {
				peers := h.session.MergePresence(c.playerID, game.PresenceInfo{
					Status: game.PresenceOffline,
					Name:   c.name,
				})
				h.fanOut(PresenceMessage{Type: "presence", Peers: peers}, nil)
			}

		case in := <-h.inbox:
			h.touch()
			h.handle(in.client, in.msg)

		case <-h.done:
			h.mu.Lock()
			for c := range h.clients {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()
			return
		}
	}
}

func (h *Hub) handle(c *Client, msg ClientMessage) {
	switch msg.Type {
	case "hello":
		h.hello(c, msg)

	case "presence":
		status := msg.Status
		switch status {
		case game.PresenceOnline, game.PresenceIdle, game.PresenceOffline:
		default:
			return
		}
		peers := h.session.MergePresence(c.playerID, game.PresenceInfo{
			Status: status,
			Name:   c.name,
		})
		h.fanOut(PresenceMessage{Type: "presence", Peers: peers}, nil)

	case "clue":
		h.act(c, func() (game.Effects, error) {
			return h.session.Clue(c.playerID, msg.Clue)
		})

	case "card":
		if msg.Position == nil {
			return
		}
		h.act(c, func() (game.Effects, error) {
			return h.session.CardClick(c.playerID, c.name, *msg.Position)
		})

	case "swap_turn":
		h.act(c, func() (game.Effects, error) {
			return h.session.SwapTurn(c.playerID)
		})

	case "unlock_cards":
		h.act(c, func() (game.Effects, error) {
			return h.session.UnlockCards(c.playerID)
		})

	case "end_guessing":
		h.act(c, func() (game.Effects, error) {
			return h.session.EndGuessing(c.playerID, c.name)
		})

	case "end_game":
		h.act(c, func() (game.Effects, error) {
			return h.session.EndGame(c.playerID)
		})

	case "play_again":
		record, err := h.session.PlayAgain(c.playerID)
		if err != nil {
			h.trySend(c, RejectedMessage{Type: "rejected", Reason: err.Error()})
			return
		}
		if err := h.store.Insert(record); err != nil {
			logf(h.cfg, "ERROR: game %s rematch insert: %v", h.id, err)
			return
		}
		logf(h.cfg, "GAME: %s rematch -> %s", h.id, record.ID)
		h.fanOut(RedirectMessage{Type: "redirect", GameID: record.ID}, nil)
	}
}

// hello names the connecting cookie and, if the game is still waiting and
// the cookie is not player1, seats it as player2 and deals the board.
func (h *Hub) hello(c *Client, msg ClientMessage) {
	if msg.Name != "" {
		c.name = msg.Name
	}
	if c.name == "" {
		c.name = "Player"
	}

	effects, joined, err := h.session.Join(c.playerID)
	if err != nil {
		// Vocabulary exhaustion is fatal to this game, not to the server.
		logf(h.cfg, "ERROR: game %s join: %v", h.id, err)
		h.trySend(c, RejectedMessage{Type: "rejected", Reason: "Unable to deal a board for this game."})
		return
	}
	if joined {
		logf(h.cfg, "GAME: %s player2 joined", h.id)
		h.execute(effects, c.playerID)
		h.fanOut(StateMessage{Type: "game_state", Game: h.session.State()}, nil)
	}

	peers := h.session.MergePresence(c.playerID, game.PresenceInfo{
		Status: game.PresenceOnline,
		Name:   c.name,
	})
	h.fanOut(PresenceMessage{Type: "presence", Peers: peers}, nil)

	h.trySend(c, SessionInfoMessage{
		Type:   "session_info",
		GameID: h.id,
		Slot:   h.session.State().SlotOf(c.playerID),
	})
}

// act runs one validated action and executes its effects. Rejections go back
// to the acting client alone; the opponent never sees them.
func (h *Hub) act(c *Client, fn func() (game.Effects, error)) {
	effects, err := fn()
	if err != nil {
		h.trySend(c, RejectedMessage{Type: "rejected", Reason: err.Error()})
		return
	}

	h.execute(effects, c.playerID)

	// Snapshot follow-up keeps thin browser clients honest without waiting
	// on the store.
	h.fanOut(StateMessage{Type: "game_state", Game: h.session.State()}, nil)
}

// execute performs the two decoupled effects: relay to the peer first, then
// an async store write. Neither waits on, or is linked to, the other.
func (h *Hub) execute(effects game.Effects, origin string) {
	if b := effects.Broadcast; b != nil {
		h.fanOut(EventMessage{
			Type:    b.Event,
			Payload: b.Payload,
			Origin:  origin,
		}, func(c *Client) bool { return c.playerID == origin })
	}

	if p := effects.Persist; p != nil {
		record := p.Record
		go func() {
			if err := h.store.Update(record); err != nil {
				logf(h.cfg, "ERROR: game %s persist: %v", record.ID, err)
			}
		}()
	}
}

// trySend queues a message for one client. A full send buffer drops the
// client, same as fanOut; a slow reader must never wedge the hub goroutine.
func (h *Hub) trySend(c *Client, msg any) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c]; !ok {
		return
	}

	select {
	case c.send <- msg:
	default:
		delete(h.clients, c)
		close(c.send)
	}
}

// fanOut sends to every client not excluded by skip, dropping clients whose
// send buffers are full.
func (h *Hub) fanOut(msg any, skip func(*Client) bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		if skip != nil && skip(client) {
			continue
		}
		select {
		case client.send <- msg:
		default:
			delete(h.clients, client)
			close(client.send)
		}
	}
}

func (h *Hub) connected(playerID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		if c.playerID == playerID {
			return true
		}
	}
	return false
}

func (h *Hub) touch() {
	h.mu.Lock()
	h.lastActive = time.Now()
	h.mu.Unlock()
}

func (h *Hub) idleSince() time.Time {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.lastActive
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const playerCookieName = "doubleagent_id"

func playerCookie(id string) *http.Cookie {
	return &http.Cookie{
		Name:     playerCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

func playerIDFromRequest(r *http.Request) string {
	if c, err := r.Cookie(playerCookieName); err == nil && c.Value != "" {
		return c.Value
	}

	return ""
}

// getOrSetPlayerID only works on handlers that write an ordinary HTTP
// response. The websocket upgrade hijacks the connection, so the handshake
// path carries the cookie in the upgrade response header instead.
func getOrSetPlayerID(w http.ResponseWriter, r *http.Request) string {
	if id := playerIDFromRequest(r); id != "" {
		return id
	}

	id := uuid.NewString()
	http.SetCookie(w, playerCookie(id))

	return id
}

// GameManager holds a set of hubs keyed by game ID, so each game is its own
// isolated session. Hubs are rebuilt from the store after reaping.
type GameManager struct {
	cfg   *Config
	store GameStore

	mu   sync.Mutex
	hubs map[string]*Hub
}

func newGameManager(cfg *Config, store GameStore) *GameManager {
	gm := &GameManager{
		cfg:   cfg,
		store: store,
		hubs:  make(map[string]*Hub),
	}
	go gm.reapIdle()
	return gm
}

// getHub returns the live hub for a game, rebuilding it from the persisted
// record if needed. The creating player's cookie seats player1 on a brand
// new game.
func (gm *GameManager) getHub(gameID, playerID string) *Hub {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if hub, ok := gm.hubs[gameID]; ok {
		return hub
	}

	record, ok := gm.store.Get(gameID)
	if !ok {
		record = game.NewState(gameID, playerID, gm.cfg.turnLimit, gm.cfg.mistakeLimit, nil)
		if err := gm.store.Insert(record); err != nil {
			logf(gm.cfg, "ERROR: game %s insert: %v", gameID, err)
		}
		logf(gm.cfg, "GAME: %s created by %s", gameID, playerID)
	}

	hub := newHub(gm.cfg, gm.store, record)
	gm.hubs[gameID] = hub
	go hub.run()
	return hub
}

func (gm *GameManager) reapIdle() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		cutoff := time.Now().Add(-gm.cfg.sessionTimeout)

		gm.mu.Lock()
		for id, hub := range gm.hubs {
			if hub.idleSince().Before(cutoff) {
				close(hub.done)
				delete(gm.hubs, id)
				logf(gm.cfg, "GAME: %s reaped after idle timeout", id)
			}
		}
		gm.mu.Unlock()
	}
}

// WebSocket handler that picks the hub based on :gameid
func serveWSForManager(cfg *Config, gm *GameManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		gameID := ps.ByName("gameid")
		if gameID == "" {
			http.Error(w, "missing game id", http.StatusBadRequest)
			return
		}

		// The game page normally sets the identity cookie before the client
		// ever dials, but a direct connection still gets one through the
		// handshake response.
		playerID := playerIDFromRequest(r)

		var responseHeader http.Header
		if playerID == "" {
			playerID = uuid.NewString()
			responseHeader = http.Header{"Set-Cookie": {playerCookie(playerID).String()}}
		}

		hub := gm.getHub(gameID, playerID)

		conn, err := upgrader.Upgrade(w, r, responseHeader)
		if err != nil {
			logf(cfg, "ERROR: upgrade for %s: %v", realIP(r), err)
			return
		}

		client := &Client{
			conn:     conn,
			send:     make(chan any, 8),
			playerID: playerID,
		}

		select {
		case hub.register <- client:
		case <-hub.done:
			conn.Close()
			return
		}

		go client.writePump()
		client.readPump(hub)
	}
}

func (c *Client) readPump(h *Hub) {
	defer func() {
		// The hub may have been reaped out from under us.
		select {
		case h.unreg <- c:
		case <-h.done:
		}
		c.conn.Close()
	}()

	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}

		select {
		case h.inbox <- inbound{client: c, msg: msg}:
		case <-h.done:
			return
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

func serveSessionQR(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		gameID := ps.ByName("gameid")
		if gameID == "" {
			http.Error(w, "missing game id", http.StatusBadRequest)
			return
		}

		url := cfg.scheme() + "://" + r.Host + cfg.prefix + "/agents/" + gameID

		png, err := qrcode.Encode(url, qrcode.Medium, 256)
		if err != nil {
			errs <- err
			http.Error(w, "unable to render qr code", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		securityHeaders(cfg, w)

		if _, err := w.Write(png); err != nil {
			errs <- err

			return
		}
	}
}

func redirectNewGame(path string) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		getOrSetPlayerID(w, r)

		gameID := uuid.NewString()
		http.Redirect(w, r, path+"/"+gameID, http.StatusTemporaryRedirect)
	}
}

func registerAgentsGame(cfg *Config, path string, mux *httprouter.Router, store GameStore) {
	gm := newGameManager(cfg, store)
	errs := make(chan error, 64)

	go func() {
		for err := range errs {
			logf(cfg, "ERROR: %v", err)
		}
	}()

	// Root path -> redirect to new random game
	mux.GET(path, redirectNewGame(path))

	// Per-game client view
	mux.GET(path+"/:gameid", serveGamePage(cfg))

	// Per-game session share code
	mux.GET(path+"/:gameid/qr", serveSessionQR(cfg, errs))

	// Per-game websocket
	mux.GET(path+"/:gameid/ws", serveWSForManager(cfg, gm))
}
