// internal/httpserver/ws.go
//
// Live event streaming. Each session gets a relay that implements the
// engine's Sink; websocket clients subscribing at /game/ws?gameId=...
// receive every sink event as JSON. Slow clients are dropped rather than
// allowed to stall the game (buffered send channels, drop on full).

package httpserver

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/gridle-game/gridle/internal/game"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// wsEvent is the wire form of one sink event.
type wsEvent struct {
	Type   string        `json:"type"` // cell | row | won | lost | incomplete_guess | unknown_word
	Row    int           `json:"row,omitempty"`
	Col    int           `json:"col,omitempty"`
	Letter string        `json:"letter,omitempty"`
	Status game.Status   `json:"status,omitempty"`
	Marks  []game.Status `json:"marks,omitempty"`
	Word   string        `json:"word,omitempty"`
	Answer string        `json:"answer,omitempty"`
	Filled int           `json:"filled,omitempty"`
	Need   int           `json:"need,omitempty"`
}

// wsClient is one subscribed connection.
type wsClient struct {
	conn *websocket.Conn
	send chan wsEvent
}

// relay fans sink events out to subscribed clients.
type relay struct {
	mu      sync.Mutex
	clients map[*wsClient]struct{}
}

func newRelay() *relay {
	return &relay{clients: make(map[*wsClient]struct{})}
}

func (rl *relay) subscribe(c *wsClient) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.clients[c] = struct{}{}
}

func (rl *relay) unsubscribe(c *wsClient) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	if _, ok := rl.clients[c]; ok {
		delete(rl.clients, c)
		close(c.send)
	}
}

func (rl *relay) broadcast(ev wsEvent) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for c := range rl.clients {
		select {
		case c.send <- ev:
		default:
			// slow consumer: drop it
			delete(rl.clients, c)
			close(c.send)
		}
	}
}

// relay implements game.Sink.

func (rl *relay) GuessIncomplete(filled, need int) {
	rl.broadcast(wsEvent{Type: "incomplete_guess", Filled: filled, Need: need})
}

func (rl *relay) WordUnknown(word string) {
	rl.broadcast(wsEvent{Type: "unknown_word", Word: word})
}

func (rl *relay) CellRevealed(row, col int, letter rune, status game.Status) {
	rl.broadcast(wsEvent{Type: "cell", Row: row, Col: col, Letter: string(letter), Status: status})
}

func (rl *relay) RowRevealed(row int, marks []game.Status) {
	rl.broadcast(wsEvent{Type: "row", Row: row, Marks: marks})
}

func (rl *relay) GameWon(row int) {
	rl.broadcast(wsEvent{Type: "won", Row: row})
}

func (rl *relay) GameLost(answer string) {
	rl.broadcast(wsEvent{Type: "lost", Answer: answer})
}

// relayHub maps session IDs to relays.
type relayHub struct {
	mu     sync.Mutex
	relays map[string]*relay
}

func newRelayHub() *relayHub {
	return &relayHub{relays: make(map[string]*relay)}
}

func (h *relayHub) register(id string, rl *relay) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.relays[id] = rl
}

func (h *relayHub) unregister(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.relays, id)
}

func (h *relayHub) lookup(id string) (*relay, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	rl, ok := h.relays[id]
	return rl, ok
}

// handleGameWS upgrades the connection and streams session events.
// The socket is receive-only for clients; input still goes via /game/event.
func (s *Server) handleGameWS(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("gameId")
	rl, ok := s.hub.lookup(id)
	if !ok {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("ws upgrade")
		return
	}

	c := &wsClient{conn: conn, send: make(chan wsEvent, 32)}
	rl.subscribe(c)

	// writer
	go func() {
		for ev := range c.send {
			if err := conn.WriteJSON(ev); err != nil {
				break
			}
		}
		_ = conn.Close()
	}()

	// reader: discard until close, then unsubscribe
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
		rl.unsubscribe(c)
		_ = conn.Close()
	}()
}
