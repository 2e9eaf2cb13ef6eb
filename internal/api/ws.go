package api

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Kit10v4/TouhouFM-Card-Battle/internal/constants"
	"github.com/Kit10v4/TouhouFM-Card-Battle/internal/game"
	"github.com/Kit10v4/TouhouFM-Card-Battle/internal/logging"
	"github.com/Kit10v4/TouhouFM-Card-Battle/internal/service"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// the game protocol carries no credentials; origin checks are
		// left to the deployment proxy
		return true
	},
}

// Envelope is the wire frame for both directions: a message type plus a
// type-specific payload.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

type outEnvelope struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

type joinRequest struct {
	Name       string `json:"name"`
	Character  string `json:"character"`
	VsAI       bool   `json:"vs_ai"`
	Difficulty string `json:"difficulty"`
}

type submitDeckRequest struct {
	Cards []game.CardType `json:"cards"`
}

type playRequest struct {
	CardIndex  *int `json:"card_index"`
	UseSpecial bool `json:"use_special"`
}

type client struct {
	playerID string
	conn     *websocket.Conn

	// sendMu orders enqueue against close so an unregister racing a
	// notification can never send on a closed channel
	sendMu sync.Mutex
	closed bool
	send   chan outEnvelope
}

// enqueue hands an envelope to the writer goroutine. It reports false when
// the client is closed or the buffer is full.
func (cl *client) enqueue(env outEnvelope) bool {
	cl.sendMu.Lock()
	defer cl.sendMu.Unlock()
	if cl.closed {
		return false
	}
	select {
	case cl.send <- env:
		return true
	default:
		return false
	}
}

func (cl *client) closeSend() {
	cl.sendMu.Lock()
	defer cl.sendMu.Unlock()
	if !cl.closed {
		cl.closed = true
		close(cl.send)
	}
}

// SocketServer owns the live websocket connections and implements
// service.Notifier. Sends to missing or slow players are dropped, never
// blocking the hub.
type SocketServer struct {
	mu      sync.RWMutex
	clients map[string]*client
}

// NewSocketServer returns an empty connection table.
func NewSocketServer() *SocketServer {
	return &SocketServer{clients: make(map[string]*client)}
}

// Send implements service.Notifier.
func (s *SocketServer) Send(playerID, event string, payload interface{}) {
	s.mu.RLock()
	cl, ok := s.clients[playerID]
	s.mu.RUnlock()
	if !ok {
		return
	}
	if !cl.enqueue(outEnvelope{Type: event, Data: payload}) {
		// closed or slow consumer; drop rather than stall the hub
		logging.Debug("dropping event for unavailable client", logging.Fields{
			constants.LogFieldPlayerID: playerID,
		})
	}
}

func (s *SocketServer) register(cl *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[cl.playerID] = cl
}

func (s *SocketServer) unregister(playerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cl, ok := s.clients[playerID]; ok {
		cl.closeSend()
		delete(s.clients, playerID)
	}
}

// GameSocket upgrades the connection and pumps game messages between the
// client and the hub until the connection drops.
func (s *SocketServer) GameSocket(hub *service.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logging.Error("websocket upgrade failed", err, nil)
			return
		}
		cl := &client{
			playerID: uuid.NewString(),
			conn:     conn,
			send:     make(chan outEnvelope, 32),
		}
		s.register(cl)
		logging.Info("player connected", logging.Fields{constants.LogFieldPlayerID: cl.playerID})

		go cl.writePump()
		s.readPump(cl, hub)
	}
}

func (cl *client) writePump() {
	for env := range cl.send {
		if err := cl.conn.WriteJSON(env); err != nil {
			return
		}
	}
}

// readPump dispatches inbound frames. A read error means the player is
// gone: their room is torn down and the connection table cleaned up.
func (s *SocketServer) readPump(cl *client, hub *service.Hub) {
	defer func() {
		hub.Leave(cl.playerID)
		s.unregister(cl.playerID)
		cl.conn.Close()
		logging.Info("player disconnected", logging.Fields{constants.LogFieldPlayerID: cl.playerID})
	}()

	for {
		var env Envelope
		if err := cl.conn.ReadJSON(&env); err != nil {
			return
		}
		s.dispatch(cl, hub, env)
	}
}

func (s *SocketServer) dispatch(cl *client, hub *service.Hub, env Envelope) {
	switch env.Type {
	case constants.MsgJoin:
		var req joinRequest
		if err := json.Unmarshal(env.Data, &req); err != nil {
			s.Send(cl.playerID, constants.MsgError, service.ErrorPayload{Message: constants.ErrInvalidRequest})
			return
		}
		if err := hub.Join(cl.playerID, req.Name, game.Character(req.Character), req.VsAI, req.Difficulty); err != nil {
			logging.Debug("join rejected", logging.Fields{
				constants.LogFieldPlayerID: cl.playerID,
				constants.LogFieldReason:   err.Error(),
			})
		}
	case constants.MsgSubmitDeck:
		var req submitDeckRequest
		if err := json.Unmarshal(env.Data, &req); err != nil {
			s.Send(cl.playerID, constants.MsgError, service.ErrorPayload{Message: constants.ErrInvalidRequest})
			return
		}
		// hub notifies deck_accepted/deck_rejected itself
		_ = hub.SubmitDeck(cl.playerID, req.Cards)
	case constants.MsgPlay:
		var req playRequest
		if err := json.Unmarshal(env.Data, &req); err != nil {
			s.Send(cl.playerID, constants.MsgError, service.ErrorPayload{Message: constants.ErrInvalidRequest})
			return
		}
		_ = hub.Play(cl.playerID, req.CardIndex, req.UseSpecial)
	case constants.MsgLeave:
		hub.Leave(cl.playerID)
	default:
		s.Send(cl.playerID, constants.MsgError, service.ErrorPayload{Message: constants.ErrUnknownMessageType})
	}
}
