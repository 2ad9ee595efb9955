package websocket

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/iamasit07/cube4/internal/service/move"
	"github.com/iamasit07/cube4/pkg/auth"
	"github.com/rs/zerolog/log"
)

type MoveChooser interface {
	ChooseMove(ctx context.Context, req move.MoveRequest) (move.Result, error)
}

type Handler struct {
	Moves       MoveChooser
	RequireAuth bool
	JWTSecret   string
	Upgrader    websocket.Upgrader
}

func NewHandler(moves MoveChooser, requireAuth bool, secret string, allowedOrigins []string) *Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &Handler{
		Moves:       moves,
		RequireAuth: requireAuth,
		JWTSecret:   secret,
		Upgrader: websocket.Upgrader{
			// harnesses are usually not browsers and send no Origin
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed["*"] || allowed[origin]
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// HandleWebSocket upgrades the connection and serves move requests on it
// until the peer goes away.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Str("component", "ws").Err(err).Msg("upgrade failed")
		return
	}

	client := NewClient(conn)
	defer client.Close()
	client.keepAlive()

	if !h.handshake(client) {
		return
	}
	log.Info().Str("component", "ws").Str("harness", client.harness).Msg("connection initialised")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Str("component", "ws").Err(err).Msg("read error")
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			client.Send(ServerMessage{Type: TypeError, Message: "invalid message"})
			continue
		}
		if msg.Type != TypeMoveRequest {
			client.Send(ServerMessage{Type: TypeError, ID: msg.ID, Message: "unknown message type"})
			continue
		}
		h.answer(ctx, client, msg)
	}
}

// handshake expects an init message first and checks its token when auth
// is required.
func (h *Handler) handshake(client *Client) bool {
	_, data, err := client.conn.ReadMessage()
	if err != nil {
		log.Debug().Str("component", "ws").Err(err).Msg("read error during init")
		return false
	}

	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil || msg.Type != TypeInit {
		client.Send(ServerMessage{Type: TypeError, Message: "expected init message"})
		return false
	}

	if h.RequireAuth {
		claims, err := auth.ValidateHarnessToken(h.JWTSecret, msg.Token)
		if err != nil {
			client.Send(ServerMessage{Type: TypeError, Message: "invalid token"})
			return false
		}
		client.harness = claims.Harness
	}
	return client.Send(ServerMessage{Type: TypeReady}) == nil
}

func (h *Handler) answer(ctx context.Context, client *Client, msg ClientMessage) {
	res, err := h.Moves.ChooseMove(ctx, move.MoveRequest{
		Board:      msg.Board,
		Player:     msg.Player,
		LastMove:   msg.LastMove,
		Difficulty: msg.Difficulty,
	})
	if err != nil {
		client.Send(ServerMessage{Type: TypeError, ID: msg.ID, Message: err.Error()})
		return
	}
	client.Send(MoveMessage{
		Type:       TypeMove,
		ID:         msg.ID,
		X:          res.X,
		Y:          res.Y,
		Reason:     res.Reason,
		Score:      res.Score,
		Depth:      res.Depth,
		Cached:     res.Cached,
		DecisionID: res.DecisionID,
	})
}
