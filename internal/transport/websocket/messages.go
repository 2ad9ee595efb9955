package websocket

import "github.com/iamasit07/cube4/internal/service/bot"

const (
	TypeInit        = "init"
	TypeReady       = "ready"
	TypeMoveRequest = "move_request"
	TypeMove        = "move"
	TypeError       = "error"
)

type ClientMessage struct {
	Type       string    `json:"type"`
	Token      string    `json:"token,omitempty"`
	ID         string    `json:"id,omitempty"`
	Board      [][][]int `json:"board,omitempty"`
	Player     int       `json:"player,omitempty"`
	LastMove   []int     `json:"last_move,omitempty"`
	Difficulty string    `json:"difficulty,omitempty"`
}

type MoveMessage struct {
	Type       string     `json:"type"`
	ID         string     `json:"id,omitempty"`
	X          int        `json:"x"`
	Y          int        `json:"y"`
	Reason     bot.Reason `json:"reason"`
	Score      int        `json:"score"`
	Depth      int        `json:"depth"`
	Cached     bool       `json:"cached"`
	DecisionID string     `json:"decision_id"`
}

type ServerMessage struct {
	Type    string `json:"type"`
	ID      string `json:"id,omitempty"`
	Message string `json:"message,omitempty"`
}
