package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/cube4/internal/service/move"
)

type MoveChooser interface {
	ChooseMove(ctx context.Context, req move.MoveRequest) (move.Result, error)
}

type MoveHandler struct {
	Moves MoveChooser
}

func NewMoveHandler(moves MoveChooser) *MoveHandler {
	return &MoveHandler{Moves: moves}
}

// ChooseMove answers POST /api/move.
func (h *MoveHandler) ChooseMove(c *gin.Context) {
	var req move.MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	res, err := h.Moves.ChooseMove(c.Request.Context(), req)
	if err != nil {
		if move.IsClientError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to choose move"})
		return
	}
	c.JSON(http.StatusOK, res)
}
