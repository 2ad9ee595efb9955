package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/cube4/internal/repository/sqldb"
	"github.com/rs/zerolog/log"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

type DecisionLister interface {
	Recent(ctx context.Context, limit int) ([]sqldb.DecisionRecord, error)
}

type HistoryHandler struct {
	Repo DecisionLister
}

func NewHistoryHandler(repo DecisionLister) *HistoryHandler {
	return &HistoryHandler{Repo: repo}
}

// GetDecisions answers GET /api/decisions?limit=n.
func (h *HistoryHandler) GetDecisions(c *gin.Context) {
	if h.Repo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "decision history is disabled"})
		return
	}

	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	decisions, err := h.Repo.Recent(c.Request.Context(), limit)
	if err != nil {
		log.Error().Str("component", "http").Err(err).Msg("failed to fetch decisions")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch history"})
		return
	}
	if decisions == nil {
		decisions = []sqldb.DecisionRecord{}
	}
	c.JSON(http.StatusOK, decisions)
}
