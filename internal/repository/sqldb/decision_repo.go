package sqldb

import (
	"context"
	"fmt"
	"time"
)

// DecisionRecord is one answered move request.
type DecisionRecord struct {
	ID         int64     `json:"-"`
	DecisionID string    `json:"decision_id"`
	Player     int       `json:"player"`
	Difficulty string    `json:"difficulty"`
	Reason     string    `json:"reason"`
	X          int       `json:"x"`
	Y          int       `json:"y"`
	Score      int       `json:"score"`
	Depth      int       `json:"depth"`
	Nodes      uint64    `json:"nodes"`
	DurationMS int64     `json:"duration_ms"`
	Cached     bool      `json:"cached"`
	Board      string    `json:"board"`
	CreatedAt  time.Time `json:"created_at"`
}

type DecisionRepo struct {
	DB *DB
}

func NewDecisionRepo(db *DB) *DecisionRepo {
	return &DecisionRepo{DB: db}
}

func (r *DecisionRepo) Insert(ctx context.Context, d *DecisionRecord) error {
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now()
	}
	query := r.DB.Rebind(`
	INSERT INTO decisions (decision_id, player, difficulty, reason, x, y, score, depth, nodes, duration_ms, cached, board, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err := r.DB.ExecContext(ctx, query,
		d.DecisionID, d.Player, d.Difficulty, d.Reason, d.X, d.Y, d.Score, d.Depth,
		int64(d.Nodes), d.DurationMS, d.Cached, d.Board, d.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to insert decision: %w", err)
	}
	return nil
}

// Recent returns up to limit decisions, newest first.
func (r *DecisionRepo) Recent(ctx context.Context, limit int) ([]DecisionRecord, error) {
	query := r.DB.Rebind(`
	SELECT id, decision_id, player, difficulty, reason, x, y, score, depth, nodes, duration_ms, cached, board, created_at
	FROM decisions
	ORDER BY id DESC
	LIMIT ?`)

	rows, err := r.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query decisions: %w", err)
	}
	defer rows.Close()

	var out []DecisionRecord
	for rows.Next() {
		var d DecisionRecord
		var nodes int64
		if err := rows.Scan(&d.ID, &d.DecisionID, &d.Player, &d.Difficulty, &d.Reason, &d.X, &d.Y,
			&d.Score, &d.Depth, &nodes, &d.DurationMS, &d.Cached, &d.Board, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan decision: %w", err)
		}
		d.Nodes = uint64(nodes)
		out = append(out, d)
	}
	return out, rows.Err()
}

// DeleteOlderThan removes decisions created before cutoff and reports how
// many rows went.
func (r *DecisionRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.DB.ExecContext(ctx, r.DB.Rebind(`DELETE FROM decisions WHERE created_at < ?`), cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to delete old decisions: %w", err)
	}
	return res.RowsAffected()
}
