package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/cube4/internal/domain"
	"github.com/iamasit07/cube4/internal/repository/sqldb"
	"github.com/iamasit07/cube4/internal/service/bot"
	"github.com/iamasit07/cube4/internal/service/move"
	"github.com/iamasit07/cube4/pkg/auth"
)

const secret = "router-test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeLister struct {
	records []sqldb.DecisionRecord
	err     error
	limit   int
}

func (f *fakeLister) Recent(ctx context.Context, limit int) ([]sqldb.DecisionRecord, error) {
	f.limit = limit
	return f.records, f.err
}

func newMoveService(t *testing.T) *move.Service {
	t.Helper()
	opts := bot.DefaultOptions()
	opts.Depth = bot.DepthPolicy{Opening: 2, Midgame: 2, Endgame: 3, MidgameBelow: 40, EndgameBelow: 10}
	e, err := bot.NewEngine(opts)
	if err != nil {
		t.Fatal(err)
	}
	return move.NewService(e)
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	r := NewRouter(RouterConfig{RequireAuth: true, JWTSecret: secret})
	w := doJSON(t, r, http.MethodGet, "/healthz", nil, "")
	if w.Code != http.StatusOK || w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatalf("healthz: %d %v", w.Code, w.Header())
	}
}

func TestMoveEndpoint(t *testing.T) {
	r := NewRouter(RouterConfig{Moves: newMoveService(t)})

	var b domain.Board
	b.Set(domain.Point{X: 2, Y: 2, Z: 0}, domain.Player2)
	b.Set(domain.Point{X: 2, Y: 2, Z: 1}, domain.Player2)
	b.Set(domain.Point{X: 2, Y: 2, Z: 2}, domain.Player2)
	w := doJSON(t, r, http.MethodPost, "/api/move", move.MoveRequest{Board: b.Grid(), Player: 1, Difficulty: "medium"}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	var res move.Result
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if res.X != 2 || res.Y != 2 || res.Reason != bot.ReasonBlock || res.DecisionID == "" {
		t.Fatalf("expected a block at (2,2), got %+v", res)
	}
}

func TestMoveEndpointBadRequests(t *testing.T) {
	r := NewRouter(RouterConfig{Moves: newMoveService(t)})

	w := doJSON(t, r, http.MethodPost, "/api/move", move.MoveRequest{Player: 7}, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad player: status %d", w.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/move", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad json: status %d", rec.Code)
	}
}

func TestAuthRequired(t *testing.T) {
	r := NewRouter(RouterConfig{Moves: newMoveService(t), RequireAuth: true, JWTSecret: secret})
	body := move.MoveRequest{Player: 1}

	if w := doJSON(t, r, http.MethodPost, "/api/move", body, ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("missing token: status %d", w.Code)
	}
	if w := doJSON(t, r, http.MethodPost, "/api/move", body, "garbage"); w.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: status %d", w.Code)
	}

	token, err := auth.GenerateHarnessToken(secret, "arena", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if w := doJSON(t, r, http.MethodPost, "/api/move", body, token); w.Code != http.StatusOK {
		t.Fatalf("valid token: status %d %s", w.Code, w.Body.String())
	}
}

func TestDecisionsEndpoint(t *testing.T) {
	lister := &fakeLister{records: []sqldb.DecisionRecord{{DecisionID: "a", Reason: "search"}}}
	r := NewRouter(RouterConfig{History: lister})

	w := doJSON(t, r, http.MethodGet, "/api/decisions?limit=5000", nil, "")
	if w.Code != http.StatusOK || lister.limit != maxHistoryLimit {
		t.Fatalf("status %d limit %d", w.Code, lister.limit)
	}
	var got []sqldb.DecisionRecord
	json.Unmarshal(w.Body.Bytes(), &got)
	if len(got) != 1 || got[0].DecisionID != "a" {
		t.Fatalf("unexpected body %s", w.Body.String())
	}

	if w := doJSON(t, r, http.MethodGet, "/api/decisions", nil, ""); lister.limit != defaultHistoryLimit || w.Code != http.StatusOK {
		t.Fatalf("default limit not applied: %d", lister.limit)
	}
	if w := doJSON(t, r, http.MethodGet, "/api/decisions?limit=-1", nil, ""); w.Code != http.StatusBadRequest {
		t.Fatalf("negative limit: status %d", w.Code)
	}

	lister.err = errors.New("db down")
	if w := doJSON(t, r, http.MethodGet, "/api/decisions", nil, ""); w.Code != http.StatusInternalServerError {
		t.Fatalf("db error: status %d", w.Code)
	}
}

func TestDecisionsEndpointDisabled(t *testing.T) {
	r := NewRouter(RouterConfig{})
	if w := doJSON(t, r, http.MethodGet, "/api/decisions", nil, ""); w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status %d", w.Code)
	}
}
