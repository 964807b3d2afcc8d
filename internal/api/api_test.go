package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tatianab/read-the-room/internal/engine"
	"github.com/tatianab/read-the-room/internal/leaderboard"
	"github.com/tatianab/read-the-room/internal/models"
	"github.com/tatianab/read-the-room/internal/scoring"
	"github.com/tatianab/read-the-room/internal/session"
)

type stubClassifier struct {
	tag models.Tag
	err error
}

func (c *stubClassifier) Classify(context.Context, string, models.InputMode, []models.Turn) (models.Tag, error) {
	return c.tag, c.err
}

type stubNarrator struct{}

func (stubNarrator) Narrate(context.Context, models.NarrationRequest) (string, error) {
	return "*She smiles.* That's fun. What else?", nil
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

type testServer struct {
	handler    http.Handler
	classifier *stubClassifier
	board      *leaderboard.MemoryBoard
}

func newTestServer(t *testing.T, withBoard bool) *testServer {
	t.Helper()
	mgr := session.NewManager(session.NewMemoryStore(), time.Hour)
	t.Cleanup(func() { mgr.Close() })

	ts := &testServer{
		classifier: &stubClassifier{tag: models.Tag{Intent: models.IntentShare, Modifier: models.ModifierUnique, Tone: models.TonePlayful}},
		board:      leaderboard.NewMemoryBoard(),
	}
	eng := engine.New(mgr, ts.classifier, stubNarrator{},
		engine.WithNoise(scoring.NoNoise{}),
		engine.WithRecorder(ts.board),
	)
	var opts []Option
	if withBoard {
		opts = append(opts, WithLeaderboard(ts.board))
	}
	ts.handler = NewServer(eng, opts...).Handler()
	return ts
}

func (ts *testServer) do(t *testing.T, method, path string, body any) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("Failed to decode response %q: %v", rec.Body.String(), err)
	}
	return rec.Code, env
}

func (ts *testServer) create(t *testing.T, coOp bool) gameView {
	t.Helper()
	code, env := ts.do(t, http.MethodPost, "/api/games", createGameRequest{CoOp: coOp})
	if code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", code, env.Message)
	}
	var g gameView
	if err := json.Unmarshal(env.Result, &g); err != nil {
		t.Fatalf("Failed to decode game: %v", err)
	}
	return g
}

func TestGameLifecycle(t *testing.T) {
	ts := newTestServer(t, false)
	g := ts.create(t, false)
	if g.Stats != (models.Stats{Vibe: 30, Trust: 20, Tension: 0}) {
		t.Errorf("Unexpected starting stats %+v", g.Stats)
	}

	code, env := ts.do(t, http.MethodPost, "/api/games/"+g.ID+"/turn", turnRequest{UserInput: "I once got lost in Lisbon", InputMode: "dialogue"})
	if code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", code, env.Message)
	}
	var res engine.TurnResult
	if err := json.Unmarshal(env.Result, &res); err != nil {
		t.Fatalf("Failed to decode turn: %v", err)
	}
	if res.Turn.TurnNumber != 1 || res.Stats.Vibe != 45 {
		t.Errorf("Unexpected turn result %+v", res)
	}

	code, env = ts.do(t, http.MethodGet, "/api/games/"+g.ID+"/history", nil)
	if code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", code)
	}
	var turns []models.Turn
	json.Unmarshal(env.Result, &turns)
	if len(turns) != 1 {
		t.Errorf("Expected 1 turn in history, got %d", len(turns))
	}

	if code, _ := ts.do(t, http.MethodGet, "/api/games/"+g.ID+"/breakdown", nil); code != http.StatusConflict {
		t.Errorf("Expected 409 for a running game's breakdown, got %d", code)
	}

	if code, _ := ts.do(t, http.MethodDelete, "/api/games/"+g.ID, nil); code != http.StatusOK {
		t.Errorf("Expected 200 on delete, got %d", code)
	}
	if code, _ := ts.do(t, http.MethodGet, "/api/games/"+g.ID, nil); code != http.StatusNotFound {
		t.Errorf("Expected 404 after delete, got %d", code)
	}
}

func TestErrorMapping(t *testing.T) {
	ts := newTestServer(t, false)
	g := ts.create(t, false)
	coop := ts.create(t, true)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"unknown game", http.MethodGet, "/api/games/nope", nil, http.StatusNotFound},
		{"unknown game turn", http.MethodPost, "/api/games/nope/turn", turnRequest{UserInput: "hi"}, http.StatusNotFound},
		{"empty input", http.MethodPost, "/api/games/" + g.ID + "/turn", turnRequest{UserInput: "  "}, http.StatusBadRequest},
		{"bad silence level", http.MethodPost, "/api/games/" + g.ID + "/silence", silenceRequest{Level: "loud"}, http.StatusBadRequest},
		{"ability outside co-op", http.MethodPost, "/api/games/" + g.ID + "/abilities", abilityRequest{Ability: "scan_emotion"}, http.StatusBadRequest},
		{"unknown ability", http.MethodPost, "/api/games/" + coop.ID + "/abilities", abilityRequest{Ability: "teleport"}, http.StatusBadRequest},
		{"insufficient budget", http.MethodPost, "/api/games/" + coop.ID + "/abilities", abilityRequest{Ability: "emergency_vibe"}, http.StatusPaymentRequired},
		{"leaderboard off", http.MethodGet, "/api/leaderboard", nil, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, env := ts.do(t, tt.method, tt.path, tt.body)
			if code != tt.want {
				t.Errorf("Expected %d, got %d (%s)", tt.want, code, env.Message)
			}
			if env.Status != statusError {
				t.Errorf("Expected error status, got %q", env.Status)
			}
		})
	}
}

func TestRetryableTurnReturns503(t *testing.T) {
	ts := newTestServer(t, false)
	g := ts.create(t, false)

	ts.classifier.err = errors.New("upstream down")
	code, _ := ts.do(t, http.MethodPost, "/api/games/"+g.ID+"/turn", turnRequest{UserInput: "hi"})
	if code != http.StatusServiceUnavailable {
		t.Errorf("Expected 503, got %d", code)
	}

	_, env := ts.do(t, http.MethodGet, "/api/games/"+g.ID, nil)
	var view gameView
	json.Unmarshal(env.Result, &view)
	if view.Turn != 0 {
		t.Errorf("Expected no turn to be recorded, got %d", view.Turn)
	}
}

func TestGhostedThenBreakdown(t *testing.T) {
	ts := newTestServer(t, true)
	g := ts.create(t, false)

	code, env := ts.do(t, http.MethodPost, "/api/games/"+g.ID+"/silence", silenceRequest{Level: "ghost"})
	if code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", code, env.Message)
	}
	var res engine.SilenceResult
	json.Unmarshal(env.Result, &res)
	if !res.GameOver || res.Ending != models.EndingGhosted {
		t.Errorf("Expected a ghosted ending, got %+v", res)
	}

	if code, _ := ts.do(t, http.MethodPost, "/api/games/"+g.ID+"/turn", turnRequest{UserInput: "wait"}); code != http.StatusConflict {
		t.Errorf("Expected 409 after game over, got %d", code)
	}

	code, env = ts.do(t, http.MethodGet, "/api/games/"+g.ID+"/breakdown", nil)
	if code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", code)
	}
	var out map[string]string
	json.Unmarshal(env.Result, &out)
	if out["markdown"] == "" {
		t.Errorf("Expected breakdown markdown")
	}

	code, env = ts.do(t, http.MethodGet, "/api/leaderboard?limit=5", nil)
	if code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", code)
	}
	var entries []leaderboard.Entry
	json.Unmarshal(env.Result, &entries)
	if len(entries) != 0 {
		t.Errorf("Expected a ghosted date not to be recorded, got %d entries", len(entries))
	}

	if code, _ := ts.do(t, http.MethodGet, "/api/leaderboard?limit=x", nil); code != http.StatusBadRequest {
		t.Errorf("Expected 400 for a bad limit, got %d", code)
	}
}
