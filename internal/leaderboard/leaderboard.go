// Package leaderboard keeps the results of finished dates.
package leaderboard

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/tatianab/read-the-room/internal/models"
)

// DefaultLimit is how many entries Top returns when asked for none.
const DefaultLimit = 10

// Entry is one finished date.
type Entry struct {
	SessionID string `json:"session_id"`
	Grade     string `json:"grade"`
	Ending    string `json:"ending"`
	Vibe      int    `json:"vibe"`
	Trust     int    `json:"trust"`
	Tension   int    `json:"tension"`
	Score     int    `json:"score"`
	Turns     int    `json:"turns"`
	CoOp      bool   `json:"co_op"`
}

// Board records results and reads back the best ones.
type Board interface {
	Record(ctx context.Context, state *models.GameState) error
	Top(ctx context.Context, limit int) ([]Entry, error)
}

// EntryFor builds the entry for a finished date. Unfinished dates and
// F grades are not recorded.
func EntryFor(st *models.GameState) (Entry, bool) {
	if !st.GameOver || st.Ending == models.EndingIck || st.Ending == models.EndingGhosted {
		return Entry{}, false
	}
	return Entry{
		SessionID: st.ID,
		Grade:     st.Ending.Grade(),
		Ending:    string(st.Ending),
		Vibe:      st.Vibe,
		Trust:     st.Trust,
		Tension:   st.Tension,
		Score:     st.Vibe + st.Trust + st.Tension,
		Turns:     st.Turn,
		CoOp:      st.CoOp,
	}, true
}

func normLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return min(limit, 100)
}

// MemoryBoard is a process-local Board.
type MemoryBoard struct {
	mu      sync.Mutex
	entries []Entry
}

func NewMemoryBoard() *MemoryBoard {
	return &MemoryBoard{}
}

func (b *MemoryBoard) Record(_ context.Context, st *models.GameState) error {
	e, ok := EntryFor(st)
	if !ok {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries = append(b.entries, e)
	return nil
}

func (b *MemoryBoard) Top(_ context.Context, limit int) ([]Entry, error) {
	b.mu.Lock()
	out := slices.Clone(b.entries)
	b.mu.Unlock()

	slices.SortStableFunc(out, func(x, y Entry) int {
		return cmp.Compare(y.Score, x.Score)
	})
	if n := normLimit(limit); len(out) > n {
		out = out[:n]
	}
	return out, nil
}
