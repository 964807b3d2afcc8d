package leaderboard

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/supabase-community/postgrest-go"
	supa "github.com/supabase-community/supabase-go"

	"github.com/tatianab/read-the-room/internal/models"
)

// DefaultTable is the Supabase table results are written to.
const DefaultTable = "leaderboard"

// SupabaseRecorder appends results to a Supabase table.
type SupabaseRecorder struct {
	client *supa.Client
	table  string
}

// NewSupabaseRecorder connects to a Supabase project.
func NewSupabaseRecorder(url, key string) (*SupabaseRecorder, error) {
	if url == "" || key == "" {
		return nil, fmt.Errorf("supabase url and key are required")
	}
	client, err := supa.NewClient(url, key, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create supabase client: %w", err)
	}
	return &SupabaseRecorder{client: client, table: DefaultTable}, nil
}

// Record inserts the result of a finished date.
func (r *SupabaseRecorder) Record(_ context.Context, st *models.GameState) error {
	e, ok := EntryFor(st)
	if !ok {
		return nil
	}
	var inserted []Entry
	if _, err := r.client.From(r.table).Insert(e, false, "", "", "").ExecuteTo(&inserted); err != nil {
		return fmt.Errorf("failed to insert leaderboard entry: %w", err)
	}
	slog.Info("leaderboard entry recorded", "session", e.SessionID, "grade", e.Grade, "score", e.Score)
	return nil
}

// Top returns the highest scores first.
func (r *SupabaseRecorder) Top(_ context.Context, limit int) ([]Entry, error) {
	var entries []Entry
	_, err := r.client.From(r.table).
		Select("*", "exact", false).
		Order("score", &postgrest.OrderOpts{Ascending: false}).
		Limit(normLimit(limit), "").
		ExecuteTo(&entries)
	if err != nil {
		return nil, fmt.Errorf("failed to read leaderboard: %w", err)
	}
	return entries, nil
}
