package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/tatianab/read-the-room/internal/app"
	"github.com/tatianab/read-the-room/internal/config"
	"github.com/tatianab/read-the-room/internal/engine"
	"github.com/tatianab/read-the-room/internal/llm"
	"github.com/tatianab/read-the-room/internal/models"
)

// maxAttempts bounds retries of a single turn after a model timeout.
const maxAttempts = 3

func main() {
	coOp := flag.Bool("coop", false, "start a co-op date")
	flag.Parse()

	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to create engine: %v", err)
	}
	defer a.Close()

	player := llm.NewPlayer(a.Generator)

	game, err := a.Engine.NewGame(ctx, *coOp)
	if err != nil {
		log.Fatalf("Failed to start game: %v", err)
	}
	fmt.Printf("--- New date %s ---\n\n", game.ID)

	hint := ""
	for !game.GameOver {
		msg, err := player.NextMessage(ctx, game, hint)
		if err != nil {
			log.Fatalf("Player failed: %v", err)
		}

		res, err := submit(ctx, a.Engine, game.ID, msg)
		if err != nil {
			log.Fatalf("Turn failed: %v", err)
		}

		fmt.Printf("--- Turn %d (%s) ---\n", res.Turn.TurnNumber, res.Act)
		fmt.Printf("Player: %s\n", msg)
		if res.Turn.Response != "" {
			fmt.Printf("Chloe: %s\n", res.Turn.Response)
		}
		fmt.Printf("Tags: %s/%s/%s\n", res.Turn.Tags.Intent, res.Turn.Tags.Modifier, res.Turn.Tags.Tone)
		fmt.Printf("Stats: Vibe=%d Trust=%d Tension=%d\n", res.Stats.Vibe, res.Stats.Trust, res.Stats.Tension)
		if res.Turn.IntuitionHint != "" {
			fmt.Printf("Intuition: %s\n", res.Turn.IntuitionHint)
		}
		fmt.Println()

		hint = res.Turn.IntuitionHint
		if game, err = a.Engine.Game(ctx, game.ID); err != nil {
			log.Fatalf("Failed to reload game: %v", err)
		}
	}

	fmt.Printf("Game Ended: %s (%s)\n", game.Ending, game.EndingCause)
	if game.EndingMessage != "" {
		fmt.Println(game.EndingMessage)
	}

	md, err := a.Engine.Breakdown(ctx, game.ID)
	if err != nil {
		log.Fatalf("Failed to build breakdown: %v", err)
	}
	fmt.Println()
	fmt.Println(md)
}

func submit(ctx context.Context, eng *engine.Engine, id, msg string) (*engine.TurnResult, error) {
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		var res *engine.TurnResult
		res, err = eng.SubmitTurn(ctx, id, msg, models.ModeDialogue)
		if err == nil {
			return res, nil
		}
		if !engine.IsRetryable(err) {
			return nil, err
		}
		log.Printf("Attempt %d timed out, retrying: %v", attempt, err)
	}
	return nil, err
}
