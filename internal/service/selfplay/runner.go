package selfplay

import (
	"context"
	"fmt"
	"sync"

	"github.com/iamasit07/cube4/internal/domain"
	"github.com/iamasit07/cube4/internal/service/bot"
	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"
)

type Config struct {
	Games        int
	Workers      int
	OpeningPlies int
	SideA        bot.Difficulty
	SideB        bot.Difficulty
}

// GameRecord is one finished match. Side A plays first in even games and
// second in odd ones.
type GameRecord struct {
	Index   int               `json:"index"`
	AFirst  bool              `json:"a_first"`
	Opening int               `json:"opening_plies"`
	Moves   []domain.Point    `json:"moves"`
	Status  domain.GameStatus `json:"status"`
	Winner  string            `json:"winner"` // "a", "b" or ""
	Reasons map[string]int    `json:"reasons"`
}

type Summary struct {
	Games   int `json:"games"`
	WinsA   int `json:"wins_a"`
	WinsB   int `json:"wins_b"`
	Draws   int `json:"draws"`
	RatingA int `json:"rating_a"`
	RatingB int `json:"rating_b"`
}

type task struct {
	index int
}

// Run plays cfg.Games matches on a worker pool and calls onGame for each in
// completion order. The summary folds the games in index order so ratings
// do not depend on scheduling.
func Run(ctx context.Context, engine *bot.Engine, cfg Config, onGame func(GameRecord)) (Summary, error) {
	if cfg.Games < 1 {
		return Summary{}, fmt.Errorf("games must be positive, got %d", cfg.Games)
	}
	workers := max(cfg.Workers, 1)

	tasks := make(chan task, cfg.Games)
	results := make(chan GameRecord, cfg.Games)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for t := range tasks {
				if ctx.Err() != nil {
					continue
				}
				rec := PlayGame(ctx, engine, cfg, t.index)
				log.Debug().Str("component", "selfplay").Int("game", t.index).Int("worker", id).Str("winner", rec.Winner).Msg("game finished")
				results <- rec
			}
		}(i)
	}

	for i := 0; i < cfg.Games; i++ {
		tasks <- task{index: i}
	}
	close(tasks)

	go func() {
		wg.Wait()
		close(results)
	}()

	records := make([]*GameRecord, cfg.Games)
	for rec := range results {
		if onGame != nil {
			onGame(rec)
		}
		records[rec.Index] = &rec
	}
	if err := ctx.Err(); err != nil {
		return summarize(records), err
	}
	return summarize(records), nil
}

func summarize(records []*GameRecord) Summary {
	s := Summary{RatingA: domain.InitialRating, RatingB: domain.InitialRating}
	for _, rec := range records {
		if rec == nil {
			continue
		}
		s.Games++
		score := 0.5
		switch rec.Winner {
		case "a":
			s.WinsA++
			score = 1
		case "b":
			s.WinsB++
			score = 0
		default:
			s.Draws++
		}
		s.RatingA, s.RatingB = domain.UpdateRatings(s.RatingA, s.RatingB, score)
	}
	return s
}

// PlayGame plays one match from an optional random opening.
func PlayGame(ctx context.Context, engine *bot.Engine, cfg Config, index int) GameRecord {
	rec := GameRecord{Index: index, AFirst: index%2 == 0, Reasons: make(map[string]int)}
	game := domain.NewGame()

	for rec.Opening < cfg.OpeningPlies && !game.IsFinished() {
		moves := domain.GetValidMoves(&game.Board, domain.OrderRowMajor)
		game.MakeMove(game.CurrentPlayer, moves[frand.Intn(len(moves))])
		rec.Opening++
	}

	for !game.IsFinished() && ctx.Err() == nil {
		difficulty := cfg.SideB
		if (game.CurrentPlayer == domain.Player1) == rec.AFirst {
			difficulty = cfg.SideA
		}
		last, _ := game.LastMove()
		dec := engine.Decide(ctx, bot.Request{
			Board:      game.Board,
			Player:     game.CurrentPlayer,
			LastMove:   &last,
			Difficulty: difficulty,
		})
		if _, err := game.MakeMove(game.CurrentPlayer, dec.Column); err != nil {
			// the engine only returns illegal columns on a full board
			log.Error().Str("component", "selfplay").Err(err).Stringer("column", dec.Column).Msg("engine returned an illegal move")
			break
		}
		rec.Reasons[string(dec.Reason)]++
	}

	rec.Moves = game.Moves
	rec.Status = game.Status
	if game.Status == domain.StatusWon {
		aIsPlayer1 := rec.AFirst
		if (game.Winner == domain.Player1) == aIsPlayer1 {
			rec.Winner = "a"
		} else {
			rec.Winner = "b"
		}
	}
	return rec
}
