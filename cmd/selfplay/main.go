package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"sync"

	"github.com/iamasit07/cube4/internal/config"
	"github.com/iamasit07/cube4/internal/service/bot"
	"github.com/iamasit07/cube4/internal/service/selfplay"
	"github.com/iamasit07/cube4/pkg/logging"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	games := flag.Int("games", 10, "number of games to play")
	workers := flag.Int("workers", runtime.NumCPU(), "number of parallel games")
	opening := flag.Int("opening", 2, "random plies played before the engines take over")
	sideA := flag.String("a", "hard", "difficulty of side A (easy, medium, hard)")
	sideB := flag.String("b", "medium", "difficulty of side B (easy, medium, hard)")
	output := flag.String("output", "", "write one JSON line per game to this file")
	logLevel := flag.String("log-level", "info", "log level")
	flag.Parse()

	_ = godotenv.Load()
	logging.Setup(*logLevel, "console")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	opts, err := cfg.Search.EngineOptions()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid search settings")
	}
	// games already run in parallel
	opts.Parallel = false
	engine, err := bot.NewEngine(opts)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build engine")
	}

	var mu sync.Mutex
	var enc *json.Encoder
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			log.Fatal().Err(err).Str("path", *output).Msg("failed to create output file")
		}
		defer f.Close()
		enc = json.NewEncoder(f)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	run := selfplay.Config{
		Games:        *games,
		Workers:      *workers,
		OpeningPlies: *opening,
		SideA:        bot.ParseDifficulty(*sideA),
		SideB:        bot.ParseDifficulty(*sideB),
	}
	log.Info().Int("games", run.Games).Int("workers", run.Workers).
		Str("a", string(run.SideA)).Str("b", string(run.SideB)).Msg("starting self-play")

	summary, err := selfplay.Run(ctx, engine, run, func(rec selfplay.GameRecord) {
		mu.Lock()
		defer mu.Unlock()
		log.Info().Int("game", rec.Index).Str("status", string(rec.Status)).Str("winner", rec.Winner).
			Int("moves", len(rec.Moves)).Msg("game finished")
		if enc != nil {
			if err := enc.Encode(rec); err != nil {
				log.Error().Err(err).Msg("failed to write game record")
			}
		}
	})
	if err != nil {
		log.Warn().Err(err).Msg("self-play interrupted")
	}

	fmt.Printf("games=%d a(%s) wins=%d b(%s) wins=%d draws=%d elo a=%d b=%d\n",
		summary.Games, run.SideA, summary.WinsA, run.SideB, summary.WinsB, summary.Draws,
		summary.RatingA, summary.RatingB)
}
