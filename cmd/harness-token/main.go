package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/iamasit07/cube4/internal/config"
	"github.com/iamasit07/cube4/pkg/auth"
	"github.com/iamasit07/cube4/pkg/logging"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	name := flag.String("name", "", "harness name embedded in the token")
	ttl := flag.Duration("ttl", 0, "token lifetime (defaults to HARNESS_TOKEN_TTL)")
	flag.Parse()

	_ = godotenv.Load()
	logging.Setup("warn", "console")

	if *name == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	lifetime := cfg.Auth.TokenTTL
	if *ttl > 0 {
		lifetime = *ttl
	}

	token, err := auth.GenerateHarnessToken(cfg.Auth.JWTSecret, *name, lifetime)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to sign token")
	}
	fmt.Println(token)
	log.Info().Str("harness", *name).Time("expires", time.Now().Add(lifetime)).Msg("token issued")
}
