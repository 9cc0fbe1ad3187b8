// main.go
//
// Entry point for the vocabulary games server.
// Startup order:
//   - Load .env (optional) and set the zerolog level from LOG_LEVEL.
//   - Load the vocabulary (VOCAB_FILE or the embedded dataset).
//   - Open SQLite at DB_PATH and apply embedded migrations.
//   - Build the round registry (with SQLite round history, idle rounds dropped
//     after ROUND_IDLE_TTL) and serve on PORT.

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordplay/assets"
	"github.com/robalobadob/wordplay/internal/database"
	"github.com/robalobadob/wordplay/internal/httpserver"
	"github.com/robalobadob/wordplay/internal/progress"
	"github.com/robalobadob/wordplay/internal/store"
	"github.com/robalobadob/wordplay/internal/words"
)

func main() {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if getEnv("NODE_ENV", "") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	if err := words.Init(); err != nil {
		log.Fatal().Err(err).Msg("failed to load vocabulary")
	}
	bank := words.Default()
	log.Info().Int("words", bank.Total()).Strs("levels", bank.Levels()).Msg("vocabulary loaded")

	db, err := database.Open(getEnv("DB_PATH", "./data/app.db"))
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer db.Close()
	if err := database.Migrate(context.Background(), db, assets.Migrations()); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}

	history := store.NewSQLHistory(db)
	opts := []store.Option{store.WithHistory(history)}
	if d, err := time.ParseDuration(getEnv("ROUND_IDLE_TTL", "")); err == nil && d > 0 {
		opts = append(opts, store.WithIdleTTL(d))
	}
	rounds := store.NewRegistry(opts...)
	defer rounds.Close()

	srv := httpserver.New(httpserver.Deps{
		DB:       db,
		Words:    bank,
		Progress: progress.NewSQLite(db),
		Rounds:   rounds,
		History:  history,
	})

	port := getEnv("PORT", "5175")
	go func() {
		log.Info().Str("port", port).Msg("starting server")
		if err := srv.Start(":" + port); err != nil {
			log.Fatal().Err(err).Msg("server exited")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Info().Msg("shutting down")
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
