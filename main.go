package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/movies-api/api"
	"github.com/rpupo63/movies-api/config"
	"github.com/rpupo63/movies-api/database"
	"github.com/rpupo63/movies-api/errs"
	"github.com/rpupo63/movies-api/models"
)

func main() {
	// Load environment variables from .env file
	envErr := godotenv.Load()

	cfg := config.New()
	setupLogger(cfg)

	if envErr != nil {
		log.Warn().Err(envErr).Msg("No .env file loaded")
	}
	log.Info().Msg("Initializing app...")

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to database")
	}
	currentDB := database.New(db)
	defer currentDB.Close()

	if config.GetBool(cfg, "GENERATE_MODELS", false) {
		if err := models.GenerateModels(db, config.GetString(cfg, "GENERATE_OUT_PATH", "./generated")); err != nil {
			log.Fatal().Err(err).Msg("Error generating models")
		}
		return
	}

	if config.GetBool(cfg, "GENERATE_COLUMN_REPORT", false) {
		report, err := models.GenerateColumnMismatchReport(db)
		if err != nil {
			log.Fatal().Err(err).Msg("Error generating column report")
		}
		report.Log()
		return
	}

	if config.GetBool(cfg, "AUTO_MIGRATE", true) {
		if err := currentDB.Migrate(); err != nil {
			log.Fatal().Err(err).Msg("Error migrating database")
		}
	}

	if seedFile := config.GetString(cfg, "SEED_FILE", ""); seedFile != "" {
		if err := applySeed(currentDB, seedFile); err != nil {
			var apiErr *errs.ApiErr
			if errors.As(err, &apiErr) {
				log.Fatal().Str("error", apiErr.GetFullError()).Str("seedFile", seedFile).Msg("Error seeding database")
			}
			log.Fatal().Err(err).Str("seedFile", seedFile).Msg("Error seeding database")
		}
	}

	errChannel := make(chan error, 2)

	server, err := api.NewServer(currentDB, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing server")
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(config.GetSeconds(cfg, "SHUTDOWN_TIMEOUT_SECONDS", 30))
}

// setupLogger applies LOG_LEVEL and LOG_FORMAT to the global zerolog logger
func setupLogger(cfg map[string]string) {
	level, err := zerolog.ParseLevel(strings.ToLower(config.GetString(cfg, "LOG_LEVEL", "info")))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if config.GetString(cfg, "LOG_FORMAT", "json") == "console" {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		}).With().Timestamp().Logger()
		return
	}
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
}

func applySeed(db database.Database, path string) error {
	seed, err := database.LoadSeedFile(path)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	_, err = db.Seed(ctx, seed)
	return err
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
