package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/campusbeat/campusbeat/beatservice"
	"github.com/campusbeat/campusbeat/internal/platform/logger"
)

func main() {
	// Local development convenience; a missing .env is not an error.
	_ = godotenv.Load()

	if err := beatservice.Run(); err != nil {
		log := logger.New("beat-service")
		log.Error().Err(err).Msg("service exited with error")
		os.Exit(1)
	}
}
