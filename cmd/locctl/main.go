package main

import (
	"location-tracker-service/cmd/locctl/command"
	"log/slog"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found (using environment variables)")
	}

	command.Execute()
}
