package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/Alexico1969/project-stem-grader/internal/app"
)

func main() {
	// Optional .env for local development; environment wins when both set
	if err := godotenv.Load(); err == nil {
		slog.Info("Loaded environment from .env")
	}

	application, err := app.NewApplication(context.Background())
	if err != nil {
		slog.Error("Failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		slog.Error("Application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
