package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/crewbase/core/internal/adapters/memory"
	"github.com/crewbase/core/internal/infrastructure/config"
	"github.com/crewbase/core/internal/infrastructure/logger"
	"github.com/crewbase/core/internal/infrastructure/server"
)

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the Crewbase API server",
		Long:  "Start the Crewbase API server with an in-memory store, optionally seeded with mock crew fixtures",
		Run: func(cmd *cobra.Command, args []string) {
			runServer()
		},
	}
}

// NewFixturesCommand creates the fixtures inspection command
func NewFixturesCommand() *cobra.Command {
	fixturesCmd := &cobra.Command{
		Use:   "fixtures",
		Short: "Mock fixture commands",
		Long:  "Inspect the mock crew fixtures the server seeds at startup",
	}

	fixturesCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Seed a fresh store and print the fixtures as JSON",
		Run: func(cmd *cobra.Command, args []string) {
			dumpFixtures()
		},
	})

	return fixturesCmd
}

func runServer() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Sync()

	srv, err := server.New(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize server", "error", err)
	}

	appLogger.Info("Starting Crewbase API server",
		"port", cfg.Server.Port,
		"environment", cfg.App.Environment,
	)

	if err := srv.Start(fmt.Sprintf(":%d", cfg.Server.Port)); err != nil {
		appLogger.Fatal("Server failed to start", "error", err)
	}
}

func dumpFixtures() {
	users := memory.NewUserStore()
	projects := memory.NewProjectStore()
	activity := memory.NewActivityStore()

	result, err := memory.Seed(context.Background(), users, projects, activity)
	if err != nil {
		log.Fatalf("Failed to seed fixtures: %v", err)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		log.Fatalf("Failed to encode fixtures: %v", err)
	}
}
