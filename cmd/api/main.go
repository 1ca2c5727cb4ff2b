package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/crewbase/core/cmd/api/commands"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "crewbase",
		Short: "Crewbase API Server",
		Long:  `Crewbase is a task and crew communication backend for small trade crews: projects, tasks, subtasks, chat and attachments with per-user activity tracking.`,
	}

	// Add commands
	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewFixturesCommand())

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
