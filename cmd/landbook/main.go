package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/stwalsh4118/landbook/internal/config"
	"github.com/stwalsh4118/landbook/internal/logger"
)

var (
	cfg *config.Config
	log *logger.Logger
)

var rootCmd = &cobra.Command{
	Use:           "landbook",
	Short:         "Land portfolio API",
	Long:          "Tracks places, contacts, the acquisition pipeline, held properties and their property taxes.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c
		log = logger.New(cfg.Server.Env, cfg.Server.LogLevel)
		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "landbook: %v\n", err)
		os.Exit(1)
	}
}
