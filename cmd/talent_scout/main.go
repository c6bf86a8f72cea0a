// Package main provides the entry point for the TalentScout hiring assistant.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/talentscout/hiring-assistant/internal/config"
	"github.com/talentscout/hiring-assistant/internal/logger"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "talent_scout",
	Short: "TalentScout interview-screening assistant",
	Long: "TalentScout screens candidates through a multi-phase chat interview, " +
		"scores their answers, and produces hiring recommendations for reviewing managers.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to JSON config file")
}

// loadConfig builds the configuration and initializes logging.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logger.Init(cfg.Log)
	return cfg, nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
