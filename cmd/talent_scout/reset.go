package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/talentscout/hiring-assistant/internal/store"
)

var resetCmd = &cobra.Command{
	Use:   "reset <candidate-email>",
	Short: "Wipe a candidate's conversation",
	Long:  "Delete a candidate's conversation state, transcript, answers, and analysis so the interview can be restarted.",
	Args:  cobra.ExactArgs(1),
	RunE:  runReset,
}

func init() {
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required for reset")
	}

	ctx := context.Background()
	pg, err := store.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pg.Close()

	email := args[0]
	if err := pg.Clear(ctx, email); err != nil {
		return fmt.Errorf("failed to reset conversation for %s: %w", email, err)
	}
	fmt.Printf("Conversation for %s cleared.\n", email)
	return nil
}
