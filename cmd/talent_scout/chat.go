package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/talentscout/hiring-assistant/internal/generate"
	"github.com/talentscout/hiring-assistant/internal/ingestion"
	"github.com/talentscout/hiring-assistant/internal/interview"
	"github.com/talentscout/hiring-assistant/internal/llm"
	"github.com/talentscout/hiring-assistant/internal/search"
	"github.com/talentscout/hiring-assistant/internal/store"
	"github.com/talentscout/hiring-assistant/internal/types"
)

var chatResume string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Run an interview in the terminal",
	Long: "Run a complete screening interview interactively against an in-memory store. " +
		"Useful for trying out prompts and protocol changes without a database.",
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVar(&chatResume, "resume", "", "Path to the candidate's resume (pdf, docx, txt)")
	_ = chatCmd.MarkFlagRequired("resume")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	ctx := context.Background()

	client, err := llm.NewGeminiClient(ctx, llm.DefaultConfig(), cfg.APIKey)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer func() { _ = client.Close() }()
	gen := generate.NewLLMGenerator(client)

	f, err := os.Open(chatResume)
	if err != nil {
		return fmt.Errorf("failed to open resume: %w", err)
	}
	text, err := ingestion.ExtractText(f, chatResume)
	_ = f.Close()
	if err != nil {
		return err
	}

	profile, err := gen.ExtractProfile(ctx, text)
	if err != nil {
		return fmt.Errorf("failed to extract profile: %w", err)
	}
	if err := profile.Validate(); err != nil {
		return fmt.Errorf("resume is missing required details: %w", err)
	}

	mem := store.NewMemory()
	if err := mem.SaveCandidate(ctx, profile, text); err != nil {
		return err
	}

	in := bufio.NewScanner(os.Stdin)
	profile, ok := confirmLoop(ctx, gen, mem, in, profile)
	if !ok {
		return nil
	}

	var research search.Researcher
	if cfg.SearchEnabled {
		research = search.NewClient()
	}
	ctrl := interview.NewController(mem, gen, research, cfg.Interview)

	greeting, err := ctrl.Begin(ctx, profile)
	if err != nil {
		return err
	}
	fmt.Printf("\nassistant> %s\n", greeting)

	for {
		fmt.Print("you> ")
		if !in.Scan() {
			return nil
		}
		input := strings.TrimSpace(in.Text())
		if input == "" {
			continue
		}

		reply, err := ctrl.Advance(ctx, profile.Email, input)
		if err != nil {
			return err
		}
		fmt.Printf("assistant> %s\n", reply)

		state, err := ctrl.Status(ctx, profile.Email)
		if err != nil {
			return err
		}
		if state.Phase.Terminal() {
			return nil
		}
	}
}

// confirmLoop shows the extracted profile and applies corrections until the
// candidate confirms. Returns false if input ends before confirmation.
func confirmLoop(ctx context.Context, gen generate.Generator, mem *store.Memory, in *bufio.Scanner, profile *types.CandidateProfile) (*types.CandidateProfile, bool) {
	for {
		fmt.Printf("\nExtracted profile:\n  Name:       %s\n  Email:      %s\n  Phone:      %s\n  Experience: %d years\n  Position:   %s\n  Location:   %s\n  Stack:      %s\n",
			profile.FullName, profile.Email, profile.Phone, profile.YearsExperience,
			profile.DesiredPosition, profile.Location, strings.Join(profile.TechStack, ", "))
		fmt.Print("Does everything look right? (yes / describe a fix)\n> ")
		if !in.Scan() {
			return profile, false
		}
		reply := strings.TrimSpace(in.Text())
		if reply == "" {
			continue
		}

		update, err := gen.ParseProfileUpdate(ctx, reply, profile)
		if err != nil {
			fmt.Println("Sorry, I didn't catch that. Reply \"yes\" or describe the fix.")
			continue
		}
		switch update.Action {
		case generate.UpdateActionConfirm:
			return profile, true
		case generate.UpdateActionUpdate:
			if profile.ApplyCorrection(update.Field, update.Value) {
				if err := mem.UpdateCandidate(ctx, profile); err != nil {
					fmt.Printf("Failed to save the correction: %v\n", err)
				}
			} else {
				fmt.Printf("I can't change %q. I can update your name, phone, position, or location.\n", update.Field)
			}
		default:
			fmt.Println("Sorry, I didn't catch that. Reply \"yes\" or describe the fix.")
		}
	}
}
