package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TechTinkerPradhan/Travel-AI-agent/pkg/api"
	"github.com/TechTinkerPradhan/Travel-AI-agent/pkg/session"
)

var (
	prefsBudget      string
	prefsTravelStyle string
	prefsUserID      string
)

func newPreferencesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preferences",
		Short: "Save budget and travel-style preferences",
		Long: `Stores preferences server-side so the planner can bias its suggestions.
Pass --user-id to update an existing session's preferences; otherwise a fresh
id is generated (useful mostly for scripting against a dev backend).`,
		RunE: runPreferences,
	}
	cmd.Flags().StringVar(&prefsBudget, "budget", "", "budget preference (e.g. shoestring, moderate, luxury)")
	cmd.Flags().StringVar(&prefsTravelStyle, "travel-style", "", "travel style (e.g. relaxed, adventurous, cultural)")
	cmd.Flags().StringVar(&prefsUserID, "user-id", "", "session user id to attach the preferences to")
	return cmd
}

func runPreferences(cmd *cobra.Command, args []string) error {
	if prefsBudget == "" && prefsTravelStyle == "" {
		return errors.New("nothing to save: set --budget and/or --travel-style")
	}

	userID := prefsUserID
	if userID == "" {
		userID = session.New().UserID
	}

	err := newClient().SavePreferences(context.Background(), userID, api.Preferences{
		Budget:      prefsBudget,
		TravelStyle: prefsTravelStyle,
	})
	if err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	fmt.Printf("Preferences saved for user %s\n", userID)
	return nil
}
