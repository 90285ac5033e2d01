package cmd

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/TechTinkerPradhan/Travel-AI-agent/cmd/chat_tui"
	"github.com/TechTinkerPradhan/Travel-AI-agent/pkg/config"
	"github.com/TechTinkerPradhan/Travel-AI-agent/pkg/session"
)

func newChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start the interactive planning session",
		Long: `Opens the chat interface. Type where you want to go, pick between the
itinerary alternatives the planner offers, refine the winner with free-text
change requests, then confirm and schedule it on your calendar.`,
		RunE: runChat,
	}
}

func runChat(cmd *cobra.Command, args []string) error {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return errors.New("chat needs an interactive terminal; use the other subcommands for scripting")
	}

	stateDir, err := config.StateDir()
	if err != nil {
		return err
	}

	sess := session.New()
	pending := session.NewPendingStore(stateDir)
	model := chat_tui.New(cfg, newClient(), sess, pending, log)

	log.WithField("user_id", sess.UserID).Info("chat session starting")

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("chat session failed: %w", err)
	}
	return nil
}
