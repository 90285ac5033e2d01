package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/TechTinkerPradhan/Travel-AI-agent/pkg/api"
	"github.com/TechTinkerPradhan/Travel-AI-agent/pkg/config"
)

var (
	cfg config.Config
	log *logrus.Logger
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "travelagent",
		Short: "Terminal client for the conversational travel planner",
		Long: `travelagent talks to the travel-planning backend: chat your way to an
itinerary, pick between alternatives, refine the plan, and schedule it on
your calendar.`,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load()
			if err != nil {
				return err
			}
			log, err = newLogger(cfg)
			return err
		},
	}

	root.AddCommand(newChatCmd())
	root.AddCommand(newPlansCmd())
	root.AddCommand(newPreferencesCmd())
	root.AddCommand(newExportCmd())
	root.AddCommand(newCalendarCmd())
	return root
}

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

// newLogger writes to a file in the state directory. The TUI owns stdout, so
// nothing may log there.
func newLogger(cfg config.Config) (*logrus.Logger, error) {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	dir, err := config.StateDir()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create state directory: %w", err)
	}
	file, err := os.OpenFile(filepath.Join(dir, "travelagent.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	logger.SetOutput(file)
	return logger, nil
}

func newClient() *api.Client {
	return api.New(cfg.BackendURL, cfg.RequestTimeout(), cfg.StatusCacheTTL(), log)
}
