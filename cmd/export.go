package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/TechTinkerPradhan/Travel-AI-agent/pkg/calendar"
)

var (
	exportItineraryFile string
	exportStartDate     string
	exportOutFile       string
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export an itinerary's events as an .ics file",
		Long: `Asks the backend to break the itinerary into day-by-day events for the
given start date, then writes them as an iCal file you can import into any
calendar — no OAuth required.

Example:
  travelagent export -i kyoto.txt -s 2026-09-01 -o kyoto.ics`,
		RunE: runExport,
	}
	cmd.Flags().StringVarP(&exportItineraryFile, "itinerary", "i", "", "file holding the itinerary text, or - for stdin (required)")
	cmd.Flags().StringVarP(&exportStartDate, "start", "s", "", "trip start date, YYYY-MM-DD (required)")
	cmd.Flags().StringVarP(&exportOutFile, "out", "o", "itinerary.ics", "output .ics path")
	cmd.MarkFlagRequired("itinerary")
	cmd.MarkFlagRequired("start")
	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	start, err := time.Parse("2006-01-02", exportStartDate)
	if err != nil {
		return fmt.Errorf("start date must be YYYY-MM-DD: %w", err)
	}

	itinerary, err := readItinerary(exportItineraryFile)
	if err != nil {
		return err
	}

	events, err := newClient().PreviewEvents(context.Background(), itinerary, exportStartDate)
	if err != nil {
		return fmt.Errorf("fetch preview: %w", err)
	}

	ics, err := calendar.BuildICS(events, start)
	if err != nil {
		return err
	}
	if err := os.WriteFile(exportOutFile, []byte(ics), 0644); err != nil {
		return fmt.Errorf("write %s: %w", exportOutFile, err)
	}
	fmt.Printf("Wrote %d events to %s\n", len(events), exportOutFile)
	return nil
}

func readItinerary(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read itinerary from stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read itinerary file: %w", err)
	}
	return string(data), nil
}
