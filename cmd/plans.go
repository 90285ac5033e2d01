package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newPlansCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plans",
		Short: "List your saved travel plans",
		RunE:  runPlans,
	}
}

func runPlans(cmd *cobra.Command, args []string) error {
	plans, err := newClient().ListPlans(context.Background())
	if err != nil {
		return fmt.Errorf("list plans: %w", err)
	}
	if len(plans) == 0 {
		fmt.Println("No saved plans yet. Run `travelagent chat` to make one.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DESTINATION\tSTART\tEND\tSTATUS")
	for _, p := range plans {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.Destination, p.StartDate, p.EndDate, colorStatus(p.Status))
	}
	return w.Flush()
}

func colorStatus(status string) string {
	switch status {
	case "scheduled", "confirmed":
		return color.New(color.FgGreen).Sprint(status)
	case "draft", "pending":
		return color.New(color.FgYellow).Sprint(status)
	default:
		return status
	}
}
