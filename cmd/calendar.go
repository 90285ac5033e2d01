package cmd

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newCalendarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Calendar authorization helpers",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show whether calendar access is authorized",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := newClient().CalendarStatus(context.Background(), true)
			if err != nil {
				return fmt.Errorf("check calendar status: %w", err)
			}
			if status.Authenticated {
				fmt.Println(color.New(color.FgGreen).Sprint("authorized"))
			} else {
				fmt.Println(color.New(color.FgYellow).Sprint("not authorized"))
				fmt.Println("Authorize at:", newClient().AuthURL())
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "auth-url",
		Short: "Print the OAuth authorization URL",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(newClient().AuthURL())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "logout",
		Short: "Print the calendar logout URL",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(newClient().LogoutURL())
			return nil
		},
	})

	return cmd
}
