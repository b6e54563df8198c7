package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	apiFlag   string
	tokenFlag string
	rootCmd   = &cobra.Command{
		Use:   "beatctl",
		Short: "CLI client for the CampusBeat REST API",
	}
)

func main() {
	rootCmd.PersistentFlags().StringVarP(&apiFlag, "api", "a", "http://localhost:8080", "Beat service base URL")
	rootCmd.PersistentFlags().StringVarP(&tokenFlag, "token", "t", "", "Bearer token (required)")

	feedCmd := &cobra.Command{
		Use:   "feed",
		Short: "Show the discovery feed",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(newClient(), "/api/feed", os.Stdout)
		},
	}
	rootCmd.AddCommand(feedCmd)

	dayCmd := &cobra.Command{
		Use:   "day",
		Short: "Show the calendar for a day",
		RunE: func(cmd *cobra.Command, args []string) error {
			date, _ := cmd.Flags().GetString("date")
			path := "/api/me/calendar"
			if date != "" {
				path += "?date=" + date
			}
			return runGet(newClient(), path, os.Stdout)
		},
	}
	dayCmd.Flags().StringP("date", "d", "", "Day to show (YYYY-MM-DD, default today)")
	rootCmd.AddCommand(dayCmd)

	nowCmd := &cobra.Command{
		Use:   "now",
		Short: "Show the current and next calendar items",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(newClient(), "/api/me/calendar/now", os.Stdout)
		},
	}
	rootCmd.AddCommand(nowCmd)

	conflictsCmd := &cobra.Command{
		Use:   "conflicts <eventId>",
		Short: "Check an event for clashes with your calendar",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(newClient(), "/api/events/"+args[0]+"/conflicts", os.Stdout)
		},
	}
	rootCmd.AddCommand(conflictsCmd)

	addCmd := &cobra.Command{
		Use:   "add <eventId>",
		Short: "Add an event to your calendar",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPost(newClient(), "/api/events/"+args[0]+"/calendar", nil, os.Stdout)
		},
	}
	rootCmd.AddCommand(addCmd)

	updatesCmd := &cobra.Command{
		Use:   "updates",
		Short: "Show the updates inbox",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(newClient(), "/api/me/updates", os.Stdout)
		},
	}
	rootCmd.AddCommand(updatesCmd)

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export your calendar as ICS",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(newClient(), "/api/me/calendar/export.ics", os.Stdout)
		},
	}
	rootCmd.AddCommand(exportCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
