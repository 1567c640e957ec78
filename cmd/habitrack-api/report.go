package main

import (
	"encoding/json"
	"fmt"

	"github.com/JonnyWalker81/habitrack/backend/internal/service"
	"github.com/spf13/cobra"
)

var reportUser string

var reportCmd = &cobra.Command{
	Use:   "report <habit-id>",
	Short: "Print a habit's tracking report",
	Long:  `Compute the streak and progress report for one habit and print it as JSON.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportUser, "user", "", "Owner of the habit (required)")
	reportCmd.MarkFlagRequired("user")
}

func runReport(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	report, err := service.NewTrackingService(a.stores, a.settings()).
		GetComprehensiveReport(cmd.Context(), reportUser, args[0])
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
