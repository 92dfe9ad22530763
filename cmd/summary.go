package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/energycore/core/energy"
	"github.com/kilianp07/energycore/pkg/export"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Summarise a user's energy logs over a rolling window",
	RunE: func(cmd *cobra.Command, args []string) error {
		user := mustString(cmd, "user")
		if user == "" {
			return fmt.Errorf("--user is required")
		}
		days, _ := cmd.Flags().GetInt("days")
		w := energy.NewWindow(days)

		svc, closeFn, err := openService(cmd.Context())
		if err != nil {
			return err
		}
		defer closeFn()
		rep, err := svc.Engine.EnergySummary(cmd.Context(), user, mustString(cmd, "vehicle"), w)
		if err != nil {
			return err
		}
		return export.WriteJSON(cmd.OutOrStdout(), rep)
	},
}

func init() {
	f := summaryCmd.Flags()
	f.StringP("user", "u", "", "owner of the logs")
	f.String("vehicle", "", "restrict to one vehicle")
	f.Int("days", energy.DefaultWindowDays, "window length in days")
	rootCmd.AddCommand(summaryCmd)
}
