package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var periodCmd = &cobra.Command{
	Use:   "period",
	Short: "Open and close accounting periods",
}

var periodStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether the active period is open or closed",
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := app.periods.Status(cmd.Context(), app.cfg.Identity, app.cfg.Period)
		if err != nil {
			return err
		}
		if status.Closed {
			fmt.Printf("Period %s is closed", app.cfg.Period)
			if status.ClosedAt != nil {
				fmt.Printf(" since %s", status.ClosedAt.Format("2006-01-02"))
			}
			fmt.Println(".")
		} else {
			fmt.Printf("Period %s is open.\n", app.cfg.Period)
		}
		return nil
	},
}

var periodCloseCmd = &cobra.Command{
	Use:   "close",
	Short: "Close the active period against modification",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.periods.Close(cmd.Context(), app.cfg.Identity, app.cfg.Period); err != nil {
			return err
		}
		fmt.Printf("Closed period %s.\n", app.cfg.Period)
		return nil
	},
}

var periodReopenCmd = &cobra.Command{
	Use:   "reopen",
	Short: "Reopen the active period for editing",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.periods.Reopen(cmd.Context(), app.cfg.Identity, app.cfg.Period); err != nil {
			return err
		}
		fmt.Printf("Reopened period %s.\n", app.cfg.Period)
		return nil
	},
}

func init() {
	periodCmd.AddCommand(periodStatusCmd, periodCloseCmd, periodReopenCmd)
	rootCmd.AddCommand(periodCmd)
}
