package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hirosato/bookkeeper/internal/domain/backup"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Export, restore and track data backups",
}

var backupExportCmd = &cobra.Command{
	Use:   "export <file.json>",
	Short: "Export all data for the identity to a JSON bundle",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bundle, err := app.backups.Export(cmd.Context(), app.cfg.Identity)
		if err != nil {
			return err
		}

		data, err := json.MarshalIndent(bundle, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(args[0], data, 0o644); err != nil {
			return err
		}

		if err := app.backups.RecordBackup(cmd.Context()); err != nil {
			return err
		}
		fmt.Printf("Exported %d transaction records to %s\n", len(bundle.Transactions), args[0])
		return nil
	},
}

var backupImportCmd = &cobra.Command{
	Use:   "import <file.json>",
	Short: "Restore data from a previously exported bundle",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		bundle, err := backup.Decode(data)
		if err != nil {
			return err
		}

		if err := app.backups.Import(cmd.Context(), app.cfg.Identity, bundle); err != nil {
			return err
		}
		fmt.Printf("Restored %d transaction records.\n", len(bundle.Transactions))
		return nil
	},
	Args: cobra.ExactArgs(1),
}

var backupStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show how fresh the last backup is",
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := app.ledger.Load(cmd.Context(), app.cfg.Identity, app.cfg.Period)
		if err != nil {
			return err
		}

		status, err := app.backups.Status(cmd.Context(), len(snap.Transactions))
		if err != nil {
			return err
		}

		switch status.State {
		case "never":
			fmt.Println("No backup recorded.")
		default:
			fmt.Printf("Last backup: %s (%d days ago, %s)\n",
				status.LastBackup.Format("2006-01-02"), status.DaysSince, status.State)
		}
		if status.Message != "" {
			fmt.Println(status.Message)
		}
		return nil
	},
}

var backupDismissCmd = &cobra.Command{
	Use:   "dismiss-warning",
	Short: "Dismiss the backup reminder",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.backups.DismissWarning(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Warning dismissed.")
		return nil
	},
}

var backupClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every stored record for the identity",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.backups.ClearAll(cmd.Context(), app.cfg.Identity); err != nil {
			return err
		}
		fmt.Println("All data cleared.")
		return nil
	},
}

func init() {
	backupCmd.AddCommand(backupExportCmd, backupImportCmd, backupStatusCmd, backupDismissCmd, backupClearCmd)
	rootCmd.AddCommand(backupCmd)
}
