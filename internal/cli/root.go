// Package cli implements the bookkeeper command line interface. Commands
// share one appState, wired lazily so flag parsing happens before any
// store is opened.
package cli

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"

	cc "github.com/ivanpirog/coloredcobra"
	"github.com/spf13/cobra"

	"github.com/hirosato/bookkeeper/internal/common/config"
	"github.com/hirosato/bookkeeper/internal/domain/backup"
	"github.com/hirosato/bookkeeper/internal/domain/importer"
	"github.com/hirosato/bookkeeper/internal/domain/ledger"
	"github.com/hirosato/bookkeeper/internal/domain/period"
	"github.com/hirosato/bookkeeper/internal/domain/report"
	"github.com/hirosato/bookkeeper/internal/platform/storage"
	"github.com/hirosato/bookkeeper/internal/platform/storage/memory"
	"github.com/hirosato/bookkeeper/internal/platform/storage/repository"
	"github.com/hirosato/bookkeeper/internal/platform/storage/sqlite"
)

var (
	flagPeriod    string
	flagIdentity  string
	flagDataPath  string
	flagYes       bool
	flagEphemeral bool
)

// appState is the wired application shared by all commands.
type appState struct {
	cfg      *config.Config
	store    storage.Store
	repo     *repository.LedgerRepository
	ledger   *ledger.Service
	periods  *period.Service
	reports  *report.Service
	importer *importer.Service
	backups  *backup.Service
	logger   *slog.Logger
}

var app *appState

var rootCmd = &cobra.Command{
	Use:           "bookkeeper",
	Short:         "Period-scoped bookkeeping for small businesses",
	Long:          "Track income and expenses per monthly period, review transactions,\nclose periods against modification, and produce financial and tax reports.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
}

// setup builds appState from flags and environment. Flags override the
// environment-derived config.
func setup() error {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return err
	}
	if flagIdentity != "" {
		cfg.Identity = flagIdentity
	}
	if flagDataPath != "" {
		cfg.DataPath = flagDataPath
	}
	if flagPeriod != "" {
		if err := config.ValidatePeriod(flagPeriod); err != nil {
			return err
		}
		cfg.Period = flagPeriod
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	var store storage.Store
	if flagEphemeral {
		store = memory.NewStore()
	} else {
		store, err = sqlite.NewStore(cfg.DataPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
	}

	confirm := terminalConfirmer()
	repo := repository.NewLedgerRepository(store, logger)
	ledgerSvc := ledger.NewService(repo, confirm, logger)

	app = &appState{
		cfg:      cfg,
		store:    store,
		repo:     repo,
		ledger:   ledgerSvc,
		periods:  period.NewService(repo, confirm, logger),
		reports:  report.NewService(repo),
		importer: importer.NewService(ledgerSvc, logger),
		backups:  backup.NewService(store, confirm, repo.Invalidate, logger),
		logger:   logger,
	}
	return nil
}

// terminalConfirmer prompts on stdout and reads a y/n answer from stdin.
// The --yes flag turns it into an auto-approver.
func terminalConfirmer() ledger.Confirmer {
	if flagYes {
		return ledger.ConfirmAll
	}
	return ledger.ConfirmerFunc(func(prompt string) bool {
		fmt.Printf("%s [y/N]: ", prompt)
		reader := bufio.NewReader(os.Stdin)
		answer, err := reader.ReadString('\n')
		if err != nil {
			return false
		}
		answer = strings.ToLower(strings.TrimSpace(answer))
		return answer == "y" || answer == "yes"
	})
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagPeriod, "period", "p", "", "accounting period (YYYY-MM, default current month)")
	rootCmd.PersistentFlags().StringVarP(&flagIdentity, "identity", "i", "", "identity owning the data")
	rootCmd.PersistentFlags().StringVar(&flagDataPath, "data", "", "path to the sqlite data file")
	rootCmd.PersistentFlags().BoolVarP(&flagYes, "yes", "y", false, "answer yes to all confirmation prompts")
	rootCmd.PersistentFlags().BoolVar(&flagEphemeral, "ephemeral", false, "keep data in memory only")
}

// Execute runs the CLI.
func Execute() {
	cc.Init(&cc.Config{
		RootCmd:       rootCmd,
		Headings:      cc.HiCyan + cc.Bold + cc.Underline,
		Commands:      cc.HiYellow + cc.Bold,
		Example:       cc.Italic,
		ExecName:      cc.Bold,
		Flags:         cc.Bold,
		FlagsDataType: cc.Italic + cc.HiBlue,
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
