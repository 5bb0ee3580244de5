package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var runOpts runFlags

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Poll configured profiles once and notify about new items",
	Long: `Run performs a single polling cycle: fetch the current listings of
every configured profile, compare them against the seen-items history, persist
the updated history, and send one Discord notification batch for whatever is
new. The process exits after the cycle; scheduling is left to cron or the
watch command.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, log, err := setup(&runOpts)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		eng, store, err := buildEngine(ctx, cfg, log, runOpts.dryRun)
		if err != nil {
			return err
		}
		defer store.Close()

		summary, err := eng.Run(ctx)
		if err != nil {
			return fmt.Errorf("run aborted: %w", err)
		}

		log.Info("run complete",
			"run_id", summary.RunID,
			"profiles", summary.Profiles,
			"failed_profiles", summary.FailedProfiles,
			"new_items", summary.NewItems,
			"delivered", summary.Delivered,
		)
		if !summary.Delivered {
			// Partial delivery is not fatal: history already advanced, so
			// missed items stay missed either way. Surface it for operators.
			fmt.Fprintf(os.Stderr, "warning: notification delivery incomplete: %s\n", summary.DeliveryError)
		}
		return nil
	},
}

func init() {
	runOpts.register(runCmd)
	rootCmd.AddCommand(runCmd)
}
