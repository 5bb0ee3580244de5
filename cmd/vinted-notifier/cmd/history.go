package cmd

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/vinted-tools/vinted-notifier/internal/config"
	"github.com/vinted-tools/vinted-notifier/internal/history"
	"github.com/vinted-tools/vinted-notifier/pkg/logger"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect and edit the seen-items history",
}

var historyShowCmd = &cobra.Command{
	Use:   "show [profile-id]",
	Short: "Print tracked profiles and their seen item counts",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openHistoryStore()
		if err != nil {
			return err
		}
		defer store.Close()

		rec, err := store.Load(cmd.Context())
		if err != nil {
			return fmt.Errorf("loading history: %w", err)
		}

		if len(args) == 1 {
			ids, ok := rec[args[0]]
			if !ok {
				return fmt.Errorf("profile %s not in history", args[0])
			}
			for _, id := range ids {
				fmt.Println(id)
			}
			return nil
		}

		profiles := make([]string, 0, len(rec))
		for p := range rec {
			profiles = append(profiles, p)
		}
		sort.Strings(profiles)
		for _, p := range profiles {
			fmt.Printf("%s\t%d items\n", p, len(rec[p]))
		}
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear <profile-id>",
	Short: "Forget all seen items for a profile",
	Long: `Clear removes a profile's entry from the history. The next run will
treat every current listing of that profile as new and notify about all of
them.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openHistoryStore()
		if err != nil {
			return err
		}
		defer store.Close()

		rec, err := store.Load(cmd.Context())
		if err != nil {
			return fmt.Errorf("loading history: %w", err)
		}

		if _, ok := rec[args[0]]; !ok {
			return fmt.Errorf("profile %s not in history", args[0])
		}
		delete(rec, args[0])

		if err := store.Save(cmd.Context(), rec); err != nil {
			return fmt.Errorf("saving history: %w", err)
		}
		fmt.Printf("cleared history for profile %s\n", args[0])
		return nil
	},
}

func openHistoryStore() (history.Store, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	return buildStore(context.Background(), cfg, log)
}

func init() {
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}
