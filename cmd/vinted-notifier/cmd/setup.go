package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vinted-tools/vinted-notifier/internal/config"
	"github.com/vinted-tools/vinted-notifier/internal/engine"
	"github.com/vinted-tools/vinted-notifier/internal/history"
	"github.com/vinted-tools/vinted-notifier/internal/notify"
	"github.com/vinted-tools/vinted-notifier/internal/vinted"
	"github.com/vinted-tools/vinted-notifier/pkg/logger"
)

// runFlags holds the flag values shared by run and watch. Flags override the
// config file; environment variables fill remaining gaps, matching how the
// tool is driven from CI schedulers.
type runFlags struct {
	users       string
	webhook     string
	baseURL     string
	perPage     int
	historyFile string
	dryRun      bool
}

func (f *runFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.users, "users", "",
		"comma-separated Vinted member IDs (env VINTED_USERS)")
	cmd.Flags().StringVar(&f.webhook, "webhook", "",
		"Discord webhook URL (env DISCORD_WEBHOOK)")
	cmd.Flags().StringVar(&f.baseURL, "base-url", "",
		"base URL for item links (env VINTED_BASE_URL)")
	cmd.Flags().IntVar(&f.perPage, "per-page", 0,
		"items per structured-source call (env VINTED_PER_PAGE)")
	cmd.Flags().StringVar(&f.historyFile, "history-file", "",
		"path of the seen-items JSON file")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false,
		"fetch and reconcile but discard notifications")
}

// apply folds flags and environment fallbacks into the loaded config.
func (f *runFlags) apply(cfg *config.Config) {
	if f.users != "" {
		cfg.Profiles = config.ParseProfiles(f.users)
	} else if len(cfg.Profiles) == 0 {
		cfg.Profiles = config.ParseProfiles(os.Getenv("VINTED_USERS"))
	}

	if f.webhook != "" {
		cfg.Notifications.Discord.WebhookURL = f.webhook
	} else if cfg.Notifications.Discord.WebhookURL == "" {
		cfg.Notifications.Discord.WebhookURL = os.Getenv("DISCORD_WEBHOOK")
	}

	if f.baseURL != "" {
		cfg.Vinted.BaseURL = f.baseURL
	} else if env := os.Getenv("VINTED_BASE_URL"); env != "" && cfg.Vinted.BaseURL == "https://www.vinted.com" {
		cfg.Vinted.BaseURL = env
	}

	if f.perPage > 0 {
		cfg.Vinted.PerPage = f.perPage
	} else if env := os.Getenv("VINTED_PER_PAGE"); env != "" {
		if n, err := strconv.Atoi(env); err == nil && n > 0 {
			cfg.Vinted.PerPage = n
		}
	}

	if f.historyFile != "" {
		cfg.History.Path = f.historyFile
	}
}

// setup loads the config, applies overrides, and validates the one fatal
// precondition: a notification destination must exist before any work runs.
func setup(flags *runFlags) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	flags.apply(cfg)

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	if !flags.dryRun && cfg.Notifications.Discord.WebhookURL == "" {
		return nil, nil, fmt.Errorf(
			"no Discord webhook configured: set --webhook, notifications.discord.webhook_url, or DISCORD_WEBHOOK")
	}

	if len(cfg.Profiles) == 0 {
		return nil, nil, fmt.Errorf(
			"no profiles configured: set --users, profiles in the config file, or VINTED_USERS")
	}

	return cfg, log, nil
}

// buildEngine wires the source, history store, and notifier from config.
// The caller owns the returned store and must Close it.
func buildEngine(
	ctx context.Context,
	cfg *config.Config,
	log *slog.Logger,
	dryRun bool,
) (*engine.Engine, history.Store, error) {
	store, err := buildStore(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}

	httpClient := &http.Client{Timeout: cfg.Vinted.Timeout}

	sourceOpts := []vinted.Option{
		vinted.WithHTTPClient(httpClient),
		vinted.WithAPIHost(cfg.Vinted.APIHost),
		vinted.WithPageSize(cfg.Vinted.PerPage),
		vinted.WithPacer(vinted.NewPacer(cfg.Vinted.RateLimit.PerSecond, cfg.Vinted.RateLimit.Burst)),
		vinted.WithEnrichment(cfg.Vinted.Enrich),
		vinted.WithLogger(log),
	}
	if cfg.Vinted.Actor.Enabled() {
		sourceOpts = append(sourceOpts, vinted.WithActor(
			cfg.Vinted.Actor.BaseURL,
			cfg.Vinted.Actor.ActorID,
			cfg.Vinted.Actor.Token,
		))
	}
	source := vinted.NewClient(sourceOpts...)

	var notifier notify.Notifier
	if dryRun {
		notifier = notify.NewNoOpNotifier(log)
	} else {
		notifier = notify.NewDiscordNotifier(
			cfg.Notifications.Discord.WebhookURL,
			notify.WithHTTPClient(httpClient),
			notify.WithChunkDelay(cfg.Notifications.ChunkDelay),
		)
	}

	eng := engine.NewEngine(
		source, store, notifier, cfg.Profiles,
		engine.WithBaseURL(cfg.Vinted.BaseURL),
		engine.WithLogger(log),
	)

	return eng, store, nil
}

func buildStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (history.Store, error) {
	switch cfg.History.Backend {
	case "postgres":
		store, err := history.NewPostgresStore(ctx, cfg.History.DSN)
		if err != nil {
			return nil, fmt.Errorf("connecting history database: %w", err)
		}
		if err := store.Migrate(ctx); err != nil {
			store.Close()
			return nil, fmt.Errorf("migrating history database: %w", err)
		}
		return store, nil
	default:
		return history.NewFileStore(cfg.History.Path, history.WithFileLogger(log)), nil
	}
}
