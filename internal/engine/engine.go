// Package engine orchestrates one notification run: fetch each profile's
// items, reconcile against history, persist history, then deliver all
// accumulated notifications in a single pass.
package engine

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/vinted-tools/vinted-notifier/internal/history"
	"github.com/vinted-tools/vinted-notifier/internal/metrics"
	"github.com/vinted-tools/vinted-notifier/internal/notify"
	"github.com/vinted-tools/vinted-notifier/internal/vinted"
)

// Engine wires the item source, history store, and notifier together.
type Engine struct {
	source   vinted.Source
	store    history.Store
	notifier notify.Notifier
	log      *slog.Logger

	profiles []string
	baseURL  string
}

// NewEngine creates an Engine with injected dependencies.
func NewEngine(
	source vinted.Source,
	store history.Store,
	notifier notify.Notifier,
	profiles []string,
	opts ...EngineOption,
) *Engine {
	eng := &Engine{
		source:   source,
		store:    store,
		notifier: notifier,
		profiles: profiles,
		baseURL:  "https://www.vinted.com",
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(eng)
	}
	return eng
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.log = l
	}
}

// WithBaseURL sets the base domain used when constructing item links.
func WithBaseURL(base string) EngineOption {
	return func(e *Engine) {
		e.baseURL = base
	}
}

// RunSummary reports what one run did. A run "succeeds" even when parts of
// it degraded; callers inspect the summary for partial failures.
type RunSummary struct {
	RunID          string
	Profiles       int
	FailedProfiles int
	NewItems       int
	HistorySaved   bool
	Delivered      bool
	DeliveryError  string
}

// Run executes one full cycle. Profiles are processed sequentially; a
// failing profile is logged and skipped, never aborting the others.
// History is persisted before any notification is sent, so a crash between
// the two can only cost a notification, never duplicate one.
func (e *Engine) Run(ctx context.Context) (*RunSummary, error) {
	start := time.Now()
	defer func() {
		metrics.RunDuration.Observe(time.Since(start).Seconds())
	}()

	summary := &RunSummary{
		RunID:    uuid.NewString(),
		Profiles: len(e.profiles),
	}
	log := e.log.With("run_id", summary.RunID)

	rec, err := e.store.Load(ctx)
	if err != nil {
		log.Warn("history unavailable, starting empty", "error", err)
		rec = history.Record{}
	}

	var embeds []notify.Embed

	for _, profileID := range e.profiles {
		if ctx.Err() != nil {
			return summary, ctx.Err()
		}

		log.Info("checking profile", "profile", profileID)

		items, err := e.source.FetchItems(ctx, profileID)
		if err != nil {
			log.Error("fetch failed, skipping profile", "profile", profileID, "error", err)
			metrics.FetchErrorsTotal.WithLabelValues(fetchErrorReason(err)).Inc()
			summary.FailedProfiles++
			continue
		}
		metrics.FetchItemsTotal.Add(float64(len(items)))

		fresh, updated := Reconcile(items, rec[profileID])
		rec[profileID] = updated

		log.Info("profile reconciled",
			"profile", profileID,
			"fetched", len(items),
			"new", len(fresh),
		)
		metrics.NewItemsTotal.Add(float64(len(fresh)))
		summary.NewItems += len(fresh)

		for i := range fresh {
			embeds = append(embeds, notify.BuildEmbed(&fresh[i], e.baseURL))
		}
	}

	// Persist before sending: at-most-once delivery beats re-notifying.
	if err := e.store.Save(ctx, rec); err != nil {
		log.Warn("history not saved, next run may re-notify", "error", err)
	} else {
		summary.HistorySaved = true
	}

	if len(embeds) == 0 {
		summary.Delivered = true
		log.Info("no new items to send")
		return summary, nil
	}

	ok, errMsg := e.notifier.SendBatch(ctx, embeds)
	summary.Delivered = ok
	summary.DeliveryError = errMsg
	if ok {
		log.Info("notifications sent", "count", len(embeds))
	} else {
		log.Error("some notifications failed", "count", len(embeds), "error", errMsg)
	}

	return summary, nil
}

func fetchErrorReason(err error) string {
	switch {
	case errors.Is(err, vinted.ErrMalformedFeed):
		return "malformed"
	case errors.Is(err, vinted.ErrSourceUnavailable):
		return "unavailable"
	default:
		return "other"
	}
}
