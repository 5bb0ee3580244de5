package notify

import (
	"context"
	"log/slog"
)

// NoOpNotifier implements Notifier by logging discarded embeds. It is used
// in dry runs where no webhook is wired.
type NoOpNotifier struct {
	log *slog.Logger
}

// NewNoOpNotifier creates a notifier that discards embeds with a log message.
func NewNoOpNotifier(log *slog.Logger) *NoOpNotifier {
	return &NoOpNotifier{log: log}
}

// SendBatch logs and discards the batch.
func (n *NoOpNotifier) SendBatch(_ context.Context, embeds []Embed) (bool, string) {
	n.log.Info("notifications discarded (dry run)", "count", len(embeds))
	return true, ""
}
