package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vinted-tools/vinted-notifier/internal/metrics"
)

// maxEmbedsPerMessage is Discord's cap on embeds per webhook call.
const maxEmbedsPerMessage = 10

// defaultChunkDelay spaces consecutive webhook calls to stay under Discord's
// rate limits without a retry loop.
const defaultChunkDelay = 400 * time.Millisecond

// DiscordNotifier implements Notifier via a Discord webhook. Delivery is
// best-effort: a failed chunk is reported but never resent, and never stops
// the chunks after it.
type DiscordNotifier struct {
	webhookURL string
	client     *http.Client
	chunkDelay time.Duration
}

// DiscordOption configures a DiscordNotifier.
type DiscordOption func(*DiscordNotifier)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) DiscordOption {
	return func(d *DiscordNotifier) {
		d.client = c
	}
}

// WithChunkDelay overrides the pause between consecutive chunk sends.
func WithChunkDelay(delay time.Duration) DiscordOption {
	return func(d *DiscordNotifier) {
		d.chunkDelay = delay
	}
}

// NewDiscordNotifier creates a notifier posting to the given webhook URL.
func NewDiscordNotifier(webhookURL string, opts ...DiscordOption) *DiscordNotifier {
	d := &DiscordNotifier{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 15 * time.Second},
		chunkDelay: defaultChunkDelay,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// webhookPayload is the Discord webhook JSON structure.
type webhookPayload struct {
	Embeds []Embed `json:"embeds"`
}

// SendBatch posts the embeds in chunks of at most ten per call. All chunks
// are attempted regardless of individual failures; the most recent failure
// message is retained for the summary.
func (d *DiscordNotifier) SendBatch(ctx context.Context, embeds []Embed) (bool, string) {
	ok := true
	var errMsg string

	for start := 0; start < len(embeds); start += maxEmbedsPerMessage {
		end := min(start+maxEmbedsPerMessage, len(embeds))

		metrics.NotifyChunksTotal.Inc()
		if err := d.post(ctx, webhookPayload{Embeds: embeds[start:end]}); err != nil {
			ok = false
			errMsg = err.Error()
			metrics.NotifyFailuresTotal.Inc()
		}

		if end < len(embeds) && d.chunkDelay > 0 {
			select {
			case <-ctx.Done():
				return false, ctx.Err().Error()
			case <-time.After(d.chunkDelay):
			}
		}
	}

	return ok, errMsg
}

func (d *DiscordNotifier) post(ctx context.Context, payload webhookPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling discord payload: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		d.webhookURL,
		bytes.NewReader(body),
	)
	if err != nil {
		return fmt.Errorf("creating discord request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending discord webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, 300))
		if readErr != nil {
			return fmt.Errorf("discord returned %d (body unreadable)", resp.StatusCode)
		}
		return fmt.Errorf("discord returned %d: %s", resp.StatusCode, respBody)
	}

	return nil
}
