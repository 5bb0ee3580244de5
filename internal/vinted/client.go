// Package vinted retrieves a member's listed items from Vinted. Retrieval is
// layered: an optional structured actor API, the always-available public RSS
// feed, and an optional per-item enrichment call. Only a feed failure is
// surfaced to callers; the other tiers degrade silently.
package vinted

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	domain "github.com/vinted-tools/vinted-notifier/pkg/types"
)

const userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/127.0.0.0 Safari/537.36"

// ErrSourceUnavailable indicates the baseline feed request failed outright.
// The profile's fetch is abandoned; other profiles are unaffected.
var ErrSourceUnavailable = errors.New("vinted feed unavailable")

// ErrMalformedFeed indicates the feed responded but the body was not
// parseable RSS. Treated the same as ErrSourceUnavailable by callers.
var ErrMalformedFeed = errors.New("vinted feed malformed")

// Source defines the interface for retrieving a profile's current items.
type Source interface {
	FetchItems(ctx context.Context, profileID string) ([]domain.Item, error)
}

// Client implements Source as an ordered fallback chain:
// actor API (if configured) -> RSS feed -> per-item enrichment (if enabled).
type Client struct {
	httpClient *http.Client
	apiHost    string
	pageSize   int
	actor      *actorClient
	enrich     bool
	pacer      *Pacer
	log        *slog.Logger
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithAPIHost overrides the default Vinted host used for feed and
// enrichment requests.
func WithAPIHost(host string) Option {
	return func(c *Client) {
		c.apiHost = host
	}
}

// WithPageSize sets the result-count hint passed to the actor tier.
func WithPageSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithActor enables the structured actor tier.
func WithActor(baseURL, actorID, token string) Option {
	return func(c *Client) {
		c.actor = &actorClient{
			baseURL: baseURL,
			actorID: actorID,
			token:   token,
		}
	}
}

// WithEnrichment enables the per-item detail lookup on feed results.
func WithEnrichment(enabled bool) Option {
	return func(c *Client) {
		c.enrich = enabled
	}
}

// WithPacer injects a request pacer shared by all tiers.
func WithPacer(p *Pacer) Option {
	return func(c *Client) {
		c.pacer = p
	}
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// NewClient creates a Vinted item source.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		apiHost:    "https://www.vinted.com",
		pageSize:   20,
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.actor != nil {
		c.actor.httpClient = c.httpClient
		c.actor.pacer = c.pacer
		c.actor.log = c.log
	}
	return c
}

// FetchItems returns the profile's current items. The actor tier is tried
// first when configured; any failure there falls through to the feed. A feed
// failure is the only error callers see.
func (c *Client) FetchItems(ctx context.Context, profileID string) ([]domain.Item, error) {
	if c.actor != nil {
		items, err := c.actor.fetch(ctx, profileID, c.pageSize, c.apiHost)
		// An empty actor dataset defers to the feed: actors sometimes
		// return no records for a wardrobe the feed still lists.
		if err == nil && len(items) > 0 {
			c.log.Debug("actor tier served items", "profile", profileID, "count", len(items))
			return items, nil
		}
		if err != nil {
			c.log.Debug("actor tier failed, falling back to feed",
				"profile", profileID, "error", err)
		}
	}

	items, err := c.fetchFeed(ctx, profileID)
	if err != nil {
		return nil, err
	}

	if c.enrich {
		c.enrichItems(ctx, items)
	}

	return items, nil
}
