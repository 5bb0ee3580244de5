// Package domain defines the core business types for vinted-notifier.
package domain

// Item is a normalized Vinted listing as seen by the rest of the
// application, regardless of which source tier produced it. ID is always
// set; every other field is best-effort and may be empty.
type Item struct {
	ID       int64  `json:"id"`
	Title    string `json:"title,omitempty"`
	URL      string `json:"url,omitempty"`
	Price    string `json:"price,omitempty"`
	Size     string `json:"size,omitempty"`
	ImageURL string `json:"image_url,omitempty"`

	// Raw keeps the source record around so later stages can probe fields
	// the normalizer did not map. Nil for feed-derived items.
	Raw map[string]any `json:"-"`

	// Hashed marks an ID derived from the item URL rather than taken from
	// the source. Hashed IDs are skipped by the enrichment tier.
	Hashed bool `json:"-"`
}
