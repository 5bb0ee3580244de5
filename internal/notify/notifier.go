// Package notify formats new listings as Discord embeds and delivers them
// to a webhook in provider-compliant chunks.
package notify

import "context"

// Embed is one rich-message unit as Discord's webhook API expects it.
type Embed struct {
	Title       string       `json:"title"`
	URL         string       `json:"url,omitempty"`
	Description string       `json:"description,omitempty"`
	Image       *EmbedImage  `json:"image,omitempty"`
	Fields      []EmbedField `json:"fields,omitempty"`
}

// EmbedImage references the embed's image.
type EmbedImage struct {
	URL string `json:"url"`
}

// EmbedField is one entry of an embed's structured field list.
type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

// Notifier delivers a batch of embeds. ok reports whether every chunk was
// accepted; when it is false, errMsg carries the most recent failure. A
// failed chunk never prevents the remaining chunks from being attempted.
type Notifier interface {
	SendBatch(ctx context.Context, embeds []Embed) (ok bool, errMsg string)
}
