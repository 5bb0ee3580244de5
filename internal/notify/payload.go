package notify

import (
	"fmt"
	"strings"

	"github.com/vinted-tools/vinted-notifier/internal/vinted"
	domain "github.com/vinted-tools/vinted-notifier/pkg/types"
)

// Discord caps per the webhook API.
const (
	maxTitleLen       = 256
	maxDescriptionLen = 2048
)

// PriceUnavailable is the description sentinel shown when no price could be
// determined for an item.
const PriceUnavailable = "Preço não disponível"

// BuildEmbed maps one normalized item into a Discord embed. Every field is
// best-effort except the title, which always resolves to something.
func BuildEmbed(item *domain.Item, baseURL string) Embed {
	title := item.Title
	if title == "" {
		if raw, ok := item.Raw["name"].(string); ok && raw != "" {
			title = raw
		} else {
			title = fmt.Sprintf("Item #%d", item.ID)
		}
	}

	price := item.Price
	if price == "" {
		price = PriceUnavailable
	}

	size := item.Size
	if size == "" && item.Raw != nil {
		size = vinted.SizeText(item.Raw)
	}

	lines := []string{"**Preço:** " + price}
	if size != "" {
		lines = append(lines, "**Tamanho:** "+size)
	}

	embed := Embed{
		Title:       truncate(title, maxTitleLen),
		URL:         resolveURL(item, baseURL),
		Description: truncate(strings.Join(lines, "\n"), maxDescriptionLen),
	}

	if item.ImageURL != "" {
		embed.Image = &EmbedImage{URL: item.ImageURL}
	}

	if size != "" {
		embed.Fields = append(embed.Fields, EmbedField{Name: "Tamanho", Value: size, Inline: true})
	}
	if price != PriceUnavailable {
		embed.Fields = append(embed.Fields, EmbedField{Name: "Preço", Value: price, Inline: true})
	}

	return embed
}

// resolveURL picks the item link: absolute URLs pass through, relative paths
// join the base domain, and anything else synthesizes the classic
// /items/<id> form.
func resolveURL(item *domain.Item, baseURL string) string {
	base := strings.TrimRight(baseURL, "/")

	switch {
	case strings.HasPrefix(item.URL, "http"):
		return item.URL
	case strings.HasPrefix(item.URL, "/"):
		return base + item.URL
	default:
		return fmt.Sprintf("%s/items/%d", base, item.ID)
	}
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen])
}
