package vinted

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	domain "github.com/vinted-tools/vinted-notifier/pkg/types"
)

// enrichItems performs one best-effort detail lookup per feed item and fills
// in price, size, and image fields the feed could not provide. Existing
// values are never overwritten. Any non-200 response, including
// auth-required ones, means "no enrichment available" and is skipped.
func (c *Client) enrichItems(ctx context.Context, items []domain.Item) {
	for i := range items {
		item := &items[i]
		if item.Hashed {
			// No native ID to look up.
			continue
		}
		if item.Price != "" && item.Size != "" && item.ImageURL != "" {
			continue
		}

		rec, ok := c.fetchItemDetail(ctx, item.ID)
		if !ok {
			continue
		}

		if item.Price == "" {
			item.Price = PriceText(rec)
		}
		if item.Size == "" {
			item.Size = SizeText(rec)
		}
		if item.ImageURL == "" {
			item.ImageURL = ImageURL(rec)
		}
	}
}

func (c *Client) fetchItemDetail(ctx context.Context, itemID int64) (map[string]any, bool) {
	if err := c.pacer.Wait(ctx); err != nil {
		return nil, false
	}

	detailURL := c.apiHost + "/api/v2/items/" + strconv.FormatInt(itemID, 10)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, detailURL, http.NoBody)
	if err != nil {
		return nil, false
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json, text/plain, */*")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug("enrichment request failed", "item", itemID, "error", err)
		return nil, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, false
	}

	var rec map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		c.log.Debug("enrichment response unparseable", "item", itemID, "error", err)
		return nil, false
	}

	// The detail payload is sometimes nested under "item".
	if nested, ok := rec["item"].(map[string]any); ok {
		rec = nested
	}

	return rec, true
}
