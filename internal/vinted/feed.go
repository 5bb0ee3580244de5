package vinted

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	domain "github.com/vinted-tools/vinted-notifier/pkg/types"
)

// rssDocument models the subset of the member items feed we consume.
type rssDocument struct {
	XMLName xml.Name   `xml:"rss"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Items []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
}

var (
	imgSrcRe = regexp.MustCompile(`img src="([^"]+)"`)

	// Currency-amount scan over title+description. Matches symbol-first
	// ("€ 12,50", "$12.50") and amount-first ("12.50 EUR", "19,99 €") forms.
	priceRe = regexp.MustCompile(
		`(?:[€$£]\s?\d+(?:[.,]\d{1,2})?)|(?:\d+(?:[.,]\d{1,2})?\s?(?:[€$£]|EUR|USD|GBP|PLN|CZK|HUF|SEK|DKK|RON|BGN))`,
	)
)

// fetchFeed retrieves the profile's public RSS item feed. This is the
// guaranteed-available baseline: an HTTP error surfaces ErrSourceUnavailable
// and an unparseable body surfaces ErrMalformedFeed.
func (c *Client) fetchFeed(ctx context.Context, profileID string) ([]domain.Item, error) {
	if err := c.pacer.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSourceUnavailable, err)
	}

	feedURL := c.apiHost + "/member/" + url.PathEscape(profileID) + "/items/feed"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating feed request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/rss+xml, application/xml;q=0.9, */*;q=0.8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrSourceUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %s", ErrSourceUnavailable, err)
	}

	var doc rssDocument
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedFeed, err)
	}

	items := make([]domain.Item, 0, len(doc.Channel.Items))
	for i := range doc.Channel.Items {
		items = append(items, feedItem(&doc.Channel.Items[i]))
	}
	return items, nil
}

func feedItem(entry *rssItem) domain.Item {
	item := domain.Item{
		Title: strings.TrimSpace(entry.Title),
		URL:   strings.TrimSpace(entry.Link),
	}

	if id, ok := itemIDFromLink(item.URL); ok {
		item.ID = id
	} else {
		item.ID = HashID(item.URL)
		item.Hashed = true
	}

	if m := imgSrcRe.FindStringSubmatch(entry.Description); m != nil {
		item.ImageURL = m[1]
	}

	item.Price = scanPrice(entry.Title + " " + entry.Description)

	return item
}

// itemIDFromLink extracts the item's numeric ID from its URL path. Vinted
// item links embed the ID as the leading digits of a path segment, e.g.
// /items/4061598431-summer-dress.
func itemIDFromLink(link string) (int64, bool) {
	u, err := url.Parse(link)
	if err != nil {
		return 0, false
	}

	var id int64
	var found bool
	for _, segment := range strings.Split(u.Path, "/") {
		digits := leadingDigits(segment)
		if digits == "" {
			continue
		}
		n, err := strconv.ParseInt(digits, 10, 64)
		if err != nil || n == 0 {
			continue
		}
		id = n
		found = true
	}
	return id, found
}

func leadingDigits(s string) string {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	return s[:end]
}

func scanPrice(text string) string {
	return strings.TrimSpace(priceRe.FindString(text))
}
