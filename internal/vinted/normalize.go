package vinted

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"

	domain "github.com/vinted-tools/vinted-notifier/pkg/types"
)

// Field name priority lists for the loosely-typed actor and enrichment
// payloads. Vinted-adjacent providers disagree on naming, so each attribute
// is probed through a fixed chain.
var (
	idKeys        = []string{"id", "item_id", "itemId"}
	titleKeys     = []string{"title", "name"}
	urlKeys       = []string{"url", "item_url", "link"}
	amountKeys    = []string{"price_numeric", "price_amount", "amount", "total_item_price"}
	currencyKeys  = []string{"currency", "currency_code", "price_currency"}
	sizeKeys      = []string{"size_title", "size_label", "size_text", "brand_size", "size"}
	sizeObjKeys   = []string{"title", "label", "name"}
	imageObjKeys  = []string{"photo", "image"}
	imageListKeys = []string{"photos", "images"}
)

// NormalizeRecord converts one duck-typed source record into a domain Item.
// Returns false when the record carries neither a usable ID nor a URL to
// derive one from.
func NormalizeRecord(rec map[string]any) (domain.Item, bool) {
	item := domain.Item{
		Title:    stringField(rec, titleKeys...),
		URL:      stringField(rec, urlKeys...),
		Price:    PriceText(rec),
		Size:     SizeText(rec),
		ImageURL: ImageURL(rec),
		Raw:      rec,
	}

	if id, ok := idField(rec); ok {
		item.ID = id
	} else if item.URL != "" {
		item.ID = HashID(item.URL)
		item.Hashed = true
	} else {
		return domain.Item{}, false
	}

	return item, true
}

// HashID derives a deterministic positive identifier from a canonical URL,
// for sources that expose no native numeric ID. FNV-1a 64 masked to 63 bits
// keeps the full hash width while staying positive in int64.
func HashID(url string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(url))
	id := int64(h.Sum64() & (1<<63 - 1))
	if id == 0 {
		id = 1
	}
	return id
}

func idField(rec map[string]any) (int64, bool) {
	for _, key := range idKeys {
		switch v := rec[key].(type) {
		case float64:
			if v > 0 {
				return int64(v), true
			}
		case int64:
			if v > 0 {
				return v, true
			}
		case int:
			if v > 0 {
				return int64(v), true
			}
		case string:
			if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil && n > 0 {
				return n, true
			}
		}
	}
	return 0, false
}

func stringField(rec map[string]any, keys ...string) string {
	for _, key := range keys {
		if s, ok := rec[key].(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				return s
			}
		}
	}
	return ""
}

// PriceText resolves a display price: a pre-formatted "price" string wins,
// then a numeric amount plus a currency code formatted to two decimals.
// Empty when the record has neither.
func PriceText(rec map[string]any) string {
	if s, ok := rec["price"].(string); ok {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	// Some providers nest price as {amount, currency_code}.
	if obj, ok := rec["price"].(map[string]any); ok {
		if amount, aok := numericField(obj, "amount"); aok {
			if currency := stringField(obj, currencyKeys...); currency != "" {
				return fmt.Sprintf("%.2f %s", amount, currency)
			}
		}
	}

	amount, ok := numericField(rec, amountKeys...)
	if !ok {
		return ""
	}
	currency := stringField(rec, currencyKeys...)
	if currency == "" {
		return ""
	}
	return fmt.Sprintf("%.2f %s", amount, currency)
}

func numericField(rec map[string]any, keys ...string) (float64, bool) {
	for _, key := range keys {
		switch v := rec[key].(type) {
		case float64:
			return v, true
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

// SizeText resolves the item size. Flat string keys are probed first, then
// a nested size object with title/label/name sub-keys.
func SizeText(rec map[string]any) string {
	if s := stringField(rec, sizeKeys...); s != "" {
		return s
	}
	if obj, ok := rec["size"].(map[string]any); ok {
		if s := stringField(obj, sizeObjKeys...); s != "" {
			return s
		}
	}
	return ""
}

// ImageURL resolves the primary image: photo/image objects with a url field,
// then the first entry of a photos/images array.
func ImageURL(rec map[string]any) string {
	for _, key := range imageObjKeys {
		if obj, ok := rec[key].(map[string]any); ok {
			if u, uok := obj["url"].(string); uok && u != "" {
				return u
			}
		}
	}
	for _, key := range imageListKeys {
		list, ok := rec[key].([]any)
		if !ok || len(list) == 0 {
			continue
		}
		if obj, ok := list[0].(map[string]any); ok {
			if u, uok := obj["url"].(string); uok && u != "" {
				return u
			}
		}
	}
	return ""
}
