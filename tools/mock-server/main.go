// Package main implements a mock Vinted server for local development.
// It serves canned profile wardrobes from a JSON fixture through the three
// surfaces the notifier consumes: the per-member RSS feed, the item detail
// API, and the actor dataset endpoint. No real Vinted account is required.
package main

import (
	"encoding/json"
	"encoding/xml"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"
)

// fixtureData maps a member ID to the raw item records of their wardrobe.
type fixtureData map[string][]map[string]any

type rssDocument struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title string    `xml:"title"`
	Link  string    `xml:"link"`
	Items []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
}

func main() {
	port := flag.Int("port", 8089, "port to listen on")
	fixtureFile := flag.String("fixture", "tools/mock-server/testdata/wardrobes.json", "path to wardrobe fixture")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	fixture, err := loadFixture(*fixtureFile)
	if err != nil {
		logger.Error("failed to load fixture", "path", *fixtureFile, "error", err)
		os.Exit(1)
	}
	logger.Info("loaded fixture", "profiles", len(fixture))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /member/{id}/items/feed", feedHandler(logger, fixture))
	mux.HandleFunc("GET /api/v2/items/{id}", itemHandler(logger, fixture))
	mux.HandleFunc("POST /v2/acts/{actor}/run-sync-get-dataset-items", actorHandler(logger, fixture))

	addr := fmt.Sprintf(":%d", *port)
	logger.Info("starting mock Vinted server", "addr", addr)

	srv := &http.Server{
		Addr:         addr,
		Handler:      requestLogger(logger, mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func loadFixture(path string) (fixtureData, error) {
	data, err := os.ReadFile(path) //nolint:gosec // fixture path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading fixture: %w", err)
	}
	var fixture fixtureData
	if err := json.Unmarshal(data, &fixture); err != nil {
		return nil, fmt.Errorf("parsing fixture: %w", err)
	}
	return fixture, nil
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("request", "method", r.Method, "path", r.URL.Path, "query", r.URL.RawQuery)
		next.ServeHTTP(w, r)
	})
}

func feedHandler(logger *slog.Logger, fixture fixtureData) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		memberID := r.PathValue("id")
		records, ok := fixture[memberID]
		if !ok {
			http.NotFound(w, r)
			return
		}

		doc := rssDocument{
			Version: "2.0",
			Channel: rssChannel{
				Title: "Wardrobe of member " + memberID,
				Link:  "https://www.vinted.com/member/" + memberID,
			},
		}
		for _, rec := range records {
			doc.Channel.Items = append(doc.Channel.Items, feedEntry(rec))
		}

		w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
		//nolint:errcheck // best-effort write to HTTP response in mock server
		w.Write([]byte(xml.Header))
		//nolint:errcheck // best-effort write to HTTP response in mock server
		xml.NewEncoder(w).Encode(doc)
		logger.Info("served feed", "member", memberID, "items", len(records))
	}
}

// feedEntry renders one record the way the live feed does: the description
// carries an img tag and a price line alongside free text.
func feedEntry(rec map[string]any) rssItem {
	item := rssItem{
		Title: stringField(rec, "title"),
		Link:  stringField(rec, "url"),
	}

	desc := ""
	if img := photoURL(rec); img != "" {
		desc += fmt.Sprintf(`<img src="%s" /> `, img)
	}
	if price := priceText(rec); price != "" {
		desc += item.Title + ", " + price
	} else {
		desc += item.Title
	}
	item.Description = desc
	return item
}

func itemHandler(logger *slog.Logger, fixture fixtureData) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			http.Error(w, "bad item id", http.StatusBadRequest)
			return
		}

		for _, records := range fixture {
			for _, rec := range records {
				if idField(rec) == itemID {
					w.Header().Set("Content-Type", "application/json")
					//nolint:errcheck // best-effort write to HTTP response in mock server
					json.NewEncoder(w).Encode(map[string]any{"item": rec})
					logger.Info("served item detail", "item", itemID)
					return
				}
			}
		}
		http.NotFound(w, r)
	}
}

func actorHandler(logger *slog.Logger, fixture fixtureData) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("token") == "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			//nolint:errcheck // best-effort write to HTTP response in mock server
			json.NewEncoder(w).Encode(map[string]string{"error": "token required"})
			return
		}

		// Field names mirror the notifier's actor run input payload.
		var input struct {
			UserID string `json:"userId"`
			Limit  int    `json:"limit"`
		}
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			http.Error(w, "bad input", http.StatusBadRequest)
			return
		}

		records := fixture[input.UserID]
		if input.Limit > 0 && input.Limit < len(records) {
			records = records[:input.Limit]
		}
		// Return empty array instead of null when the member is unknown.
		if records == nil {
			records = []map[string]any{}
		}

		w.Header().Set("Content-Type", "application/json")
		//nolint:errcheck // best-effort write to HTTP response in mock server
		json.NewEncoder(w).Encode(records)
		logger.Info("served actor dataset", "member", input.UserID, "items", len(records))
	}
}

func stringField(rec map[string]any, key string) string {
	s, _ := rec[key].(string)
	return s
}

func idField(rec map[string]any) int64 {
	switch v := rec["id"].(type) {
	case float64:
		return int64(v)
	case string:
		n, _ := strconv.ParseInt(v, 10, 64)
		return n
	default:
		return 0
	}
}

func photoURL(rec map[string]any) string {
	photo, ok := rec["photo"].(map[string]any)
	if !ok {
		return ""
	}
	return stringField(photo, "url")
}

func priceText(rec map[string]any) string {
	price, ok := rec["price"].(map[string]any)
	if !ok {
		return stringField(rec, "price")
	}
	amount := stringField(price, "amount")
	currency := stringField(price, "currency_code")
	if amount == "" {
		return ""
	}
	if currency == "" {
		return amount
	}
	return amount + " " + currency
}
