package vinted

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_FetchItems_ActorTier(t *testing.T) {
	t.Parallel()

	var gotInput actorInput

	actorSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v2/acts/acts~vinted-scraper/run-sync-get-dataset-items", r.URL.Path)
		assert.Equal(t, "secret", r.URL.Query().Get("token"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotInput))

		_, _ = w.Write([]byte(`[
			{"id": 101, "title": "Coat", "url": "/items/101-coat", "price": "30,00 €"},
			{"item_id": "102", "name": "Hat"}
		]`))
	}))
	defer actorSrv.Close()

	c := NewClient(
		WithActor(actorSrv.URL, "acts~vinted-scraper", "secret"),
		WithAPIHost("http://127.0.0.1:1"), // feed must not be reached
		WithPageSize(5),
	)

	items, err := c.FetchItems(context.Background(), "278727725")
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "278727725", gotInput.UserID)
	assert.Equal(t, 5, gotInput.Limit)

	assert.Equal(t, int64(101), items[0].ID)
	assert.Equal(t, "Coat", items[0].Title)
	assert.Equal(t, "30,00 €", items[0].Price)
	assert.Equal(t, int64(102), items[1].ID)
	assert.Equal(t, "Hat", items[1].Title)
}

func TestClient_FetchItems_ActorWrappedResponse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{name: "items key", body: `{"items": [{"id": 7, "title": "Belt"}]}`},
		{name: "catalog_items key", body: `{"catalog_items": [{"id": 7, "title": "Belt"}]}`},
		{name: "result key", body: `{"result": [{"id": 7, "title": "Belt"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewClient(
				WithActor(srv.URL, "a", "t"),
				WithAPIHost("http://127.0.0.1:1"),
			)
			items, err := c.FetchItems(context.Background(), "1")
			require.NoError(t, err)
			require.Len(t, items, 1)
			assert.Equal(t, int64(7), items[0].ID)
		})
	}
}

func TestClient_FetchItems_ActorFailureFallsThroughToFeed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "actor 500",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "actor garbage body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte("not json"))
			},
		},
		{
			name: "actor empty dataset",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte("[]"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			actorSrv := httptest.NewServer(tt.handler)
			defer actorSrv.Close()

			feedSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(sampleFeed))
			}))
			defer feedSrv.Close()

			c := NewClient(
				WithActor(actorSrv.URL, "a", "t"),
				WithAPIHost(feedSrv.URL),
			)

			items, err := c.FetchItems(context.Background(), "278727725")
			require.NoError(t, err, "actor failure must never surface")
			assert.Len(t, items, 2, "feed tier should have served the items")
		})
	}
}
