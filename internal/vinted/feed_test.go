package vinted

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>member items</title>
    <item>
      <title>Summer dress</title>
      <link>https://www.vinted.com/items/4061598431-summer-dress</link>
      <description>&lt;p&gt;Great condition, 12,50 €&lt;/p&gt;&lt;img src="https://images.vinted.net/t/abc.jpg"&gt;</description>
    </item>
    <item>
      <title>Mystery item</title>
      <link>https://www.vinted.com/items/no-numeric-segment</link>
      <description>no picture, no price</description>
    </item>
  </channel>
</rss>`

func TestClient_FetchItems_Feed(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/member/278727725/items/feed", r.URL.Path)
		assert.Contains(t, r.Header.Get("Accept"), "application/rss+xml")
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(sampleFeed))
	}))
	defer srv.Close()

	c := NewClient(WithAPIHost(srv.URL))
	items, err := c.FetchItems(context.Background(), "278727725")
	require.NoError(t, err)
	require.Len(t, items, 2)

	first := items[0]
	assert.Equal(t, int64(4061598431), first.ID)
	assert.False(t, first.Hashed)
	assert.Equal(t, "Summer dress", first.Title)
	assert.Equal(t, "https://www.vinted.com/items/4061598431-summer-dress", first.URL)
	assert.Equal(t, "https://images.vinted.net/t/abc.jpg", first.ImageURL)
	assert.Equal(t, "12,50 €", first.Price)

	second := items[1]
	assert.True(t, second.Hashed)
	assert.Positive(t, second.ID)
	assert.Empty(t, second.ImageURL)
	assert.Empty(t, second.Price)
}

func TestClient_FetchItems_FeedHTTPError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(WithAPIHost(srv.URL))
	items, err := c.FetchItems(context.Background(), "278727725")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSourceUnavailable)
	assert.Nil(t, items)
}

func TestClient_FetchItems_FeedMalformed(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>definitely not rss"))
	}))
	defer srv.Close()

	c := NewClient(WithAPIHost(srv.URL))
	_, err := c.FetchItems(context.Background(), "278727725")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedFeed)
}

func TestClient_FetchItems_NetworkError(t *testing.T) {
	t.Parallel()

	c := NewClient(WithAPIHost("http://127.0.0.1:1")) // nothing listening
	_, err := c.FetchItems(context.Background(), "278727725")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSourceUnavailable)
}

func TestItemIDFromLink(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		link   string
		want   int64
		wantOK bool
	}{
		{
			name:   "id with slug",
			link:   "https://www.vinted.com/items/4061598431-summer-dress",
			want:   4061598431,
			wantOK: true,
		},
		{
			name:   "bare id segment",
			link:   "https://www.vinted.com/items/123",
			want:   123,
			wantOK: true,
		},
		{
			name:   "last numeric segment wins",
			link:   "https://www.vinted.com/member/42/items/777-shoes",
			want:   777,
			wantOK: true,
		},
		{name: "no numeric segment", link: "https://www.vinted.com/items/slug-only"},
		{name: "unparseable url", link: "://bad"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := itemIDFromLink(tt.link)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestScanPrice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "amount then euro sign", text: "Nice dress 12,50 € size M", want: "12,50 €"},
		{name: "symbol first", text: "costs €12.50 shipped", want: "€12.50"},
		{name: "dollar", text: "price: $9.99", want: "$9.99"},
		{name: "iso code", text: "asks 45.00 PLN for it", want: "45.00 PLN"},
		{name: "integer amount", text: "only 5 € today", want: "5 €"},
		{name: "no price", text: "lovely but priceless", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, scanPrice(tt.text))
		})
	}
}

func TestErrorsAreDistinct(t *testing.T) {
	t.Parallel()

	assert.False(t, errors.Is(ErrMalformedFeed, ErrSourceUnavailable))
}
