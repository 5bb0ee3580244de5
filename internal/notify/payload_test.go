package notify

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/vinted-tools/vinted-notifier/pkg/types"
)

func TestBuildEmbed(t *testing.T) {
	t.Parallel()

	const base = "https://www.vinted.com"

	tests := []struct {
		name  string
		item  domain.Item
		check func(t *testing.T, e Embed)
	}{
		{
			name: "full item",
			item: domain.Item{
				ID:       4061598431,
				Title:    "Summer dress",
				URL:      "https://www.vinted.com/items/4061598431-summer-dress",
				Price:    "12,50 €",
				Size:     "M",
				ImageURL: "https://images.vinted.net/t/abc.jpg",
			},
			check: func(t *testing.T, e Embed) {
				assert.Equal(t, "Summer dress", e.Title)
				assert.Equal(t, "https://www.vinted.com/items/4061598431-summer-dress", e.URL)
				assert.Contains(t, e.Description, "**Preço:** 12,50 €")
				assert.Contains(t, e.Description, "**Tamanho:** M")
				require.NotNil(t, e.Image)
				assert.Equal(t, "https://images.vinted.net/t/abc.jpg", e.Image.URL)

				fieldMap := map[string]string{}
				for _, f := range e.Fields {
					fieldMap[f.Name] = f.Value
				}
				assert.Equal(t, "M", fieldMap["Tamanho"])
				assert.Equal(t, "12,50 €", fieldMap["Preço"])
			},
		},
		{
			name: "missing title falls back to raw name",
			item: domain.Item{ID: 5, Raw: map[string]any{"name": "Raw name"}},
			check: func(t *testing.T, e Embed) {
				assert.Equal(t, "Raw name", e.Title)
			},
		},
		{
			name: "missing title and name synthesizes placeholder",
			item: domain.Item{ID: 5},
			check: func(t *testing.T, e Embed) {
				assert.Equal(t, "Item #5", e.Title)
			},
		},
		{
			name: "missing price uses sentinel and omits price field",
			item: domain.Item{ID: 6, Title: "No price", Size: "S"},
			check: func(t *testing.T, e Embed) {
				assert.Contains(t, e.Description, PriceUnavailable)
				for _, f := range e.Fields {
					assert.NotEqual(t, "Preço", f.Name)
				}
				// Size field still present.
				require.Len(t, e.Fields, 1)
				assert.Equal(t, "Tamanho", e.Fields[0].Name)
			},
		},
		{
			name: "missing size omits size line and field",
			item: domain.Item{ID: 7, Title: "No size", Price: "5 €"},
			check: func(t *testing.T, e Embed) {
				assert.NotContains(t, e.Description, "Tamanho")
				require.Len(t, e.Fields, 1)
				assert.Equal(t, "Preço", e.Fields[0].Name)
			},
		},
		{
			name: "size recovered from raw record",
			item: domain.Item{
				ID: 8, Title: "Raw size", Price: "5 €",
				Raw: map[string]any{"size": map[string]any{"title": "XL"}},
			},
			check: func(t *testing.T, e Embed) {
				assert.Contains(t, e.Description, "**Tamanho:** XL")
			},
		},
		{
			name: "relative url joined to base",
			item: domain.Item{ID: 9, Title: "Rel", URL: "/items/9-rel"},
			check: func(t *testing.T, e Embed) {
				assert.Equal(t, "https://www.vinted.com/items/9-rel", e.URL)
			},
		},
		{
			name: "missing url synthesized from id",
			item: domain.Item{ID: 10, Title: "NoURL"},
			check: func(t *testing.T, e Embed) {
				assert.Equal(t, "https://www.vinted.com/items/10", e.URL)
			},
		},
		{
			name: "no image leaves embed image nil",
			item: domain.Item{ID: 11, Title: "Flat"},
			check: func(t *testing.T, e Embed) {
				assert.Nil(t, e.Image)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e := BuildEmbed(&tt.item, base)
			tt.check(t, e)
		})
	}
}

func TestBuildEmbed_Truncation(t *testing.T) {
	t.Parallel()

	item := domain.Item{
		ID:    1,
		Title: strings.Repeat("á", 300),
		Size:  strings.Repeat("x", 3000),
		Price: "1 €",
	}

	e := BuildEmbed(&item, "https://www.vinted.com")

	assert.Len(t, []rune(e.Title), 256)
	assert.LessOrEqual(t, len([]rune(e.Description)), 2048)
}
