package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugifyStripsDiacriticsAndPunctuation(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Café Déluxe!!", "cafe-deluxe"},
		{"Hello World", "hello-world"},
		{"  Wool & Linen -- Throw  ", "wool-linen-throw"},
		{"Ürün Çeşidi", "urun-cesidi"},
		{"UPPER case 123", "upper-case-123"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.title), "Slugify(%q)", tt.title)
	}
}

func TestSlugifySymbolOnlyTitleFallsBack(t *testing.T) {
	slug := Slugify("!!!")
	assert.NotEmpty(t, slug)
	assert.True(t, strings.HasPrefix(slug, "product-"), "expected fallback token, got %q", slug)
}

func TestFallbackSKUShape(t *testing.T) {
	sku := FallbackSKU()
	assert.True(t, strings.HasPrefix(sku, "PRD-"), "expected PRD prefix, got %q", sku)
}
