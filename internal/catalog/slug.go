package catalog

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	slugCollapse = regexp.MustCompile(`[^a-z0-9]+`)
	slugTrim     = regexp.MustCompile(`^-+|-+$`)
)

// Slugify derives a URL-safe slug from a product title: diacritics stripped,
// lowercased, runs of non-alphanumerics collapsed to single hyphens. Titles
// with no usable characters fall back to a timestamp token so the slug is
// never empty at submit time.
func Slugify(title string) string {
	stripped, _, err := transform.String(
		transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC),
		title,
	)
	if err != nil {
		stripped = title
	}

	slug := strings.ToLower(stripped)
	slug = slugCollapse.ReplaceAllString(slug, "-")
	slug = slugTrim.ReplaceAllString(slug, "")

	if slug == "" {
		return fmt.Sprintf("product-%d", time.Now().UnixMilli())
	}
	return slug
}

// FallbackSKU fills the SKU field when the vendor leaves it blank. It shares
// no state with the slug fallback.
func FallbackSKU() string {
	return fmt.Sprintf("PRD-%d", time.Now().UnixMilli())
}
