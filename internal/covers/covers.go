// Package covers looks up book cover images on public book-metadata APIs.
package covers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mrlokans/kindle2notion/internal/config"
)

// PlaceholderURL is attached as the page cover when no cover can be found.
const PlaceholderURL = "https://via.placeholder.com/150x200?text=No%20Cover"

const userAgent = "kindle2notion/1.0 (https://github.com/mrlokans/kindle2notion)"

// ErrNotFound indicates the provider returned no result with a usable image.
var ErrNotFound = errors.New("book cover not found")

// Finder resolves a cover image URL for a book. Each call issues at most one
// request to the provider.
type Finder interface {
	LookupCover(ctx context.Context, title, author string) (string, error)
}

// NewFinder returns the Finder for the configured provider name.
func NewFinder(provider string) (Finder, error) {
	switch provider {
	case config.CoverProviderGoogle, "":
		return NewGoogleBooksClient(), nil
	case config.CoverProviderOpenLibrary:
		return NewOpenLibraryClient(), nil
	default:
		return nil, fmt.Errorf("unknown cover provider %q", provider)
	}
}

// secureURL upgrades plain http image links; Notion refuses mixed content covers.
func secureURL(u string) string {
	if strings.HasPrefix(u, "http://") {
		return "https://" + strings.TrimPrefix(u, "http://")
	}
	return u
}
