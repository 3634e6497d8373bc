package scraper

import (
	"context"

	"github.com/williampepple1/price-tracker/internal/config"
)

// Scraper fetches a product page and returns its markup
type Scraper interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// New creates a new scraper based on the configuration
func New(config *config.AppConfig) Scraper {
	if config.Browser.Enabled {
		return NewBrowserScraper(config)
	}
	return NewHTTPScraper(config)
}
