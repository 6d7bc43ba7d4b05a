package scraper

import (
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"
)

// Product is the record extracted from a single product detail page.
// Products are immutable once scraped; the sync side only reads them.
type Product struct {
	Name        string   `json:"name"`
	Price       string   `json:"price"` // raw site format, e.g. "19,99 EUR"
	Description string   `json:"description"`
	CategorySet []string `json:"category_set"` // ordered root to leaf
	ImageURLs   []string `json:"image_urls"`
	EAN         string   `json:"ean"`
}

// Seed is a catalog listing URL from which pagination starts, together with
// the ancestor category names collected while walking the navigation menu.
// Seeds supplied on the command line carry no ancestor path.
type Seed struct {
	URL  string
	Path []string
}

// Config holds the scraper settings.
type Config struct {
	// BaseURL is the site root, fetched to discover catalog links when no
	// explicit CatalogLinks are given.
	BaseURL string

	// CatalogLinks are explicit catalog seeds; when set, menu discovery is
	// skipped entirely.
	CatalogLinks []string

	UserAgent string
	Delay     time.Duration
	Timeout   time.Duration
}

// Scraper crawls the catalog site and accumulates product records.
type Scraper struct {
	cfg   Config
	c     *colly.Collector
	log   *zap.SugaredLogger
	seeds []Seed

	products []Product
}
