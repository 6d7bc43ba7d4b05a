// Package scraper crawls the grow-shop catalog site and turns its listing
// and product pages into Product records.
package scraper

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:109.0) Gecko/20100101 Firefox/115.0"

// Request context keys used to route pages to the right handler.
const (
	ctxKeyKind = "page_kind"
	ctxKeyPath = "category_path"
)

const (
	kindMenu    = "menu"
	kindCatalog = "catalog"
	kindProduct = "product"
)

// New creates a Scraper with its own collector. The collector is not shared
// with the sync side; the only thing that crosses over is the product list.
func New(cfg Config, log *zap.SugaredLogger) (*Scraper, error) {
	if cfg.BaseURL == "" && len(cfg.CatalogLinks) == 0 {
		return nil, errors.New("scraper: either BaseURL or CatalogLinks must be set")
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}

	s := &Scraper{
		cfg: cfg,
		c:   colly.NewCollector(colly.UserAgent(cfg.UserAgent)),
		log: log,
	}

	if cfg.Timeout > 0 {
		s.c.SetRequestTimeout(cfg.Timeout)
	}
	if cfg.Delay > 0 {
		if err := s.c.Limit(&colly.LimitRule{
			DomainGlob:  "*",
			Delay:       cfg.Delay,
			Parallelism: 1,
		}); err != nil {
			return nil, fmt.Errorf("scraper: set rate limit: %w", err)
		}
	}

	for _, link := range cfg.CatalogLinks {
		s.seeds = append(s.seeds, Seed{URL: link})
	}

	s.c.OnRequest(func(r *colly.Request) {
		s.log.Debugw("visiting", "url", r.URL.String())
	})

	s.c.OnHTML("html", func(e *colly.HTMLElement) {
		switch e.Request.Ctx.Get(ctxKeyKind) {
		case kindMenu:
			s.handleMenu(e)
		case kindCatalog:
			s.handleCatalog(e)
		case kindProduct:
			s.handleProduct(e)
		}
	})

	return s, nil
}

// Scrape runs the crawl to completion and returns every product reachable
// from the seeds, in crawl order. A failed seed or product page is logged
// and skipped; only seed discovery failing outright is fatal.
func (s *Scraper) Scrape() ([]Product, error) {
	s.products = nil

	if len(s.seeds) == 0 {
		if err := s.visit(kindMenu, s.cfg.BaseURL, nil); err != nil {
			return nil, fmt.Errorf("discover catalog links: %w", err)
		}
		if len(s.seeds) == 0 {
			s.log.Warnw("no catalog links discovered", "url", s.cfg.BaseURL)
		}
	}

	for _, seed := range s.seeds {
		s.log.Infow("start parsing", "catalog", seed.URL)
		if err := s.visit(kindCatalog, seed.URL, seed.Path); err != nil {
			s.log.Errorw("error when parse catalog | skip", "catalog", seed.URL, "error", err)
			continue
		}
	}

	return s.products, nil
}

// visit fetches a page synchronously; the matching handler runs before the
// call returns, so crawl order is the order of visit calls.
func (s *Scraper) visit(kind, pageURL string, path []string) error {
	ctx := colly.NewContext()
	ctx.Put(ctxKeyKind, kind)
	ctx.Put(ctxKeyPath, path)
	return s.c.Request(http.MethodGet, pageURL, nil, ctx, nil)
}

func (s *Scraper) handleMenu(e *colly.HTMLElement) {
	found := menuSeeds(e.DOM)

	seen := make(map[string]struct{})
	for _, seed := range found {
		u := e.Request.AbsoluteURL(seed.URL)
		if u == "" {
			continue
		}
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		s.seeds = append(s.seeds, Seed{URL: u, Path: seed.Path})
	}

	s.log.Infow("catalog links discovered", "count", len(s.seeds))
}

func (s *Scraper) handleCatalog(e *colly.HTMLElement) {
	pageURL := e.Request.URL.String()

	if isCatalogIndex(e.DOM) {
		s.log.Infow("stop parsing cause it's general page of product catalogs", "url", pageURL)
		return
	}

	title := catalogTitle(e.DOM)
	if title == "" {
		s.log.Errorw("catalog page has no title | skip", "url", pageURL)
		return
	}

	path := ctxPath(e.Request.Ctx)
	categorySet := append(append([]string{}, path...), title)

	for _, link := range productLinks(e.DOM) {
		u := e.Request.AbsoluteURL(link)
		if err := s.visit(kindProduct, u, categorySet); err != nil {
			if errors.Is(err, colly.ErrAlreadyVisited) {
				s.log.Debugw("product already visited", "url", u)
				continue
			}
			s.log.Errorw("error when parse product | skip", "url", u, "error", err)
		}
	}

	s.log.Infow("catalog page parsed", "url", pageURL)

	if next, ok := nextPageURL(e.DOM); ok {
		u := e.Request.AbsoluteURL(next)
		if err := s.visit(kindCatalog, u, path); err != nil {
			s.log.Errorw("error when parse next page | skip", "url", u, "error", err)
		}
	}
}

func (s *Scraper) handleProduct(e *colly.HTMLElement) {
	p, err := parseProduct(e.DOM)
	if err != nil {
		s.log.Errorw("error when parse product | skip", "url", e.Request.URL.String(), "error", err)
		return
	}

	for i, src := range p.ImageURLs {
		p.ImageURLs[i] = e.Request.AbsoluteURL(src)
	}
	p.CategorySet = ctxPath(e.Request.Ctx)

	s.products = append(s.products, p)
}

func ctxPath(ctx *colly.Context) []string {
	if path, ok := ctx.GetAny(ctxKeyPath).([]string); ok {
		return path
	}
	return nil
}
