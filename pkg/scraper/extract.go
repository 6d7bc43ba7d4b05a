package scraper

import (
	"errors"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Extractors are pure functions over an already-parsed document: no I/O, no
// scraper state. The selectors match the fixed layout of the catalog site.

var (
	errNoTitle = errors.New("product title not found")
	errNoPrice = errors.New("product price not found")
)

type menuFrame struct {
	list *goquery.Selection
	path []string
}

// menuSeeds walks the nested navigation menu and returns a catalog seed for
// every leaf item that carries a link. A branch item's sub-list is explored
// before its siblings; the branch labels along the way become the seed's
// ancestor path.
func menuSeeds(sel *goquery.Selection) []Seed {
	var seeds []Seed

	var work stack[menuFrame]
	work.push(menuFrame{list: sel.Find("div#mm-dropdown > ul").First()})

	for {
		frame, ok := work.pop()
		if !ok {
			break
		}

		frame.list.ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
			sub := li.ChildrenFiltered("ul").First()
			if sub.Length() == 0 {
				href, exists := li.Find("a").First().Attr("href")
				if exists && href != "" {
					seeds = append(seeds, Seed{URL: href, Path: frame.path})
				}
				return
			}

			path := frame.path
			if label := strings.TrimSpace(li.ChildrenFiltered("a").First().Text()); label != "" {
				path = append(append([]string{}, frame.path...), label)
			}
			work.push(menuFrame{list: sub, path: path})
		})
	}

	return seeds
}

// isCatalogIndex reports whether the page is an overview of catalogs (a
// thumbnail grid) rather than a product listing. Such pages end a seed.
func isCatalogIndex(sel *goquery.Selection) bool {
	return sel.Find("div#plh div.row div.thumbnail a").Length() > 0
}

// catalogTitle returns the listing page's category title.
func catalogTitle(sel *goquery.Selection) string {
	return strings.TrimSpace(sel.Find("h1.title").First().Text())
}

// productLinks returns the product detail links of a listing page, in page
// order.
func productLinks(sel *goquery.Selection) []string {
	var links []string
	sel.Find("a.img-w").Each(func(_ int, a *goquery.Selection) {
		if href, ok := a.Attr("href"); ok && href != "" {
			links = append(links, href)
		}
	})
	return links
}

// nextPageURL returns the pagination target, if the page has one.
func nextPageURL(sel *goquery.Selection) (string, bool) {
	href, ok := sel.Find("li.next a").First().Attr("href")
	if !ok || href == "" {
		return "", false
	}
	return href, true
}

// parseProduct extracts a product record from a detail page. The category
// set is filled in by the caller, which knows the crawl context. Name and
// price are required; everything else may be empty.
func parseProduct(sel *goquery.Selection) (Product, error) {
	name := strings.TrimSpace(sel.Find("h1.product-title").First().Text())
	if name == "" {
		return Product{}, errNoTitle
	}

	price := strings.TrimSpace(sel.Find("strong.price span").First().Text())
	if price == "" {
		return Product{}, errNoPrice
	}

	p := Product{
		Name:        name,
		Price:       price,
		Description: strings.TrimSpace(sel.Find("div.desc").First().Text()),
		EAN:         strings.TrimSpace(sel.Find("li.product-sku span").First().Text()),
	}

	sel.Find("div#gallery img").Each(func(_ int, img *goquery.Selection) {
		if src, ok := img.Attr("src"); ok && src != "" {
			p.ImageURLs = append(p.ImageURLs, src)
		}
	})

	return p, nil
}
