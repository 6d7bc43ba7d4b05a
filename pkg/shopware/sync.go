package shopware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/mrKrabsmr/test-task-grabber/pkg/scraper"
)

// publicVisibility lists a product everywhere on the sales channel.
const publicVisibility = 30

// Summary counts the outcomes of a sync run.
type Summary struct {
	Total   int
	Created int
	Updated int
	Skipped int
	Failed  int
}

// SendData creates or updates every product, one at a time, in the order
// the crawler found them. The token refresh loop runs alongside and is
// cancelled when the loop is done, however it went. Per-product failures
// are logged and skipped; only an authentication failure aborts the run.
func (c *Client) SendData(ctx context.Context, products []scraper.Product) (Summary, error) {
	sum := Summary{Total: len(products)}

	refreshCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	refreshErr := make(chan error, 1)
	go func() {
		refreshErr <- c.refreshLoop(refreshCtx)
	}()

	for i := range products {
		select {
		case err := <-refreshErr:
			if err != nil {
				return sum, fmt.Errorf("token refresh: %w", err)
			}
		default:
		}

		if err := c.sendProduct(ctx, products[i], &sum); err != nil {
			c.log.Errorw("error when create product data | skip",
				"product", products[i].Name, "error", err)
			sum.Failed++
		}
	}

	cancel()
	if err := <-refreshErr; err != nil {
		return sum, fmt.Errorf("token refresh: %w", err)
	}
	return sum, nil
}

func (c *Client) sendProduct(ctx context.Context, p scraper.Product, sum *Summary) error {
	payload, err := c.productPayload(ctx, p)
	if err != nil {
		return err
	}
	if payload == nil {
		// Unknown currency: nothing is sent for this product at all.
		c.log.Infow("skipping product with unknown currency", "product", p.Name, "price", p.Price)
		sum.Skipped++
		return nil
	}

	id, err := c.findProductID(ctx, p.Name)
	if err != nil {
		return err
	}

	var (
		status int
		raw    []byte
	)
	if id == "" {
		c.log.Infow("send create product", "product", p.Name)
		payload.Visibilities = []VisibilityPayload{
			{SalesChannelID: c.cfg.SalesChannelID, Visibility: publicVisibility},
		}
		status, raw, err = c.doJSON(ctx, http.MethodPost, "/api/product", payload, nil)
	} else {
		c.log.Infow("send update product", "product", p.Name, "id", id)
		payload.ProductNumber = ""
		status, raw, err = c.doJSON(ctx, http.MethodPatch, "/api/product/"+id, payload, nil)
	}
	if err != nil {
		return err
	}

	if status != http.StatusNoContent {
		c.log.Errorw("error when send product data",
			"product", p.Name, "status", status, "response", string(raw))
		sum.Failed++
		return nil
	}

	if id == "" {
		sum.Created++
	} else {
		sum.Updated++
	}
	return nil
}

// productPayload builds the outbound representation. A nil payload with a
// nil error means the product's currency is unknown remotely and the
// product must be skipped.
func (c *Client) productPayload(ctx context.Context, p scraper.Product) (*ProductPayload, error) {
	amount, symbol, err := parsePrice(p.Price)
	if err != nil {
		return nil, fmt.Errorf("parse price %q: %w", p.Price, err)
	}

	currencyID, err := c.resolver.CurrencyID(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if currencyID == "" {
		return nil, nil
	}

	if len(p.CategorySet) == 0 {
		return nil, errors.New("product has no category")
	}
	category, err := buildCategoryPayload(ctx, c.resolver, p.CategorySet)
	if err != nil {
		return nil, err
	}

	taxID, err := c.resolver.StandardTaxID(ctx)
	if err != nil {
		return nil, err
	}

	cover, gallery := c.uploadImages(ctx, p)
	if gallery == nil {
		gallery = []MediaRef{}
	}

	return &ProductPayload{
		Name:        p.Name,
		Description: p.Description,
		EAN:         p.EAN,
		Price: []PricePayload{
			{CurrencyID: currencyID, Gross: amount, Net: amount, Linked: true},
		},
		Categories:    []CategoryPayload{*category},
		Cover:         cover,
		Media:         gallery,
		ProductNumber: uuid.NewString(),
		TaxID:         taxID,
		Stock:         0,
	}, nil
}

// findProductID looks a product up by its exact name. The name is the
// idempotency key: a hit means update, a miss means create. Lookups are
// deliberately not cached: a create in this run must be seen by the next.
func (c *Client) findProductID(ctx context.Context, name string) (string, error) {
	hits, err := c.search(ctx, "product", map[string]string{searchFieldName: name})
	if err != nil {
		return "", err
	}
	if len(hits) == 0 {
		return "", nil
	}
	return hits[0].ID, nil
}

// parsePrice splits the site's "<amount> <symbol>" format, e.g. "19,99 EUR".
// The fractional part after the comma is discarded, not rounded; that is
// what the shop has always been fed, so it is kept as-is.
func parsePrice(s string) (float64, string, error) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return 0, "", fmt.Errorf("malformed price: want \"<amount> <symbol>\", got %q", s)
	}

	amount := strings.SplitN(fields[0], ",", 2)[0]
	v, err := strconv.ParseFloat(amount, 64)
	if err != nil {
		return 0, "", fmt.Errorf("malformed amount %q: %w", fields[0], err)
	}
	return v, fields[1], nil
}
