package shopware

import (
	"context"
	"fmt"
)

const (
	standardTaxName    = "Standard rate"
	productMediaFolder = "Product Media"
	searchFieldName    = "name"
	searchFieldSymbol  = "symbol"
)

// searchFn issues an exact-match filtered search against the admin API.
type searchFn func(ctx context.Context, entity string, filter map[string]string) ([]searchHit, error)

// Resolver memoizes name/symbol to remote-ID lookups for the lifetime of a
// run. Each mapping is append-only: an ID resolved once is trusted for the
// rest of the run. Absence is never cached, so an entity created remotely
// mid-run is picked up by the next lookup.
//
// The resolver is not safe for concurrent use; products are synced one at a
// time, so no lookup ever races another.
type Resolver struct {
	search searchFn

	currencies   map[string]string
	categories   map[string]string
	taxes        map[string]string
	mediaFolders map[string]string
}

func newResolver(search searchFn) *Resolver {
	return &Resolver{
		search:       search,
		currencies:   make(map[string]string),
		categories:   make(map[string]string),
		taxes:        make(map[string]string),
		mediaFolders: make(map[string]string),
	}
}

// CurrencyID resolves a currency symbol. An empty ID with a nil error means
// the currency does not exist remotely.
func (r *Resolver) CurrencyID(ctx context.Context, symbol string) (string, error) {
	return r.lookup(ctx, "currency", searchFieldSymbol, symbol, r.currencies)
}

// CategoryID resolves a category name; absence is a valid outcome that
// makes the caller create the category instead.
func (r *Resolver) CategoryID(ctx context.Context, name string) (string, error) {
	return r.lookup(ctx, "category", searchFieldName, name, r.categories)
}

// StandardTaxID resolves the standard tax rate. The rate is expected to
// exist in any configured shop, so absence is an error here.
func (r *Resolver) StandardTaxID(ctx context.Context) (string, error) {
	id, err := r.lookup(ctx, "tax", searchFieldName, standardTaxName, r.taxes)
	if err != nil {
		return "", err
	}
	if id == "" {
		return "", fmt.Errorf("tax %q not found", standardTaxName)
	}
	return id, nil
}

// ProductMediaFolderID resolves the media folder product images are
// uploaded into. Absence yields an empty ID; media is then created without
// a folder target.
func (r *Resolver) ProductMediaFolderID(ctx context.Context) (string, error) {
	return r.lookup(ctx, "media-folder", searchFieldName, productMediaFolder, r.mediaFolders)
}

func (r *Resolver) lookup(ctx context.Context, entity, field, key string, cache map[string]string) (string, error) {
	if id, ok := cache[key]; ok {
		return id, nil
	}

	hits, err := r.search(ctx, entity, map[string]string{field: key})
	if err != nil {
		return "", err
	}
	if len(hits) == 0 {
		return "", nil
	}

	cache[key] = hits[0].ID
	return hits[0].ID, nil
}
