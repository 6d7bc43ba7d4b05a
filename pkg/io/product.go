// Package io saves and loads scraped products as one JSON file per product,
// so a crawl can be replayed against the shop without hitting the site
// again.
package io

import (
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	"github.com/mrKrabsmr/test-task-grabber/pkg/scraper"
)

var safeFilenameReplaceRegex = regexp.MustCompile(`[^a-zA-Z0-9-]+`)

// ProductWithPath is a loaded product together with the file it came from.
type ProductWithPath struct {
	scraper.Product
	Path string
}

// SaveToDir writes every product into dir, named after the product. Two
// products whose names sanitize identically overwrite each other; products
// share the name-is-identity assumption with the sync side anyway.
func SaveToDir(dir string, ps []scraper.Product) error {
	if err := os.MkdirAll(dir, os.ModeDir|0755); err != nil {
		return err
	}

	for _, p := range ps {
		name := safeFilenameReplaceRegex.ReplaceAllString(p.Name, "-")
		if err := writeProduct(filepath.Join(dir, name+".json"), p); err != nil {
			return err
		}
	}
	return nil
}

func writeProduct(path string, p scraper.Product) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	return encoder.Encode(p)
}

// LoadFromDir reads every product file under dir, recursively.
func LoadFromDir(dir string) ([]ProductWithPath, error) {
	var ps []ProductWithPath
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			return nil
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		dec := json.NewDecoder(f)
		var p scraper.Product
		if err := dec.Decode(&p); err != nil {
			return err
		}
		ps = append(ps, ProductWithPath{Product: p, Path: path})
		return nil
	})

	if err != nil {
		return ps, err
	}
	return ps, nil
}
