package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/mrKrabsmr/test-task-grabber/pkg/config"
	dataio "github.com/mrKrabsmr/test-task-grabber/pkg/io"
	"github.com/mrKrabsmr/test-task-grabber/pkg/scraper"
)

func main() {
	dirNameArg := flag.String("dir", "./data", "directory in which to write scraped product files")
	linksArg := flag.String("links", "", "comma-separated links of product catalogs to parse (overrides CATALOG_LINKS)")
	overwriteArg := flag.Bool("overwrite", false, "when false, a new directory is created within the data dir named as the current date and time; otherwise the data dir is cleaned and replaced.")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if *linksArg != "" {
		cfg.CatalogLinks = config.SplitLinks(*linksArg)
	}

	logger := newLogger(cfg.Debug)
	defer logger.Sync()
	sugar := logger.Sugar()

	dirname := *dirNameArg
	if *overwriteArg {
		if err := os.RemoveAll(dirname); err != nil {
			sugar.Fatalw("clean data dir", "error", err)
		}
	} else {
		dirname = filepath.Join(dirname, time.Now().Format("2006-01-02T15-04-05Z-0700"))
	}

	s, err := scraper.New(scraper.Config{
		BaseURL:      cfg.SourceURL,
		CatalogLinks: cfg.CatalogLinks,
		Timeout:      cfg.RequestTimeout,
	}, sugar)
	if err != nil {
		sugar.Fatalw("create scraper", "error", err)
	}

	products, err := s.Scrape()
	if err != nil {
		sugar.Fatalw("grab error", "error", err)
	}

	if err := dataio.SaveToDir(dirname, products); err != nil {
		sugar.Fatalw("write products", "dir", dirname, "error", err)
	}
	sugar.Infow("grab finished", "products", len(products), "dir", dirname)
}

func newLogger(debug bool) *zap.Logger {
	if debug {
		logger, _ := zap.NewDevelopment()
		return logger
	}
	logger, _ := zap.NewProduction()
	return logger
}
