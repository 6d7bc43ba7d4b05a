package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/mrKrabsmr/test-task-grabber/pkg/config"
	"github.com/mrKrabsmr/test-task-grabber/pkg/report"
	"github.com/mrKrabsmr/test-task-grabber/pkg/scraper"
	"github.com/mrKrabsmr/test-task-grabber/pkg/shopware"
)

func main() {
	linksArg := flag.String("links", "", "comma-separated links of product catalogs to parse (overrides CATALOG_LINKS)")
	reportArg := flag.String("report", "", "write a markdown sync report to this file")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if err := cfg.ValidateShopware(); err != nil {
		log.Fatal(err)
	}
	if *linksArg != "" {
		cfg.CatalogLinks = config.SplitLinks(*linksArg)
	}

	logger := newLogger(cfg.Debug)
	defer logger.Sync()
	sugar := logger.Sugar()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, sugar, *reportArg); err != nil {
		sugar.Fatalw("app error", "error", err)
	}
}

func run(ctx context.Context, cfg *config.Config, sugar *zap.SugaredLogger, reportPath string) error {
	s, err := scraper.New(scraper.Config{
		BaseURL:      cfg.SourceURL,
		CatalogLinks: cfg.CatalogLinks,
		Timeout:      cfg.RequestTimeout,
	}, sugar)
	if err != nil {
		return err
	}

	products, err := s.Scrape()
	if err != nil {
		return err
	}
	sugar.Infow("grab finished", "products", len(products))

	client := shopware.New(shopware.Config{
		URL:            cfg.ShopwareURL,
		Username:       cfg.ShopwareUsername,
		Password:       cfg.ShopwarePassword,
		SalesChannelID: cfg.SalesChannelID,
		Timeout:        cfg.RequestTimeout,
	}, sugar)

	client.Start()
	defer client.Stop()

	if err := client.Auth(ctx); err != nil {
		return err
	}

	sum, err := client.SendData(ctx, products)
	if err != nil {
		return err
	}
	sugar.Infow("sync finished",
		"total", sum.Total, "created", sum.Created, "updated", sum.Updated,
		"skipped", sum.Skipped, "failed", sum.Failed)

	if reportPath != "" {
		f, err := os.Create(reportPath)
		if err != nil {
			return err
		}
		defer f.Close()
		return report.Write(f, report.Context{RunDate: time.Now(), Summary: sum})
	}
	return nil
}

func newLogger(debug bool) *zap.Logger {
	if debug {
		logger, _ := zap.NewDevelopment()
		return logger
	}
	logger, _ := zap.NewProduction()
	return logger
}
