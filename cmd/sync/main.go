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
	dataio "github.com/mrKrabsmr/test-task-grabber/pkg/io"
	"github.com/mrKrabsmr/test-task-grabber/pkg/report"
	"github.com/mrKrabsmr/test-task-grabber/pkg/scraper"
	"github.com/mrKrabsmr/test-task-grabber/pkg/shopware"
)

func main() {
	dataDirArg := flag.String("data-dir", "./data", "directory that contains scraped product files")
	reportArg := flag.String("report", "", "write a markdown sync report to this file")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if err := cfg.ValidateShopware(); err != nil {
		log.Fatal(err)
	}

	logger := newLogger(cfg.Debug)
	defer logger.Sync()
	sugar := logger.Sugar()

	loaded, err := dataio.LoadFromDir(*dataDirArg)
	if err != nil {
		sugar.Fatalw("load products", "dir", *dataDirArg, "error", err)
	}
	products := make([]scraper.Product, 0, len(loaded))
	for _, p := range loaded {
		products = append(products, p.Product)
	}
	sugar.Infow("products loaded", "count", len(products), "dir", *dataDirArg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

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
		sugar.Fatalw("app error", "error", err)
	}

	sum, err := client.SendData(ctx, products)
	if err != nil {
		sugar.Fatalw("app error", "error", err)
	}
	sugar.Infow("sync finished",
		"total", sum.Total, "created", sum.Created, "updated", sum.Updated,
		"skipped", sum.Skipped, "failed", sum.Failed)

	if *reportArg != "" {
		f, err := os.Create(*reportArg)
		if err != nil {
			sugar.Fatalw("create report file", "error", err)
		}
		defer f.Close()
		if err := report.Write(f, report.Context{RunDate: time.Now(), Summary: sum}); err != nil {
			sugar.Fatalw("write report", "error", err)
		}
	}
}

func newLogger(debug bool) *zap.Logger {
	if debug {
		logger, _ := zap.NewDevelopment()
		return logger
	}
	logger, _ := zap.NewProduction()
	return logger
}
