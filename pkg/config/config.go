// Package config loads the grabber settings from the environment. A .env
// file in the working directory is honoured when present.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Defaults point at the shops the grabber was built for; override them with
// SHOPWARE_URL / SOURCE_URL.
const (
	defaultShopwareURL = "https://raul.testshop193.com"
	defaultSourceURL   = "https://www.grow-shop24.de"
	defaultTimeout     = 30 * time.Second
)

// Config is the process configuration.
type Config struct {
	// ShopwareURL is the target shop base URL.
	ShopwareURL string
	// ShopwareUsername / ShopwarePassword are the admin API credentials.
	ShopwareUsername string
	ShopwarePassword string
	// SalesChannelID is stamped onto created products.
	SalesChannelID string

	// SourceURL is the catalog site root.
	SourceURL string
	// CatalogLinks are explicit catalog seeds, skipping menu discovery.
	CatalogLinks []string

	RequestTimeout time.Duration
	Debug          bool
}

// Load reads the environment (and .env, if any) into a Config.
func Load() (*Config, error) {
	// A missing .env is fine; the environment may be set directly.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("shopware_url", defaultShopwareURL)
	v.SetDefault("source_url", defaultSourceURL)
	v.SetDefault("request_timeout", defaultTimeout)

	cfg := &Config{
		ShopwareURL:      strings.TrimRight(v.GetString("shopware_url"), "/"),
		ShopwareUsername: v.GetString("shopware_username"),
		ShopwarePassword: v.GetString("shopware_password"),
		SalesChannelID:   v.GetString("sales_channel_id"),
		SourceURL:        v.GetString("source_url"),
		CatalogLinks:     SplitLinks(v.GetString("catalog_links")),
		RequestTimeout:   v.GetDuration("request_timeout"),
		Debug:            v.GetBool("debug"),
	}
	return cfg, nil
}

// ValidateShopware checks the settings the sync side cannot run without.
// The grab-only command skips this.
func (c *Config) ValidateShopware() error {
	if c.ShopwareUsername == "" || c.ShopwarePassword == "" {
		return errors.New("SHOPWARE_USERNAME and SHOPWARE_PASSWORD must be set")
	}
	return nil
}

// SplitLinks parses a comma-separated link list, dropping empty entries.
func SplitLinks(s string) []string {
	if s == "" {
		return nil
	}
	var links []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			links = append(links, part)
		}
	}
	return links
}
