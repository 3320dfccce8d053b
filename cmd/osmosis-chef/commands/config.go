package commands

import (
	"time"

	"osmosis-chef/internal/chef"
	"osmosis-chef/lib/scrapers/osmosis"
	"osmosis-chef/lib/scrapers/youtube"

	"github.com/dgraph-io/badger/v4"
)

type Config struct {
	// BaseUrl overrides the assessment site origin, empty means the real
	// site.
	BaseUrl string `json:"base_url"`
	// ExtractorEndpoint is the youtube extractor service producing channel
	// dumps.
	ExtractorEndpoint string `json:"extractor_endpoint"`
	ChannelUrl        string `json:"channel_url"`
	// CacheDir holds the rendered-page cache, empty disables caching.
	CacheDir   string `json:"cache_dir"`
	CacheHours int    `json:"cache_hours"`
}

func (c Config) baseUrl() string {
	if c.BaseUrl != "" {
		return c.BaseUrl
	}
	return "https://open.osmosis.org"
}

func (c Config) channelUrl() string {
	if c.ChannelUrl != "" {
		return c.ChannelUrl
	}
	return "https://www.youtube.com/user/osmosis/playlists"
}

func (c Config) cacheLifetime() time.Duration {
	hours := c.CacheHours
	if hours <= 0 {
		hours = 72
	}
	return time.Duration(hours) * time.Hour
}

// createChef wires the crawl pipeline from a config. The returned cleanup
// closes the page cache and must run after the crawl, also on failure
// paths.
func createChef(cfg Config, cached bool) (chef.Chef, func(), error) {
	cleanup := func() {}

	var renderer osmosis.Renderer
	renderer, err := osmosis.NewHttpRenderer(osmosis.HttpRendererOptions{
		BaseUrl: cfg.baseUrl(),
	})
	if err != nil {
		return chef.Chef{}, cleanup, err
	}

	if cached && cfg.CacheDir != "" {
		db, err := badger.Open(badger.DefaultOptions(cfg.CacheDir))
		if err != nil {
			return chef.Chef{}, cleanup, err
		}
		cleanup = func() { db.Close() }
		renderer = osmosis.NewCachedRenderer(renderer, db, cfg.cacheLifetime())
	}

	catalog := youtube.NewClient(youtube.ClientOptions{
		Endpoint:   cfg.ExtractorEndpoint,
		ChannelUrl: cfg.channelUrl(),
	})

	return chef.New(chef.Options{
		Catalog:  catalog,
		Renderer: renderer,
		BaseUrl:  cfg.baseUrl(),
	}), cleanup, nil
}
