package handlers

import (
	"fmt"
	"sync"
	"time"

	"tsst-site/internal/filesystem"
	"tsst-site/internal/manifest"
	"tsst-site/internal/mobility"
	"tsst-site/internal/page"
	"tsst-site/internal/startup"

	lru "github.com/hashicorp/golang-lru/v2"
)

type Handlers struct {
	registry    *mobility.Registry
	resolver    *manifest.Resolver
	outputDir   string
	assetPrefix string
	retry       filesystem.RetryConfig
	startTime   time.Time

	// views caches built pages by slug for one manifest generation
	views    *lru.Cache[string, page.View]
	viewsMu  sync.Mutex
	viewsGen uint64
}

func New(registry *mobility.Registry, resolver *manifest.Resolver, config *startup.ServerConfig) (*Handlers, error) {
	views, err := lru.New[string, page.View](config.PageCacheSize)
	if err != nil {
		return nil, fmt.Errorf("create page cache: %w", err)
	}

	return &Handlers{
		registry:    registry,
		resolver:    resolver,
		outputDir:   config.OutputDir,
		assetPrefix: config.AssetPrefix,
		retry:       filesystem.DefaultRetryConfig(),
		startTime:   time.Now(),
		views:       views,
	}, nil
}
