package services

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/cinescope/cinescope/internal/models"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// CatalogCache holds the full movie catalog in memory for the lifetime of
// the process. It is populated lazily on first use by fetching page 1,
// reading the page count, and fanning out concurrent requests for the
// remaining pages. Population is all-or-nothing: if any page fails, nothing
// is cached and the next access retries from scratch.
type CatalogCache struct {
	catalog *CatalogService
	logger  *log.Logger

	mu       sync.RWMutex
	snapshot []models.Movie

	group singleflight.Group
}

// NewCatalogCache creates a new catalog cache
func NewCatalogCache(catalog *CatalogService, logger *log.Logger) *CatalogCache {
	return &CatalogCache{
		catalog: catalog,
		logger:  logger,
	}
}

// FullCatalog returns the full catalog snapshot, populating it on first
// use. Concurrent callers during population share a single fan-out via
// singleflight. On failure an empty slice is returned and nothing is
// cached, so a later call can retry. The returned slice is shared; callers
// must treat it as read-only.
func (c *CatalogCache) FullCatalog(ctx context.Context) []models.Movie {
	c.mu.RLock()
	snapshot := c.snapshot
	c.mu.RUnlock()
	if snapshot != nil {
		return snapshot
	}

	result, err, _ := c.group.Do("catalog", func() (interface{}, error) {
		return c.populate(ctx)
	})
	if err != nil {
		c.logger.Printf("Catalog population failed: %v", err)
		return []models.Movie{}
	}

	return result.([]models.Movie)
}

// populate fetches every page of the unfiltered catalog and stores the
// concatenation as the snapshot
func (c *CatalogCache) populate(ctx context.Context) ([]models.Movie, error) {
	// Another caller may have finished between the read check and the
	// singleflight entry.
	c.mu.RLock()
	snapshot := c.snapshot
	c.mu.RUnlock()
	if snapshot != nil {
		return snapshot, nil
	}

	first, err := c.catalog.ListMovies(ctx, GenreAll, "", 1)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog page 1: %w", err)
	}

	// Slot per page so the merged order follows page numbers, not
	// completion order.
	pages := make([][]models.Movie, first.TotalPages+1)
	pages[1] = first.Movies

	g, ctx := errgroup.WithContext(ctx)
	for p := 2; p <= first.TotalPages; p++ {
		g.Go(func() error {
			res, err := c.catalog.ListMovies(ctx, GenreAll, "", p)
			if err != nil {
				return fmt.Errorf("failed to fetch catalog page %d: %w", p, err)
			}
			pages[p] = res.Movies
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []models.Movie
	for p := 1; p < len(pages); p++ {
		all = append(all, pages[p]...)
	}
	if all == nil {
		all = []models.Movie{}
	}

	c.mu.Lock()
	c.snapshot = all
	c.mu.Unlock()

	c.logger.Printf("Catalog cache populated: %d movies across %d pages", len(all), first.TotalPages)

	return all, nil
}

// Invalidate drops the snapshot so the next access repopulates it. Called
// after a movie is created so the derived views pick up the new record.
func (c *CatalogCache) Invalidate() {
	c.mu.Lock()
	c.snapshot = nil
	c.mu.Unlock()
}
