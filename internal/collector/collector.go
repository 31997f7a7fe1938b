// Package collector runs the periodic fetch-and-insert job that feeds the
// price store.
package collector

import (
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"osrs-flipper/internal/logger"
	"osrs-flipper/internal/wiki"
)

// Store is the write side of the price store.
type Store interface {
	ItemCount() (int64, error)
	UpsertItems(items []wiki.Item) (int64, error)
	InsertSnapshot(scanTS int64, quotes map[int64]wiki.Quote) (int64, error)
}

// Fetcher provides the remote item catalog and latest prices.
type Fetcher interface {
	FetchMapping() ([]wiki.Item, error)
	FetchLatest() (map[int64]wiki.Quote, error)
}

// Collector appends one price snapshot per run and seeds the item catalog
// when the store is empty.
type Collector struct {
	store Store
	wiki  Fetcher
	now   func() time.Time
}

// New creates a Collector over the given store and fetcher.
func New(store Store, fetcher Fetcher) *Collector {
	return &Collector{
		store: store,
		wiki:  fetcher,
		now:   time.Now,
	}
}

// RunOnce performs one collection cycle: seed the item catalog if the items
// table is empty, then store one snapshot of the latest prices. The catalog
// and the snapshot are fetched concurrently when both are needed.
func (c *Collector) RunOnce() error {
	count, err := c.store.ItemCount()
	if err != nil {
		return fmt.Errorf("check item catalog: %w", err)
	}

	var (
		items  []wiki.Item
		quotes map[int64]wiki.Quote
		g      errgroup.Group
	)
	if count == 0 {
		g.Go(func() error {
			var err error
			items, err = c.wiki.FetchMapping()
			return err
		})
	}
	g.Go(func() error {
		var err error
		quotes, err = c.wiki.FetchLatest()
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("fetch: %w", err)
	}

	if len(items) > 0 {
		n, err := c.store.UpsertItems(items)
		if err != nil {
			return fmt.Errorf("seed item catalog: %w", err)
		}
		logger.Success("Collector", fmt.Sprintf("Seeded %d items from /mapping", n))
	}

	scanTS := c.now().Unix()
	inserted, err := c.store.InsertSnapshot(scanTS, quotes)
	if err != nil {
		return fmt.Errorf("store snapshot: %w", err)
	}
	logger.Success("Collector", fmt.Sprintf("Stored snapshot @ %d (%d rows)", scanTS, inserted))
	return nil
}
