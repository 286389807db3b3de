package data

import (
	"context"
	"slices"
	"sync"
	"time"

	"battery-savings/internal/model"
)

// DayCache keeps the last loaded day for a TTL so the HTTP handlers do not
// query the database on every request. A zero TTL disables caching.
type DayCache struct {
	loader DayLoader
	ttl    time.Duration
	now    func() time.Time

	mu        sync.Mutex
	rows      []model.DataRow
	expiresAt time.Time
}

func NewDayCache(loader DayLoader, ttl time.Duration) *DayCache {
	return &DayCache{loader: loader, ttl: ttl, now: time.Now}
}

// LoadDay returns a copy of the cached day, reloading it once expired.
func (c *DayCache) LoadDay(ctx context.Context) ([]model.DataRow, error) {
	if c.ttl <= 0 {
		return c.loader.LoadDay(ctx)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.rows != nil && c.now().Before(c.expiresAt) {
		return slices.Clone(c.rows), nil
	}
	rows, err := c.loader.LoadDay(ctx)
	if err != nil {
		return nil, err
	}
	c.rows = rows
	c.expiresAt = c.now().Add(c.ttl)
	return slices.Clone(rows), nil
}

// Clear drops the cached day.
func (c *DayCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rows = nil
	c.expiresAt = time.Time{}
}
