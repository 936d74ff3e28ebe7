package codorbits

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/eringen/codorbits/wordpress"
)

// ContentSnapshot is the site-wide content the sitemaps and the feed are built from.
type ContentSnapshot struct {
	Posts    []wordpress.PostSummary
	Sections []SitemapSection
	Fetched  time.Time
}

func (s *ContentSnapshot) empty() bool {
	return len(s.Posts) == 0 && len(s.Sections) == 0
}

// ContentCache is an in-memory cache of the lesson list and the per-category
// sitemap sections with a TTL. A zero TTL disables caching.
type ContentCache struct {
	mu     sync.RWMutex
	snap   *ContentSnapshot
	ttl    time.Duration
	fanOut int
	source Gateway
	now    func() time.Time
}

// NewContentCache creates a ContentCache reading from source.
func NewContentCache(source Gateway, ttl time.Duration, fanOut int) *ContentCache {
	if fanOut <= 0 {
		fanOut = 8
	}
	return &ContentCache{source: source, ttl: ttl, fanOut: fanOut, now: time.Now}
}

func (c *ContentCache) valid() bool {
	return c.ttl > 0 && c.snap != nil && c.now().Sub(c.snap.Fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *ContentCache) Invalidate() {
	c.mu.Lock()
	c.snap = nil
	c.mu.Unlock()
}

// Snapshot returns cached content, loading it from the CMS when stale.
// It tries a read lock first; only takes a write lock if a reload is needed.
func (c *ContentCache) Snapshot(ctx context.Context) *ContentSnapshot {
	c.mu.RLock()
	if c.valid() {
		snap := c.snap
		c.mu.RUnlock()
		return snap
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid() {
		return c.snap
	}
	return c.store(c.load(ctx))
}

// Refresh reloads the content unconditionally.
func (c *ContentCache) Refresh(ctx context.Context) *ContentSnapshot {
	snap := c.load(ctx)
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store(snap)
}

// store keeps snap unless it is empty, which the gateway returns when the
// CMS is down; the previous snapshot is served until it answers again.
func (c *ContentCache) store(snap *ContentSnapshot) *ContentSnapshot {
	if c.ttl <= 0 {
		return snap
	}
	if snap.empty() && c.snap != nil {
		return c.snap
	}
	if !snap.empty() {
		c.snap = snap
	}
	return snap
}

func (c *ContentCache) load(ctx context.Context) *ContentSnapshot {
	var (
		posts []wordpress.PostSummary
		cats  []wordpress.Category
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		posts = c.source.GetAllPosts(gctx)
		return nil
	})
	g.Go(func() error {
		cats = c.source.GetAllCategories(gctx)
		return nil
	})
	_ = g.Wait()

	sections := make([]SitemapSection, len(cats))
	sg, sctx := errgroup.WithContext(ctx)
	sg.SetLimit(c.fanOut)
	for i, cat := range cats {
		i, cat := i, cat
		sg.Go(func() error {
			sections[i] = SitemapSection{
				Category: cat,
				Posts:    c.source.GetPostsByCategory(sctx, cat.ID, wordpress.All),
			}
			return nil
		})
	}
	_ = sg.Wait()

	kept := sections[:0]
	for _, s := range sections {
		if len(s.Posts) > 0 {
			kept = append(kept, s)
		}
	}
	return &ContentSnapshot{Posts: posts, Sections: kept, Fetched: c.now()}
}
