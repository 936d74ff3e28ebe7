package wordpress

import (
	"context"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"
)

// SearchPosts runs query against lessons and blog posts at once and merges the
// hits newest first. A blank query returns an empty result without touching the CMS. Each
// collection contributes at most limit hits (DefaultSearchLimit when limit is
// not positive), and a failed collection contributes nothing. The query is
// sent as given; trimming only decides whether it is blank.
func (c *Client) SearchPosts(ctx context.Context, query string, limit int) []SearchResult {
	if strings.TrimSpace(query) == "" {
		return []SearchResult{}
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	var lessons, posts []SearchResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		lessons = c.search(gctx, PostTypeLesson, query, limit)
		return nil
	})
	g.Go(func() error {
		posts = c.search(gctx, PostTypePost, query, limit)
		return nil
	})
	_ = g.Wait()

	results := make([]SearchResult, 0, len(lessons)+len(posts))
	results = append(results, lessons...)
	results = append(results, posts...)
	sort.SliceStable(results, func(i, j int) bool {
		return ParseDate(results[i].Date).After(ParseDate(results[j].Date))
	})
	return results
}

func (c *Client) search(ctx context.Context, kind PostType, query string, limit int) []SearchResult {
	q := url.Values{
		"search":   {query},
		"per_page": {strconv.Itoa(limit)},
	}
	var raw []wpPost
	if err := c.getJSON(ctx, string(kind), q, &raw); err != nil {
		c.logger.Errorf("wordpress: search %s for %q: %v", kind, query, err)
		return nil
	}
	out := make([]SearchResult, 0, len(raw))
	for _, p := range raw {
		var s PostSummary
		if kind == PostTypePost {
			s = c.summary(p, BlogTechnologyLabel)
		} else {
			s = c.lessonSummary(p)
		}
		out = append(out, SearchResult{PostSummary: s, PostType: kind})
	}
	return out
}
