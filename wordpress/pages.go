package wordpress

import (
	"context"
	"net/url"
)

// GetPageBySlug returns the CMS page with the given slug, or nil when there is
// none. Transport and HTTP failures are returned as errors.
func (c *Client) GetPageBySlug(ctx context.Context, slug string) (*Page, error) {
	var pages []wpPost
	q := url.Values{"slug": {slug}, "_embed": {""}}
	if err := c.getJSON(ctx, "pages", q, &pages); err != nil {
		c.logger.Errorf("wordpress: fetch page %q: %v", slug, err)
		return nil, err
	}
	if len(pages) == 0 {
		return nil, nil
	}
	p := pages[0]
	return &Page{
		Title:   p.Title.Rendered,
		Content: p.Content.Rendered,
		Date:    c.date(p.Date),
		SEO:     p.Yoast,
	}, nil
}
