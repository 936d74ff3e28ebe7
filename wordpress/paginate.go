package wordpress

import (
	"context"
	"errors"
	"net/url"
	"strconv"
)

// collect walks a collection page by page and concatenates the results in the
// order the CMS returns them.
//
// A page shorter than the page size ends the walk. A status error on any page
// after the first is read as "no more data" and the pages gathered so far are
// returned; WordPress answers 400 for a page past the end. Every other failure,
// and any failure on the first page, is returned to the caller.
func collect[T any](ctx context.Context, c *Client, path string, query url.Values) ([]T, error) {
	var all []T
	for page := 1; page <= maxPages; page++ {
		q := cloneQuery(query)
		q.Set("per_page", strconv.Itoa(c.pageSize))
		q.Set("page", strconv.Itoa(page))

		var batch []T
		if err := c.getJSON(ctx, path, q, &batch); err != nil {
			var se *StatusError
			if page > 1 && errors.As(err, &se) {
				c.logger.Warnf("wordpress: %s page %d: %v, treating as end of collection", path, page, err)
				return all, nil
			}
			return nil, err
		}
		all = append(all, batch...)
		if len(batch) < c.pageSize {
			return all, nil
		}
	}
	c.logger.Warnf("wordpress: %s: stopped after %d full pages", path, maxPages)
	return all, nil
}
