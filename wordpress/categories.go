package wordpress

import (
	"context"
	"sort"
	"strconv"

	"golang.org/x/sync/errgroup"
)

// GetAllCategories returns every lesson category ordered by SortOrder
// ascending. Categories with equal order keep the order the CMS returned them
// in. Failures are logged and yield an empty result.
func (c *Client) GetAllCategories(ctx context.Context) []Category {
	raw, err := collect[wpCategory](ctx, c, "lesson_category", nil)
	if err != nil {
		c.logger.Errorf("wordpress: fetch categories: %v", err)
		return []Category{}
	}
	out := make([]Category, 0, len(raw))
	for _, r := range raw {
		out = append(out, normalizeCategory(r))
	}
	sortCategories(out)
	return out
}

func sortCategories(cats []Category) {
	sort.SliceStable(cats, func(i, j int) bool {
		return cats[i].SortOrder < cats[j].SortOrder
	})
}

// GetCategoryByID returns one lesson category, or nil for id 0 or on any failure.
func (c *Client) GetCategoryByID(ctx context.Context, id int) *Category {
	if id == 0 {
		return nil
	}
	var raw wpCategory
	if err := c.getJSON(ctx, "lesson_category/"+strconv.Itoa(id), nil, &raw); err != nil {
		c.logger.Errorf("wordpress: fetch category %d: %v", id, err)
		return nil
	}
	cat := normalizeCategory(raw)
	return &cat
}

// GetCategoriesWithPosts joins every non-empty category to its lessons. The
// per-category requests run concurrently, at most fanOut at a time, and the
// result keeps the category order of GetAllCategories. A category whose
// lessons cannot be fetched is kept with an empty list.
func (c *Client) GetCategoriesWithPosts(ctx context.Context, limit int) []CategoryWithPosts {
	cats := c.GetAllCategories(ctx)
	nonEmpty := cats[:0:0]
	for _, cat := range cats {
		if cat.Count > 0 {
			nonEmpty = append(nonEmpty, cat)
		}
	}

	out := make([]CategoryWithPosts, len(nonEmpty))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.fanOut)
	for i, cat := range nonEmpty {
		i, cat := i, cat
		g.Go(func() error {
			out[i] = CategoryWithPosts{
				Category: cat,
				Posts:    c.GetPostsByCategory(gctx, cat.ID, limit),
			}
			return nil
		})
	}
	_ = g.Wait()
	return out
}
