package wordpress

import (
	"context"
	"net/url"
	"strconv"
)

// GetPostBySlug returns the lesson with the given slug, or nil when the CMS has
// none. Transport and HTTP failures are returned as errors.
func (c *Client) GetPostBySlug(ctx context.Context, slug string) (*Post, error) {
	var posts []wpPost
	q := url.Values{"slug": {slug}, "_embed": {""}}
	if err := c.getJSON(ctx, string(PostTypeLesson), q, &posts); err != nil {
		c.logger.Errorf("wordpress: fetch lesson %q: %v", slug, err)
		return nil, err
	}
	if len(posts) == 0 {
		return nil, nil
	}
	post := c.lesson(slug, posts[0])
	if post.CategoryID != 0 {
		var raw wpCategory
		if err := c.getJSON(ctx, "lesson_category/"+strconv.Itoa(post.CategoryID), nil, &raw); err != nil {
			c.logger.Errorf("wordpress: fetch category image for %d: %v", post.CategoryID, err)
		} else if img := string(raw.Meta.Image); img != "" {
			post.CategoryImage = img
		}
	}
	return post, nil
}

// GetRegularPostBySlug returns the blog article with the given slug, or nil
// when the CMS has none. Transport and HTTP failures are returned as errors.
func (c *Client) GetRegularPostBySlug(ctx context.Context, slug string) (*RegularPost, error) {
	var posts []wpPost
	q := url.Values{"slug": {slug}, "_embed": {""}}
	if err := c.getJSON(ctx, string(PostTypePost), q, &posts); err != nil {
		c.logger.Errorf("wordpress: fetch post %q: %v", slug, err)
		return nil, err
	}
	if len(posts) == 0 {
		return nil, nil
	}
	return c.regularPost(slug, posts[0]), nil
}

// GetAllPosts returns every lesson. Failures are logged and yield an empty result.
func (c *Client) GetAllPosts(ctx context.Context) []PostSummary {
	raw, err := collect[wpPost](ctx, c, string(PostTypeLesson), nil)
	if err != nil {
		c.logger.Errorf("wordpress: fetch all lessons: %v", err)
		return []PostSummary{}
	}
	out := make([]PostSummary, 0, len(raw))
	for _, p := range raw {
		out = append(out, c.lessonSummary(p))
	}
	return out
}

// GetPostsByCategory returns the lessons of a category, oldest first. limit All
// walks every page; a positive limit makes one request for at most that many;
// zero or any other negative value means DefaultCategoryPostLimit.
// Failures are logged and yield an empty result.
func (c *Client) GetPostsByCategory(ctx context.Context, categoryID, limit int) []PostSummary {
	raw, err := c.categoryPosts(ctx, categoryID, "", limit, DefaultCategoryPostLimit)
	if err != nil {
		c.logger.Errorf("wordpress: fetch lessons for category %d: %v", categoryID, err)
		return []PostSummary{}
	}
	out := make([]PostSummary, 0, len(raw))
	for _, p := range raw {
		out = append(out, c.lessonSummary(p))
	}
	return out
}

// GetRelatedPostsByCategory returns the other lessons of a category, excluding
// currentSlug. A zero categoryID yields an empty result without a request.
// Failures are logged and yield an empty result.
func (c *Client) GetRelatedPostsByCategory(ctx context.Context, categoryID int, currentSlug string, limit int) []PostLink {
	if categoryID == 0 {
		return []PostLink{}
	}
	raw, err := c.categoryPosts(ctx, categoryID, currentSlug, limit, DefaultRelatedLimit)
	if err != nil {
		c.logger.Errorf("wordpress: fetch related lessons for category %d: %v", categoryID, err)
		return []PostLink{}
	}
	out := make([]PostLink, 0, len(raw))
	for _, p := range raw {
		out = append(out, PostLink{Slug: p.Slug, Title: p.Title.Rendered})
	}
	return out
}

func (c *Client) categoryPosts(ctx context.Context, categoryID int, excludeSlug string, limit, fallback int) ([]wpPost, error) {
	q := url.Values{
		"lesson_category": {strconv.Itoa(categoryID)},
		"orderby":         {"date"},
		"order":           {"asc"},
	}
	if excludeSlug != "" {
		q.Set("slug_not", excludeSlug)
	}
	if limit == All {
		return collect[wpPost](ctx, c, string(PostTypeLesson), q)
	}
	if limit <= 0 {
		limit = fallback
	}
	q.Set("per_page", strconv.Itoa(limit))
	var posts []wpPost
	if err := c.getJSON(ctx, string(PostTypeLesson), q, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// GetAdjacentPosts returns the lessons before and after slug. Failures are
// logged and yield an empty pair.
func (c *Client) GetAdjacentPosts(ctx context.Context, slug string) AdjacentPosts {
	var raw wpAdjacent
	if err := c.getJSON(ctx, "adjacent-posts", url.Values{"slug": {slug}}, &raw); err != nil {
		c.logger.Errorf("wordpress: fetch adjacent lessons for %q: %v", slug, err)
		return AdjacentPosts{}
	}
	return AdjacentPosts{Previous: raw.Previous, Next: raw.Next}
}
