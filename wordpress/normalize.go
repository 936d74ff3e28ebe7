package wordpress

import (
	"regexp"
	"strings"
	"time"
)

// Defaults substituted for fields the CMS leaves empty.
const (
	DefaultCoverImage          = "/images/blog-cover.jpg"
	DefaultAuthorName          = "Admin"
	DefaultAuthorAvatar        = "/images/avatar.jpg"
	DefaultCategoryImage       = "/images/hugeicons_java.svg"
	DefaultCategoryName        = "default"
	DefaultCategoryDescription = "Java programming tutorials and lessons"
	DefaultTechnologyLabel     = "Java"
	BlogTechnologyLabel        = "Блог"

	// SortOrderUnset sorts categories without an explicit order last.
	SortOrderUnset = 9999

	excerptRunes = 150
)

var reTag = regexp.MustCompile(`</?[^>]+(>|$)`)

// StripTags removes anything that looks like an HTML tag. It is a regex pass,
// not a parser: entities are left as they are.
func StripTags(s string) string {
	return reTag.ReplaceAllString(s, "")
}

// Excerpt turns a rendered excerpt into listing text: tags stripped, cut to
// 150 characters, and "..." appended even when nothing was cut. The cut can
// land mid-word.
func Excerpt(renderedExcerpt string) string {
	if renderedExcerpt == "" {
		return ""
	}
	text := []rune(StripTags(renderedExcerpt))
	if len(text) > excerptRunes {
		text = text[:excerptRunes]
	}
	return string(text) + "..."
}

// ParseSortOrder reads a sort order the way JavaScript's parseInt does:
// leading whitespace, an optional sign, then as many digits as there are.
// Anything without a leading integer yields SortOrderUnset.
func ParseSortOrder(s string) int {
	s = strings.TrimLeft(s, " \t\r\n")
	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}
	n, digits := 0, 0
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		if n > (1<<31)/10 {
			return SortOrderUnset
		}
		n = n*10 + int(r-'0')
		digits++
	}
	if digits == 0 {
		return SortOrderUnset
	}
	if neg {
		return -n
	}
	return n
}

// ParseDate parses the CMS date formats. Unparseable dates yield the zero time.
func ParseDate(s string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func (c *Client) date(raw string) string {
	if raw != "" {
		return raw
	}
	return c.now().UTC().Format("2006-01-02T15:04:05.000Z")
}

func (c *Client) summary(p wpPost, label string) PostSummary {
	excerpt := ""
	if p.Excerpt != nil {
		excerpt = Excerpt(p.Excerpt.Rendered)
	}
	categoryID := 0
	if len(p.LessonCategory) > 0 {
		categoryID = p.LessonCategory[0]
	}
	return PostSummary{
		Slug:            p.Slug,
		Title:           p.Title.Rendered,
		Excerpt:         excerpt,
		CoverImage:      firstNonEmpty(string(p.FeaturedMediaURL), DefaultCoverImage),
		Date:            c.date(p.Date),
		CategoryID:      categoryID,
		TechnologyLabel: label,
	}
}

func (c *Client) lessonSummary(p wpPost) PostSummary {
	return c.summary(p, firstNonEmpty(string(p.Meta.TechnologyLabel), DefaultTechnologyLabel))
}

func (c *Client) lesson(slug string, p wpPost) *Post {
	categoryID := 0
	if len(p.LessonCategory) > 0 {
		categoryID = p.LessonCategory[0]
	}
	category := DefaultCategoryName
	if len(p.CategoriesName) > 0 && p.CategoriesName[0] != "" {
		category = p.CategoriesName[0]
	}
	sections := []Section(p.Meta.LessonSections)
	if sections == nil {
		sections = []Section{}
	}
	materials := []Section(p.Meta.AdditionalMaterials)
	if materials == nil {
		materials = []Section{}
	}
	return &Post{
		Slug:       slug,
		Title:      p.Title.Rendered,
		Content:    p.Content.Rendered,
		CoverImage: firstNonEmpty(string(p.FeaturedMediaURL), DefaultCoverImage),
		Date:       c.date(p.Date),
		Author: Author{
			Name:   firstNonEmpty(string(p.AuthorName), DefaultAuthorName),
			Avatar: firstNonEmpty(string(p.AuthorAvatar), DefaultAuthorAvatar),
		},
		Category:            category,
		CategoryID:          categoryID,
		CategoryDescription: firstNonEmpty(string(p.CategoryDescription), DefaultCategoryDescription),
		CategoryImage:       DefaultCategoryImage,
		LessonSections:      sections,
		AdditionalMaterials: materials,
		SEO:                 p.Yoast,
	}
}

func (c *Client) regularPost(slug string, p wpPost) *RegularPost {
	e := p.Embedded
	if e == nil {
		e = &wpEmbedded{}
	}
	cover := string(p.FeaturedMediaURL)
	if len(e.FeaturedMedia) > 0 {
		cover = e.FeaturedMedia[0].SourceURL
	}
	var author Author
	if len(e.Author) > 0 {
		author.Name = firstNonEmpty(e.Author[0].Name, DefaultAuthorName)
		author.Avatar = firstNonEmpty(e.Author[0].AvatarURLs["96"], DefaultAuthorAvatar)
	} else {
		author.Name = firstNonEmpty(string(p.AuthorName), DefaultAuthorName)
		author.Avatar = firstNonEmpty(string(p.AuthorAvatar), DefaultAuthorAvatar)
	}
	return &RegularPost{
		Slug:       slug,
		Title:      p.Title.Rendered,
		Content:    p.Content.Rendered,
		CoverImage: firstNonEmpty(cover, DefaultCoverImage),
		Date:       c.date(p.Date),
		Author:     author,
		SEO:        p.Yoast,
	}
}

func normalizeCategory(raw wpCategory) Category {
	order := firstNonEmpty(string(raw.Meta.SortOrder), string(raw.SortOrder))
	sortOrder := SortOrderUnset
	if order != "" {
		sortOrder = ParseSortOrder(order)
	}
	return Category{
		ID:          raw.ID,
		Name:        raw.Name,
		Description: raw.Description,
		Count:       raw.Count,
		SortOrder:   sortOrder,
		ImageURL:    firstNonEmpty(string(raw.Meta.Image), string(raw.Image), DefaultCategoryImage),
	}
}
