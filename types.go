package codorbits

import (
	"strings"

	"github.com/eringen/codorbits/wordpress"
)

// PageMeta carries per-page SEO, OpenGraph and Twitter metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	Canonical   string

	OGTitle       string
	OGDescription string
	OGURL         string
	OGSiteName    string
	OGType        string // "website" or "article"
	OGLocale      string
	OGImages      []wordpress.OGImage

	TwitterCard        string
	TwitterTitle       string
	TwitterDescription string
	TwitterSite        string
	TwitterImages      []string

	Index  bool
	Follow bool

	// JSONLD holds pre-encoded Schema.org blocks.
	JSONLD []string
}

// Robots returns the robots meta directive.
func (m PageMeta) Robots() string {
	parts := []string{"noindex", "nofollow"}
	if m.Index {
		parts[0] = "index"
	}
	if m.Follow {
		parts[1] = "follow"
	}
	if m.Index {
		parts = append(parts, "max-image-preview:large", "max-snippet:-1", "max-video-preview:-1")
	}
	return strings.Join(parts, ", ")
}

// Page is the data every full page template receives.
type Page struct {
	Site      SiteConfig
	Meta      PageMeta
	Path      string
	CSRFToken string
	// Native is false when the reader is likely to machine-translate the page.
	Native bool
	Flash  *Flash
}

// RecaptchaEnabled reports whether forms should load the reCAPTCHA script.
func (p Page) RecaptchaEnabled() bool {
	return p.Site.RecaptchaSiteKey != ""
}

// Flash is a one-shot form outcome carried across a redirect.
type Flash struct {
	Success bool
	Message string
}

// HomeData is rendered by ViewFuncs.Home.
type HomeData struct {
	Page
}

// CatalogData is rendered by ViewFuncs.Catalog.
type CatalogData struct {
	Page
	Categories []wordpress.CategoryWithPosts
}

// LessonData is rendered by ViewFuncs.Lesson.
type LessonData struct {
	Page
	Post     wordpress.Post
	Related  []wordpress.PostLink
	Category *wordpress.Category
	Adjacent wordpress.AdjacentPosts
}

// ArticleData is rendered by ViewFuncs.Article.
type ArticleData struct {
	Page
	Post wordpress.RegularPost
}

// SearchData is rendered by ViewFuncs.Search.
type SearchData struct {
	Page
	Query   string
	Results []wordpress.SearchResult
}

// ContentPageData is rendered by ViewFuncs.ContentPage.
type ContentPageData struct {
	Page
	Title   string
	Content string
	Date    string
}

// SitemapSection is one category of the HTML sitemap.
type SitemapSection struct {
	Category wordpress.Category
	Posts    []wordpress.PostSummary
}

// SitemapData is rendered by ViewFuncs.Sitemap.
type SitemapData struct {
	Page
	Sections []SitemapSection
}
