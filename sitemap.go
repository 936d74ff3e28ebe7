package codorbits

import (
	"encoding/xml"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eringen/codorbits/wordpress"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []SitemapURL `xml:"url"`
}

// SitemapURL is one <url> entry of sitemap.xml.
type SitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// SitemapURLs lists the static pages, every lesson, and blog-labelled
// lessons under /post/ as well.
func SitemapURLs(base string, posts []wordpress.PostSummary) []SitemapURL {
	urls := []SitemapURL{
		{Loc: BuildURL(base), ChangeFreq: "daily", Priority: "1.0"},
		{Loc: BuildURL(base, "course"), ChangeFreq: "daily", Priority: "0.9"},
		{Loc: BuildURL(base, "contacts"), ChangeFreq: "monthly", Priority: "0.5"},
		{Loc: BuildURL(base, "privacy-policy"), ChangeFreq: "yearly", Priority: "0.3"},
		{Loc: BuildURL(base, "sitemap"), ChangeFreq: "yearly", Priority: "0.3"},
		{Loc: BuildURL(base, "app-info"), ChangeFreq: "yearly", Priority: "0.3"},
	}
	var blog []SitemapURL
	for _, p := range posts {
		lastMod := lastModified(p.Date)
		urls = append(urls, SitemapURL{
			Loc:        BuildURL(base, "course", p.Slug),
			LastMod:    lastMod,
			ChangeFreq: "weekly",
			Priority:   "0.8",
		})
		if p.TechnologyLabel == wordpress.BlogTechnologyLabel {
			blog = append(blog, SitemapURL{
				Loc:        BuildURL(base, "post", p.Slug),
				LastMod:    lastMod,
				ChangeFreq: "weekly",
				Priority:   "0.7",
			})
		}
	}
	return append(urls, blog...)
}

func lastModified(date string) string {
	t := wordpress.ParseDate(date)
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func (a *App) renderSitemap(c echo.Context, posts []wordpress.PostSummary) error {
	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  SitemapURLs(a.Config.URL, posts),
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(sitemap)
}
