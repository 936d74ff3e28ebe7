package codorbits

import (
	"encoding/xml"
	"html"
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/codorbits/wordpress"
)

const feedSize = 50

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Language    string    `xml:"language"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	Category    string `xml:"category,omitempty"`
	PubDate     string `xml:"pubDate,omitempty"`
	GUID        string `xml:"guid"`
}

// feedPosts returns up to feedSize lessons, newest first.
func feedPosts(posts []wordpress.PostSummary) []wordpress.PostSummary {
	sorted := make([]wordpress.PostSummary, len(posts))
	copy(sorted, posts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return wordpress.ParseDate(sorted[i].Date).After(wordpress.ParseDate(sorted[j].Date))
	})
	if len(sorted) > feedSize {
		sorted = sorted[:feedSize]
	}
	return sorted
}

func (a *App) renderRSS(c echo.Context, posts []wordpress.PostSummary) error {
	base := a.Config.URL
	posts = feedPosts(posts)
	items := make([]rssItem, 0, len(posts))
	for _, p := range posts {
		pubDate := ""
		if t := wordpress.ParseDate(p.Date); !t.IsZero() {
			pubDate = t.Format(time.RFC1123Z)
		}
		postURL := BuildURL(base, "course", p.Slug)
		items = append(items, rssItem{
			Title:       html.UnescapeString(p.Title),
			Link:        postURL,
			Description: p.Excerpt,
			Category:    p.TechnologyLabel,
			PubDate:     pubDate,
			GUID:        postURL,
		})
	}
	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       a.Config.Name,
			Link:        BuildURL(base),
			Description: a.Config.Description,
			Language:    "ru",
			Items:       items,
		},
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(feed)
}
