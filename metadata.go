package codorbits

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"

	"github.com/eringen/codorbits/wordpress"
)

// Fallback copy used when the CMS carries no SEO block or leaves a field empty.
const (
	homeTitle           = "С чего начать программирование на Java — бесплатный курс от CodOrbits!"
	homeDescription     = "Бесплатный курс по Java от CodOrbits для тех, кто хочет начать программировать или углубить знания. Разбираем все от основ до фреймворков на практических примерах."
	catalogTitle        = "Уроки Java | CodOrbits"
	catalogDescription  = "Полный курс по Java программированию для начинающих и продвинутых разработчиков"
	contactsTitle       = "Связаться с нами | CodOrbits"
	contactsDescription = "Отправьте нам сообщение через форму обратной связи. Мы рады помочь вам с вопросами по Java-разработке."
	privacyTitle        = "Privacy Policy | CodOrbits"
	privacyDescription  = "Our privacy policy and data handling practices"
	sitemapTitle        = "Sitemap | CodOrbits"
	sitemapDescription  = "Overview of all pages and resources on CodOrbits"
	appInfoTitle        = "Приложение CodOrbits | Информация о мобильном приложении"
	appInfoDescription  = "Информация о приложении CodOrbits, которое было удалено из Google Play в 2025 году. Скачайте оригинальный .apk файл."
	searchTitle         = "Поиск по сайту"
	searchTitlePrefix   = "Поиск"
	searchDescription   = "Результаты поиска на сайте CodOrbits"
	notFoundTitle       = "Страница не найдена"
	notFoundDescription = "Запрашиваемая страница не найдена"
	serverErrorTitle    = "Ошибка сервера"
)

// metaDefaults is the copy a page falls back to.
type metaDefaults struct {
	Title       string
	Description string
	Path        string // site path, e.g. "/course/"
	OGType      string
	Image       string
}

// buildMeta merges a Yoast SEO block over the page defaults. Without a block
// the page is indexable and uses its defaults throughout.
func (a *App) buildMeta(seo *wordpress.SEO, d metaDefaults) PageMeta {
	canonical := BuildURL(a.Config.URL, d.Path)
	if d.Path == "/" || d.Path == "" {
		canonical = BuildURL(a.Config.URL)
	}
	if d.OGType == "" {
		d.OGType = "website"
	}
	m := PageMeta{
		Title:              d.Title,
		Description:        d.Description,
		Canonical:          canonical,
		OGTitle:            d.Title,
		OGDescription:      d.Description,
		OGURL:              canonical,
		OGSiteName:         a.Config.Name,
		OGType:             d.OGType,
		TwitterCard:        "summary_large_image",
		TwitterTitle:       d.Title,
		TwitterDescription: d.Description,
		Index:              true,
		Follow:             true,
	}
	if d.Image != "" {
		img := absURL(a.Config.URL, d.Image)
		m.OGImages = []wordpress.OGImage{{URL: img}}
		m.TwitterImages = []string{img}
	}
	if seo == nil {
		return m
	}

	m.Title = firstNonEmpty(seo.Title, d.Title)
	m.Description = firstNonEmpty(seo.Description, d.Description)
	m.Canonical = firstNonEmpty(seo.Canonical, canonical)
	m.OGTitle = firstNonEmpty(seo.OGTitle, m.Title)
	m.OGDescription = firstNonEmpty(seo.OGDescription, m.Description)
	m.OGURL = firstNonEmpty(seo.OGURL, m.Canonical)
	m.OGSiteName = firstNonEmpty(seo.OGSiteName, a.Config.Name)
	m.OGType = firstNonEmpty(seo.OGType, d.OGType)
	m.OGLocale = seo.OGLocale
	if len(seo.OGImage) > 0 {
		m.OGImages = seo.OGImage
	}
	m.TwitterCard = firstNonEmpty(seo.TwitterCard, m.TwitterCard)
	m.TwitterTitle = firstNonEmpty(seo.TwitterTitle, m.Title)
	m.TwitterDescription = firstNonEmpty(seo.TwitterDescription, m.Description)
	m.TwitterSite = seo.TwitterSite
	if seo.TwitterImage != "" {
		m.TwitterImages = []string{seo.TwitterImage}
	}
	m.Index = seo.Robots.Index != "noindex"
	m.Follow = seo.Robots.Follow != "nofollow"
	if s, ok := scriptJSON(seo.Schema); ok {
		m.JSONLD = append(m.JSONLD, s)
	}
	return m
}

// scriptJSON compacts a CMS schema graph and escapes <, > and & so it cannot
// close the surrounding script element. Invalid JSON is dropped.
func scriptJSON(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", false
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, raw); err != nil {
		return "", false
	}
	var out bytes.Buffer
	json.HTMLEscape(&out, compact.Bytes())
	return out.String(), true
}

func (a *App) homeMeta(seo *wordpress.SEO) PageMeta {
	m := a.buildMeta(seo, metaDefaults{Title: homeTitle, Description: homeDescription, Path: "/"})
	if len(m.JSONLD) == 0 {
		m.JSONLD = []string{WebsiteJSONLD(a.Config)}
	}
	return m
}

func (a *App) catalogMeta(seo *wordpress.SEO) PageMeta {
	return a.buildMeta(seo, metaDefaults{Title: catalogTitle, Description: catalogDescription, Path: "/course/"})
}

func (a *App) lessonMeta(post *wordpress.Post) PageMeta {
	title := html.UnescapeString(post.Title)
	m := a.buildMeta(post.SEO, metaDefaults{
		Title:       "Course - " + title,
		Description: "Learn about " + title,
		Path:        "/course/" + post.Slug + "/",
		OGType:      "article",
		Image:       post.CoverImage,
	})
	if post.SEO != nil && post.SEO.OGTitle == "" && post.SEO.Title == "" {
		m.OGTitle = title
		m.TwitterTitle = title
	}
	if len(m.JSONLD) == 0 {
		m.JSONLD = []string{
			ArticleJSONLD(a.Config, "LearningResource", title, m.Description, post.Date, m.Canonical, post.CoverImage, post.Author.Name),
			BreadcrumbJSONLD(
				Crumb{Name: a.Config.Name, URL: BuildURL(a.Config.URL)},
				Crumb{Name: post.Category, URL: BuildURL(a.Config.URL, "course")},
				Crumb{Name: title, URL: m.Canonical},
			),
		}
	}
	return m
}

func (a *App) articleMeta(post *wordpress.RegularPost) PageMeta {
	title := html.UnescapeString(post.Title)
	m := a.buildMeta(post.SEO, metaDefaults{
		Title:       title,
		Description: title + " - статья на CodOrbits",
		Path:        "/post/" + post.Slug + "/",
		OGType:      "article",
		Image:       post.CoverImage,
	})
	if len(m.JSONLD) == 0 {
		m.JSONLD = []string{ArticleJSONLD(a.Config, "BlogPosting", title, m.Description, post.Date, m.Canonical, post.CoverImage, post.Author.Name)}
	}
	return m
}

// searchMeta never lets result pages be indexed.
func (a *App) searchMeta(seo *wordpress.SEO, query string) PageMeta {
	d := metaDefaults{Title: searchTitle, Description: searchDescription, Path: "/search/"}
	if query != "" {
		d.Title = searchTitlePrefix + ": " + query
		d.Description = fmt.Sprintf("Результаты поиска для %q на сайте CodOrbits", query)
	}
	m := a.buildMeta(seo, d)
	if seo != nil && query != "" {
		m.Title = firstNonEmpty(seo.Title, searchTitlePrefix) + ": " + query
		m.OGTitle = firstNonEmpty(seo.OGTitle, searchTitlePrefix) + ": " + query
		m.Description = d.Description
		m.OGDescription = d.Description
	}
	m.Index = false
	m.Follow = true
	return m
}

func (a *App) contactsMeta(seo *wordpress.SEO) PageMeta {
	return a.buildMeta(seo, metaDefaults{Title: contactsTitle, Description: contactsDescription, Path: "/contacts/"})
}

func (a *App) privacyMeta(seo *wordpress.SEO) PageMeta {
	return a.buildMeta(seo, metaDefaults{Title: privacyTitle, Description: privacyDescription, Path: "/privacy-policy/"})
}

func (a *App) sitemapMeta(seo *wordpress.SEO) PageMeta {
	return a.buildMeta(seo, metaDefaults{Title: sitemapTitle, Description: sitemapDescription, Path: "/sitemap/"})
}

func (a *App) appInfoMeta() PageMeta {
	return a.buildMeta(nil, metaDefaults{Title: appInfoTitle, Description: appInfoDescription, Path: "/app-info/"})
}

func (a *App) notFoundMeta(path string) PageMeta {
	m := a.buildMeta(nil, metaDefaults{Title: notFoundTitle, Description: notFoundDescription, Path: path})
	m.Index = false
	return m
}

func (a *App) serverErrorMeta(path string) PageMeta {
	m := a.buildMeta(nil, metaDefaults{Title: serverErrorTitle, Path: path})
	m.Index = false
	m.Follow = false
	return m
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
