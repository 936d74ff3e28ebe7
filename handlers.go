package codorbits

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	"github.com/eringen/codorbits/htmlcontent"
	"github.com/eringen/codorbits/wordpress"
)

// pageSEO looks up the SEO block of a CMS page. A missing page or a failed
// lookup yields nil so the caller falls back to its default copy.
func (a *App) pageSEO(c echo.Context, slug string) *wordpress.SEO {
	page, err := a.Content.GetPageBySlug(c.Request().Context(), slug)
	if err != nil {
		c.Logger().Warnf("page %q metadata: %v", slug, err)
		return nil
	}
	if page == nil {
		return nil
	}
	return page.SEO
}

func (a *App) handleHome(c echo.Context) error {
	meta := a.homeMeta(a.pageSEO(c, "home"))
	return Render(c, a.Views.Home(HomeData{Page: a.newPage(c, meta)}))
}

func (a *App) handleCatalog(c echo.Context) error {
	ctx := c.Request().Context()
	var (
		seo  *wordpress.SEO
		cats []wordpress.CategoryWithPosts
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		page, err := a.Content.GetPageBySlug(gctx, "courses")
		if err != nil {
			c.Logger().Warnf("page %q metadata: %v", "courses", err)
		} else if page != nil {
			seo = page.SEO
		}
		return nil
	})
	g.Go(func() error {
		cats = a.Content.GetCategoriesWithPosts(gctx, wordpress.DefaultCategoryPostLimit)
		return nil
	})
	_ = g.Wait()

	return Render(c, a.Views.Catalog(CatalogData{
		Page:       a.newPage(c, a.catalogMeta(seo)),
		Categories: cats,
	}))
}

func (a *App) handleLesson(c echo.Context) error {
	ctx := c.Request().Context()
	slug := c.Param("slug")
	post, err := a.Content.GetPostBySlug(ctx, slug)
	if err != nil {
		c.Logger().Errorf("lesson %q: %v", slug, err)
		return a.renderNotFound(c)
	}
	if post == nil {
		return a.renderNotFound(c)
	}

	data := LessonData{Post: *post}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		data.Related = a.Content.GetRelatedPostsByCategory(gctx, post.CategoryID, post.Slug, wordpress.DefaultRelatedLimit)
		return nil
	})
	g.Go(func() error {
		data.Category = a.Content.GetCategoryByID(gctx, post.CategoryID)
		return nil
	})
	g.Go(func() error {
		data.Adjacent = a.Content.GetAdjacentPosts(gctx, post.Slug)
		return nil
	})
	_ = g.Wait()

	data.Page = a.newPage(c, a.lessonMeta(post))
	return Render(c, a.Views.Lesson(data))
}

func (a *App) handleArticle(c echo.Context) error {
	slug := c.Param("slug")
	post, err := a.Content.GetRegularPostBySlug(c.Request().Context(), slug)
	if err != nil {
		c.Logger().Errorf("post %q: %v", slug, err)
		return a.renderNotFound(c)
	}
	if post == nil {
		return a.renderNotFound(c)
	}
	return Render(c, a.Views.Article(ArticleData{
		Page: a.newPage(c, a.articleMeta(post)),
		Post: *post,
	}))
}

func (a *App) handleSearch(c echo.Context) error {
	query := strings.TrimSpace(c.QueryParam("q"))
	var results []wordpress.SearchResult
	if query != "" {
		results = a.Content.SearchPosts(c.Request().Context(), query, wordpress.DefaultSearchLimit)
	}
	return Render(c, a.Views.Search(SearchData{
		Page:    a.newPage(c, a.searchMeta(a.pageSEO(c, "search"), query)),
		Query:   query,
		Results: results,
	}))
}

func (a *App) handleContacts(c echo.Context) error {
	page := a.newPage(c, a.contactsMeta(a.pageSEO(c, "contact")))
	page.Flash = popFlash(c)
	return Render(c, a.Views.Contacts(page))
}

func (a *App) handlePrivacyPolicy(c echo.Context) error {
	page, err := a.Content.GetPageBySlug(c.Request().Context(), "privacy-policy")
	if err != nil {
		c.Logger().Errorf("privacy policy: %v", err)
		return a.renderNotFound(c)
	}
	if page == nil {
		return a.renderNotFound(c)
	}
	return Render(c, a.Views.ContentPage(ContentPageData{
		Page:    a.newPage(c, a.privacyMeta(page.SEO)),
		Title:   page.Title,
		Content: page.Content,
		Date:    page.Date,
	}))
}

func (a *App) handleHTMLSitemap(c echo.Context) error {
	seo := a.pageSEO(c, "sitemap")
	snap := a.Cache.Snapshot(c.Request().Context())
	return Render(c, a.Views.Sitemap(SitemapData{
		Page:     a.newPage(c, a.sitemapMeta(seo)),
		Sections: snap.Sections,
	}))
}

func (a *App) handleAppInfo(c echo.Context) error {
	return Render(c, a.Views.AppInfo(a.newPage(c, a.appInfoMeta())))
}

func (a *App) handleSitemapXML(c echo.Context) error {
	return a.renderSitemap(c, a.Cache.Snapshot(c.Request().Context()).Posts)
}

func (a *App) handleFeed(c echo.Context) error {
	return a.renderRSS(c, a.Cache.Snapshot(c.Request().Context()).Posts)
}

func (a *App) handleCodeCSS(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderContentType, "text/css; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	return htmlcontent.WriteCSS(c.Response())
}

func (a *App) handleRobots(c echo.Context) error {
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	b.WriteString("Allow: /\n")
	for _, p := range []string{"/api/", "/admin/", "/_next/"} {
		fmt.Fprintf(&b, "Disallow: %s\n", p)
	}
	fmt.Fprintf(&b, "\nSitemap: %s/sitemap.xml\n", strings.TrimRight(a.Config.URL, "/"))
	return c.String(http.StatusOK, b.String())
}

func (a *App) renderNotFound(c echo.Context) error {
	page := a.newPage(c, a.notFoundMeta(c.Request().URL.Path))
	return RenderStatus(c, http.StatusNotFound, a.Views.NotFound(page))
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = a.renderNotFound(c)
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		page := a.newPage(c, a.serverErrorMeta(c.Request().URL.Path))
		_ = RenderStatus(c, code, a.Views.ServerError(page))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
