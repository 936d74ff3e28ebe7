// Package codorbits serves the CodOrbits Java course site. Content lives in a
// headless WordPress install; the package fetches it through the wordpress
// gateway, renders it with user-provided templ components and handles the
// contact and newsletter forms.
//
// Users provide their own templates via the ViewFuncs struct, and codorbits
// handles routing, middleware, SEO metadata, caching and form processing.
package codorbits

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"github.com/eringen/codorbits/newsletter"
	"github.com/eringen/codorbits/recaptcha"
	"github.com/eringen/codorbits/wordpress"
)

// Gateway is the content source the handlers read from. *wordpress.Client
// implements it.
type Gateway interface {
	GetPostBySlug(ctx context.Context, slug string) (*wordpress.Post, error)
	GetRegularPostBySlug(ctx context.Context, slug string) (*wordpress.RegularPost, error)
	GetPageBySlug(ctx context.Context, slug string) (*wordpress.Page, error)
	GetAllPosts(ctx context.Context) []wordpress.PostSummary
	GetAllCategories(ctx context.Context) []wordpress.Category
	GetCategoriesWithPosts(ctx context.Context, limit int) []wordpress.CategoryWithPosts
	GetPostsByCategory(ctx context.Context, categoryID, limit int) []wordpress.PostSummary
	GetRelatedPostsByCategory(ctx context.Context, categoryID int, currentSlug string, limit int) []wordpress.PostLink
	GetCategoryByID(ctx context.Context, id int) *wordpress.Category
	GetAdjacentPosts(ctx context.Context, slug string) wordpress.AdjacentPosts
	SearchPosts(ctx context.Context, query string, limit int) []wordpress.SearchResult
	SendContactForm(ctx context.Context, form wordpress.ContactForm) wordpress.ContactResult
}

// Verifier checks reCAPTCHA tokens. *recaptcha.Verifier implements it.
type Verifier interface {
	Enabled() bool
	Verify(ctx context.Context, token, remoteIP string) (bool, error)
}

// Subscriber adds an email to the mailing list. *newsletter.Client implements it.
type Subscriber interface {
	Subscribe(ctx context.Context, email string) error
}

// ViewFuncs holds user-provided templ components that the framework calls
// when rendering pages.
type ViewFuncs struct {
	Home          func(d HomeData) templ.Component
	Catalog       func(d CatalogData) templ.Component
	Lesson        func(d LessonData) templ.Component
	Article       func(d ArticleData) templ.Component
	Search        func(d SearchData) templ.Component
	Contacts      func(p Page) templ.Component
	ContactStatus func(f Flash) templ.Component
	ContentPage   func(d ContentPageData) templ.Component
	Sitemap       func(d SitemapData) templ.Component
	AppInfo       func(p Page) templ.Component
	NotFound      func(p Page) templ.Component
	ServerError   func(p Page) templ.Component
}

// App is the central application. It wires together the gateway, cache,
// store, handlers, middleware and user-provided templates.
type App struct {
	Config  SiteConfig
	Echo    *echo.Echo
	Store   *Store
	Content Gateway
	Cache   *ContentCache
	Views   ViewFuncs

	captcha      Verifier
	newsletter   Subscriber
	formLimiter  *FormLimiter
	scheduler    *Scheduler
	customRoutes []func(*App)
	staticDir    string
	ready        bool
}

// New creates an App with the given configuration and view functions.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     views,
		staticDir: "public",
	}
	a.Echo.HideBanner = true

	for _, opt := range opts {
		opt(a)
	}

	if a.Content == nil {
		a.Content = wordpress.NewClient(cfg.CMSURL,
			wordpress.WithTimeout(cfg.CMSTimeout),
			wordpress.WithFanOut(cfg.CMSFanOut),
			wordpress.WithContactFormID(cfg.ContactFormID),
			wordpress.WithLogger(log.New("wordpress")),
		)
	}
	if a.captcha == nil {
		a.captcha = recaptcha.New(cfg.RecaptchaSecretKey)
	}
	if a.newsletter == nil {
		a.newsletter = newsletter.New(newsletter.Config{
			APIKey:     cfg.MailchimpAPIKey,
			AudienceID: cfg.MailchimpAudienceID,
			Server:     cfg.MailchimpServer,
		})
	}
	return a
}

// Setup initializes the store, cache, limiter, middleware and routes without
// starting the server. Start calls it; tests call it directly.
func (a *App) Setup() error {
	if a.ready {
		return nil
	}
	if err := a.Config.validate(); err != nil {
		return err
	}

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("codorbits: init store: %w", err)
	}
	a.Store = store

	a.Cache = NewContentCache(a.Content, a.Config.ContentCacheTTL, a.Config.CMSFanOut)
	a.formLimiter = NewFormLimiter(5, time.Minute)

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	a.ready = true
	return nil
}

// Start initializes the app, schedules the cache warm-up and starts the server.
func (a *App) Start() error {
	if err := a.Setup(); err != nil {
		return err
	}

	if a.Config.CacheWarmSpec != "" && a.Config.ContentCacheTTL > 0 {
		sched, err := NewScheduler(a.Cache, a.Config.CacheWarmSpec, log.New("scheduler"))
		if err != nil {
			return fmt.Errorf("codorbits: init scheduler: %w", err)
		}
		a.scheduler = sched
		a.scheduler.Start()
	}

	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully, then releases resources.
func (a *App) Shutdown(ctx context.Context) error {
	err := a.Echo.Shutdown(ctx)
	if cerr := a.Close(); err == nil {
		err = cerr
	}
	return err
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.Static("/public", a.staticDir)
	e.Static("/images", a.staticDir+"/images")
	e.GET("/public/code.css", a.handleCodeCSS)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemapXML)
	e.GET("/feed.xml", a.handleFeed)

	e.GET("/", a.handleHome)
	e.GET("/course/", a.handleCatalog)
	e.GET("/course/:slug/", a.handleLesson)
	e.GET("/post/:slug/", a.handleArticle)
	e.GET("/search/", a.handleSearch)
	e.GET("/contacts/", a.handleContacts)
	e.POST("/contacts/", a.handleContactSubmit)
	e.GET("/privacy-policy/", a.handlePrivacyPolicy)
	e.GET("/sitemap/", a.handleHTMLSitemap)
	e.GET("/app-info/", a.handleAppInfo)

	e.POST("/api/subscribe", a.handleSubscribe)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.scheduler != nil {
		a.scheduler.Stop()
	}
	if a.formLimiter != nil {
		a.formLimiter.Stop()
	}
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}
