// Package views holds the default CodOrbits page templates. Each template set
// pairs the shared layout with one page and is exposed to the server as a
// templ.Component through codorbits.ViewFuncs.
package views

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"html"
	"html/template"
	"io"

	"github.com/a-h/templ"

	"github.com/eringen/codorbits"
	"github.com/eringen/codorbits/htmlcontent"
	"github.com/eringen/codorbits/wordpress"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{
	"home", "catalog", "lesson", "article", "search", "contacts",
	"content", "sitemap", "app_info", "not_found", "server_error",
}

var funcs = template.FuncMap{
	"content": func(p codorbits.Page, s string) template.HTML {
		return htmlcontent.Render(s, htmlcontent.Options{Native: p.Native})
	},
	"unescape": html.UnescapeString,
	"date":     FormatDate,
	"jsonld":   jsonLD,
	"link":     func(r wordpress.SearchResult) string { return r.Link() },
	"inc":      func(i int) int { return i + 1 },
}

// jsonLD marks a JSON-LD document safe for a script element. Markup
// characters are escaped again so no caller can close the element.
func jsonLD(s string) template.JS {
	var buf bytes.Buffer
	json.HTMLEscape(&buf, []byte(s))
	return template.JS(buf.String())
}

// Templates is a parsed set of page templates.
type Templates struct {
	pages  map[string]*template.Template
	status *template.Template
}

// Parse loads the embedded templates.
func Parse() (*Templates, error) {
	base, err := template.New("layout").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/partials.html")
	if err != nil {
		return nil, fmt.Errorf("views: parse layout: %w", err)
	}
	t := &Templates{pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("views: clone layout: %w", err)
		}
		page, err := clone.ParseFS(templateFS, "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("views: parse %s: %w", name, err)
		}
		t.pages[name] = page
	}
	// The contact status partial renders on its own for HTMX swaps.
	t.status = t.pages["contacts"]
	return t, nil
}

// MustParse is Parse for package initialisation; it panics on error.
func MustParse() *Templates {
	t, err := Parse()
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Templates) component(name, entry string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return t.pages[name].ExecuteTemplate(w, entry, data)
	})
}

func (t *Templates) page(name string, data any) templ.Component {
	return t.component(name, "layout", data)
}

// ViewFuncs returns the components the server renders pages with.
func (t *Templates) ViewFuncs() codorbits.ViewFuncs {
	return codorbits.ViewFuncs{
		Home:     func(d codorbits.HomeData) templ.Component { return t.page("home", d) },
		Catalog:  func(d codorbits.CatalogData) templ.Component { return t.page("catalog", d) },
		Lesson:   func(d codorbits.LessonData) templ.Component { return t.page("lesson", d) },
		Article:  func(d codorbits.ArticleData) templ.Component { return t.page("article", d) },
		Search:   func(d codorbits.SearchData) templ.Component { return t.page("search", d) },
		Contacts: func(p codorbits.Page) templ.Component { return t.page("contacts", p) },
		ContactStatus: func(f codorbits.Flash) templ.Component {
			return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
				return t.status.ExecuteTemplate(w, "contact-status", &f)
			})
		},
		ContentPage: func(d codorbits.ContentPageData) templ.Component { return t.page("content", d) },
		Sitemap:     func(d codorbits.SitemapData) templ.Component { return t.page("sitemap", d) },
		AppInfo:     func(p codorbits.Page) templ.Component { return t.page("app_info", p) },
		NotFound:    func(p codorbits.Page) templ.Component { return t.page("not_found", p) },
		ServerError: func(p codorbits.Page) templ.Component { return t.page("server_error", p) },
	}
}

// Default returns ViewFuncs backed by the embedded templates.
func Default() codorbits.ViewFuncs {
	return MustParse().ViewFuncs()
}
