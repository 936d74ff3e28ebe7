// Package htmlcontent turns CMS-rendered post HTML into markup that is safe to
// embed in a page: it sanitises the HTML, highlights code blocks on the server
// and adapts inline code for readers who are likely to machine-translate the page.
package htmlcontent

import (
	"bytes"
	"context"
	"html"
	"html/template"
	"io"
	"net/url"
	"regexp"
	"strings"

	"github.com/a-h/templ"
	"github.com/microcosm-cc/bluemonday"
	xhtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	placeholderTag  = "syntax-highlighter"
	languageAttr    = "data-language"
	defaultLanguage = "text"
	inlineCodeClass = "inline-code"
)

var (
	reHighlighter = regexp.MustCompile(`(?s)<SyntaxHighlighter\s+language="([^"]+)"[^>]*>(.*?)</SyntaxHighlighter>`)
	quoteReplacer = strings.NewReplacer("“", `"`, "”", `"`)
	policy        = newPolicy()
)

func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowElements("iframe", placeholderTag)
	p.AllowAttrs(languageAttr).OnElements(placeholderTag)
	p.AllowAttrs("src", "width", "height", "allowfullscreen", "frameborder", "title").OnElements("iframe")
	p.AllowAttrs("srcset", "sizes").OnElements("img", "source")
	p.AllowAttrs("class", "translate").Globally()
	return p
}

// Options control how content is rendered for one reader.
type Options struct {
	// Native is true when the reader's language is one the site is written
	// for. Non-native readers get inline code as spans so page translators
	// leave it alone.
	Native bool
}

// Render runs the full pipeline over CMS HTML and returns the result.
func Render(content string, opts Options) template.HTML {
	var buf bytes.Buffer
	if err := render(&buf, content, opts); err != nil {
		return template.HTML(policy.Sanitize(content))
	}
	return template.HTML(buf.String())
}

// Component returns content rendered by Render as a templ.Component.
func Component(content string, opts Options) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, string(Render(content, opts)))
		return err
	})
}

// Sanitize applies the content policy without any other processing.
func Sanitize(content string) template.HTML {
	return template.HTML(policy.Sanitize(content))
}

// ExtractHighlighters replaces every <SyntaxHighlighter language="x"> block
// with a <syntax-highlighter data-language="x"> placeholder. The code is
// entity-decoded, typographic double quotes become plain ones, and the
// result is query-escaped so it survives sanitisation untouched.
func ExtractHighlighters(content string) string {
	return reHighlighter.ReplaceAllStringFunc(content, func(m string) string {
		match := reHighlighter.FindStringSubmatch(m)
		code := quoteReplacer.Replace(html.UnescapeString(match[2]))
		return `<` + placeholderTag + ` ` + languageAttr + `="` + html.EscapeString(match[1]) + `">` +
			url.QueryEscape(code) + `</` + placeholderTag + `>`
	})
}

func render(w io.Writer, content string, opts Options) error {
	clean := policy.Sanitize(ExtractHighlighters(content))

	container := &xhtml.Node{Type: xhtml.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := xhtml.ParseFragment(strings.NewReader(clean), container)
	if err != nil {
		return err
	}
	for _, n := range nodes {
		container.AppendChild(n)
	}

	var blocks, codes []*xhtml.Node
	walk(container, func(n *xhtml.Node) {
		switch n.Data {
		case placeholderTag:
			blocks = append(blocks, n)
		case "code":
			codes = append(codes, n)
		}
	})

	if !opts.Native {
		for _, n := range codes {
			toInlineSpan(n)
		}
	}
	for _, n := range blocks {
		if err := replaceBlock(n, opts); err != nil {
			return err
		}
	}

	for n := container.FirstChild; n != nil; n = n.NextSibling {
		if err := xhtml.Render(w, n); err != nil {
			return err
		}
	}
	return nil
}

func walk(n *xhtml.Node, fn func(*xhtml.Node)) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xhtml.ElementNode {
			fn(c)
		}
		walk(c, fn)
	}
}

// toInlineSpan renames a code element to span, drops translate and adds the
// inline-code class.
func toInlineSpan(n *xhtml.Node) {
	n.Data = "span"
	n.DataAtom = atom.Span
	attrs := n.Attr[:0]
	hasClass := false
	for _, a := range n.Attr {
		switch a.Key {
		case "translate":
			continue
		case "class":
			a.Val = strings.TrimSpace(a.Val + " " + inlineCodeClass)
			hasClass = true
		}
		attrs = append(attrs, a)
	}
	if !hasClass {
		attrs = append(attrs, xhtml.Attribute{Key: "class", Val: inlineCodeClass})
	}
	n.Attr = attrs
}

func replaceBlock(n *xhtml.Node, opts Options) error {
	lang := defaultLanguage
	for _, a := range n.Attr {
		if a.Key == languageAttr && strings.TrimSpace(a.Val) != "" {
			lang = strings.TrimSpace(a.Val)
		}
	}
	var raw strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xhtml.TextNode {
			raw.WriteString(c.Data)
		}
	}
	code, err := url.QueryUnescape(raw.String())
	if err != nil {
		code = raw.String()
	}

	var buf bytes.Buffer
	if err := highlight(&buf, lang, strings.TrimSpace(code), !opts.Native); err != nil {
		return err
	}
	parent := n.Parent
	frag, err := xhtml.ParseFragment(&buf, &xhtml.Node{Type: xhtml.ElementNode, Data: "div", DataAtom: atom.Div})
	if err != nil {
		return err
	}
	for _, f := range frag {
		parent.InsertBefore(f, n)
	}
	parent.RemoveChild(n)
	return nil
}
