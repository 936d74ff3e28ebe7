package htmlcontent

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// StyleName is the chroma style the stylesheet is generated from.
const StyleName = "github"

var formatter = chromahtml.New(
	chromahtml.WithClasses(true),
	chromahtml.WithLineNumbers(true),
	chromahtml.TabWidth(4),
)

// highlight writes code as a highlighted block inside a code-block-wrapper
// with a language badge. With asSpan the inner code element becomes a span.
func highlight(w io.Writer, lang, code string, asSpan bool) error {
	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	it, err := lexer.Tokenise(nil, code)
	if err != nil {
		return fmt.Errorf("htmlcontent: tokenise %s: %w", lang, err)
	}
	var body bytes.Buffer
	if err := formatter.Format(&body, styles.Get(StyleName), it); err != nil {
		return fmt.Errorf("htmlcontent: format %s: %w", lang, err)
	}
	out := body.String()
	if asSpan {
		out = strings.Replace(out, "<code>", `<span class="code">`, 1)
		if i := strings.LastIndex(out, "</code>"); i >= 0 {
			out = out[:i] + "</span>" + out[i+len("</code>"):]
		}
	}

	badge := html.EscapeString(strings.ToLower(lang))
	_, err = fmt.Fprintf(w, `<div class="code-block-wrapper"><span class="code-lang code-lang-%s">%s</span>%s</div>`, badge, badge, out)
	return err
}

// WriteCSS writes the stylesheet for highlighted blocks.
func WriteCSS(w io.Writer) error {
	return formatter.WriteCSS(w, styles.Get(StyleName))
}
