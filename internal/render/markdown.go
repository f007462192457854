// Package render converts Markdown posts to HTML.
package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// DefaultHighlightStyle is the chroma style used when Options.HighlightStyle is empty.
const DefaultHighlightStyle = "github"

// Options configures the Markdown converter.
type Options struct {
	// HighlightStyle is a chroma style name. Code is emitted with CSS classes,
	// so the style only matters for the stylesheet served next to the page.
	HighlightStyle string

	// Unsafe lets raw HTML in posts through goldmark.
	Unsafe bool

	// Sanitize runs the rendered HTML through a bluemonday UGC policy.
	Sanitize bool
}

// Markdown is a goldmark based converter. It is safe for concurrent use.
type Markdown struct {
	md          goldmark.Markdown
	policy      *bluemonday.Policy
	fingerprint string
}

var chromaClass = regexp.MustCompile(`^[a-zA-Z0-9 _-]+$`)

// NewMarkdown builds the converter.
func NewMarkdown(opts Options) *Markdown {
	style := opts.HighlightStyle
	if style == "" {
		style = DefaultHighlightStyle
	}

	rendererOpts := []goldmark.Option{}
	if opts.Unsafe {
		rendererOpts = append(rendererOpts, goldmark.WithRendererOptions(gmhtml.WithUnsafe()))
	}

	md := goldmark.New(append([]goldmark.Option{
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			highlighting.NewHighlighting(
				highlighting.WithStyle(style),
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true),
				),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
	}, rendererOpts...)...)

	m := &Markdown{md: md, fingerprint: fingerprint(style, opts)}
	if opts.Sanitize {
		p := bluemonday.UGCPolicy()
		// keep heading anchors and chroma token classes
		p.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6", "li", "sup")
		p.AllowAttrs("class").Matching(chromaClass).OnElements("pre", "code", "span", "div")
		m.policy = p
	}
	return m
}

// Fingerprint identifies the settings that shape the output. Two converters
// with the same fingerprint render any source identically.
func (m *Markdown) Fingerprint() string { return m.fingerprint }

func fingerprint(style string, opts Options) string {
	return "md1;style=" + style +
		";unsafe=" + strconv.FormatBool(opts.Unsafe) +
		";sanitize=" + strconv.FormatBool(opts.Sanitize)
}

// Convert renders src as HTML.
func (m *Markdown) Convert(ctx context.Context, src []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := m.md.Convert(src, &buf); err != nil {
		return "", fmt.Errorf("error parsing MD (markdown): %w", err)
	}
	if m.policy != nil {
		return m.policy.Sanitize(buf.String()), nil
	}
	return buf.String(), nil
}
