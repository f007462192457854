package render

import (
	"bytes"
	"fmt"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
)

// StyleCSS returns the stylesheet matching the class names emitted by the
// converter for the named chroma style. An empty name selects the default.
func StyleCSS(name string) (string, error) {
	if name == "" {
		name = DefaultHighlightStyle
	}
	style := styles.Get(name)
	if style == nil || (style == styles.Fallback && name != styles.Fallback.Name) {
		return "", fmt.Errorf("unknown highlight style %q", name)
	}
	return writeCSS(style)
}

func writeCSS(style *chroma.Style) (string, error) {
	var buf bytes.Buffer
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.WriteCSS(&buf, style); err != nil {
		return "", fmt.Errorf("failed to write css for %s: %w", style.Name, err)
	}
	return buf.String(), nil
}
