// Package dom is a small mutable html document built on golang.org/x/net/html.
// It provides the mount points a postnav.Loader writes to on the server side.
package dom

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Mount point ids of the host document.
const (
	NavID     = "post-list"
	ContentID = "content"
)

// Document is an html tree guarded by a single lock.
// Every Element obtained from it shares that lock.
type Document struct {
	mu   sync.RWMutex
	root *html.Node
}

// Parse reads a full html document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("error parsing HTML: %w", err)
	}
	return &Document{root: root}, nil
}

// ParseString reads a full html document from s.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// NewShell returns the default host document: a navigation container and a
// content container, both empty. extraHead is inserted raw into <head>.
func NewShell(title string, extraHead ...string) *Document {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html><html><head><meta charset=\"utf-8\"><title>")
	b.WriteString(html.EscapeString(title))
	b.WriteString("</title>")
	for _, h := range extraHead {
		b.WriteString(h)
	}
	b.WriteString(`</head><body><nav id="` + NavID + `"></nav><main id="` + ContentID + `"></main></body></html>`)

	doc, err := ParseString(b.String())
	if err != nil {
		// html.Parse only fails on reader errors.
		panic(err)
	}
	return doc
}

// ElementByID returns the first element with the given id, or nil.
func (d *Document) ElementByID(id string) *Element {
	d.mu.RLock()
	defer d.mu.RUnlock()

	n := findByID(d.root, id)
	if n == nil {
		return nil
	}
	return &Element{doc: d, node: n}
}

// Render writes the whole document.
func (d *Document) Render(w io.Writer) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return html.Render(w, d.root)
}

func (d *Document) String() string {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return ""
	}
	return buf.String()
}

func findByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode && attr(n, "id") == id {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByID(c, id); found != nil {
			return found
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}

func newElement(tag atom.Atom) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: tag,
		Data:     tag.String(),
	}
}
