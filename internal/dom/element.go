package dom

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/MrSnakeDoc/postnav/internal/postnav"
)

// Element is a handle on one element node of a Document.
type Element struct {
	doc  *Document
	node *html.Node
}

// Tag returns the element's tag name.
func (e *Element) Tag() string { return e.node.Data }

// Attr returns the value of an attribute, or "".
func (e *Element) Attr(key string) string {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	return attr(e.node, key)
}

// Children returns the element children, in document order.
func (e *Element) Children() []*Element {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()

	var out []*Element
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, &Element{doc: e.doc, node: c})
		}
	}
	return out
}

// Text returns the concatenated text content.
func (e *Element) Text() string {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(e.node)
	return b.String()
}

// InnerHTML renders the element's children.
func (e *Element) InnerHTML() string {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()

	var buf bytes.Buffer
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return ""
		}
	}
	return buf.String()
}

// ReplaceHTML parses markup in the element's context and swaps it in for
// all current children. On a parse error the element is left unchanged.
func (e *Element) ReplaceHTML(markup string) error {
	nodes, err := html.ParseFragment(strings.NewReader(markup), e.contextNode())
	if err != nil {
		return fmt.Errorf("error parsing HTML fragment: %w", err)
	}

	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()

	for c := e.node.FirstChild; c != nil; {
		next := c.NextSibling
		e.node.RemoveChild(c)
		c = next
	}
	for _, n := range nodes {
		e.node.AppendChild(n)
	}
	return nil
}

// AppendLink appends an <a> for l as the last child. Extra attributes are
// written in sorted key order so output is stable.
func (e *Element) AppendLink(l *postnav.Link) error {
	a := newElement(atom.A)
	a.Attr = append(a.Attr, html.Attribute{Key: "href", Val: l.Href})

	keys := make([]string, 0, len(l.Attrs))
	for k := range l.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		a.Attr = append(a.Attr, html.Attribute{Key: k, Val: l.Attrs[k]})
	}
	a.AppendChild(&html.Node{Type: html.TextNode, Data: l.Text})

	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	e.node.AppendChild(a)
	return nil
}

// contextNode is a detached copy of the element used as parsing context, so
// the fragment parser never walks the live tree.
func (e *Element) contextNode() *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: e.node.DataAtom,
		Data:     e.node.Data,
	}
}

// NavOf adapts e to a navigation container. A nil element yields a nil
// interface, so postnav.Loader reports the missing mount point.
func NavOf(e *Element) postnav.Nav {
	if e == nil {
		return nil
	}
	return e
}

// ContentOf adapts e to a content container, with the same nil rule as NavOf.
func ContentOf(e *Element) postnav.Content {
	if e == nil {
		return nil
	}
	return e
}

// Mount looks up the standard mount points of doc.
func Mount(doc *Document) (postnav.Nav, postnav.Content) {
	return NavOf(doc.ElementByID(NavID)), ContentOf(doc.ElementByID(ContentID))
}
