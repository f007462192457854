package dom

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/postnav/internal/domain"
	"github.com/MrSnakeDoc/postnav/internal/postnav"
)

type staticFetcher map[string]string

func (f staticFetcher) Fetch(_ context.Context, path string) ([]byte, error) {
	body, ok := f[path]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return []byte(body), nil
}

type paragraphConverter struct{}

func (paragraphConverter) Convert(_ context.Context, src []byte) (string, error) {
	return "<h1>" + string(src) + "</h1><p>body</p>", nil
}

func TestNewShellHasMountPoints(t *testing.T) {
	doc := NewShell("Posts & notes")

	nav := doc.ElementByID(NavID)
	require.NotNil(t, nav)
	assert.Equal(t, "nav", nav.Tag())
	assert.Empty(t, nav.Children())

	content := doc.ElementByID(ContentID)
	require.NotNil(t, content)
	assert.Equal(t, "main", content.Tag())

	assert.Contains(t, doc.String(), "<title>Posts &amp; notes</title>")
}

func TestElementByIDMissing(t *testing.T) {
	doc, err := ParseString(`<html><body><div id="other"></div></body></html>`)
	require.NoError(t, err)

	assert.Nil(t, doc.ElementByID(NavID))
	nav, content := Mount(doc)
	assert.Nil(t, nav)
	assert.Nil(t, content)
}

func TestAppendLink(t *testing.T) {
	doc := NewShell("t")
	nav := doc.ElementByID(NavID)

	require.NoError(t, nav.AppendLink(&postnav.Link{Text: "First", Href: "#"}))
	require.NoError(t, nav.AppendLink(&postnav.Link{
		Text:  "Second <b>",
		Href:  "#",
		Attrs: map[string]string{"hx-target": "#content", "data-index": "1"},
	}))

	children := nav.Children()
	require.Len(t, children, 2)
	assert.Equal(t, "First", children[0].Text())
	assert.Equal(t, "Second <b>", children[1].Text())
	assert.Equal(t, "#", children[1].Attr("href"))
	assert.Equal(t, "1", children[1].Attr("data-index"))
	assert.Equal(t,
		`<a href="#">First</a><a href="#" data-index="1" hx-target="#content">Second &lt;b&gt;</a>`,
		nav.InnerHTML())
}

func TestReplaceHTML(t *testing.T) {
	doc := NewShell("t")
	content := doc.ElementByID(ContentID)

	require.NoError(t, content.ReplaceHTML("<p>one</p>"))
	require.NoError(t, content.ReplaceHTML("<h2>two</h2><p>three</p>"))

	assert.Equal(t, "<h2>two</h2><p>three</p>", content.InnerHTML())
	require.Len(t, content.Children(), 2)
	assert.Equal(t, "twothree", content.Text())
}

func TestLoaderOnShell(t *testing.T) {
	doc := NewShell("t")
	nav, content := Mount(doc)
	posts := domain.NewPostList([]domain.Post{
		{Title: "Dreamserver", File: "posts/dreamserver.md"},
		{Title: "Missing", File: "posts/missing.md"},
	})

	loader := postnav.NewLoader(staticFetcher{"posts/dreamserver.md": "Dream"}, paragraphConverter{}, nil)
	page, err := loader.Load(posts, nav, content)
	require.NoError(t, err)

	links := doc.ElementByID(NavID).Children()
	require.Len(t, links, 2)
	assert.Equal(t, "Dreamserver", links[0].Text())
	assert.Equal(t, "Missing", links[1].Text())

	require.NoError(t, page.Click(context.Background(), 0))
	pane := doc.ElementByID(ContentID)
	assert.Equal(t, "<h1>Dream</h1><p>body</p>", pane.InnerHTML())

	assert.Error(t, page.Click(context.Background(), 1))
	assert.Equal(t, "<h1>Dream</h1><p>body</p>", pane.InnerHTML())

	rendered := doc.String()
	assert.True(t, strings.Contains(rendered, `<nav id="post-list"><a href="#">Dreamserver</a>`))
}
