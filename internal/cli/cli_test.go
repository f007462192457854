package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/postnav/internal/domain"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func setupSite(t *testing.T) (postsFile, root string) {
	t.Helper()
	root = t.TempDir()
	postsFile = filepath.Join(root, "posts.yaml")
	writeFile(t, postsFile, "posts:\n  - title: Dreamserver\n    file: posts/dreamserver.md\n  - title: Missing\n    file: posts/missing.md\n")
	writeFile(t, filepath.Join(root, "posts", "dreamserver.md"), "# Dreamserver\n\nhello world\n")
	return postsFile, root
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestListCommand(t *testing.T) {
	postsFile, _ := setupSite(t)

	out, err := run(t, "list", "--posts", postsFile)
	require.NoError(t, err)
	assert.Equal(t, "0\tDreamserver\tposts/dreamserver.md\n1\tMissing\tposts/missing.md\n", out)
}

func TestListCommandDefaultList(t *testing.T) {
	out, err := run(t, "list")
	require.NoError(t, err)
	assert.Equal(t, "0\tDreamserver\tposts/dreamserver.md\n", out)
}

func TestRenderCommandContentOnly(t *testing.T) {
	postsFile, root := setupSite(t)

	out, err := run(t, "render", "--posts", postsFile, "--root", root, "--content-only", "0")
	require.NoError(t, err)
	assert.Contains(t, out, `<h1 id="dreamserver">Dreamserver</h1>`)
	assert.Contains(t, out, "<p>hello world</p>")
}

func TestRenderCommandByTitle(t *testing.T) {
	postsFile, root := setupSite(t)

	out, err := run(t, "render", "--posts", postsFile, "--root", root, "dreamSERVER")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, `<nav id="post-list"><a href="#">Dreamserver</a><a href="#">Missing</a></nav>`)
	assert.Contains(t, out, "<p>hello world</p>")
}

func TestRenderCommandErrors(t *testing.T) {
	postsFile, root := setupSite(t)

	_, err := run(t, "render", "--posts", postsFile, "--root", root, "1")
	assert.ErrorIs(t, err, domain.ErrNotFound, "missing resource")

	_, err = run(t, "render", "--posts", postsFile, "--root", root, "7")
	assert.ErrorIs(t, err, domain.ErrNotFound, "index out of range")

	_, err = run(t, "render", "--posts", postsFile, "--root", root, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound, "unknown title")

	_, err = run(t, "render")
	assert.Error(t, err, "selector is required")
}

func TestSelectPost(t *testing.T) {
	posts := domain.NewPostList([]domain.Post{
		{Title: "A", File: "a.md"},
		{Title: "B", File: "b.md"},
		{Title: "b", File: "b2.md"},
	})

	i, err := selectPost(posts, "1")
	require.NoError(t, err)
	assert.Equal(t, 1, i)

	i, err = selectPost(posts, "b")
	require.NoError(t, err)
	assert.Equal(t, 1, i, "first case-insensitive match wins")

	_, err = selectPost(posts, "-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
