package domain

import (
	"path"
	"strings"
)

// Post is one renderable Markdown document.
//
// A Post has no identity beyond its position in a PostList:
// two entries may share a title and both are shown.
type Post struct {
	// Title is the display text of the navigation link.
	Title string `json:"title" yaml:"title"`

	// File is the relative path of the Markdown resource.
	// Example: posts/dreamserver.md
	File string `json:"file" yaml:"file"`
}

// DefaultPosts is the post list used when no posts file is configured.
var DefaultPosts = []Post{
	{Title: "Dreamserver", File: "posts/dreamserver.md"},
}

// PostList is an ordered, immutable sequence of posts.
// Navigation order is list order.
type PostList struct {
	posts []Post
}

// NewPostList copies posts into a new list.
func NewPostList(posts []Post) PostList {
	cp := make([]Post, len(posts))
	copy(cp, posts)
	return PostList{posts: cp}
}

// DefaultPostList returns a list built from DefaultPosts.
func DefaultPostList() PostList {
	return NewPostList(DefaultPosts)
}

// Len returns the number of entries.
func (l PostList) Len() int { return len(l.posts) }

// At returns the entry at index i.
func (l PostList) At(i int) (Post, bool) {
	if i < 0 || i >= len(l.posts) {
		return Post{}, false
	}
	return l.posts[i], true
}

// All returns a copy of the entries in order.
func (l PostList) All() []Post {
	cp := make([]Post, len(l.posts))
	copy(cp, l.posts)
	return cp
}

// Files returns the set of files referenced by the list.
func (l PostList) Files() map[string]bool {
	files := make(map[string]bool, len(l.posts))
	for _, p := range l.posts {
		files[p.File] = true
	}
	return files
}

// IndexOfTitle returns the first entry whose title matches (case-insensitive), or -1.
func (l PostList) IndexOfTitle(title string) int {
	for i, p := range l.posts {
		if strings.EqualFold(p.Title, title) {
			return i
		}
	}
	return -1
}

// TitleFromFile derives a display title from a file path.
// Example: "posts/dream-server.md" -> "dream-server"
func TitleFromFile(file string) string {
	base := path.Base(file)
	return strings.TrimSuffix(base, path.Ext(base))
}
