package index

import (
	"sort"
	"sync"
	"time"

	"github.com/MrSnakeDoc/postnav/internal/dom"
	"github.com/MrSnakeDoc/postnav/internal/domain"
	"github.com/MrSnakeDoc/postnav/internal/postnav"
)

// PageEntry is one page load: its document, the mounted page and the list
// snapshot it was built from.
type PageEntry struct {
	ID        string
	Doc       *dom.Document
	Page      *postnav.Page
	CreatedAt time.Time
	LastSeen  time.Time
}

// MemoryIndex holds the current post list and the live page sessions.
// It is the primary source; redis only backs it up.
type MemoryIndex struct {
	mu         sync.RWMutex
	posts      domain.PostList
	postsSet   bool
	lastReload time.Time
	pages      map[string]*PageEntry
	now        func() time.Time
}

// NewMemoryIndex creates a new memory index
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{
		pages: make(map[string]*PageEntry),
		now:   time.Now,
	}
}

// SetClock replaces the time source. Tests only.
func (idx *MemoryIndex) SetClock(now func() time.Time) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.now = now
}

// SetPosts replaces the post list. Pages already built keep their snapshot.
func (idx *MemoryIndex) SetPosts(posts domain.PostList) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.posts = posts
	idx.postsSet = true
	idx.lastReload = idx.now()
}

// Posts returns the current post list and whether one was ever set.
func (idx *MemoryIndex) Posts() (domain.PostList, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.posts, idx.postsSet
}

// GetLastReload returns the timestamp of the last SetPosts.
func (idx *MemoryIndex) GetLastReload() time.Time {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.lastReload
}

// AddPage registers a page session. CreatedAt and LastSeen are stamped now.
func (idx *MemoryIndex) AddPage(entry *PageEntry) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	now := idx.now()
	entry.CreatedAt = now
	entry.LastSeen = now
	idx.pages[entry.ID] = entry
}

// GetPage returns a page session by id.
func (idx *MemoryIndex) GetPage(id string) (*PageEntry, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	entry, ok := idx.pages[id]
	return entry, ok
}

// TouchPage returns a page session and marks it as seen.
func (idx *MemoryIndex) TouchPage(id string) (*PageEntry, bool) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	entry, ok := idx.pages[id]
	if ok {
		entry.LastSeen = idx.now()
	}
	return entry, ok
}

// DeletePage removes a page session.
func (idx *MemoryIndex) DeletePage(id string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	delete(idx.pages, id)
}

// IdlePages returns the ids of pages not seen since before cutoff, oldest first.
func (idx *MemoryIndex) IdlePages(cutoff time.Time) []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	var ids []string
	for id, entry := range idx.pages {
		if entry.LastSeen.Before(cutoff) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool {
		return idx.pages[ids[i]].LastSeen.Before(idx.pages[ids[j]].LastSeen)
	})
	return ids
}

// PageCount returns the number of live page sessions.
func (idx *MemoryIndex) PageCount() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return len(idx.pages)
}
