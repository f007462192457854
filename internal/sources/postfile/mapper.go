package postfile

import (
	"strings"

	"github.com/MrSnakeDoc/postnav/internal/domain"
)

// Mapper converts a posts file into a domain.PostList.
type Mapper struct{}

// NewMapper creates a new mapper instance
func NewMapper() *Mapper {
	return &Mapper{}
}

// Map keeps file order and duplicates. Entries without a file are skipped;
// an entry without a title is named after its file.
func (m *Mapper) Map(f File) domain.PostList {
	posts := make([]domain.Post, 0, len(f.Posts))
	for _, e := range f.Posts {
		file := strings.TrimSpace(e.File)
		if file == "" {
			continue
		}
		title := strings.TrimSpace(e.Title)
		if title == "" {
			title = domain.TitleFromFile(file)
		}
		posts = append(posts, domain.Post{Title: title, File: file})
	}
	return domain.NewPostList(posts)
}

// LoadList reads and maps a posts file in one step.
func LoadList(path string) (domain.PostList, error) {
	f, err := NewLoader(path).Load()
	if err != nil {
		return domain.PostList{}, err
	}
	return NewMapper().Map(f), nil
}
