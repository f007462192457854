// Package fetch retrieves the raw text of post files.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/MrSnakeDoc/postnav/internal/domain"
	"github.com/MrSnakeDoc/postnav/internal/utils"
)

// MaxBodyBytes caps the size of a single post.
const MaxBodyBytes = 4 << 20

// FS reads posts from a filesystem.
type FS struct {
	fsys fs.FS
}

// NewFS serves posts from fsys.
func NewFS(fsys fs.FS) *FS {
	return &FS{fsys: fsys}
}

// NewDir serves posts from a directory on disk.
func NewDir(root string) *FS {
	return NewFS(os.DirFS(root))
}

// Fetch returns the content of the file at p, relative to the filesystem root.
func (f *FS) Fetch(ctx context.Context, p string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name, err := CleanPath(p)
	if err != nil {
		return nil, err
	}

	file, err := f.fsys.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", name, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer utils.Close(file)

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", name, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory: %w", name, domain.ErrNotFound)
	}

	data, err := io.ReadAll(io.LimitReader(file, MaxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	if len(data) > MaxBodyBytes {
		return nil, fmt.Errorf("%s exceeds %d bytes", name, MaxBodyBytes)
	}
	return data, nil
}

// CleanPath turns a post path into a valid fs.FS name. Paths that escape the
// root are reported as not found.
func CleanPath(p string) (string, error) {
	name := path.Clean("/" + strings.ReplaceAll(p, "\\", "/"))
	name = strings.TrimPrefix(name, "/")
	if name == "" || name == "." || !fs.ValidPath(name) {
		return "", fmt.Errorf("invalid post path %q: %w", p, domain.ErrNotFound)
	}
	if strings.HasPrefix(p, "..") || strings.Contains(p, "/../") {
		return "", fmt.Errorf("post path %q escapes root: %w", p, domain.ErrNotFound)
	}
	return name, nil
}
