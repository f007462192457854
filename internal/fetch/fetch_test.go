package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/postnav/internal/domain"
)

func TestFSFetch(t *testing.T) {
	fsys := fstest.MapFS{
		"posts/dreamserver.md": {Data: []byte("# Dreamserver\n")},
		"posts/sub":            {Mode: os.ModeDir},
	}
	f := NewFS(fsys)

	data, err := f.Fetch(context.Background(), "posts/dreamserver.md")
	require.NoError(t, err)
	assert.Equal(t, "# Dreamserver\n", string(data))

	data, err = f.Fetch(context.Background(), "/posts/dreamserver.md")
	require.NoError(t, err, "leading slash is relative to the root")
	assert.Equal(t, "# Dreamserver\n", string(data))

	_, err = f.Fetch(context.Background(), "posts/missing.md")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.Fetch(context.Background(), "posts/sub")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFSFetchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFS(fstest.MapFS{}).Fetch(ctx, "a.md")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDirFetch(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "posts"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "posts", "a.md"), []byte("hello"), 0o644))

	data, err := NewDir(root).Fetch(context.Background(), "posts/a.md")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestCleanPath(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "posts/a.md", want: "posts/a.md"},
		{in: "/posts/a.md", want: "posts/a.md"},
		{in: "posts//a.md", want: "posts/a.md"},
		{in: "posts\\a.md", want: "posts/a.md"},
		{in: "../secret.md", wantErr: true},
		{in: "posts/../../secret.md", wantErr: true},
		{in: "", wantErr: true},
		{in: "/", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := CleanPath(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrNotFound)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHTTPFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/static/posts/a.md":
			_, _ = w.Write([]byte("# A"))
		case "/static/posts/broken.md":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f, err := NewHTTP(srv.URL+"/static", srv.Client())
	require.NoError(t, err)

	data, err := f.Fetch(context.Background(), "posts/a.md")
	require.NoError(t, err)
	assert.Equal(t, "# A", string(data))

	_, err = f.Fetch(context.Background(), "posts/missing.md")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.Fetch(context.Background(), "posts/broken.md")
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	assert.True(t, strings.HasSuffix(statusErr.URL, "/static/posts/broken.md"))
}

func TestNewHTTPRejectsBadURL(t *testing.T) {
	_, err := NewHTTP("ftp://example.com", nil)
	assert.Error(t, err)

	_, err = NewHTTP("://nope", nil)
	assert.Error(t, err)
}
