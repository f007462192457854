package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/postnav/internal/app"
	"github.com/MrSnakeDoc/postnav/internal/config"
	"github.com/MrSnakeDoc/postnav/internal/dom"
	"github.com/MrSnakeDoc/postnav/internal/domain"
	"github.com/MrSnakeDoc/postnav/internal/logger"
)

type renderOptions struct {
	postsFile   string
	root        string
	contentOnly bool
}

func newRenderCmd() *cobra.Command {
	var opts renderOptions

	cmd := &cobra.Command{
		Use:   "render INDEX|TITLE",
		Short: "Load a page, click one post and print the result",
		Long: "Builds the page shell, mounts the navigation and clicks the selected post,\n" +
			"then prints the whole document (or only the content pane with --content-only).",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if opts.root != "" {
				cfg.PostsRoot = opts.root
				cfg.FetchBaseURL = ""
			}
			return runRender(cmd.Context(), cmd.OutOrStdout(), cfg, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.postsFile, "posts", "", "posts YAML file (default $POSTNAV_POSTS_FILE, else the built-in list)")
	cmd.Flags().StringVar(&opts.root, "root", "", "directory post files are read from (default $POSTNAV_POSTS_ROOT)")
	cmd.Flags().BoolVar(&opts.contentOnly, "content-only", false, "print only the content pane")
	return cmd
}

func runRender(ctx context.Context, out io.Writer, cfg *config.Config, opts renderOptions, selector string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	log := logger.New("warn", cfg.PrettyLog)

	posts, err := loadPosts(opts.postsFile, cfg)
	if err != nil {
		return err
	}
	i, err := selectPost(posts, selector)
	if err != nil {
		return err
	}

	components, err := app.BuildComponents(cfg, nil, log)
	if err != nil {
		return err
	}

	doc := dom.NewShell("Posts")
	nav, content := dom.Mount(doc)
	page, err := components.NewLoader(log).Load(posts, nav, content)
	if err != nil {
		return err
	}
	if err := page.Click(ctx, i); err != nil {
		return err
	}

	if opts.contentOnly {
		_, err = io.WriteString(out, doc.ElementByID(dom.ContentID).InnerHTML())
		return err
	}
	return doc.Render(out)
}

// selectPost resolves an index or, failing that, a case-insensitive title.
func selectPost(posts domain.PostList, selector string) (int, error) {
	if i, err := strconv.Atoi(selector); err == nil {
		if _, ok := posts.At(i); !ok {
			return 0, fmt.Errorf("post %d: %w", i, domain.ErrNotFound)
		}
		return i, nil
	}
	if i := posts.IndexOfTitle(selector); i >= 0 {
		return i, nil
	}
	return 0, fmt.Errorf("post %q: %w", selector, domain.ErrNotFound)
}
