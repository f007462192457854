package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/postnav/internal/config"
	"github.com/MrSnakeDoc/postnav/internal/domain"
	"github.com/MrSnakeDoc/postnav/internal/sources/postfile"
)

func newListCmd() *cobra.Command {
	var postsFile string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the post list as index, title and file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			posts, err := loadPosts(postsFile, cfg)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for i, p := range posts.All() {
				if _, err := fmt.Fprintf(out, "%d\t%s\t%s\n", i, p.Title, p.File); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&postsFile, "posts", "", "posts YAML file (default $POSTNAV_POSTS_FILE, else the built-in list)")
	return cmd
}

// loadPosts reads flagFile, then the configured file, then falls back to the built-in list.
func loadPosts(flagFile string, cfg *config.Config) (domain.PostList, error) {
	path := flagFile
	if path == "" {
		path = cfg.PostsFile
	}
	if path == "" {
		return domain.DefaultPostList(), nil
	}
	posts, err := postfile.LoadList(path)
	if err != nil {
		return domain.PostList{}, fmt.Errorf("failed to load posts: %w", err)
	}
	return posts, nil
}
