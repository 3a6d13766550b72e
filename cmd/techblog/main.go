package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"techblog/internal/build"
	"techblog/internal/domain/config"
	"techblog/internal/serve"
	"techblog/internal/store"

	"github.com/spf13/cobra"
)

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:   "techblog",
		Short: "Static blog generator with a client-side query engine",
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "site.yaml", "config file path")

	rootCmd.AddCommand(buildCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(newCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (config.Config, error) {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func buildCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Render the whole site into the public dir",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			b := &build.Builder{Cfg: cfg, Force: force}
			res, err := b.Run(cmd.Context())
			if err != nil {
				return err
			}

			if res.Skipped {
				fmt.Println("nothing changed, skipped (use --force to rebuild)")
				return nil
			}
			fmt.Printf("built %d posts, %d tags -> %s\n", res.Posts, res.Tags, cfg.Build.PublicDir)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "rebuild even when inputs are unchanged")
	return cmd
}

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the site with live reload on content changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			s, err := serve.New(cfg)
			if err != nil {
				return err
			}
			defer s.Close()

			return s.ListenAndServe(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}

func newCmd() *cobra.Command {
	var tagsFlag string
	var excerpt string
	var author string

	cmd := &cobra.Command{
		Use:   "new [title]",
		Short: "Prepend a new post to the content store",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			title := strings.Join(args, " ")

			st, err := store.New(store.Options{
				Path:          cfg.Build.PostsFile,
				DefaultAuthor: cfg.Site.Author,
			})
			if err != nil {
				return err
			}

			// 文件还不存在时从空集合开始
			if _, statErr := os.Stat(cfg.Build.PostsFile); statErr == nil {
				if _, err := st.Load(); err != nil {
					return err
				}
			}

			var tags []string
			for _, t := range strings.Split(tagsFlag, ",") {
				if t = strings.TrimSpace(t); t != "" {
					tags = append(tags, t)
				}
			}

			p := st.Scaffold(title, author, excerpt, tags)
			if _, err := st.Prepend(p); err != nil {
				return err
			}

			fmt.Printf("added post %q (slug: %s)\n", p.Title, p.Slug)
			fmt.Printf("edit %s to fill in the placeholder content, then run `techblog build`\n", cfg.Build.PostsFile)
			return nil
		},
	}
	cmd.Flags().StringVar(&tagsFlag, "tags", "", "comma-separated tags")
	cmd.Flags().StringVar(&excerpt, "excerpt", "", "post excerpt (synthesized from the title when empty)")
	cmd.Flags().StringVar(&author, "author", "", "post author (defaults to site.author)")
	return cmd
}
