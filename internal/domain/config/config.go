package config

import (
	"os"
	"strings"
	"time"

	domainerr "techblog/internal/domain/errors"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Site  SiteConfig  `yaml:"site"`
	Build BuildConfig `yaml:"build"`
	Query QueryConfig `yaml:"query"`
}

type SiteConfig struct {
	Title       string `yaml:"title"`
	Subtitle    string `yaml:"subtitle"`
	Author      string `yaml:"author"`
	Description string `yaml:"description"`
	Language    string `yaml:"language"`
}

type BuildConfig struct {
	PostsFile string    `yaml:"posts_file"`
	PublicDir string    `yaml:"public_dir"`
	ThemeDir  string    `yaml:"theme_dir"`
	Theme     string    `yaml:"theme"`
	IndexPath string    `yaml:"index_path"`
	Now       time.Time `yaml:"-"`
}

type QueryConfig struct {
	RelatedLimit     int `yaml:"related_limit"`
	SearchDebounceMS int `yaml:"search_debounce_ms"`
}

func Default() Config {
	return Config{
		Site: SiteConfig{
			Title:       "Tech Git Blog",
			Author:      "Miguel",
			Description: "Stay updated with the latest web development trends, tutorials, and best practices.",
			Language:    "en",
		},
		Build: BuildConfig{
			PostsFile: "posts.json",
			PublicDir: "public",
			ThemeDir:  "themes",
			Theme:     "default",
			IndexPath: ".techblog/index.db",
			Now:       time.Now(),
		},
		Query: QueryConfig{
			RelatedLimit:     3,
			SearchDebounceMS: 300,
		},
	}
}

func (c Config) Validate() error {
	var ve domainerr.ValidationError

	if strings.TrimSpace(c.Site.Title) == "" {
		ve.Add("site.title", "must not be empty")
	}
	if strings.TrimSpace(c.Site.Author) == "" {
		ve.Add("site.author", "must not be empty")
	}

	if strings.TrimSpace(c.Build.PostsFile) == "" {
		ve.Add("build.posts_file", "must not be empty")
	}
	if strings.TrimSpace(c.Build.PublicDir) == "" {
		ve.Add("build.public_dir", "must not be empty")
	}
	if strings.TrimSpace(c.Build.ThemeDir) == "" {
		ve.Add("build.theme_dir", "must not be empty")
	}
	if strings.TrimSpace(c.Build.Theme) == "" {
		ve.Add("build.theme", "must not be empty")
	}
	if strings.TrimSpace(c.Build.IndexPath) == "" {
		ve.Add("build.index_path", "must not be empty")
	}

	if c.Query.RelatedLimit < 0 {
		ve.Add("query.related_limit", "must not be negative")
	}
	if c.Query.SearchDebounceMS < 0 {
		ve.Add("query.search_debounce_ms", "must not be negative")
	}

	if ve.HasAny() {
		return ve
	}
	return nil
}

func (c Config) SearchDebounce() time.Duration {
	return time.Duration(c.Query.SearchDebounceMS) * time.Millisecond
}

func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	// 直接 Unmarshal 到 cfg 上：文件中写到的字段覆盖默认值，其他字段保留 Default
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}

	if cfg.Build.Now.IsZero() {
		cfg.Build.Now = time.Now()
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func LoadOrDefault(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if err := cfg.Validate(); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.Build.Now.IsZero() {
		cfg.Build.Now = time.Now()
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
