package internal

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/vedacontent/internal/content"
	"github.com/starford/vedacontent/internal/markdown"
	"github.com/starford/vedacontent/internal/transform"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

var (
	extensionRe = regexp.MustCompile(`^\.[A-Za-z0-9]+$`)
	basePathRe  = regexp.MustCompile(`^/[^\s?#]*$`)
)

// Config represents the application configuration.
type Config struct {
	App      ApplicationConfig `yaml:"app"`
	Content  ContentConfig     `yaml:"content"`
	Site     SiteConfig        `yaml:"site"`
	Markdown MarkdownConfig    `yaml:"markdown"`
	SQLite   SQLiteConfig      `yaml:"sqlite"`
	Auth     AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Content.Validate(); err != nil {
		return err
	}
	if err := c.Site.Validate(); err != nil {
		return err
	}
	if err := c.SQLite.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port" env:"VEDA_HTTP_PORT"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// ContentConfig locates the content tree.
type ContentConfig struct {
	Root        string `yaml:"root" env:"VEDA_CONTENT_ROOT"`
	StoriesDir  string `yaml:"stories_dir"`
	DatasetsDir string `yaml:"datasets_dir"`
	Extension   string `yaml:"extension"`
	// MarkerMatch is "contains" (default) or "prefix".
	MarkerMatch string `yaml:"marker_match"`
	// MediaDir, relative to Root unless absolute, is served at /api/media. Empty disables it.
	MediaDir string `yaml:"media_dir"`
}

// Validate validates the content configuration.
func (c *ContentConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Root, validation.Required),
		validation.Field(&c.StoriesDir, validation.Required),
		validation.Field(&c.DatasetsDir, validation.Required),
		validation.Field(&c.Extension, validation.Required, validation.Match(extensionRe)),
	); err != nil {
		return err
	}
	if _, err := transform.ParseMarkerMatch(c.MarkerMatch); err != nil {
		return fmt.Errorf("content: %w", err)
	}
	return nil
}

// Dirs returns the collection layout.
func (c *ContentConfig) Dirs() content.Dirs {
	return content.Dirs{Stories: c.StoriesDir, Datasets: c.DatasetsDir, Ext: c.Extension}
}

// MediaPath returns the media directory, or "" when media serving is off.
func (c *ContentConfig) MediaPath() string {
	if c.MediaDir == "" || filepath.IsAbs(c.MediaDir) {
		return c.MediaDir
	}
	return filepath.Join(c.Root, c.MediaDir)
}

// SiteConfig holds the deployment base path prepended to root-relative links.
type SiteConfig struct {
	BasePath string `yaml:"base_path" env:"NEXT_PUBLIC_BASE_PATH"`
}

// Validate trims a trailing slash and checks the base path shape.
func (c *SiteConfig) Validate() error {
	c.BasePath = strings.TrimRight(c.BasePath, "/")
	return validation.ValidateStruct(c,
		validation.Field(&c.BasePath, validation.Match(basePathRe)),
	)
}

// MarkdownConfig configures `::markdown` rendering.
type MarkdownConfig struct {
	Extensions []string `yaml:"extensions"`
	HardWraps  bool     `yaml:"hard_wraps"`
	AllowHTML  bool     `yaml:"allow_html"`
}

// Options converts the config to renderer options.
func (c *MarkdownConfig) Options() markdown.Options {
	return markdown.Options{Extensions: c.Extensions, HardWraps: c.HardWraps, AllowHTML: c.AllowHTML}
}

// SQLiteConfig holds catalog database configuration.
type SQLiteConfig struct {
	// Path is a file path or ":memory:" (default).
	Path string `yaml:"path" env:"VEDA_SQLITE_PATH"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local dev.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode" env:"VEDA_AUTH_MODE"`
	Token string `yaml:"token" env:"VEDA_AUTH_TOKEN"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Content: ContentConfig{
			Root:        "app/content",
			StoriesDir:  "stories",
			DatasetsDir: "datasets",
			Extension:   ".mdx",
			MarkerMatch: "contains",
		},
		SQLite: SQLiteConfig{
			Path: ":memory:",
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}
