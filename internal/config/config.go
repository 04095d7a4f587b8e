// Package config provides configuration management for kelas using Viper
// for loading from files, environment variables and command-line flags.
//
// The configuration file is .kelas.yml. Every key can be overridden with a
// KELAS_ environment variable (KELAS_SERVER_PORT, KELAS_OUTPUT_BASE, ...),
// and a .env file in the working directory is loaded before the
// environment is read.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	siteerrors "github.com/kelas-internasional/kelas/internal/errors"
)

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "KELAS"

type Config struct {
	Content  ContentConfig  `mapstructure:"content" yaml:"content" json:"content"`
	Output   OutputConfig   `mapstructure:"output" yaml:"output" json:"output"`
	Markdown MarkdownConfig `mapstructure:"markdown" yaml:"markdown" json:"markdown"`
	Server   ServerConfig   `mapstructure:"server" yaml:"server" json:"server"`
	Site     SiteConfig     `mapstructure:"site" yaml:"site" json:"site"`
	Log      LogConfig      `mapstructure:"log" yaml:"log" json:"log"`
}

type ContentConfig struct {
	Root string `mapstructure:"root" yaml:"root" json:"root"`
	// Collections maps a collection name to its directory under Root.
	Collections map[string]string `mapstructure:"collections" yaml:"collections" json:"collections"`
}

type OutputConfig struct {
	// Data is where the collection bundles are written.
	Data string `mapstructure:"data" yaml:"data" json:"data"`
	// Assets is where extracted files are copied.
	Assets string `mapstructure:"assets" yaml:"assets" json:"assets"`
	// Base is the public URL prefix of Assets.
	Base string `mapstructure:"base" yaml:"base" json:"base"`
	// Clean removes Data before writing.
	Clean bool `mapstructure:"clean" yaml:"clean" json:"clean"`
	// HTML is the static export directory used by build --html.
	HTML string `mapstructure:"html" yaml:"html" json:"html"`
	// Public is copied as-is into the static export and served at /.
	Public string `mapstructure:"public" yaml:"public" json:"public"`
}

type MarkdownConfig struct {
	Theme          string `mapstructure:"theme" yaml:"theme" json:"theme"`
	AnchorClass    string `mapstructure:"anchor_class" yaml:"anchor_class" json:"anchor_class"`
	AnchorLabel    string `mapstructure:"anchor_label" yaml:"anchor_label" json:"anchor_label"`
	WordsPerMinute int    `mapstructure:"words_per_minute" yaml:"words_per_minute" json:"words_per_minute"`
	Workers        int    `mapstructure:"workers" yaml:"workers" json:"workers"`
}

type ServerConfig struct {
	Port           int           `mapstructure:"port" yaml:"port" json:"port"`
	Host           string        `mapstructure:"host" yaml:"host" json:"host"`
	LiveReload     bool          `mapstructure:"live_reload" yaml:"live_reload" json:"live_reload"`
	AllowedOrigins []string      `mapstructure:"allowed_origins" yaml:"allowed_origins" json:"allowed_origins"`
	Debounce       time.Duration `mapstructure:"debounce" yaml:"debounce" json:"debounce"`
}

type SiteConfig struct {
	Title       string `mapstructure:"title" yaml:"title" json:"title"`
	Description string `mapstructure:"description" yaml:"description" json:"description"`
	BaseURL     string `mapstructure:"base_url" yaml:"base_url" json:"base_url"`
	Locale      string `mapstructure:"locale" yaml:"locale" json:"locale"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level" json:"level"`
	Format string `mapstructure:"format" yaml:"format" json:"format"`
}

// SetDefaults registers the default of every key with viper.
func SetDefaults() {
	viper.SetDefault("content.root", "content")
	viper.SetDefault("content.collections", map[string]interface{}{"posts": "blog", "member": "member"})

	viper.SetDefault("output.data", ".kelas")
	viper.SetDefault("output.assets", "public/static")
	viper.SetDefault("output.base", "/static/")
	viper.SetDefault("output.clean", true)
	viper.SetDefault("output.html", "dist")
	viper.SetDefault("output.public", "public")

	viper.SetDefault("markdown.theme", "github-dark")
	viper.SetDefault("markdown.anchor_class", "subheading-anchor")
	viper.SetDefault("markdown.anchor_label", "Link to section")
	viper.SetDefault("markdown.words_per_minute", 200)
	viper.SetDefault("markdown.workers", 0)

	viper.SetDefault("server.port", 3000)
	viper.SetDefault("server.host", "localhost")
	viper.SetDefault("server.live_reload", true)
	viper.SetDefault("server.allowed_origins", []string{})
	viper.SetDefault("server.debounce", 300*time.Millisecond)

	viper.SetDefault("site.title", "Kelas Internasional D4 Manajemen Informatika UNESA")
	viper.SetDefault("site.description", "Website resmi Kelas Internasional D4 Manajemen Informatika Universitas Negeri Surabaya.")
	viper.SetDefault("site.base_url", "")
	viper.SetDefault("site.locale", "id")

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")
}

// LoadEnv loads a .env file into the process environment. A missing file
// is not an error; variables already set are kept.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	var present []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			present = append(present, f)
		}
	}
	if len(present) == 0 {
		return nil
	}
	if err := godotenv.Load(present...); err != nil {
		return siteerrors.NewConfigError(siteerrors.ErrCodeConfigInvalid, fmt.Sprintf("load %s: %v", strings.Join(present, ", "), err))
	}
	return nil
}

// Load reads the configuration viper has collected, applies defaults and
// validates the result.
func Load() (*Config, error) {
	SetDefaults()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, siteerrors.NewConfigError(siteerrors.ErrCodeConfigInvalid, fmt.Sprintf("decode configuration: %v", err))
	}

	if len(config.Content.Collections) == 0 {
		config.Content.Collections = map[string]string{"posts": "blog", "member": "member"}
	}
	if config.Markdown.WordsPerMinute <= 0 {
		config.Markdown.WordsPerMinute = 200
	}

	if err := Validate(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate checks configuration values for correctness and safety.
func Validate(config *Config) error {
	if err := validateServerConfig(&config.Server); err != nil {
		return siteerrors.NewConfigError(siteerrors.ErrCodeConfigInvalid, "server config: "+err.Error())
	}

	paths := map[string]string{
		"content.root":  config.Content.Root,
		"output.data":   config.Output.Data,
		"output.assets": config.Output.Assets,
		"output.html":   config.Output.HTML,
	}
	for name, dir := range config.Content.Collections {
		paths["content.collections."+name] = dir
	}
	for key, p := range paths {
		if err := validatePath(p); err != nil {
			return siteerrors.NewConfigError(siteerrors.ErrCodeConfigInvalid, fmt.Sprintf("%s: %v", key, err))
		}
	}

	if !strings.HasPrefix(config.Output.Base, "/") && !strings.Contains(config.Output.Base, "://") {
		return siteerrors.NewConfigError(siteerrors.ErrCodeConfigInvalid,
			fmt.Sprintf("output.base must be an absolute path or URL, got %q", config.Output.Base))
	}

	switch config.Log.Format {
	case "text", "json":
	default:
		return siteerrors.NewConfigError(siteerrors.ErrCodeConfigInvalid,
			fmt.Sprintf("log.format must be text or json, got %q", config.Log.Format))
	}
	return nil
}

// validateServerConfig validates server configuration values
func validateServerConfig(config *ServerConfig) error {
	// 0 lets the system pick a port
	if config.Port < 0 || config.Port > 65535 {
		return fmt.Errorf("port %d is not in valid range 0-65535", config.Port)
	}

	if config.Host != "" {
		dangerousChars := []string{";", "&", "|", "$", "`", "(", ")", "<", ">", "\"", "'", "\\"}
		for _, char := range dangerousChars {
			if strings.Contains(config.Host, char) {
				return fmt.Errorf("host contains dangerous character: %s", char)
			}
		}
	}

	if config.Debounce < 0 {
		return fmt.Errorf("debounce must not be negative")
	}
	return nil
}

// validatePath validates a project-relative path.
func validatePath(path string) error {
	if path == "" {
		return fmt.Errorf("empty path")
	}

	cleanPath := filepath.Clean(path)
	if filepath.IsAbs(cleanPath) {
		return nil
	}
	if cleanPath == ".." || strings.HasPrefix(cleanPath, ".."+string(filepath.Separator)) {
		return fmt.Errorf("path escapes the project: %s", path)
	}

	dangerousChars := []string{";", "&", "|", "$", "`", "(", ")", "<", ">", "\"", "'"}
	for _, char := range dangerousChars {
		if strings.Contains(cleanPath, char) {
			return fmt.Errorf("path contains dangerous character: %s", char)
		}
	}
	return nil
}

// Addr returns host:port.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
