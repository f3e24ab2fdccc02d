// Package config loads folio's settings from folio.yaml and FOLIO_* environment variables.
package config

import (
	"io"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/foliopress/folio"
	"github.com/foliopress/folio/markdown"
)

// Config is the complete folio configuration.
type Config struct {
	Content ContentConfig `mapstructure:"content"`
	Server  ServerConfig  `mapstructure:"server"`
	Check   CheckConfig   `mapstructure:"check"`
	Render  RenderConfig  `mapstructure:"render"`
	Log     LogConfig     `mapstructure:"log"`
}

// ContentConfig selects the post files.
type ContentConfig struct {
	Dir     string   `mapstructure:"dir"`     // directory containing the posts
	Include []string `mapstructure:"include"` // doublestar globs, relative to Dir
	Exclude []string `mapstructure:"exclude"`
}

// ServerConfig configures `folio serve`.
type ServerConfig struct {
	Addr     string `mapstructure:"addr"`      // HTTP listen address
	BasePath string `mapstructure:"base_path"` // URL path where previews are served
}

// CheckConfig holds the word count thresholds for checks.
type CheckConfig struct {
	MinWords         int `mapstructure:"min_words"`
	RecommendedWords int `mapstructure:"recommended_words"`
}

// RenderConfig configures HTML and terminal rendering.
type RenderConfig struct {
	HighlightStyle string `mapstructure:"highlight_style"` // chroma style for HTML previews
	TerminalStyle  string `mapstructure:"terminal_style"`  // glamour style: auto, dark, light, notty
	Width          int    `mapstructure:"width"`           // terminal word wrap
}

// LogConfig configures the service logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn or error
	Format string `mapstructure:"format"` // json or text
}

// EnvPrefix is the prefix of environment variables that override settings, such as
// FOLIO_SERVER_ADDR for server.addr.
const EnvPrefix = "FOLIO"

// Load reads the configuration. If path is empty, folio.yaml is looked up in the working directory
// and a missing file is not an error. Environment variables take precedence over the file.
func Load(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("folio")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set defaults
	v.SetDefault("content.dir", ".")
	v.SetDefault("content.include", []string{folio.DefaultInclude})
	v.SetDefault("content.exclude", []string{})
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.base_path", "/preview/")
	v.SetDefault("check.min_words", markdown.DefaultCheckOptions.MinWords)
	v.SetDefault("check.recommended_words", markdown.DefaultCheckOptions.RecommendedWords)
	v.SetDefault("render.highlight_style", markdown.DefaultHighlightStyle)
	v.SetDefault("render.terminal_style", "auto")
	v.SetDefault("render.width", 80)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, errors.WithMessage(err, "read config")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.WithMessage(err, "unmarshal config")
	}
	return &cfg, nil
}

// Library returns the post library described by the configuration.
func (c *Config) Library() (*folio.Library, error) {
	basePath := c.Server.BasePath
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	if !strings.HasSuffix(basePath, "/") {
		basePath += "/"
	}
	lib := &folio.Library{
		Content: os.DirFS(c.Content.Dir),
		Include: c.Content.Include,
		Exclude: c.Content.Exclude,
		Base:    &url.URL{Path: basePath},
		CheckOptions: markdown.CheckOptions{
			MinWords:         c.Check.MinWords,
			RecommendedWords: c.Check.RecommendedWords,
		},
		HighlightStyle: c.Render.HighlightStyle,
	}
	if err := lib.Validate(); err != nil {
		return nil, err
	}
	return lib, nil
}

// Logger returns a structured logger writing to w at the configured level and format.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.Log.Format, "text") {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}
