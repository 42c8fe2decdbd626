package config

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/wikiedit/internal/command"
	"github.com/dshills/wikiedit/internal/config/loader"
	"github.com/dshills/wikiedit/internal/markup"
)

// Config is the complete wikiedit configuration.
type Config struct {
	Markup  MarkupConfig  `toml:"markup" yaml:"markup"`
	Quotes  QuotesConfig  `toml:"quotes" yaml:"quotes"`
	Links   LinksConfig   `toml:"links" yaml:"links"`
	LinkKey LinkKeyConfig `toml:"linkkey" yaml:"linkkey"`
	Logging LoggingConfig `toml:"logging" yaml:"logging"`
	Theme   ThemeConfig   `toml:"theme" yaml:"theme"`
	Watch   WatchConfig   `toml:"watch" yaml:"watch"`
	History HistoryConfig `toml:"history" yaml:"history"`
	Tags    []TagConfig   `toml:"tags" yaml:"tags"`
}

// MarkupConfig configures the markup scanner.
type MarkupConfig struct {
	LinkFrames         bool   `toml:"link_frames" yaml:"link_frames"`
	MapPointPrefix     string `toml:"map_point_prefix" yaml:"map_point_prefix"`
	MapReferencePrefix string `toml:"map_reference_prefix" yaml:"map_reference_prefix"`
}

// QuotesConfig configures the quote key commands.
type QuotesConfig struct {
	OnlyWithSelection bool `toml:"only_with_selection" yaml:"only_with_selection"`
}

// LinksConfig selects where link existence comes from. When several
// sources are set, Lua wins over Statuses, which wins over Titles.
type LinksConfig struct {
	// Titles is a file of existing page titles, one per line.
	Titles string `toml:"titles" yaml:"titles"`
	// Statuses is a JSON file mapping titles to booleans.
	Statuses string `toml:"statuses" yaml:"statuses"`
	// StatusesRoot is the gjson path of the statuses object.
	StatusesRoot string `toml:"statuses_root" yaml:"statuses_root"`
	// Lua is a script defining exists(key).
	Lua string `toml:"lua" yaml:"lua"`
	// LuaTimeoutMS bounds one lookup batch in the Lua script.
	LuaTimeoutMS int `toml:"lua_timeout_ms" yaml:"lua_timeout_ms"`
}

// LinkKeyConfig holds extra homoglyph folds, one letter to one letter.
type LinkKeyConfig struct {
	Folds map[string]string `toml:"folds" yaml:"folds"`
}

// LoggingConfig configures tracing.
type LoggingConfig struct {
	Level string `toml:"level" yaml:"level"`
}

// ThemeConfig overrides the stock theme. Styles are keyed by tag name.
type ThemeConfig struct {
	Name   string                 `toml:"name" yaml:"name"`
	Styles map[string]StyleConfig `toml:"styles" yaml:"styles"`
}

// StyleConfig holds hex colors.
type StyleConfig struct {
	Foreground string `toml:"foreground" yaml:"foreground"`
	Background string `toml:"background" yaml:"background"`
}

// WatchConfig configures document watching.
type WatchConfig struct {
	DebounceMS int `toml:"debounce_ms" yaml:"debounce_ms"`
}

// HistoryConfig bounds the undo history of a session.
type HistoryConfig struct {
	MaxEntries int `toml:"max_entries" yaml:"max_entries"`
}

// TagConfig describes one tag insertion command.
type TagConfig struct {
	Name       string `toml:"name" yaml:"name"`
	Open       string `toml:"open" yaml:"open"`
	Close      string `toml:"close" yaml:"close"`
	SampleText string `toml:"sample_text" yaml:"sample_text"`
}

// Log levels accepted by LoggingConfig.
var logLevels = []string{"debug", "info", "error"}

// Default returns the built-in configuration.
func Default() *Config {
	defaults := command.DefaultTags()
	tags := make([]TagConfig, len(defaults))
	for i, t := range defaults {
		tags[i] = TagConfig{Name: t.Name, Open: t.Open, Close: t.Close, SampleText: t.SampleText}
	}
	return &Config{
		Markup: MarkupConfig{
			MapPointPrefix:     markup.DefaultMapPointPrefix,
			MapReferencePrefix: markup.DefaultMapReferencePrefix,
		},
		Links:   LinksConfig{LuaTimeoutMS: 1000},
		LinkKey: LinkKeyConfig{Folds: map[string]string{}},
		Logging: LoggingConfig{Level: "info"},
		Theme:   ThemeConfig{Styles: map[string]StyleConfig{}},
		Watch:   WatchConfig{DebounceMS: 100},
		History: HistoryConfig{MaxEntries: 100},
		Tags:    tags,
	}
}

// Option configures Load.
type Option func(*options)

type options struct {
	fs        loader.FileSystem
	envPrefix string
}

// WithFileSystem reads the config file from fs.
func WithFileSystem(fs loader.FileSystem) Option {
	return func(o *options) {
		o.fs = fs
	}
}

// WithEnvPrefix sets the environment variable prefix. An empty prefix
// disables environment overrides.
func WithEnvPrefix(prefix string) Option {
	return func(o *options) {
		o.envPrefix = prefix
	}
}

// Load builds the configuration from the defaults, the file at path and
// the environment. An empty path or a missing file leaves the defaults in
// place. The result is validated.
func Load(path string, opts ...Option) (*Config, error) {
	o := options{fs: loader.DefaultFS(), envPrefix: loader.DefaultEnvPrefix}
	for _, opt := range opts {
		opt(&o)
	}

	merged := make(map[string]any)
	if path != "" {
		l, err := loader.ForPath(o.fs, path)
		if err != nil {
			return nil, err
		}
		data, err := l.Load()
		if err != nil {
			return nil, err
		}
		if data == nil {
			tracer().Infof("config file %s not found, using defaults", path)
		}
		merged = loader.DeepMerge(merged, data)
	}
	if o.envPrefix != "" {
		data, err := loader.NewEnvLoader(o.envPrefix).Load()
		if err != nil {
			return nil, err
		}
		merged = loader.DeepMerge(merged, data)
	}

	cfg := Default()
	if err := cfg.decode(merged); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// decode overlays the settings in data onto c. A tags list replaces the
// default tags as a whole.
func (c *Config) decode(data map[string]any) error {
	if len(data) == 0 {
		return nil
	}
	if _, ok := data["tags"]; ok {
		c.Tags = nil
	}

	buf, err := toml.Marshal(data)
	if err != nil {
		return &ValidationError{Path: "config", Message: err.Error(), Value: data, Code: ErrCodeTypeMismatch}
	}
	dec := toml.NewDecoder(bytes.NewReader(buf))
	dec.DisallowUnknownFields()
	if err := dec.Decode(c); err != nil {
		var serr *toml.StrictMissingError
		if errors.As(err, &serr) && len(serr.Errors) > 0 {
			key := strings.Join(serr.Errors[0].Key(), ".")
			return &ValidationError{Path: key, Message: "unknown setting", Value: key, Code: ErrCodeUnknownSetting}
		}
		return &ValidationError{Path: "config", Message: err.Error(), Code: ErrCodeTypeMismatch}
	}
	return nil
}

// Validate checks every setting and returns the first problem found.
func (c *Config) Validate() error {
	if c.Markup.MapPointPrefix == "" {
		return required("markup.map_point_prefix")
	}
	if c.Markup.MapReferencePrefix == "" {
		return required("markup.map_reference_prefix")
	}
	if !contains(logLevels, strings.ToLower(c.Logging.Level)) {
		return &ValidationError{
			Path:    "logging.level",
			Message: "must be one of " + strings.Join(logLevels, ", "),
			Value:   c.Logging.Level,
			Code:    ErrCodeInvalidEnum,
		}
	}
	if c.Links.LuaTimeoutMS < 0 {
		return outOfRange("links.lua_timeout_ms", c.Links.LuaTimeoutMS)
	}
	if c.Watch.DebounceMS < 0 {
		return outOfRange("watch.debounce_ms", c.Watch.DebounceMS)
	}
	if c.History.MaxEntries < 0 {
		return outOfRange("history.max_entries", c.History.MaxEntries)
	}
	for from, to := range c.LinkKey.Folds {
		if utf8.RuneCountInString(from) != 1 || utf8.RuneCountInString(to) != 1 {
			return &ValidationError{
				Path:    "linkkey.folds." + from,
				Message: "a fold maps one letter to one letter",
				Value:   to,
				Code:    ErrCodeTypeMismatch,
			}
		}
	}
	if _, err := c.BuildTheme(); err != nil {
		return &ValidationError{Path: "theme.styles", Message: err.Error(), Code: ErrCodeTypeMismatch}
	}
	seen := make(map[string]bool, len(c.Tags))
	for i, t := range c.Tags {
		path := fmt.Sprintf("tags[%d]", i)
		switch {
		case t.Name == "":
			return required(path + ".name")
		case t.Open == "":
			return required(path + ".open")
		case t.Close == "":
			return required(path + ".close")
		case seen[t.Name]:
			return &ValidationError{Path: path + ".name", Message: "duplicate tag", Value: t.Name, Code: ErrCodeInvalidEnum}
		}
		seen[t.Name] = true
	}
	return nil
}

func required(path string) error {
	return &ValidationError{Path: path, Message: "must not be empty", Value: "", Code: ErrCodeRequiredMissing}
}

func outOfRange(path string, v int) error {
	return &ValidationError{Path: path, Message: "must not be negative", Value: v, Code: ErrCodeOutOfRange}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// ScannerOptions returns the markup scanner options.
func (c *Config) ScannerOptions() markup.Options {
	return markup.Options{
		MapPointPrefix:     c.Markup.MapPointPrefix,
		MapReferencePrefix: c.Markup.MapReferencePrefix,
		LinkFrames:         c.Markup.LinkFrames,
	}
}

// QuoteOptions returns the quote command options.
func (c *Config) QuoteOptions() command.QuoteOptions {
	return command.QuoteOptions{OnlyWithSelection: c.Quotes.OnlyWithSelection}
}

// Folds returns the extra homoglyph folds. Entries that are not single
// letters are skipped; Validate reports them.
func (c *Config) Folds() map[rune]rune {
	folds := make(map[rune]rune, len(c.LinkKey.Folds))
	for from, to := range c.LinkKey.Folds {
		if utf8.RuneCountInString(from) != 1 || utf8.RuneCountInString(to) != 1 {
			continue
		}
		f, _ := utf8.DecodeRuneInString(from)
		t, _ := utf8.DecodeRuneInString(to)
		folds[f] = t
	}
	return folds
}

// BuildTheme returns the stock theme with the configured overrides.
func (c *Config) BuildTheme() (*markup.Theme, error) {
	theme := markup.DefaultTheme()
	if c.Theme.Name != "" {
		theme.Name = c.Theme.Name
	}
	overrides := make(map[string]markup.Style, len(c.Theme.Styles))
	for name, s := range c.Theme.Styles {
		overrides[name] = markup.Style{Foreground: s.Foreground, Background: s.Background}
	}
	if err := theme.Override(overrides); err != nil {
		return nil, err
	}
	return theme, nil
}

// TagCommands returns the configured tag insertion commands.
func (c *Config) TagCommands() []command.TagCommand {
	tags := make([]command.TagCommand, len(c.Tags))
	for i, t := range c.Tags {
		tags[i] = command.TagCommand{Name: t.Name, Open: t.Open, Close: t.Close, SampleText: t.SampleText}
	}
	return tags
}
