package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Feed     FeedConfig     `mapstructure:"feed"`
	UI       UIConfig       `mapstructure:"ui"`
	Media    MediaConfig    `mapstructure:"media"`
	Keys     KeyConfig      `mapstructure:"keys"`
	Log      LogConfig      `mapstructure:"log"`
}

type DatabaseConfig struct {
	Path    string        `mapstructure:"path"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// FeedConfig controls the listing source and the pagination engine.
type FeedConfig struct {
	Host        string        `mapstructure:"host"`
	Subreddit   string        `mapstructure:"subreddit"`
	Sort        string        `mapstructure:"sort"`
	Format      string        `mapstructure:"format"`
	PageLimit   int           `mapstructure:"page_limit"`
	Debounce    time.Duration `mapstructure:"debounce"`
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
	RateLimit   float64       `mapstructure:"rate_limit"`
	UserAgent   string        `mapstructure:"user_agent"`
}

type UIConfig struct {
	Colors UIColors `mapstructure:"colors"`
}

type UIColors struct {
	Primary   string `mapstructure:"primary"`
	Secondary string `mapstructure:"secondary"`
	Accent    string `mapstructure:"accent"`
	Text      string `mapstructure:"text"`
	Muted     string `mapstructure:"muted"`
	Error     string `mapstructure:"error"`
	Success   string `mapstructure:"success"`
}

type MediaConfig struct {
	Darwin        MediaPlayers `mapstructure:"darwin"`
	Linux         MediaPlayers `mapstructure:"linux"`
	Windows       MediaPlayers `mapstructure:"windows"`
	DefaultOpener string       `mapstructure:"default_opener"`
}

type MediaPlayers struct {
	Video []string `mapstructure:"video"`
}

type KeyConfig struct {
	Modifier string      `mapstructure:"modifier"`
	Bindings KeyBindings `mapstructure:"bindings"`
}

type KeyBindings struct {
	Quit     string `mapstructure:"quit"`
	Search   string `mapstructure:"search"`
	Filter   string `mapstructure:"filter"`
	Favorite string `mapstructure:"favorite"`
	Settings string `mapstructure:"settings"`
	Random   string `mapstructure:"random"`
	NextPage string `mapstructure:"next_page"`
	Open     string `mapstructure:"open"`
	Back     string `mapstructure:"back"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// DefaultSubreddit is the term the feed loads on startup when nothing else is configured.
const DefaultSubreddit = "gifs"

func defaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	dbPath := filepath.Join(homeDir, ".gifr.db")

	return &Config{
		Database: DatabaseConfig{
			Path:    dbPath,
			Timeout: 1 * time.Second,
		},
		Feed: FeedConfig{
			Host:        "https://www.reddit.com",
			Subreddit:   DefaultSubreddit,
			Sort:        "hot",
			Format:      "json",
			PageLimit:   100,
			Debounce:    300 * time.Millisecond,
			HTTPTimeout: 30 * time.Second,
			RateLimit:   1,
			UserAgent:   "gifr/1.0 (https://github.com/pders01/gifr)",
		},
		UI: UIConfig{
			Colors: UIColors{
				Primary:   "#FF6B6B",
				Secondary: "#4ECDC4",
				Accent:    "#95E1D3",
				Text:      "#EAEAEA",
				Muted:     "#94A3B8",
				Error:     "#F87171",
				Success:   "#4ADE80",
			},
		},
		Media: MediaConfig{
			Darwin: MediaPlayers{
				Video: []string{"iina", "mpv", "vlc"},
			},
			Linux: MediaPlayers{
				Video: []string{"mpv", "vlc", "mplayer"},
			},
			Windows: MediaPlayers{
				Video: []string{"mpv", "vlc"},
			},
			DefaultOpener: getDefaultOpener(),
		},
		Keys: KeyConfig{
			Modifier: "ctrl",
			Bindings: KeyBindings{
				Quit:     "q",
				Search:   "s",
				Filter:   "f",
				Favorite: "a",
				Settings: "o",
				Random:   "r",
				NextPage: "n",
				Open:     "p",
				Back:     "esc",
			},
		},
		Log: LogConfig{
			Level: "off",
			File:  "",
		},
	}
}

func getDefaultOpener() string {
	switch runtime.GOOS {
	case "darwin":
		return "open"
	case "linux":
		return "xdg-open"
	case "windows":
		return "start"
	default:
		return "open"
	}
}

// setDefaults registers every leaf key so GIFR_* variables reach nested
// settings through AutomaticEnv.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("database.path", cfg.Database.Path)
	v.SetDefault("database.timeout", cfg.Database.Timeout)

	v.SetDefault("feed.host", cfg.Feed.Host)
	v.SetDefault("feed.subreddit", cfg.Feed.Subreddit)
	v.SetDefault("feed.sort", cfg.Feed.Sort)
	v.SetDefault("feed.format", cfg.Feed.Format)
	v.SetDefault("feed.page_limit", cfg.Feed.PageLimit)
	v.SetDefault("feed.debounce", cfg.Feed.Debounce)
	v.SetDefault("feed.http_timeout", cfg.Feed.HTTPTimeout)
	v.SetDefault("feed.rate_limit", cfg.Feed.RateLimit)
	v.SetDefault("feed.user_agent", cfg.Feed.UserAgent)

	colors := cfg.UI.Colors
	v.SetDefault("ui.colors.primary", colors.Primary)
	v.SetDefault("ui.colors.secondary", colors.Secondary)
	v.SetDefault("ui.colors.accent", colors.Accent)
	v.SetDefault("ui.colors.text", colors.Text)
	v.SetDefault("ui.colors.muted", colors.Muted)
	v.SetDefault("ui.colors.error", colors.Error)
	v.SetDefault("ui.colors.success", colors.Success)

	v.SetDefault("media.darwin.video", cfg.Media.Darwin.Video)
	v.SetDefault("media.linux.video", cfg.Media.Linux.Video)
	v.SetDefault("media.windows.video", cfg.Media.Windows.Video)
	v.SetDefault("media.default_opener", cfg.Media.DefaultOpener)

	keys := cfg.Keys.Bindings
	v.SetDefault("keys.modifier", cfg.Keys.Modifier)
	v.SetDefault("keys.bindings.quit", keys.Quit)
	v.SetDefault("keys.bindings.search", keys.Search)
	v.SetDefault("keys.bindings.filter", keys.Filter)
	v.SetDefault("keys.bindings.favorite", keys.Favorite)
	v.SetDefault("keys.bindings.settings", keys.Settings)
	v.SetDefault("keys.bindings.random", keys.Random)
	v.SetDefault("keys.bindings.next_page", keys.NextPage)
	v.SetDefault("keys.bindings.open", keys.Open)
	v.SetDefault("keys.bindings.back", keys.Back)

	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.file", cfg.Log.File)
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v, defaultConfig())

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		homeDir, _ := os.UserHomeDir()
		configDir := filepath.Join(homeDir, ".config", "gifr")

		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(configDir)
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("GIFR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	applyFallbacks(&config)
	expandPaths(&config)

	return &config, nil
}

// applyFallbacks restores defaults for feed values a config file or the
// environment set to zero. A zero debounce or page limit would turn the feed into a request storm.
func applyFallbacks(cfg *Config) {
	def := defaultConfig().Feed
	if cfg.Feed.Subreddit == "" {
		cfg.Feed.Subreddit = def.Subreddit
	}
	if cfg.Feed.Host == "" {
		cfg.Feed.Host = def.Host
	}
	if cfg.Feed.Sort == "" {
		cfg.Feed.Sort = def.Sort
	}
	if cfg.Feed.Format == "" {
		cfg.Feed.Format = def.Format
	}
	if cfg.Feed.PageLimit <= 0 {
		cfg.Feed.PageLimit = def.PageLimit
	}
	if cfg.Feed.Debounce <= 0 {
		cfg.Feed.Debounce = def.Debounce
	}
	if cfg.Feed.HTTPTimeout <= 0 {
		cfg.Feed.HTTPTimeout = def.HTTPTimeout
	}
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}

	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}

	return path
}

func expandPaths(cfg *Config) {
	cfg.Database.Path = expandPath(cfg.Database.Path)
	cfg.Log.File = expandPath(cfg.Log.File)
}

func Save(config *Config, path string) error {
	v := viper.New()

	// Durations are written as strings for TOML readability
	dbCfg := map[string]interface{}{
		"path":    config.Database.Path,
		"timeout": config.Database.Timeout.String(),
	}

	feedCfg := map[string]interface{}{
		"host":         config.Feed.Host,
		"subreddit":    config.Feed.Subreddit,
		"sort":         config.Feed.Sort,
		"format":       config.Feed.Format,
		"page_limit":   config.Feed.PageLimit,
		"debounce":     config.Feed.Debounce.String(),
		"http_timeout": config.Feed.HTTPTimeout.String(),
		"rate_limit":   config.Feed.RateLimit,
		"user_agent":   config.Feed.UserAgent,
	}

	v.Set("database", dbCfg)
	v.Set("feed", feedCfg)
	v.Set("ui", config.UI)
	v.Set("media", config.Media)
	v.Set("keys", config.Keys)
	v.Set("log", config.Log)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return v.WriteConfigAs(path)
}

func GenerateDefaultConfig(path string) error {
	return Save(defaultConfig(), path)
}

// DefaultPath returns the location Load searches first when no explicit path is given.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "gifr", "config.toml")
}
