package config

import "time"

// TestConfig returns a config suitable for testing
func TestConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:    ":memory:",
			Timeout: 1 * time.Second,
		},
		Feed: FeedConfig{
			Host:        "http://127.0.0.1",
			Subreddit:   DefaultSubreddit,
			Sort:        "hot",
			Format:      "json",
			PageLimit:   100,
			Debounce:    20 * time.Millisecond,
			HTTPTimeout: 5 * time.Second,
			UserAgent:   "gifr-test/1.0",
		},
		UI:    defaultConfig().UI,
		Media: defaultConfig().Media,
		Keys:  defaultConfig().Keys,
		Log:   LogConfig{Level: "off"},
	}
}
