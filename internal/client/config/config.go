package config

import (
	"os"
	"time"
)

// Config holds runtime settings for the client.
//
// Fields:
//   - APIBaseURL: base URL of the blogging REST API, including the /api prefix.
//   - RequestTimeout: hard time-bound for every API request.
//   - DatabasePath: SQLite file that persists the credential token.
//   - PageSize / UsersPageSize: page sizes for post/comment and user lists.
//   - MentionDebounce: quiet interval before a mention search is issued.
//   - MentionLimit: result cap for inline mention suggestions.
//   - MaxCommentLength: character budget of the comment composer.
//   - HealthCheckInterval: how often the REPL probes /health to show
//     online/offline in the prompt; 0 disables the probe.
//   - LogLevel: debug, info, warn or error.
//   - LogFormat: console (default), json or text.
type Config struct {
	APIBaseURL          string
	RequestTimeout      time.Duration
	DatabasePath        string
	PageSize            int
	UsersPageSize       int
	MentionDebounce     time.Duration
	MentionLimit        int
	MaxCommentLength    int
	HealthCheckInterval time.Duration
	LogLevel            string
	LogFormat           string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:5000/api"
	c.RequestTimeout = 10 * time.Second
	c.DatabasePath = "chirp.db"
	c.PageSize = 10
	c.UsersPageSize = 12
	c.MentionDebounce = 300 * time.Millisecond
	c.MentionLimit = 8
	c.MaxCommentLength = 500
	c.HealthCheckInterval = 30 * time.Second
	c.LogLevel = "info"
	c.LogFormat = "console"
}

// Load constructs a Config from args (without the program name): defaults
// first, then the JSON file named by -c/-config, then flags. Later sources
// take precedence over earlier ones.
func Load(args []string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, args)
	parseFlags(cfg, args)
	return cfg
}

// LoadConfig is Load applied to the process arguments.
func LoadConfig() *Config {
	return Load(os.Args[1:])
}
