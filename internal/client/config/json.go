package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/chirpkeeper/internal/flagx"
	"github.com/dmitrijs2005/chirpkeeper/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations go
// through timex.Duration so they may be written as "300ms" or nanoseconds.
type JsonConfig struct {
	APIBaseURL          string         `json:"api_base_url"`
	RequestTimeout      timex.Duration `json:"request_timeout"`
	DatabasePath        string         `json:"database_path"`
	PageSize            int            `json:"page_size"`
	UsersPageSize       int            `json:"users_page_size"`
	MentionDebounce     timex.Duration `json:"mention_debounce"`
	MentionLimit        int            `json:"mention_limit"`
	MaxCommentLength    int            `json:"max_comment_length"`
	HealthCheckInterval timex.Duration `json:"health_check_interval"`
	LogLevel            string         `json:"log_level"`
	LogFormat           string         `json:"log_format"`
}

// parseJson overlays cfg with the non-zero values of the JSON file passed
// via -c or -config. Without such a flag it does nothing. Read and decode
// errors panic; the caller decides whether to recover.
func parseJson(cfg *Config, args []string) {
	path := flagx.ConfigPath(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.APIBaseURL != "" {
		cfg.APIBaseURL = jc.APIBaseURL
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.PageSize > 0 {
		cfg.PageSize = jc.PageSize
	}
	if jc.UsersPageSize > 0 {
		cfg.UsersPageSize = jc.UsersPageSize
	}
	if jc.MentionDebounce.Duration > 0 {
		cfg.MentionDebounce = jc.MentionDebounce.Duration
	}
	if jc.MentionLimit > 0 {
		cfg.MentionLimit = jc.MentionLimit
	}
	if jc.MaxCommentLength > 0 {
		cfg.MaxCommentLength = jc.MaxCommentLength
	}
	if jc.HealthCheckInterval.Duration > 0 {
		cfg.HealthCheckInterval = jc.HealthCheckInterval.Duration
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
	if jc.LogFormat != "" {
		cfg.LogFormat = jc.LogFormat
	}
}
