package models

import (
	"strings"
	"time"
)

// CorsConfig is the browser cross-origin policy for the frontend. A single
// row keyed by config_key holds the live values; the middleware re-reads it
// on an interval so origin changes take effect without a restart.
type CorsConfig struct {
	ConfigKey        string    `json:"config_key"`
	AllowedOrigins   string    `json:"allowed_origins"` // comma-separated
	AllowCredentials bool      `json:"allow_credentials"`
	MaxAge           int       `json:"max_age"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// OriginList returns AllowedOrigins as trimmed, de-duplicated origins.
func (c *CorsConfig) OriginList() []string {
	return SplitOrigins(c.AllowedOrigins)
}

// SplitOrigins splits a comma-separated origin string, dropping blanks and
// duplicates while preserving order.
func SplitOrigins(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	seen := make(map[string]bool)
	for _, p := range strings.Split(raw, ",") {
		s := strings.TrimSpace(p)
		if s != "" && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
