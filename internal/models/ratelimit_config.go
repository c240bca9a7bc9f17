package models

import "time"

// RatelimitConfig is the per-client request rate applied by the API
// middleware. Rate uses the limiter formatted syntax, count dash period,
// for example "60-M" for sixty requests per minute.
type RatelimitConfig struct {
	ConfigKey string    `json:"config_key"`
	Rate      string    `json:"rate"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
