package model

import "time"

// Envelope is the wrapper QualityKV stores alongside cached data, carrying
// freshness metadata (spec.md §3, §4.4).
type Envelope struct {
	OK            bool      `json:"ok"`
	Data          any       `json:"data"`
	FetchedAt     time.Time `json:"fetched_at"`
	TTLSeconds    int64     `json:"ttl_seconds"`
	MaxAgeSeconds int64     `json:"max_age_seconds"`
	Error         string    `json:"error,omitempty"`
	Source        string    `json:"source"`
}

// Age returns how long ago the envelope was fetched, relative to now.
func (e Envelope) Age(now time.Time) time.Duration {
	return now.Sub(e.FetchedAt)
}
