package intel

import (
	"time"

	"github.com/clmmsim/pipeline/pkg/model"
)

// classify derives a Quality for an envelope read at wall time now, per the
// freshness computation in spec.md §4.3.
func classify(env model.Envelope, found bool, now time.Time, ttl, maxAge time.Duration) model.Quality {
	if !found || !env.OK {
		return model.QualityMissing
	}
	age := now.Sub(env.FetchedAt)
	switch {
	case age <= ttl:
		return model.QualityFresh
	case age <= maxAge:
		return model.QualityStale
	default:
		return model.QualityTooOld
	}
}

// ageSeconds returns a pointer to the envelope's age in whole seconds at
// now, or nil if the envelope was never fetched.
func ageSeconds(env model.Envelope, found bool, now time.Time) *int64 {
	if !found {
		return nil
	}
	secs := int64(now.Sub(env.FetchedAt).Seconds())
	return &secs
}

func asOf(env model.Envelope, found bool) *string {
	if !found {
		return nil
	}
	s := env.FetchedAt.UTC().Format(time.RFC3339)
	return &s
}
