package model

// IntelEntry is one Intel Snapshot record: the freshness classification of
// a single query key captured at decision time (spec.md §3, §4.3).
type IntelEntry struct {
	Quality   Quality `json:"quality"`
	AgeSecs   *int64  `json:"age_seconds"`
	AsOf      *string `json:"asof_timestamp"`
}

// IntelSnapshot maps a canonical query key to its freshness record at
// decision time. Fixed once written (spec.md P7).
type IntelSnapshot map[string]IntelEntry

// Hygiene aggregates an IntelSnapshot into summary counts (spec.md §3).
type Hygiene struct {
	TotalQueries          int     `json:"total_queries"`
	FreshCount            int     `json:"fresh_count"`
	StaleCount            int     `json:"stale_count"`
	MissingOrTooOldCount  int     `json:"missing_or_too_old_count"`
	FreshPercent          float64 `json:"fresh_percent"`
}

// ComputeHygiene derives a Hygiene summary from an IntelSnapshot, satisfying
// round-trip law L2: fresh + stale + missing_or_too_old == total, and
// fresh_percent ≈ 100 * fresh / total, rounded to one decimal.
func ComputeHygiene(snap IntelSnapshot) Hygiene {
	h := Hygiene{TotalQueries: len(snap)}
	for _, e := range snap {
		switch e.Quality {
		case QualityFresh:
			h.FreshCount++
		case QualityStale:
			h.StaleCount++
		default: // too_old, missing
			h.MissingOrTooOldCount++
		}
	}
	if h.TotalQueries > 0 {
		pct := 100 * float64(h.FreshCount) / float64(h.TotalQueries)
		h.FreshPercent = roundToOneDecimal(pct)
	}
	return h
}

func roundToOneDecimal(v float64) float64 {
	scaled := v*10 + 0.5
	return float64(int64(scaled)) / 10
}
