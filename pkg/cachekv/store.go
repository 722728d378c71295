// Package cachekv implements QualityKV (spec.md §4.4): a durable,
// content-addressed envelope store with lock-free reads and a single
// writer (the Scheduler).
//
// Grounded on the artifact writer's tmp+rename discipline for durability
// and on the teacher's pkg/queue/pool.go shared-map-under-lock pattern —
// generalized here to an atomic.Pointer snapshot swap so readers never
// block on, or observe a half-written view of, the writer.
package cachekv

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/clmmsim/pipeline/pkg/model"
)

// Store is QualityKV: get/set of Cache Envelopes keyed by canonical query
// key, durable on disk, with lock-free reads via an atomically-swapped
// snapshot map. A single Store is safe for any number of concurrent
// readers; writes should come from one goroutine (the Scheduler) at a time,
// enforced here by writeMu rather than assumed.
type Store struct {
	path string

	snapshot atomic.Pointer[map[string]model.Envelope]
	writeMu  sync.Mutex
}

// Open loads an existing store file at path, or starts empty if it does
// not exist yet.
func Open(path string) (*Store, error) {
	s := &Store{path: path}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		var m map[string]model.Envelope
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("cachekv: parsing %s: %w", path, err)
		}
		s.snapshot.Store(&m)
	case os.IsNotExist(err):
		empty := map[string]model.Envelope{}
		s.snapshot.Store(&empty)
	default:
		return nil, fmt.Errorf("cachekv: reading %s: %w", path, err)
	}
	return s, nil
}

// Get returns the envelope for key, if present.
func (s *Store) Get(key string) (model.Envelope, bool) {
	m := *s.snapshot.Load()
	e, ok := m[key]
	return e, ok
}

// Set writes one envelope, enforcing fetched_at monotonicity per key
// (spec.md §3 "Cache envelopes are monotonic per key in fetched_at"): a
// write with an older-or-equal fetched_at than the current envelope is
// silently ignored rather than regressing a reader's view.
func (s *Store) Set(key string, e model.Envelope) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	current := *s.snapshot.Load()
	if existing, ok := current[key]; ok && !e.FetchedAt.After(existing.FetchedAt) {
		return nil
	}

	next := cloneMap(current)
	next[key] = e
	return s.commit(next)
}

// SetMany writes several envelopes as one durable commit, each subject to
// the same per-key monotonicity rule as Set.
func (s *Store) SetMany(items map[string]model.Envelope) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	current := *s.snapshot.Load()
	next := cloneMap(current)
	changed := false
	for key, e := range items {
		if existing, ok := next[key]; ok && !e.FetchedAt.After(existing.FetchedAt) {
			continue
		}
		next[key] = e
		changed = true
	}
	if !changed {
		return nil
	}
	return s.commit(next)
}

// commit persists next to disk via tmp+rename, then swaps the in-memory
// snapshot only after the durable write succeeds — a crash mid-write never
// advances what readers see.
func (s *Store) commit(next map[string]model.Envelope) error {
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("cachekv: encoding store: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cachekv: creating dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".cachekv-tmp-*")
	if err != nil {
		return fmt.Errorf("cachekv: creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("cachekv: writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("cachekv: syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("cachekv: closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("cachekv: renaming into place: %w", err)
	}

	s.snapshot.Store(&next)
	return nil
}

func cloneMap(m map[string]model.Envelope) map[string]model.Envelope {
	out := make(map[string]model.Envelope, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}
