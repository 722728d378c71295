package scheduler

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// Trigger is one advisory refresh request (spec.md §4.5 "Trigger
// semantics"): it adds a pool/pair to the active set for the current tick
// and forces P0/P1 items touching it to be re-enqueued regardless of
// freshness.
type Trigger struct {
	Reason string    `json:"reason"`
	Pool   string    `json:"pool,omitempty"`
	Pair   string    `json:"pair,omitempty"`
	At     time.Time `json:"at"`
}

// TriggerLog is the append-only JSONL trigger log (spec.md §5 "Trigger log:
// append-only by producers, consumed-and-truncated by scheduler at tick
// boundaries"). Append is safe for concurrent producers (Intelligence
// instances running inside episodes); Drain is meant to be called only by
// the scheduler's own tick loop.
type TriggerLog struct {
	path string
	mu   sync.Mutex
}

// NewTriggerLog opens (or prepares to create) the trigger log at path.
func NewTriggerLog(path string) *TriggerLog {
	return &TriggerLog{path: path}
}

// Append implements intel.TriggerSink.
func (t *TriggerLog) Append(reason, pool, pair string) error {
	return t.AppendAt(reason, pool, pair, time.Now())
}

// AppendAt appends a trigger with an explicit timestamp (used by tests).
func (t *TriggerLog) AppendAt(reason, pool, pair string, at time.Time) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	line, err := json.Marshal(Trigger{Reason: reason, Pool: pool, Pair: pair, At: at})
	if err != nil {
		return fmt.Errorf("scheduler: encoding trigger: %w", err)
	}

	f, err := os.OpenFile(t.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("scheduler: opening trigger log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("scheduler: appending trigger: %w", err)
	}
	return nil
}

// Drain reads all triggers from the log, discards any older than horizon
// relative to now, and truncates the log (spec.md §4.5 step 1). Malformed
// lines are skipped individually rather than aborting the drain — a single
// corrupt trigger must not block the rest of the tick.
func (t *TriggerLog) Drain(now time.Time, horizon time.Duration) ([]Trigger, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	f, err := os.Open(t.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scheduler: opening trigger log: %w", err)
	}

	var kept []Trigger
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var trig Trigger
		if err := json.Unmarshal(line, &trig); err != nil {
			continue // malformed line, skip individually
		}
		if now.Sub(trig.At) <= horizon {
			kept = append(kept, trig)
		}
	}
	f.Close()

	if err := os.Truncate(t.path, 0); err != nil && !os.IsNotExist(err) {
		return kept, fmt.Errorf("scheduler: truncating trigger log: %w", err)
	}
	return kept, nil
}
