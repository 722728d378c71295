// Package registry holds the static, read-only-at-runtime catalog of
// external analytics queries (spec.md §3 "Query Descriptor", §4 "Registry").
//
// Grounded on the teacher's pkg/config static-registry pattern: a registry
// is built once from validated configuration and exposes read-only lookup
// methods afterward — there is no mutation method on Registry at all,
// enforcing "Registry is read-only at runtime" (spec.md §3) statically
// rather than by convention.
package registry

import (
	"fmt"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/clmmsim/pipeline/pkg/model"
)

// Descriptor is one Registry entry (spec.md §3).
//
// Windowed additionally crosses this descriptor by the enumerated window
// vocabulary (spec.md §4.3) within its Scope — a structural generalization
// needed because several accessors (get_volatility, get_pool_health) are
// parameterized on both a scope dimension (pair/pool) and a window, and the
// spec's four-value Scope enum alone cannot express both axes. See
// DESIGN.md "Open Question decisions" for this clarification.
type Descriptor struct {
	Method         string
	Priority       model.Priority
	Scope          model.Scope
	Windowed       bool
	CostClass      model.CostClass
	Dependencies   []string
	TTL            time.Duration
	MaxAge         time.Duration
	DefaultEnabled bool
}

// yamlDescriptor is the on-disk shape of a Descriptor.
type yamlDescriptor struct {
	Method         string   `yaml:"method"`
	Priority       string   `yaml:"priority"`
	Scope          string   `yaml:"scope"`
	Windowed       bool     `yaml:"windowed"`
	CostClass      string   `yaml:"cost_class"`
	Dependencies   []string `yaml:"dependencies"`
	TTLSeconds     int64    `yaml:"ttl_seconds"`
	MaxAgeSeconds  int64    `yaml:"max_age_seconds"`
	DefaultEnabled bool     `yaml:"default_enabled"`
}

// Registry is the validated, read-only catalog of query descriptors.
type Registry struct {
	byMethod map[string]Descriptor
	order    []string // insertion order, for deterministic iteration
}

// New validates and builds a Registry from descriptors. It is the only way
// to obtain a non-empty Registry; there is no mutator afterward.
func New(descriptors []Descriptor) (*Registry, error) {
	r := &Registry{byMethod: make(map[string]Descriptor, len(descriptors))}
	for _, d := range descriptors {
		if d.Method == "" {
			return nil, fmt.Errorf("registry: descriptor with empty method name")
		}
		if _, exists := r.byMethod[d.Method]; exists {
			return nil, fmt.Errorf("registry: duplicate method %q", d.Method)
		}
		r.byMethod[d.Method] = d
		r.order = append(r.order, d.Method)
	}
	for _, d := range descriptors {
		for _, dep := range d.Dependencies {
			if _, ok := r.byMethod[dep]; !ok {
				return nil, fmt.Errorf("registry: %q depends on unknown method %q", d.Method, dep)
			}
		}
	}
	return r, nil
}

// LoadYAML reads a Registry from a descriptor file.
func LoadYAML(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("registry: reading %s: %w", path, err)
	}
	var raw struct {
		Queries []yamlDescriptor `yaml:"queries"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("registry: parsing %s: %w", path, err)
	}
	descriptors := make([]Descriptor, 0, len(raw.Queries))
	for _, q := range raw.Queries {
		descriptors = append(descriptors, Descriptor{
			Method:         q.Method,
			Priority:       model.Priority(q.Priority),
			Scope:          model.Scope(q.Scope),
			Windowed:       q.Windowed,
			CostClass:      model.CostClass(q.CostClass),
			Dependencies:   q.Dependencies,
			TTL:            time.Duration(q.TTLSeconds) * time.Second,
			MaxAge:         time.Duration(q.MaxAgeSeconds) * time.Second,
			DefaultEnabled: q.DefaultEnabled,
		})
	}
	return New(descriptors)
}

// Get returns the descriptor for method, if present.
func (r *Registry) Get(method string) (Descriptor, bool) {
	d, ok := r.byMethod[method]
	return d, ok
}

// All returns every descriptor in deterministic (insertion) order.
func (r *Registry) All() []Descriptor {
	out := make([]Descriptor, 0, len(r.order))
	for _, m := range r.order {
		out = append(out, r.byMethod[m])
	}
	return out
}

// Enabled returns every default-enabled descriptor, sorted by
// (priority ascending, cost class ascending, method lexical) — the
// dispatch ordering named in spec.md §4.5.
func (r *Registry) Enabled() []Descriptor {
	var out []Descriptor
	for _, d := range r.All() {
		if d.DefaultEnabled {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority.Rank() != out[j].Priority.Rank() {
			return out[i].Priority.Rank() < out[j].Priority.Rank()
		}
		if out[i].CostClass.Rank() != out[j].CostClass.Rank() {
			return out[i].CostClass.Rank() < out[j].CostClass.Rank()
		}
		return out[i].Method < out[j].Method
	})
	return out
}
