// Package update interprets flat dotted-path payloads as mutations against
// an object graph: scalar assignment, identity-scoped descent, creation, and
// relationship attach/detach, all gated by a capability whitelist. Failures
// are aggregated per path so one request surfaces every problem at once.
package update

import (
	"fmt"
	"strings"

	"restmap/capability"
	"restmap/schema"
	"restmap/store"
	"restmap/token"
)

type config struct {
	whitelist capability.Whitelist
	limit     int
	stage     bool
	validate  bool
}

// Option adjusts a single mutation run.
type Option func(*config)

// WithWhitelist restricts the run to the given capability whitelist. Without
// this option every mutation is permitted.
func WithWhitelist(wl capability.Whitelist) Option {
	return func(c *config) { c.whitelist = wl }
}

// WithStackLimit bounds the interpreter's work stack. A run whose stack ever
// exceeds the limit aborts with a ComplexityError.
func WithStackLimit(n int) Option {
	return func(c *config) { c.limit = n }
}

// WithoutWriteRegistration skips staging created records with the store. The
// caller then owns persisting whatever the run attached to the graph.
func WithoutWriteRegistration() Option {
	return func(c *config) { c.stage = false }
}

// ValidationOnly runs the full interpretation, including store lookups and
// whitelist checks, without mutating any record or staging any write.
func ValidationOnly() Option {
	return func(c *config) { c.validate = true }
}

// Create instantiates a new record of the given type, applies the flat
// update payload to it, and stages it for writing. The record is returned
// only when every path applied cleanly.
func Create(st store.Store, reg *schema.Registry, id schema.TypeID, flat map[string]any, opts ...Option) (schema.Record, error) {
	info := reg.Type(id)
	if info == nil {
		return nil, fmt.Errorf("type %s is not registered", id)
	}

	cfg := newConfig(opts)
	rec := info.New()

	if err := apply(st, reg, rec, flat, cfg); err != nil {
		return nil, err
	}

	if cfg.stage && !cfg.validate {
		if err := st.StagePending(rec); err != nil {
			return nil, err
		}
	}

	return rec, nil
}

// Update applies the flat update payload to an existing record. On failure
// the returned error is an *Error carrying every per-path problem, or a
// *ComplexityError when the payload exceeded the stack limit.
func Update(st store.Store, reg *schema.Registry, root schema.Record, flat map[string]any, opts ...Option) (schema.Record, error) {
	cfg := newConfig(opts)

	if err := apply(st, reg, root, flat, cfg); err != nil {
		return nil, err
	}

	return root, nil
}

func newConfig(opts []Option) *config {
	cfg := &config{stage: true}
	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

func apply(st store.Store, reg *schema.Registry, root schema.Record, flat map[string]any, cfg *config) error {
	in := &interpreter{
		st:     st,
		reg:    reg,
		wl:     cfg.whitelist,
		limit:  cfg.limit,
		stage:  cfg.stage,
		commit: !cfg.validate,
		errs:   ErrorMap{},
	}

	if err := in.run(root, BuildTree(canonicalize(flat))); err != nil {
		return err
	}

	if !in.errs.Empty() {
		return &Error{Errors: in.errs}
	}

	return nil
}

// canonicalize rewrites each path segment's alias encodings into the
// canonical control-token form before the tree is built.
func canonicalize(flat map[string]any) map[string]any {
	out := make(map[string]any, len(flat))

	for key, value := range flat {
		segments := strings.Split(key, ".")
		for i, seg := range segments {
			segments[i] = token.Canonicalize(seg)
		}

		out[strings.Join(segments, ".")] = value
	}

	return out
}
