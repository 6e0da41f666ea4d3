// Package store defines the backing record store the mutation engine
// queries, plus an in-memory implementation for tests and embedders.
// The engine only ever reads and stages; committing anything durably is the
// caller's job.
package store

import "restmap/schema"

// Store is the abstract keyed record store consulted while resolving
// identity references. Filter values are already coerced to the column's
// native type. Lookups return (nil, nil) when no record matches; an error
// return is reserved for the store itself failing.
type Store interface {
	// FindByFilter returns at most one record of the given type matching
	// all filters.
	FindByFilter(id schema.TypeID, filters map[string]any) (schema.Record, error)

	// FindWithParent returns at most one matching record that is currently
	// attached to the parent through the named relationship.
	FindWithParent(id schema.TypeID, parent schema.Record, relation string, filters map[string]any) (schema.Record, error)

	// ExistsWithParent reports whether FindWithParent would find a record.
	ExistsWithParent(id schema.TypeID, parent schema.Record, relation string, filters map[string]any) (bool, error)

	// StagePending registers a newly created record for a later write.
	// Staging is idempotent per record and never commits anything.
	StagePending(rec schema.Record) error
}
