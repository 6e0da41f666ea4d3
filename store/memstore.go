package store

import (
	"bytes"
	"fmt"
	"time"

	"github.com/minio/highwayhash"
	"github.com/pborman/uuid"

	"restmap/schema"
)

// fingerprint key; highwayhash requires exactly 32 bytes.
var hashKey = []byte("restmap.memstore.fingerprint.key")

// MemStore is an in-memory Store. Records are seeded with Add and looked up
// by linear scan; staged records are tracked separately with a staging token
// and a content fingerprint so the same record is staged exactly once and
// unchanged records can be skipped at flush time.
//
// MemStore is not safe for concurrent use; like any store session, callers
// serialize one mutation run at a time against it.
type MemStore struct {
	reg     *schema.Registry
	records map[schema.TypeID][]schema.Record
	staged  map[schema.Record]stagedEntry
	order   []schema.Record
}

type stagedEntry struct {
	token       string
	fingerprint uint64
}

// NewMemStore creates an empty MemStore backed by the given registry.
func NewMemStore(reg *schema.Registry) *MemStore {
	return &MemStore{
		reg:     reg,
		records: make(map[schema.TypeID][]schema.Record),
		staged:  make(map[schema.Record]stagedEntry),
	}
}

// Add seeds a persisted record into the store.
func (ms *MemStore) Add(rec schema.Record) {
	id := rec.TypeID()
	ms.records[id] = append(ms.records[id], rec)
}

// FindByFilter implements Store.
func (ms *MemStore) FindByFilter(id schema.TypeID, filters map[string]any) (schema.Record, error) {
	for _, rec := range ms.records[id] {
		if matches(rec, filters) {
			return rec, nil
		}
	}

	return nil, nil
}

// FindWithParent implements Store. The parent's live relationship is
// consulted directly, so records attached during the current run are seen
// even though nothing has been flushed.
func (ms *MemStore) FindWithParent(id schema.TypeID, parent schema.Record, relation string, filters map[string]any) (schema.Record, error) {
	if parent == nil {
		return nil, fmt.Errorf("parent record is required for a scoped lookup")
	}

	attr := ms.reg.Attr(parent.TypeID(), relation)
	if attr == nil || !attr.IsRelation() {
		return nil, fmt.Errorf("%s has no relationship %q", parent.TypeID(), relation)
	}

	if attr.Kind == schema.AttrToMany {
		for _, rec := range parent.RelationList(relation) {
			if rec.TypeID() == id && matches(rec, filters) {
				return rec, nil
			}
		}

		return nil, nil
	}

	rec := parent.Relation(relation)
	if rec != nil && rec.TypeID() == id && matches(rec, filters) {
		return rec, nil
	}

	return nil, nil
}

// ExistsWithParent implements Store.
func (ms *MemStore) ExistsWithParent(id schema.TypeID, parent schema.Record, relation string, filters map[string]any) (bool, error) {
	rec, err := ms.FindWithParent(id, parent, relation, filters)
	if err != nil {
		return false, err
	}

	return rec != nil, nil
}

// StagePending implements Store. Re-staging an already staged record is a
// no-op, keeping registration exactly-once per record.
func (ms *MemStore) StagePending(rec schema.Record) error {
	if rec == nil {
		return fmt.Errorf("cannot stage a nil record")
	}

	if _, ok := ms.staged[rec]; ok {
		return nil
	}

	fp, err := ms.Fingerprint(rec)
	if err != nil {
		return err
	}

	ms.staged[rec] = stagedEntry{token: uuid.New(), fingerprint: fp}
	ms.order = append(ms.order, rec)

	return nil
}

// Pending returns the staged records in staging order.
func (ms *MemStore) Pending() []schema.Record {
	out := make([]schema.Record, len(ms.order))
	copy(out, ms.order)

	return out
}

// StagingToken returns the token assigned when a record was staged.
func (ms *MemStore) StagingToken(rec schema.Record) (string, bool) {
	entry, ok := ms.staged[rec]
	return entry.token, ok
}

// Dirty reports whether a staged record's scalar content changed since it
// was staged.
func (ms *MemStore) Dirty(rec schema.Record) (bool, error) {
	entry, ok := ms.staged[rec]
	if !ok {
		return false, fmt.Errorf("record was never staged")
	}

	fp, err := ms.Fingerprint(rec)
	if err != nil {
		return false, err
	}

	return fp != entry.fingerprint, nil
}

// Fingerprint hashes a record's scalar attribute values into a stable
// 64-bit digest.
func (ms *MemStore) Fingerprint(rec schema.Record) (uint64, error) {
	info := ms.reg.Type(rec.TypeID())
	if info == nil {
		return 0, fmt.Errorf("type %s is not registered", rec.TypeID())
	}

	var buf bytes.Buffer

	for _, attr := range info.Attributes {
		if attr.Kind != schema.AttrScalar {
			continue
		}

		value, _ := rec.GetField(attr.Name)
		fmt.Fprintf(&buf, "%s=%v;", attr.Name, value)
	}

	h, err := highwayhash.New64(hashKey)
	if err != nil {
		return 0, err
	}

	if _, err := h.Write(buf.Bytes()); err != nil {
		return 0, err
	}

	return h.Sum64(), nil
}

// matches reports whether every filter equals the record's field value.
func matches(rec schema.Record, filters map[string]any) bool {
	for name, want := range filters {
		got, ok := rec.GetField(name)
		if !ok {
			return false
		}

		if !equalValues(got, want) {
			return false
		}
	}

	return true
}

func equalValues(got, want any) bool {
	if gt, ok := got.(time.Time); ok {
		wt, ok := want.(time.Time)
		return ok && gt.Equal(wt)
	}

	return got == want
}
