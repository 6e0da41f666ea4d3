package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubRecord satisfies Record for metadata-only tests.
type stubRecord struct {
	id TypeID
}

func (r *stubRecord) TypeID() TypeID                     { return r.id }
func (r *stubRecord) GetField(string) (any, bool)        { return nil, false }
func (r *stubRecord) SetField(string, any) error         { return nil }
func (r *stubRecord) Relation(string) Record             { return nil }
func (r *stubRecord) RelationList(string) []Record       { return nil }
func (r *stubRecord) SetRelation(string, Record) error   { return nil }
func (r *stubRecord) AddRelated(string, Record) error    { return nil }
func (r *stubRecord) RemoveRelated(string, Record) error { return nil }

// buildTestRegistry creates a small catalog schema for resolver tests.
func buildTestRegistry(t *testing.T) *Registry {
	t.Helper()

	albumID := TypeID{Name: "Album"}
	trackID := TypeID{Name: "Track"}
	artistID := TypeID{Name: "Artist"}

	reg := NewRegistry()

	require.NoError(t, reg.Register(&TypeInfo{
		ID: albumID,
		Attributes: []Attribute{
			{Name: "album_id", Kind: AttrScalar, Scalar: ScalarInt, PrimaryKey: true},
			{Name: "title", Kind: AttrScalar, Scalar: ScalarString},
			{Name: "artist", Kind: AttrToOne, Target: artistID},
			{Name: "tracks", Kind: AttrToMany, Target: trackID},
		},
		New: func() Record { return &stubRecord{id: albumID} },
	}))

	require.NoError(t, reg.Register(&TypeInfo{
		ID: trackID,
		Attributes: []Attribute{
			{Name: "track_id", Kind: AttrScalar, Scalar: ScalarInt, PrimaryKey: true},
			{Name: "name", Kind: AttrScalar, Scalar: ScalarString},
		},
		New: func() Record { return &stubRecord{id: trackID} },
	}))

	require.NoError(t, reg.Register(&TypeInfo{
		ID: artistID,
		Attributes: []Attribute{
			{Name: "artist_id", Kind: AttrScalar, Scalar: ScalarInt, PrimaryKey: true},
			{Name: "name", Kind: AttrScalar, Scalar: ScalarString},
		},
		New: func() Record { return &stubRecord{id: artistID} },
	}))

	return reg
}

func TestResolve_ScalarPath(t *testing.T) {
	reg := buildTestRegistry(t)

	steps, err := Resolve(reg, TypeID{Name: "Album"}, "Album.title")
	require.NoError(t, err)
	require.Len(t, steps, 2)

	assert.Nil(t, steps[0].Attr)
	assert.Equal(t, "Album", steps[0].Type.Name)
	require.NotNil(t, steps[1].Attr)
	assert.Equal(t, AttrScalar, steps[1].Attr.Kind)
	assert.Equal(t, ScalarString, steps[1].Attr.Scalar)
}

func TestResolve_RelationshipDereference(t *testing.T) {
	reg := buildTestRegistry(t)

	steps, err := Resolve(reg, TypeID{Name: "Album"}, "Album.artist.name")
	require.NoError(t, err)
	require.Len(t, steps, 3)

	require.NotNil(t, steps[1].Attr)
	assert.Equal(t, AttrToOne, steps[1].Attr.Kind)
	require.NotNil(t, steps[2].Attr)
	assert.Equal(t, AttrScalar, steps[2].Attr.Kind)
}

func TestResolve_IdentityToken(t *testing.T) {
	reg := buildTestRegistry(t)

	steps, err := Resolve(reg, TypeID{Name: "Album"}, "Album.tracks.$id:track_id=5.name")
	require.NoError(t, err)
	require.Len(t, steps, 4)

	assert.Nil(t, steps[2].Attr)
	assert.Equal(t, "Track", steps[2].Type.Name)
	require.NotNil(t, steps[3].Attr)
	assert.Equal(t, "name", steps[3].Attr.Name)
}

func TestResolve_VerbSentinel(t *testing.T) {
	reg := buildTestRegistry(t)

	steps, err := Resolve(reg, TypeID{Name: "Album"}, "Album.tracks.$id:track_id=5.$add")
	require.NoError(t, err)
	require.Len(t, steps, 4)

	assert.Nil(t, steps[3].Attr)
	assert.Equal(t, "", steps[3].Type.Name)
}

func TestResolve_NewToken(t *testing.T) {
	reg := buildTestRegistry(t)

	steps, err := Resolve(reg, TypeID{Name: "Album"}, "Album.tracks.$new0.name")
	require.NoError(t, err)
	require.Len(t, steps, 4)

	assert.Equal(t, "Track", steps[2].Type.Name)
}

func TestResolve_WrongRootName(t *testing.T) {
	reg := buildTestRegistry(t)

	_, err := Resolve(reg, TypeID{Name: "Album"}, "Track.name")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPathFormat))
}

func TestResolve_UnknownAttribute(t *testing.T) {
	reg := buildTestRegistry(t)

	_, err := Resolve(reg, TypeID{Name: "Album"}, "Album.tracks.$id:track_id=5.bogus")
	require.Error(t, err)

	var uErr *UnknownAttributeError
	require.ErrorAs(t, err, &uErr)
	assert.Equal(t, "bogus", uErr.Segment)
	assert.Equal(t, "Track", uErr.Type.Name)
	assert.Contains(t, uErr.Path, "Album.tracks")
}

func TestResolve_NoDescentUnderScalar(t *testing.T) {
	reg := buildTestRegistry(t)

	_, err := Resolve(reg, TypeID{Name: "Album"}, "Album.title.length")
	require.Error(t, err)

	var uErr *UnknownAttributeError
	require.ErrorAs(t, err, &uErr)
	assert.Equal(t, "length", uErr.Segment)
}

func TestRegistry_DuplicateRegistration(t *testing.T) {
	reg := buildTestRegistry(t)

	err := reg.Register(&TypeInfo{
		ID:  TypeID{Name: "Album"},
		New: func() Record { return &stubRecord{} },
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestRegistry_RequiresConstructor(t *testing.T) {
	reg := NewRegistry()

	err := reg.Register(&TypeInfo{ID: TypeID{Name: "Thing"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "constructor")
}

func TestRegistry_PrimaryKeys(t *testing.T) {
	reg := buildTestRegistry(t)

	keys := reg.PrimaryKeys(TypeID{Name: "Album"})
	require.Len(t, keys, 1)
	assert.Equal(t, "album_id", keys[0].Name)
}
