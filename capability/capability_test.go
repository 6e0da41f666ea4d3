package capability

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllows_NilWhitelistPermitsEverything(t *testing.T) {
	var wl Whitelist

	assert.True(t, wl.Allows("tracks", VerbAdd))
	assert.True(t, wl.Allows("anything.at.all", VerbNone))
	assert.True(t, wl.Allows("", VerbCreate))
}

func TestAllows_EmptyWhitelistDeniesEverything(t *testing.T) {
	wl := Whitelist{}

	assert.False(t, wl.Allows("tracks", VerbAdd))
	assert.False(t, wl.Allows("title", VerbNone))
}

func TestAllows_BareNameGrantsAllVerbs(t *testing.T) {
	wl := Whitelist{"tracks"}

	for _, verb := range []Verb{VerbNone, VerbAdd, VerbRemove, VerbSet, VerbCreate} {
		assert.True(t, wl.Allows("tracks", verb), "verb %q", verb)
	}

	assert.False(t, wl.Allows("artist", VerbAdd))
}

func TestAllows_VerbScopedEntry(t *testing.T) {
	wl := Whitelist{"tracks.$add"}

	assert.True(t, wl.Allows("tracks", VerbAdd))
	assert.False(t, wl.Allows("tracks", VerbRemove))
	assert.False(t, wl.Allows("tracks", VerbNone))
}

func TestAllows_TildeVerbEncoding(t *testing.T) {
	wl := Whitelist{"tracks.~remove"}

	assert.True(t, wl.Allows("tracks", VerbRemove))
	assert.False(t, wl.Allows("tracks", VerbAdd))
}

func TestAllows_ShortFormMatch(t *testing.T) {
	wl := Whitelist{"tracks.name"}

	assert.True(t, wl.Allows("tracks.$id.name", VerbNone))
	assert.True(t, wl.Allows("tracks.$new.name", VerbNone))
	assert.False(t, wl.Allows("tracks.$id.composer", VerbNone))
}

func TestAllows_Monotonicity(t *testing.T) {
	w1 := Whitelist{"tracks.$add"}
	w2 := append(Whitelist{"artist", "title"}, w1...)

	names := []string{"tracks", "artist", "title", "albums"}
	verbs := []Verb{VerbNone, VerbAdd, VerbRemove, VerbSet, VerbCreate}

	for _, name := range names {
		for _, verb := range verbs {
			if w1.Allows(name, verb) {
				assert.True(t, w2.Allows(name, verb), "superset must still allow %s.%s", name, verb)
			}
		}
	}
}

func TestNormalizeName_DropsIdentityAndNew(t *testing.T) {
	assert.Equal(t, "tracks", NormalizeName([]string{"tracks", "$id:track_id=5"}))
	assert.Equal(t, "tracks", NormalizeName([]string{"tracks", "$new0"}))
	assert.Equal(t, "albums.tracks.name", NormalizeName([]string{"albums", "$new1", "tracks", "$id:track_id=2", "name"}))
	assert.Equal(t, "", NormalizeName(nil))
}

func TestGenericName_Placeholders(t *testing.T) {
	assert.Equal(t, "tracks.$id", GenericName([]string{"tracks", "$id:track_id=5"}))
	assert.Equal(t, "tracks.$new", GenericName([]string{"tracks", "$new0"}))
	assert.Equal(t, "tracks.$id.name", GenericName([]string{"tracks", "id-track_id-5", "name"}))
}

func TestLoad_Document(t *testing.T) {
	path := filepath.Join(t.TempDir(), "whitelists.yaml")

	content := []byte(`
whitelists:
  editor:
    - tracks
    - artist.name
  viewer: []
`)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	doc, err := Load(context.Background(), path)
	require.NoError(t, err)

	editor, ok := doc.Get("editor")
	require.True(t, ok)
	assert.True(t, editor.Allows("tracks", VerbAdd))
	assert.True(t, editor.Allows("artist.name", VerbNone))
	assert.False(t, editor.Allows("artist", VerbSet))

	viewer, ok := doc.Get("viewer")
	require.True(t, ok)
	require.NotNil(t, viewer)
	assert.False(t, viewer.Allows("tracks", VerbAdd))

	_, ok = doc.Get("admin")
	assert.False(t, ok)
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("whitelists: [not a map"))
	require.Error(t, err)
}
