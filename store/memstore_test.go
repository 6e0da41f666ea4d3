package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restmap/chinook"
)

func seedCatalog(t *testing.T) (*MemStore, *chinook.Album) {
	t.Helper()

	reg := chinook.NewRegistry()
	ms := NewMemStore(reg)

	album := &chinook.Album{AlbumID: 1, Title: "For Those About To Rock"}
	attached := &chinook.Track{TrackID: 1, Name: "For Those About To Rock (We Salute You)"}
	loose := &chinook.Track{TrackID: 14, Name: "Spellbound"}

	album.Tracks = append(album.Tracks, attached)

	ms.Add(album)
	ms.Add(attached)
	ms.Add(loose)

	return ms, album
}

func TestMemStore_FindByFilter(t *testing.T) {
	ms, _ := seedCatalog(t)

	rec, err := ms.FindByFilter(chinook.TrackType, map[string]any{"track_id": int64(14)})
	require.NoError(t, err)
	require.NotNil(t, rec)

	name, ok := rec.GetField("name")
	require.True(t, ok)
	assert.Equal(t, "Spellbound", name)
}

func TestMemStore_FindByFilter_NoMatch(t *testing.T) {
	ms, _ := seedCatalog(t)

	rec, err := ms.FindByFilter(chinook.TrackType, map[string]any{"track_id": int64(999)})
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestMemStore_FindByFilter_MultipleFilters(t *testing.T) {
	ms, _ := seedCatalog(t)

	rec, err := ms.FindByFilter(chinook.TrackType, map[string]any{
		"track_id": int64(14),
		"name":     "Spellbound",
	})
	require.NoError(t, err)
	require.NotNil(t, rec)

	rec, err = ms.FindByFilter(chinook.TrackType, map[string]any{
		"track_id": int64(14),
		"name":     "Wrong Name",
	})
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestMemStore_FindWithParent_AttachedOnly(t *testing.T) {
	ms, album := seedCatalog(t)

	rec, err := ms.FindWithParent(chinook.TrackType, album, "tracks", map[string]any{"track_id": int64(1)})
	require.NoError(t, err)
	assert.NotNil(t, rec)

	// Track 14 exists in the store but is not on this album.
	rec, err = ms.FindWithParent(chinook.TrackType, album, "tracks", map[string]any{"track_id": int64(14)})
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestMemStore_FindWithParent_ToOne(t *testing.T) {
	reg := chinook.NewRegistry()
	ms := NewMemStore(reg)

	artist := &chinook.Artist{ArtistID: 1, Name: "AC/DC"}
	album := &chinook.Album{AlbumID: 1, Title: "For Those About To Rock", Artist: artist}

	ms.Add(artist)
	ms.Add(album)

	rec, err := ms.FindWithParent(chinook.ArtistType, album, "artist", map[string]any{"artist_id": int64(1)})
	require.NoError(t, err)
	assert.NotNil(t, rec)

	rec, err = ms.FindWithParent(chinook.ArtistType, album, "artist", map[string]any{"artist_id": int64(2)})
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestMemStore_FindWithParent_UnknownRelation(t *testing.T) {
	ms, album := seedCatalog(t)

	_, err := ms.FindWithParent(chinook.TrackType, album, "songs", nil)
	require.Error(t, err)
}

func TestMemStore_ExistsWithParent(t *testing.T) {
	ms, album := seedCatalog(t)

	ok, err := ms.ExistsWithParent(chinook.TrackType, album, "tracks", map[string]any{"track_id": int64(1)})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = ms.ExistsWithParent(chinook.TrackType, album, "tracks", map[string]any{"track_id": int64(14)})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemStore_StagePendingIdempotent(t *testing.T) {
	ms, _ := seedCatalog(t)

	track := &chinook.Track{Name: "Brand New"}

	require.NoError(t, ms.StagePending(track))
	require.NoError(t, ms.StagePending(track))

	assert.Len(t, ms.Pending(), 1)

	token, ok := ms.StagingToken(track)
	require.True(t, ok)
	assert.NotEmpty(t, token)
}

func TestMemStore_StagePendingNil(t *testing.T) {
	ms, _ := seedCatalog(t)

	require.Error(t, ms.StagePending(nil))
}

func TestMemStore_DirtyTracksScalarChanges(t *testing.T) {
	ms, _ := seedCatalog(t)

	track := &chinook.Track{Name: "Brand New"}
	require.NoError(t, ms.StagePending(track))

	dirty, err := ms.Dirty(track)
	require.NoError(t, err)
	assert.False(t, dirty)

	track.Name = "Renamed"

	dirty, err = ms.Dirty(track)
	require.NoError(t, err)
	assert.True(t, dirty)
}

func TestMemStore_FingerprintStable(t *testing.T) {
	ms, _ := seedCatalog(t)

	track := &chinook.Track{TrackID: 7, Name: "Same"}

	a, err := ms.Fingerprint(track)
	require.NoError(t, err)

	b, err := ms.Fingerprint(track)
	require.NoError(t, err)

	assert.Equal(t, a, b)

	other := &chinook.Track{TrackID: 8, Name: "Same"}

	c, err := ms.Fingerprint(other)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}
