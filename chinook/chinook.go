// Package chinook provides a small music-catalog record model used by the
// examples and tests: artists with albums, albums with tracks, and playlists
// referencing tracks across albums.
package chinook

import (
	"fmt"

	"restmap/schema"
)

// Type identifiers for the catalog.
var (
	ArtistType   = schema.TypeID{Name: "Artist"}
	AlbumType    = schema.TypeID{Name: "Album"}
	TrackType    = schema.TypeID{Name: "Track"}
	GenreType    = schema.TypeID{Name: "Genre"}
	PlaylistType = schema.TypeID{Name: "Playlist"}
)

// Artist is a recording artist with a to-many albums relationship.
type Artist struct {
	ArtistID int64
	Name     string
	Albums   []*Album
}

// Album belongs to one artist and holds a track list.
type Album struct {
	AlbumID int64
	Title   string
	Artist  *Artist
	Tracks  []*Track
}

// Track is a single recording, optionally tagged with a genre.
type Track struct {
	TrackID      int64
	Name         string
	Composer     string
	Milliseconds int64
	UnitPrice    float64
	Genre        *Genre
}

// Genre tags tracks.
type Genre struct {
	GenreID int64
	Name    string
}

// Playlist references tracks across albums.
type Playlist struct {
	PlaylistID int64
	Name       string
	Tracks     []*Track
}

// TypeID implements schema.Record.
func (a *Artist) TypeID() schema.TypeID { return ArtistType }

// GetField implements schema.Record.
func (a *Artist) GetField(name string) (any, bool) {
	switch name {
	case "artist_id":
		return a.ArtistID, true
	case "name":
		return a.Name, true
	default:
		return nil, false
	}
}

// SetField implements schema.Record.
func (a *Artist) SetField(name string, value any) error {
	switch name {
	case "artist_id":
		return assignInt(&a.ArtistID, name, value)
	case "name":
		return assignString(&a.Name, name, value)
	default:
		return fmt.Errorf("Artist has no field %q", name)
	}
}

// Relation implements schema.Record.
func (a *Artist) Relation(string) schema.Record { return nil }

// RelationList implements schema.Record.
func (a *Artist) RelationList(name string) []schema.Record {
	if name != "albums" {
		return nil
	}

	out := make([]schema.Record, len(a.Albums))
	for i, album := range a.Albums {
		out[i] = album
	}

	return out
}

// SetRelation implements schema.Record.
func (a *Artist) SetRelation(name string, _ schema.Record) error {
	return fmt.Errorf("Artist has no to-one relationship %q", name)
}

// AddRelated implements schema.Record.
func (a *Artist) AddRelated(name string, value schema.Record) error {
	album, err := asAlbum(name, "albums", value)
	if err != nil {
		return err
	}

	a.Albums = append(a.Albums, album)

	return nil
}

// RemoveRelated implements schema.Record.
func (a *Artist) RemoveRelated(name string, value schema.Record) error {
	if name != "albums" {
		return fmt.Errorf("Artist has no to-many relationship %q", name)
	}

	for i, album := range a.Albums {
		if schema.Record(album) == value {
			a.Albums = append(a.Albums[:i], a.Albums[i+1:]...)
			return nil
		}
	}

	return nil
}

// TypeID implements schema.Record.
func (a *Album) TypeID() schema.TypeID { return AlbumType }

// GetField implements schema.Record.
func (a *Album) GetField(name string) (any, bool) {
	switch name {
	case "album_id":
		return a.AlbumID, true
	case "title":
		return a.Title, true
	default:
		return nil, false
	}
}

// SetField implements schema.Record.
func (a *Album) SetField(name string, value any) error {
	switch name {
	case "album_id":
		return assignInt(&a.AlbumID, name, value)
	case "title":
		return assignString(&a.Title, name, value)
	default:
		return fmt.Errorf("Album has no field %q", name)
	}
}

// Relation implements schema.Record.
func (a *Album) Relation(name string) schema.Record {
	if name != "artist" || a.Artist == nil {
		return nil
	}

	return a.Artist
}

// RelationList implements schema.Record.
func (a *Album) RelationList(name string) []schema.Record {
	if name != "tracks" {
		return nil
	}

	out := make([]schema.Record, len(a.Tracks))
	for i, track := range a.Tracks {
		out[i] = track
	}

	return out
}

// SetRelation implements schema.Record.
func (a *Album) SetRelation(name string, value schema.Record) error {
	if name != "artist" {
		return fmt.Errorf("Album has no to-one relationship %q", name)
	}

	if value == nil {
		a.Artist = nil
		return nil
	}

	artist, ok := value.(*Artist)
	if !ok {
		return fmt.Errorf("artist relationship cannot hold a %s", value.TypeID())
	}

	a.Artist = artist

	return nil
}

// AddRelated implements schema.Record.
func (a *Album) AddRelated(name string, value schema.Record) error {
	track, err := asTrack(name, "tracks", value)
	if err != nil {
		return err
	}

	a.Tracks = append(a.Tracks, track)

	return nil
}

// RemoveRelated implements schema.Record.
func (a *Album) RemoveRelated(name string, value schema.Record) error {
	if name != "tracks" {
		return fmt.Errorf("Album has no to-many relationship %q", name)
	}

	a.Tracks = removeTrack(a.Tracks, value)

	return nil
}

// TypeID implements schema.Record.
func (t *Track) TypeID() schema.TypeID { return TrackType }

// GetField implements schema.Record.
func (t *Track) GetField(name string) (any, bool) {
	switch name {
	case "track_id":
		return t.TrackID, true
	case "name":
		return t.Name, true
	case "composer":
		return t.Composer, true
	case "milliseconds":
		return t.Milliseconds, true
	case "unit_price":
		return t.UnitPrice, true
	default:
		return nil, false
	}
}

// SetField implements schema.Record.
func (t *Track) SetField(name string, value any) error {
	switch name {
	case "track_id":
		return assignInt(&t.TrackID, name, value)
	case "name":
		return assignString(&t.Name, name, value)
	case "composer":
		return assignString(&t.Composer, name, value)
	case "milliseconds":
		return assignInt(&t.Milliseconds, name, value)
	case "unit_price":
		return assignFloat(&t.UnitPrice, name, value)
	default:
		return fmt.Errorf("Track has no field %q", name)
	}
}

// Relation implements schema.Record.
func (t *Track) Relation(name string) schema.Record {
	if name != "genre" || t.Genre == nil {
		return nil
	}

	return t.Genre
}

// RelationList implements schema.Record.
func (t *Track) RelationList(string) []schema.Record { return nil }

// SetRelation implements schema.Record.
func (t *Track) SetRelation(name string, value schema.Record) error {
	if name != "genre" {
		return fmt.Errorf("Track has no to-one relationship %q", name)
	}

	if value == nil {
		t.Genre = nil
		return nil
	}

	genre, ok := value.(*Genre)
	if !ok {
		return fmt.Errorf("genre relationship cannot hold a %s", value.TypeID())
	}

	t.Genre = genre

	return nil
}

// AddRelated implements schema.Record.
func (t *Track) AddRelated(name string, _ schema.Record) error {
	return fmt.Errorf("Track has no to-many relationship %q", name)
}

// RemoveRelated implements schema.Record.
func (t *Track) RemoveRelated(name string, _ schema.Record) error {
	return fmt.Errorf("Track has no to-many relationship %q", name)
}

// TypeID implements schema.Record.
func (g *Genre) TypeID() schema.TypeID { return GenreType }

// GetField implements schema.Record.
func (g *Genre) GetField(name string) (any, bool) {
	switch name {
	case "genre_id":
		return g.GenreID, true
	case "name":
		return g.Name, true
	default:
		return nil, false
	}
}

// SetField implements schema.Record.
func (g *Genre) SetField(name string, value any) error {
	switch name {
	case "genre_id":
		return assignInt(&g.GenreID, name, value)
	case "name":
		return assignString(&g.Name, name, value)
	default:
		return fmt.Errorf("Genre has no field %q", name)
	}
}

// Relation implements schema.Record.
func (g *Genre) Relation(string) schema.Record { return nil }

// RelationList implements schema.Record.
func (g *Genre) RelationList(string) []schema.Record { return nil }

// SetRelation implements schema.Record.
func (g *Genre) SetRelation(name string, _ schema.Record) error {
	return fmt.Errorf("Genre has no to-one relationship %q", name)
}

// AddRelated implements schema.Record.
func (g *Genre) AddRelated(name string, _ schema.Record) error {
	return fmt.Errorf("Genre has no to-many relationship %q", name)
}

// RemoveRelated implements schema.Record.
func (g *Genre) RemoveRelated(name string, _ schema.Record) error {
	return fmt.Errorf("Genre has no to-many relationship %q", name)
}

// TypeID implements schema.Record.
func (p *Playlist) TypeID() schema.TypeID { return PlaylistType }

// GetField implements schema.Record.
func (p *Playlist) GetField(name string) (any, bool) {
	switch name {
	case "playlist_id":
		return p.PlaylistID, true
	case "name":
		return p.Name, true
	default:
		return nil, false
	}
}

// SetField implements schema.Record.
func (p *Playlist) SetField(name string, value any) error {
	switch name {
	case "playlist_id":
		return assignInt(&p.PlaylistID, name, value)
	case "name":
		return assignString(&p.Name, name, value)
	default:
		return fmt.Errorf("Playlist has no field %q", name)
	}
}

// Relation implements schema.Record.
func (p *Playlist) Relation(string) schema.Record { return nil }

// RelationList implements schema.Record.
func (p *Playlist) RelationList(name string) []schema.Record {
	if name != "tracks" {
		return nil
	}

	out := make([]schema.Record, len(p.Tracks))
	for i, track := range p.Tracks {
		out[i] = track
	}

	return out
}

// SetRelation implements schema.Record.
func (p *Playlist) SetRelation(name string, _ schema.Record) error {
	return fmt.Errorf("Playlist has no to-one relationship %q", name)
}

// AddRelated implements schema.Record.
func (p *Playlist) AddRelated(name string, value schema.Record) error {
	track, err := asTrack(name, "tracks", value)
	if err != nil {
		return err
	}

	p.Tracks = append(p.Tracks, track)

	return nil
}

// RemoveRelated implements schema.Record.
func (p *Playlist) RemoveRelated(name string, value schema.Record) error {
	if name != "tracks" {
		return fmt.Errorf("Playlist has no to-many relationship %q", name)
	}

	p.Tracks = removeTrack(p.Tracks, value)

	return nil
}

func asTrack(name, want string, value schema.Record) (*Track, error) {
	if name != want {
		return nil, fmt.Errorf("no to-many relationship %q", name)
	}

	track, ok := value.(*Track)
	if !ok {
		return nil, fmt.Errorf("%s relationship cannot hold this record", want)
	}

	return track, nil
}

func asAlbum(name, want string, value schema.Record) (*Album, error) {
	if name != want {
		return nil, fmt.Errorf("no to-many relationship %q", name)
	}

	album, ok := value.(*Album)
	if !ok {
		return nil, fmt.Errorf("%s relationship cannot hold this record", want)
	}

	return album, nil
}

func removeTrack(tracks []*Track, value schema.Record) []*Track {
	for i, track := range tracks {
		if schema.Record(track) == value {
			return append(tracks[:i], tracks[i+1:]...)
		}
	}

	return tracks
}

func assignInt(dst *int64, name string, value any) error {
	v, ok := value.(int64)
	if !ok {
		return fmt.Errorf("field %q requires an integer", name)
	}

	*dst = v

	return nil
}

func assignString(dst *string, name string, value any) error {
	v, ok := value.(string)
	if !ok {
		return fmt.Errorf("field %q requires a string", name)
	}

	*dst = v

	return nil
}

func assignFloat(dst *float64, name string, value any) error {
	v, ok := value.(float64)
	if !ok {
		return fmt.Errorf("field %q requires a number", name)
	}

	*dst = v

	return nil
}
