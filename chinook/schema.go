package chinook

import "restmap/schema"

// RegisterTypes registers the full catalog metadata with a registry.
func RegisterTypes(reg *schema.Registry) {
	reg.MustRegister(&schema.TypeInfo{
		ID: ArtistType,
		Attributes: []schema.Attribute{
			{Name: "artist_id", Kind: schema.AttrScalar, Scalar: schema.ScalarInt, PrimaryKey: true},
			{Name: "name", Kind: schema.AttrScalar, Scalar: schema.ScalarString},
			{Name: "albums", Kind: schema.AttrToMany, Target: AlbumType},
		},
		New: func() schema.Record { return &Artist{} },
	})

	reg.MustRegister(&schema.TypeInfo{
		ID: AlbumType,
		Attributes: []schema.Attribute{
			{Name: "album_id", Kind: schema.AttrScalar, Scalar: schema.ScalarInt, PrimaryKey: true},
			{Name: "title", Kind: schema.AttrScalar, Scalar: schema.ScalarString},
			{Name: "artist", Kind: schema.AttrToOne, Target: ArtistType},
			{Name: "tracks", Kind: schema.AttrToMany, Target: TrackType},
		},
		New: func() schema.Record { return &Album{} },
	})

	reg.MustRegister(&schema.TypeInfo{
		ID: TrackType,
		Attributes: []schema.Attribute{
			{Name: "track_id", Kind: schema.AttrScalar, Scalar: schema.ScalarInt, PrimaryKey: true},
			{Name: "name", Kind: schema.AttrScalar, Scalar: schema.ScalarString},
			{Name: "composer", Kind: schema.AttrScalar, Scalar: schema.ScalarString},
			{Name: "milliseconds", Kind: schema.AttrScalar, Scalar: schema.ScalarInt},
			{Name: "unit_price", Kind: schema.AttrScalar, Scalar: schema.ScalarFloat},
			{Name: "genre", Kind: schema.AttrToOne, Target: GenreType},
		},
		New: func() schema.Record { return &Track{} },
	})

	reg.MustRegister(&schema.TypeInfo{
		ID: GenreType,
		Attributes: []schema.Attribute{
			{Name: "genre_id", Kind: schema.AttrScalar, Scalar: schema.ScalarInt, PrimaryKey: true},
			{Name: "name", Kind: schema.AttrScalar, Scalar: schema.ScalarString},
		},
		New: func() schema.Record { return &Genre{} },
	})

	reg.MustRegister(&schema.TypeInfo{
		ID: PlaylistType,
		Attributes: []schema.Attribute{
			{Name: "playlist_id", Kind: schema.AttrScalar, Scalar: schema.ScalarInt, PrimaryKey: true},
			{Name: "name", Kind: schema.AttrScalar, Scalar: schema.ScalarString},
			{Name: "tracks", Kind: schema.AttrToMany, Target: TrackType},
		},
		New: func() schema.Record { return &Playlist{} },
	})
}

// NewRegistry returns a registry preloaded with the catalog types.
func NewRegistry() *schema.Registry {
	reg := schema.NewRegistry()
	RegisterTypes(reg)

	return reg
}
