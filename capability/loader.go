package capability

import (
	"context"
	"fmt"

	"github.com/viant/afs"
	"gopkg.in/yaml.v3"
)

// Document is a set of named whitelists loaded from a YAML file, typically
// one whitelist per role or per endpoint:
//
//	whitelists:
//	  editor:
//	    - tracks
//	    - artist.name
//	  viewer: []
type Document struct {
	Whitelists map[string]Whitelist `yaml:"whitelists"`
}

// Get returns the named whitelist. The second return is false when the
// document has no whitelist under that name. A present-but-empty whitelist
// denies everything; callers decide their own fallback for an absent one.
func (d *Document) Get(name string) (Whitelist, bool) {
	wl, ok := d.Whitelists[name]
	return wl, ok
}

// Load reads a whitelist document from the given URL. Any location scheme
// supported by afs works (plain paths, file://, mem://, s3://, ...).
func Load(ctx context.Context, URL string) (*Document, error) {
	fs := afs.New()

	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to read whitelist document %s: %w", URL, err)
	}

	return Parse(data)
}

// Parse parses YAML data into a Document.
func Parse(data []byte) (*Document, error) {
	var doc Document

	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse whitelist YAML: %w", err)
	}

	if doc.Whitelists == nil {
		doc.Whitelists = map[string]Whitelist{}
	}

	return &doc, nil
}
