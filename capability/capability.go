// Package capability decides whether a dotted update path is permitted to
// perform a given mutation. Capability names are dotted paths with the
// identity/new segments normalized away, so one whitelist entry covers every
// specific record a client might reference under a relationship.
package capability

import (
	"strings"

	"restmap/token"
)

// Verb is a permitted mutation operation on a relationship.
type Verb string

const (
	VerbNone   Verb = ""
	VerbAdd    Verb = "add"
	VerbRemove Verb = "remove"
	VerbSet    Verb = "set"
	VerbCreate Verb = "create"
)

// Whitelist is the set of capability strings a caller is allowed to use.
// A nil Whitelist permits everything; an empty one permits nothing.
// Entries are either plain capability names ("tracks", "artist.name") or
// verb-scoped names ("tracks.$add"). A plain relationship name implicitly
// grants create, add, remove, and set on that relationship.
type Whitelist []string

// Allows returns true if the named capability is whitelisted for the verb.
// Verb-scoped entries are recognized in both the $ and ~ sigil encodings.
// The name is checked both as given and with any generic $id/$new
// placeholder segments stripped.
func (wl Whitelist) Allows(name string, verb Verb) bool {
	if wl == nil {
		return true
	}

	candidates := []string{name}
	if short := stripPlaceholders(name); short != name {
		candidates = append(candidates, short)
	}

	for _, cand := range candidates {
		if wl.contains(cand) {
			return true
		}

		if verb != VerbNone {
			if wl.contains(cand+".$"+string(verb)) || wl.contains(cand+".~"+string(verb)) {
				return true
			}
		}
	}

	return false
}

func (wl Whitelist) contains(entry string) bool {
	for _, item := range wl {
		if item == entry {
			return true
		}
	}

	return false
}

// NormalizeName joins path segments into a capability name, dropping
// identity and new segments entirely: ["tracks", "$id:track_id=5"] becomes
// "tracks". This is the key permission checks are made against.
func NormalizeName(segments []string) string {
	var names []string

	for _, seg := range segments {
		if token.IsIdentity(seg) || token.IsNew(seg) {
			continue
		}

		names = append(names, seg)
	}

	return strings.Join(names, ".")
}

// GenericName joins path segments, replacing identity segments with the
// literal "$id" placeholder and new segments with "$new". Used when an error
// concerns the relationship rather than the specific record addressed, so
// reported paths stay stable regardless of which identity was used.
func GenericName(segments []string) string {
	names := make([]string, 0, len(segments))

	for _, seg := range segments {
		switch {
		case token.IsIdentity(seg):
			names = append(names, "$id")
		case token.IsNew(seg):
			names = append(names, "$new")
		default:
			names = append(names, seg)
		}
	}

	return strings.Join(names, ".")
}

// stripPlaceholders removes generic $id/$new segments from a capability
// name, producing the short form of the name.
func stripPlaceholders(name string) string {
	segments := strings.Split(name, ".")

	var kept []string

	for _, seg := range segments {
		if seg == "$id" || seg == "$new" || token.IsIdentity(seg) || token.IsNew(seg) {
			continue
		}

		kept = append(kept, seg)
	}

	return strings.Join(kept, ".")
}
