// Package token classifies the reserved control segments of dotted update
// paths: identity lookups ($id:field=value), new-object slots ($new0), and
// the attach/detach/replace verbs ($add, $remove, $set).
package token

import (
	"fmt"
	"strings"
)

// Canonical control segments and prefixes.
const (
	Add    = "$add"
	Remove = "$remove"
	Set    = "$set"

	idPrefix  = "$id"
	newPrefix = "$new"
)

// MalformedIdentityError reports an identity segment whose encoded
// field/value list cannot be parsed.
type MalformedIdentityError struct {
	Segment string
	Reason  string
}

// Error implements the error interface.
func (e *MalformedIdentityError) Error() string {
	return fmt.Sprintf("malformed identity segment %q: %s", e.Segment, e.Reason)
}

// Canonicalize rewrites accepted alias encodings of a control segment into
// the canonical $-sigil form. Ordinary attribute names pass through
// unchanged. Aliases exist for compatibility with older payload formats:
// tilde sigils (~add), underscore wrapping (_add_), and the hyphen identity
// form (id-field-value). Keeping this a pure pre-pass means the rest of the
// engine only ever sees one encoding.
func Canonicalize(seg string) string {
	switch seg {
	case "~add", "_add_":
		return Add
	case "~remove", "_remove_":
		return Remove
	case "~set", "_set_":
		return Set
	}

	switch {
	case strings.HasPrefix(seg, "~new"):
		return newPrefix + seg[len("~new"):]
	case strings.HasPrefix(seg, "_new_"):
		return newPrefix + seg[len("_new_"):]
	case strings.HasPrefix(seg, "~id"):
		return idPrefix + seg[len("~id"):]
	case strings.HasPrefix(seg, "id-"):
		return canonicalizeHyphenIdentity(seg)
	}

	return seg
}

// canonicalizeHyphenIdentity converts "id-track_id-5" into "$id:track_id=5".
// An odd trailing token is carried over as-is so ParseIdentity can report it.
func canonicalizeHyphenIdentity(seg string) string {
	parts := strings.Split(seg, "-")[1:]

	var pairs []string

	for i := 0; i < len(parts); i += 2 {
		if i+1 < len(parts) {
			pairs = append(pairs, parts[i]+"="+parts[i+1])
		} else {
			pairs = append(pairs, parts[i])
		}
	}

	return idPrefix + ":" + strings.Join(pairs, ":")
}

// IsIdentity returns true if the segment encodes an identity lookup.
func IsIdentity(seg string) bool {
	c := Canonicalize(seg)
	return c == idPrefix || strings.HasPrefix(c, idPrefix+":")
}

// IsNew returns true if the segment requests creation of a new record.
func IsNew(seg string) bool {
	return strings.HasPrefix(Canonicalize(seg), newPrefix)
}

// IsAdd returns true if the segment is the attach verb.
func IsAdd(seg string) bool {
	return Canonicalize(seg) == Add
}

// IsRemove returns true if the segment is the detach verb.
func IsRemove(seg string) bool {
	return Canonicalize(seg) == Remove
}

// IsSet returns true if the segment is the replace verb.
func IsSet(seg string) bool {
	return Canonicalize(seg) == Set
}

// IsControl returns true if the segment is any recognized control token.
func IsControl(seg string) bool {
	return IsIdentity(seg) || IsNew(seg) || IsAdd(seg) || IsRemove(seg) || IsSet(seg)
}

// IsVerb returns true for the add/remove/set verb segments.
func IsVerb(seg string) bool {
	return IsAdd(seg) || IsRemove(seg) || IsSet(seg)
}

// NewLabel returns the caller-chosen slot label of a new-object segment,
// e.g. "0" for "$new0". The label only disambiguates multiple simultaneous
// creations under the same relation.
func NewLabel(seg string) string {
	return strings.TrimPrefix(Canonicalize(seg), newPrefix)
}

// ParseIdentity parses an identity segment into its field/value pairs.
// "$id:track_id=5:disc=1" yields {"track_id": "5", "disc": "1"}.
func ParseIdentity(seg string) (map[string]string, error) {
	c := Canonicalize(seg)
	if !IsIdentity(seg) {
		return nil, &MalformedIdentityError{Segment: seg, Reason: "not an identity segment"}
	}

	rest := strings.TrimPrefix(c, idPrefix)
	rest = strings.TrimPrefix(rest, ":")

	result := map[string]string{}
	if rest == "" {
		return result, nil
	}

	for _, pair := range strings.Split(rest, ":") {
		key, value, found := strings.Cut(pair, "=")
		if !found {
			return nil, &MalformedIdentityError{Segment: seg, Reason: "odd field/value count"}
		}

		if key == "" || value == "" {
			return nil, &MalformedIdentityError{Segment: seg, Reason: "empty field/value pair"}
		}

		result[key] = value
	}

	return result, nil
}

// Truthy reports whether a verb marker value counts as an explicit yes.
// Accepts the spellings a flat query-parameter payload can carry.
func Truthy(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		return val == "true" || val == "True" || val == "1"
	case int:
		return val == 1
	case int64:
		return val == 1
	case float64:
		return val == 1
	default:
		return false
	}
}
