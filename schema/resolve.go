package schema

import (
	"errors"
	"fmt"
	"strings"

	"restmap/token"
)

// ErrPathFormat reports a dotted path whose first segment does not name the
// root record type. This invalidates the whole request rather than a single
// attribute, so callers treat it as fatal instead of aggregating it.
var ErrPathFormat = errors.New("dotted path must start with the record type name")

// UnknownAttributeError reports a path segment that resolves to nothing.
type UnknownAttributeError struct {
	// Path is the full dotted path up to and including the bad segment.
	Path string

	// Segment is the segment that failed to resolve.
	Segment string

	// Type is the record type the segment was looked up on.
	Type TypeID
}

// Error implements the error interface.
func (e *UnknownAttributeError) Error() string {
	return fmt.Sprintf("unknown attribute %q of %s in path %q", e.Segment, e.Type, e.Path)
}

// Step is one resolved segment of a dotted path.
type Step struct {
	// Segment is the raw path segment.
	Segment string

	// Attr is the attribute descriptor the segment resolved to. Nil for the
	// root segment and for control tokens.
	Attr *Attribute

	// Type is the record type in scope at this step: the root type for the
	// first segment, or the related type an identity/new token selects.
	// Zero for verb tokens and plain attribute segments.
	Type TypeID
}

// Resolve walks a dotted path against the registry, producing one Step per
// segment. The first segment must equal the root type's name. Identity and
// new tokens at a relationship position advance into the related type; verb
// tokens resolve to an empty sentinel step; every other segment must be an
// attribute of the type in scope. Resolution is pure metadata lookup with no
// side effects.
func Resolve(reg *Registry, rootID TypeID, dotted string) ([]Step, error) {
	segments := strings.Split(dotted, ".")
	if len(segments) == 0 || segments[0] != rootID.Name {
		return nil, fmt.Errorf("%w: %q", ErrPathFormat, dotted)
	}

	rootInfo := reg.Type(rootID)
	if rootInfo == nil {
		return nil, fmt.Errorf("type %s is not registered", rootID)
	}

	steps := []Step{{Segment: segments[0], Type: rootID}}

	// cur is the type attributes are looked up on; curAttr is the attribute
	// the previous segment resolved to, if any.
	cur := rootID

	var curAttr *Attribute

	for _, seg := range segments[1:] {
		sofar := pathUpTo(steps, seg)

		if curAttr != nil && !curAttr.IsRelation() {
			// Scalar attributes have no sub-attributes to descend into.
			return nil, &UnknownAttributeError{Path: sofar, Segment: seg, Type: cur}
		}

		if curAttr != nil && curAttr.IsRelation() {
			switch {
			case token.IsIdentity(seg) || token.IsNew(seg):
				// Select a specific (or brand new) related record; the
				// relationship itself stays in scope for a later verb.
				steps = append(steps, Step{Segment: seg, Type: curAttr.Target})
				continue
			case token.IsVerb(seg):
				steps = append(steps, Step{Segment: seg})
				continue
			default:
				// Plain attribute under a relationship: dereference to the
				// related type first.
				cur = curAttr.Target
			}
		}

		info := reg.Type(cur)
		if info == nil {
			return nil, fmt.Errorf("related type %s in path %q is not registered", cur, sofar)
		}

		attr := info.Attr(seg)
		if attr == nil {
			return nil, &UnknownAttributeError{Path: sofar, Segment: seg, Type: cur}
		}

		steps = append(steps, Step{Segment: seg, Attr: attr})
		curAttr = attr
	}

	return steps, nil
}

// pathUpTo rebuilds the dotted path for the resolved steps plus the segment
// currently being resolved, for error reporting.
func pathUpTo(steps []Step, seg string) string {
	parts := make([]string, 0, len(steps)+1)
	for _, s := range steps {
		parts = append(parts, s.Segment)
	}

	return strings.Join(append(parts, seg), ".")
}
