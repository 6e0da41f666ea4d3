package update

import (
	"sort"
	"strings"
)

// Tree is the hierarchical form of a flat dotted-path update map. Each key
// is a single path segment; each value is either a nested Tree or a terminal
// update value. {"friend.user_id": 5} becomes {"friend": {"user_id": 5}}.
type Tree map[string]any

// BuildTree regroups a flat update map by shared path prefixes. This stage
// is purely structural; invalid attribute names are caught later by the
// interpreter.
func BuildTree(flat map[string]any) Tree {
	root := Tree{}

	for key, value := range flat {
		segments := strings.Split(key, ".")

		node := root
		for _, seg := range segments[:len(segments)-1] {
			child, ok := node[seg].(Tree)
			if !ok {
				child = Tree{}
				node[seg] = child
			}

			node = child
		}

		node[segments[len(segments)-1]] = value
	}

	return root
}

// sortedKeys returns the node's keys in ascending order. The $-prefixed
// control tokens sort ahead of plain attribute names, which fixes the
// processing order the interpreter relies on.
func (t Tree) sortedKeys() []string {
	keys := make([]string, 0, len(t))
	for key := range t {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}

// Flatten re-derives the flat dotted-path map from a tree. Inverse of
// BuildTree for any flat map with unique dotted keys.
func Flatten(t Tree) map[string]any {
	flat := map[string]any{}
	flattenInto(flat, "", t)

	return flat
}

func flattenInto(flat map[string]any, prefix string, t Tree) {
	for key, value := range t {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}

		if child, ok := value.(Tree); ok {
			flattenInto(flat, path, child)
			continue
		}

		flat[path] = value
	}
}
