package update

import (
	"strings"

	"restmap/schema"
)

// CleanParams filters a raw parameter map down to keys whose first segment
// is an attribute of the root type. Useful when the update payload shares a
// namespace with unrelated query parameters (paging, sorting, format flags)
// that should not reach the interpreter as errors. Payloads that are pure
// update maps should skip this so typos surface as resolution errors
// instead of disappearing.
func CleanParams(reg *schema.Registry, rootID schema.TypeID, flat map[string]any) map[string]any {
	info := reg.Type(rootID)
	out := make(map[string]any, len(flat))

	for key, value := range flat {
		first, _, _ := strings.Cut(key, ".")
		if info != nil && info.Attr(first) != nil {
			out[key] = value
		}
	}

	return out
}
