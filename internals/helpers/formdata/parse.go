package formdata

import "strings"

// ParseNestedEntries rebuilds a two-level map from posted form fields.
//
// A key containing a dot is split on its FIRST dot only: "personal.first_name"
// lands in out["personal"]["first_name"], and "a.b.c" lands in
// out["a"]["b.c"]. Keys without a dot are stored at the top level. Later
// entries overwrite earlier ones, including a nested map being replaced by a
// scalar and vice versa.
func ParseNestedEntries(entries []Entry) map[string]any {
	out := make(map[string]any, len(entries))
	for _, e := range entries {
		prefix, field, nested := strings.Cut(e.Path, ".")
		if !nested {
			out[e.Path] = e.Value
			continue
		}
		inner, ok := out[prefix].(map[string]any)
		if !ok {
			inner = make(map[string]any)
			out[prefix] = inner
		}
		inner[field] = e.Value
	}
	return out
}
