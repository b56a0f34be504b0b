package formdata

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestParseNestedEntries(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		in   []Entry
		want map[string]any
	}{
		"single level": {
			in: []Entry{
				{Path: "personal.firstName", Value: "Jane"},
				{Path: "age", Value: "10"},
			},
			want: map[string]any{
				"personal": map[string]any{"firstName": "Jane"},
				"age":      "10",
			},
		},
		"only the first dot splits": {
			in: []Entry{{Path: "a.b.c", Value: "x"}},
			want: map[string]any{
				"a": map[string]any{"b.c": "x"},
			},
		},
		"last entry wins": {
			in: []Entry{
				{Path: "contact.email", Value: "old@school.id"},
				{Path: "contact.email", Value: "new@school.id"},
			},
			want: map[string]any{
				"contact": map[string]any{"email": "new@school.id"},
			},
		},
		"scalar replaced by nested map": {
			in: []Entry{
				{Path: "contact", Value: "n/a"},
				{Path: "contact.phone", Value: "0812"},
			},
			want: map[string]any{
				"contact": map[string]any{"phone": "0812"},
			},
		},
		"nested map replaced by scalar": {
			in: []Entry{
				{Path: "contact.phone", Value: "0812"},
				{Path: "contact", Value: "n/a"},
			},
			want: map[string]any{"contact": "n/a"},
		},
		"leading dot": {
			in:   []Entry{{Path: ".x", Value: "1"}},
			want: map[string]any{"": map[string]any{"x": "1"}},
		},
		"empty input": {
			in:   nil,
			want: map[string]any{},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			if diff := cmp.Diff(tt.want, ParseNestedEntries(tt.in)); diff != "" {
				t.Errorf("ParseNestedEntries() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseFlattenRoundTripKeys(t *testing.T) {
	t.Parallel()

	tree := map[string]any{
		"personal": map[string]any{"first_name": "Jane", "last_name": "Doe"},
		"contact":  map[string]any{"email": "jane@school.id"},
		"active":   "true",
	}

	rebuilt := ParseNestedEntries(Flatten(tree))
	require.Equal(t, tree, rebuilt)
	require.Equal(t, pathsOf(Flatten(tree)), pathsOf(Flatten(rebuilt)))
}

func TestParseIsSingleLevel(t *testing.T) {
	t.Parallel()

	deep := Object{{Key: "a", Value: Object{{Key: "b", Value: Object{{Key: "c", Value: "x"}}}}}}
	got := ParseNestedEntries(Flatten(deep))

	// Flatten goes arbitrarily deep, the parser only one level.
	require.Equal(t, map[string]any{"a": map[string]any{"b.c": "x"}}, got)
}

func TestParseSeparatorCollision(t *testing.T) {
	t.Parallel()

	literal := ParseNestedEntries([]Entry{{Path: "a.b", Value: "1"}})
	require.Equal(t, map[string]any{"a": map[string]any{"b": "1"}}, literal)
}

func pathsOf(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Path)
	}
	sort.Strings(out)
	return out
}
