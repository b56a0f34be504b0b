package formdata

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

type personal struct {
	FirstName string     `form:"first_name"`
	LastName  string     `json:"last_name"`
	Nickname  string     `form:"nickname,omitempty"`
	BirthDate *time.Time `form:"birth_date"`
	Internal  string     `form:"-"`
	Grade     int
	secret    string
}

type studentForm struct {
	Personal personal `form:"personal"`
	Active   bool     `form:"active"`
}

func TestFlatten(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		in   any
		want []Entry
	}{
		"arrays are leaves at any depth": {
			in: Object{{Key: "a", Value: Object{{Key: "b", Value: []int{1, 2, 3}}}}},
			want: []Entry{
				{Path: "a.b", Value: []int{1, 2, 3}},
			},
		},
		"insertion order is kept": {
			in: Object{{Key: "x", Value: 1}, {Key: "y", Value: 2}, {Key: "z", Value: 3}},
			want: []Entry{
				{Path: "x", Value: 1},
				{Path: "y", Value: 2},
				{Path: "z", Value: 3},
			},
		},
		"pre-order traversal": {
			in: Object{
				{Key: "a", Value: Object{{Key: "b", Value: 1}, {Key: "c", Value: Object{{Key: "d", Value: 2}}}}},
				{Key: "e", Value: 3},
			},
			want: []Entry{
				{Path: "a.b", Value: 1},
				{Path: "a.c.d", Value: 2},
				{Path: "e", Value: 3},
			},
		},
		"nulls are leaves": {
			in: Object{{Key: "a", Value: nil}, {Key: "b", Value: 1}},
			want: []Entry{
				{Path: "a", Value: nil},
				{Path: "b", Value: 1},
			},
		},
		"blobs are leaves": {
			in: Object{{Key: "photo", Value: File{Name: "p.png", Data: []byte("x")}}},
			want: []Entry{
				{Path: "photo", Value: File{Name: "p.png", Data: []byte("x")}},
			},
		},
		"maps are walked in sorted key order": {
			in: map[string]any{"b": 2, "a": map[string]any{"z": 1, "y": 0}},
			want: []Entry{
				{Path: "a.y", Value: 0},
				{Path: "a.z", Value: 1},
				{Path: "b", Value: 2},
			},
		},
		"empty object contributes nothing": {
			in:   Object{{Key: "a", Value: Object{}}, {Key: "b", Value: "x"}},
			want: []Entry{{Path: "b", Value: "x"}},
		},
		"leaf root without prefix": {
			in:   "plain",
			want: nil,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			if diff := cmp.Diff(tt.want, Flatten(tt.in)); diff != "" {
				t.Errorf("Flatten() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFlattenStruct(t *testing.T) {
	t.Parallel()

	in := studentForm{
		Personal: personal{FirstName: "Jane", LastName: "Doe", Internal: "skip", Grade: 4, secret: "x"},
		Active:   true,
	}

	got := Flatten(in)
	require.Len(t, got, 5)

	paths := make([]string, 0, len(got))
	for _, e := range got {
		paths = append(paths, e.Path)
	}
	require.Equal(t, []string{
		"personal.first_name",
		"personal.last_name",
		"personal.birth_date",
		"personal.Grade",
		"active",
	}, paths)
	require.Nil(t, got[2].Value.(*time.Time))
}

func TestFlattenPrefix(t *testing.T) {
	t.Parallel()

	got := FlattenPrefix(Object{{Key: "name", Value: "Room A"}}, "room")
	require.Equal(t, []Entry{{Path: "room.name", Value: "Room A"}}, got)

	leaf := FlattenPrefix(42, "capacity")
	require.Equal(t, []Entry{{Path: "capacity", Value: 42}}, leaf)
}

func TestFlattenIsDeterministic(t *testing.T) {
	t.Parallel()

	tree := map[string]any{
		"contact":  map[string]any{"phone": "1", "email": "a@b.c", "address": "x"},
		"personal": map[string]any{"last_name": "Doe", "first_name": "Jane"},
		"tags":     []string{"a", "b"},
	}
	first := Flatten(tree)
	for i := 0; i < 20; i++ {
		require.Equal(t, first, Flatten(tree))
	}
}

func TestFlattenKeyWithSeparatorCollides(t *testing.T) {
	t.Parallel()

	literal := Flatten(Object{{Key: "a.b", Value: 1}})
	nested := Flatten(Object{{Key: "a", Value: Object{{Key: "b", Value: 1}}}})
	require.Equal(t, nested, literal)
}
