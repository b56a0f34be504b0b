package formdata

import (
	"mime/multipart"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	var nilMap map[string]any
	var nilPtr *string
	name := "jane"

	tests := map[string]struct {
		in   any
		want Kind
	}{
		"untyped nil":        {in: nil, want: KindNull},
		"nil map":            {in: nilMap, want: KindNull},
		"nil pointer":        {in: nilPtr, want: KindNull},
		"nil object":         {in: Object(nil), want: KindNull},
		"int slice":          {in: []int{1, 2, 3}, want: KindArray},
		"string array":       {in: [2]string{"a", "b"}, want: KindArray},
		"any slice":          {in: []any{"x", nil}, want: KindArray},
		"byte slice":         {in: []byte("raw"), want: KindBinary},
		"file":               {in: File{Name: "a.png"}, want: KindBinary},
		"file pointer":       {in: &File{Name: "a.png"}, want: KindBinary},
		"file header":        {in: &multipart.FileHeader{Filename: "a.png"}, want: KindBinary},
		"ordered object":     {in: Object{{Key: "a", Value: 1}}, want: KindObject},
		"empty object":       {in: Object{}, want: KindObject},
		"string map":         {in: map[string]any{"a": 1}, want: KindObject},
		"struct":             {in: struct{ A int }{A: 1}, want: KindObject},
		"non string map key": {in: map[int]string{1: "a"}, want: KindScalar},
		"string":             {in: "x", want: KindScalar},
		"string pointer":     {in: &name, want: KindScalar},
		"int":                {in: 42, want: KindScalar},
		"bool":               {in: true, want: KindScalar},
		"time":               {in: time.Now(), want: KindScalar},
		"uuid":               {in: uuid.New(), want: KindScalar},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Classify(tt.in))
		})
	}
}

func TestKindString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "null", KindNull.String())
	assert.Equal(t, "array", KindArray.String())
	assert.Equal(t, "binary", KindBinary.String())
	assert.Equal(t, "object", KindObject.String())
	assert.Equal(t, "scalar", KindScalar.String())
	assert.Equal(t, "unknown", Kind(99).String())
}
