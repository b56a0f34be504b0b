package formdata

import (
	"bytes"
	"io"
	"mime"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayloadBytes(t *testing.T) {
	t.Parallel()

	p := Encode(Flatten(Object{
		{Key: "personal", Value: Object{
			{Key: "first_name", Value: "Jane"},
			{Key: "photo", Value: File{Name: `we"ird.png`, Type: "image/png", Data: []byte("PNGDATA")}},
		}},
		{Key: "active", Value: true},
	}), nil)

	body, contentType, err := p.Bytes()
	require.NoError(t, err)

	mediaType, params, err := mime.ParseMediaType(contentType)
	require.NoError(t, err)
	require.Equal(t, "multipart/form-data", mediaType)

	r := multipart.NewReader(bytes.NewReader(body), params["boundary"])

	type seen struct {
		name, filename, contentType, data string
	}
	var got []seen
	for {
		part, err := r.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		data, err := io.ReadAll(part)
		require.NoError(t, err)
		got = append(got, seen{
			name:        part.FormName(),
			filename:    part.FileName(),
			contentType: part.Header.Get("Content-Type"),
			data:        string(data),
		})
	}

	require.Len(t, got, 3)
	assert.Equal(t, seen{name: "personal.first_name", data: "Jane"}, got[0])
	assert.Equal(t, "personal.photo", got[1].name)
	assert.Equal(t, `we"ird.png`, got[1].filename)
	assert.Equal(t, "image/png", got[1].contentType)
	assert.Equal(t, "PNGDATA", got[1].data)
	assert.Equal(t, seen{name: "active", data: "true"}, got[2])
}

func TestPayloadValues(t *testing.T) {
	t.Parallel()

	var p Payload
	p.Append("tags", "a")
	p.AppendFile("photo", File{Name: "p.png"})
	p.Append("tags", "b")

	assert.Equal(t, []string{"a", "b"}, p.Values()["tags"])
	assert.NotContains(t, p.Values(), "photo")

	part, ok := p.Get("tags")
	require.True(t, ok)
	assert.Equal(t, "a", part.Value)

	_, ok = p.Get("missing")
	assert.False(t, ok)
}

func TestPartsReturnsCopy(t *testing.T) {
	t.Parallel()

	var p Payload
	p.Append("a", "1")
	parts := p.Parts()
	parts[0].Value = "changed"

	part, _ := p.Get("a")
	assert.Equal(t, "1", part.Value)
}
