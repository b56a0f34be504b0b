package helper

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type patchBody struct {
	Name PatchField[string] `json:"name"`
	Note PatchField[string] `json:"note"`
	Age  PatchField[int]    `json:"age"`
}

func TestPatchFieldTriState(t *testing.T) {
	var p patchBody
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Ada","note":null}`), &p))

	v, ok := p.Name.Get()
	require.True(t, ok)
	assert.Equal(t, "Ada", *v)

	v, ok = p.Note.Get()
	assert.True(t, ok)
	assert.Nil(t, v)

	_, ok = p.Age.Get()
	assert.False(t, ok)
}

func TestPatchFieldApply(t *testing.T) {
	var p patchBody
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Ada","note":null}`), &p))

	name, age := "old", 7
	note := "keep?"
	notePtr := &note

	p.Name.ApplyTo(&name)
	p.Age.ApplyTo(&age)
	p.Note.ApplyPtr(&notePtr)

	assert.Equal(t, "Ada", name)
	assert.Equal(t, 7, age)
	assert.Nil(t, notePtr)
}

func TestPatchFieldRejectsWrongType(t *testing.T) {
	var p patchBody
	assert.Error(t, json.Unmarshal([]byte(`{"age":"x"}`), &p))
}
