package formdata

import (
	"reflect"
	"strings"
	"sync"
)

// structFieldCache maps a struct reflect.Type to its []StructField.
var structFieldCache sync.Map

// StructField describes how one exported struct field appears in a form.
type StructField struct {
	Index     int
	Name      string
	OmitEmpty bool
}

// StructFields lists the form-visible fields of struct type t in declaration
// order. The name comes from the `form` tag, then the `json` tag, then the Go
// field name. A name of "-" hides the field.
func StructFields(t reflect.Type) []StructField {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}
	if cached, ok := structFieldCache.Load(t); ok {
		return cached.([]StructField)
	}

	fields := make([]StructField, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tag, ok := f.Tag.Lookup("form")
		if !ok {
			tag = f.Tag.Get("json")
		}
		name, omit, ignore := parseTag(tag)
		if ignore {
			continue
		}
		if name == "" {
			name = f.Name
		}
		fields = append(fields, StructField{Index: i, Name: name, OmitEmpty: omit})
	}

	structFieldCache.Store(t, fields)
	return fields
}

func parseTag(tag string) (name string, omit, ignore bool) {
	tag = strings.TrimSpace(tag)
	if tag == "-" {
		return "", false, true
	}
	parts := strings.Split(tag, ",")
	name = strings.TrimSpace(parts[0])
	for _, p := range parts[1:] {
		switch strings.TrimSpace(p) {
		case "omitempty":
			omit = true
		case "ignore":
			ignore = true
		}
	}
	return name, omit, ignore
}
