package formdata

import (
	"reflect"
	"sort"
)

// Entry is one flattened leaf: its dotted path from the tree root and the
// leaf value itself.
type Entry struct {
	Path  string
	Value any
}

// Flatten walks tree and returns every leaf with its dotted path, in pre-order
// and key insertion order. Arrays, blobs and nulls are leaves and are never
// walked into. A tree that is not an object yields no entries.
//
// Cyclic trees do not terminate.
func Flatten(tree any) []Entry {
	return FlattenPrefix(tree, "")
}

// FlattenPrefix is Flatten with every path rooted at prefix. A leaf passed as
// tree is returned as a single entry at prefix, or dropped when prefix is empty.
func FlattenPrefix(tree any, prefix string) []Entry {
	rv, kind := classify(tree)
	if kind != KindObject {
		if prefix == "" {
			return nil
		}
		return []Entry{{Path: prefix, Value: tree}}
	}
	return flattenObject(nil, prefix, rv)
}

func flattenObject(out []Entry, prefix string, obj reflect.Value) []Entry {
	eachField(obj, func(key string, value any) {
		path := joinPath(prefix, key)
		if rv, kind := classify(value); kind == KindObject {
			out = flattenObject(out, path, rv)
			return
		}
		out = append(out, Entry{Path: path, Value: value})
	})
	return out
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

// eachField visits the properties of an object value in a stable order.
func eachField(obj reflect.Value, fn func(key string, value any)) {
	switch {
	case obj.Type() == objectType:
		for _, f := range obj.Interface().(Object) {
			fn(f.Key, f.Value)
		}

	case obj.Kind() == reflect.Map:
		keys := obj.MapKeys()
		sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
		for _, k := range keys {
			fn(k.String(), obj.MapIndex(k).Interface())
		}

	case obj.Kind() == reflect.Struct:
		for _, sf := range StructFields(obj.Type()) {
			fv := obj.Field(sf.Index)
			if sf.OmitEmpty && fv.IsZero() {
				continue
			}
			fn(sf.Name, fv.Interface())
		}
	}
}
