package formdata

import (
	"encoding"
	"mime/multipart"
	"reflect"
)

// Kind is the role a value plays while flattening.
type Kind int

const (
	KindNull Kind = iota
	KindArray
	KindBinary
	KindObject
	KindScalar
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindArray:
		return "array"
	case KindBinary:
		return "binary"
	case KindObject:
		return "object"
	case KindScalar:
		return "scalar"
	default:
		return "unknown"
	}
}

var (
	textMarshalerType = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
	blobType          = reflect.TypeOf((*Blob)(nil)).Elem()
	fileHeaderType    = reflect.TypeOf(multipart.FileHeader{})
	objectType        = reflect.TypeOf(Object(nil))
)

// Classify reports how Flatten and Encode treat v. Only KindObject values are
// recursed into; every other kind is a leaf.
//
// The checks run in a fixed order: null, array, binary, object, scalar.
// Non-nil pointers are followed first. Byte slices count as binary, and any
// type implementing encoding.TextMarshaler (uuid.UUID, time.Time, net.IP) is a
// scalar even when its underlying kind is an array or a struct.
func Classify(v any) Kind {
	_, k := classify(v)
	return k
}

// classify returns the dereferenced value together with its kind.
func classify(v any) (reflect.Value, Kind) {
	rv := reflect.ValueOf(v)
	for {
		if !rv.IsValid() {
			return rv, KindNull
		}
		switch rv.Kind() {
		case reflect.Pointer, reflect.Interface:
			if rv.IsNil() {
				return rv, KindNull
			}
			if isBinaryType(rv.Type()) {
				return rv, KindBinary
			}
			rv = rv.Elem()
			continue
		case reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			if rv.IsNil() {
				return rv, KindNull
			}
		}
		break
	}

	t := rv.Type()
	switch {
	case isArrayType(t):
		return rv, KindArray
	case isBinaryType(t):
		return rv, KindBinary
	case isObjectType(t):
		return rv, KindObject
	default:
		return rv, KindScalar
	}
}

func isTextMarshaler(t reflect.Type) bool {
	return t.Implements(textMarshalerType) || reflect.PointerTo(t).Implements(textMarshalerType)
}

func isBytes(t reflect.Type) bool {
	return t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8
}

func isArrayType(t reflect.Type) bool {
	if t == objectType || isBytes(t) || isTextMarshaler(t) {
		return false
	}
	return t.Kind() == reflect.Slice || t.Kind() == reflect.Array
}

func isBinaryType(t reflect.Type) bool {
	if isBytes(t) || t.Implements(blobType) {
		return true
	}
	return t == fileHeaderType || (t.Kind() == reflect.Pointer && t.Elem() == fileHeaderType)
}

func isObjectType(t reflect.Type) bool {
	switch {
	case t == objectType:
		return true
	case t.Kind() == reflect.Map:
		return t.Key().Kind() == reflect.String
	case t.Kind() == reflect.Struct:
		return !isTextMarshaler(t)
	}
	return false
}
