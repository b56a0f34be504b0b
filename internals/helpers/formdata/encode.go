package formdata

import (
	"encoding"
	"fmt"
	"math"
	"mime/multipart"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// ISOLayout is how dates are written into a payload: UTC with milliseconds.
const ISOLayout = "2006-01-02T15:04:05.000Z"

// EncodeOptions tunes Encode. The zero value drops null entries.
type EncodeOptions struct {
	// IncludeNullValues keeps null entries as empty strings instead of
	// dropping them.
	IncludeNullValues bool
}

// Encode turns flattened entries into a Payload, keeping their order. Strings
// and blobs pass through, dates become ISO-8601 strings and everything else
// is stringified. Encode never fails: unknown leaf types fall back to their
// default string form.
func Encode(entries []Entry, opt *EncodeOptions) *Payload {
	o := EncodeOptions{}
	if opt != nil {
		o = *opt
	}

	p := &Payload{parts: make([]Part, 0, len(entries))}
	for _, e := range entries {
		rv, kind := classify(e.Value)
		switch {
		case kind == KindNull:
			if o.IncludeNullValues {
				p.Append(e.Path, "")
			}
		case kind == KindBinary:
			p.AppendFile(e.Path, toBlob(e.Path, rv))
		case rv.Kind() == reflect.String:
			p.Append(e.Path, rv.String())
		default:
			p.Append(e.Path, stringify(rv, kind))
		}
	}
	return p
}

// FormatTime renders t the way Encode writes dates.
func FormatTime(t time.Time) string {
	return t.UTC().Format(ISOLayout)
}

func toBlob(path string, rv reflect.Value) Blob {
	switch v := rv.Interface().(type) {
	case Blob:
		return v
	case *multipart.FileHeader:
		return FromFileHeader(v)
	case multipart.FileHeader:
		return FromFileHeader(&v)
	}
	return File{Name: lastSegment(path), Data: rv.Bytes()}
}

func lastSegment(path string) string {
	if i := strings.LastIndexByte(path, '.'); i >= 0 {
		return path[i+1:]
	}
	return path
}

// stringify converts a non-string leaf to its payload text.
func stringify(rv reflect.Value, kind Kind) string {
	switch kind {
	case KindNull:
		return ""
	case KindBinary:
		return toBlob("", rv).Filename()
	}

	if t, ok := rv.Interface().(time.Time); ok {
		return FormatTime(t)
	}
	if s, ok := textOf(rv.Interface()); ok {
		return s
	}
	// pointer-receiver marshalers, e.g. big.Int
	if rv.CanAddr() {
		if s, ok := textOf(rv.Addr().Interface()); ok {
			return s
		}
	}

	switch rv.Kind() {
	case reflect.String:
		return rv.String()
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return formatFloat(rv.Float(), rv.Type().Bits())
	case reflect.Slice, reflect.Array:
		if kind == KindArray {
			return joinElements(rv)
		}
	}
	return fmt.Sprint(rv.Interface())
}

func textOf(v any) (string, bool) {
	switch x := v.(type) {
	case encoding.TextMarshaler:
		if b, err := x.MarshalText(); err == nil {
			return string(b), true
		}
	case fmt.Stringer:
		return x.String(), true
	}
	return "", false
}

// formatFloat writes numbers the way browsers stringify them: plain digits,
// exponent form outside [1e-6, 1e21), and Infinity/NaN spelled out.
func formatFloat(f float64, bits int) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}
	if abs := math.Abs(f); abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'e', -1, bits)
		s = strings.Replace(s, "e+0", "e+", 1)
		return strings.Replace(s, "e-0", "e-", 1)
	}
	return strconv.FormatFloat(f, 'f', -1, bits)
}

// joinElements writes an array leaf as its elements separated by commas.
func joinElements(rv reflect.Value) string {
	parts := make([]string, rv.Len())
	for i := range parts {
		ev, ek := classify(rv.Index(i).Interface())
		parts[i] = stringify(ev, ek)
	}
	return strings.Join(parts, ",")
}
