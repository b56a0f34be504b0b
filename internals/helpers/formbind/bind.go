// Package formbind copies nested form maps, as rebuilt by
// formdata.ParseNestedEntries, into request structs.
//
// Struct fields are matched by the same names formdata uses when flattening:
// the `form` tag, then the `json` tag, then the Go field name. Posted values
// are strings or uploaded files; strings are converted to the field type.
package formbind

import (
	"encoding"
	"errors"
	"fmt"
	"mime/multipart"
	"reflect"
	"strconv"
	"strings"
	"time"

	"schoolku_backend/internals/helpers/formdata"
)

// InvalidBindError describes an invalid destination passed to Bind.
type InvalidBindError struct {
	Type reflect.Type
}

func (e *InvalidBindError) Error() string {
	if e.Type == nil {
		return "formbind: Bind(nil)"
	}
	if e.Type.Kind() != reflect.Pointer {
		return "formbind: Bind(non-pointer " + e.Type.String() + ")"
	}
	return "formbind: Bind(nil " + e.Type.String() + ")"
}

// FieldError reports the form path that could not be bound.
type FieldError struct {
	Path string
	Err  error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("formbind: field %q: %v", e.Path, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

var (
	errUnexpectedFile    = errors.New("unexpected file upload")
	errUnexpectedSection = errors.New("unexpected nested section")

	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
	fileHeaderPtrType   = reflect.TypeOf((*multipart.FileHeader)(nil))
	timeType            = reflect.TypeOf(time.Time{})
)

// Date layouts accepted for time.Time fields, tried in order.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04",
	"2006-01-02",
}

// Bind stores src into the struct pointed to by dst. Keys without a matching
// field are ignored. Empty strings leave pointer fields nil.
func Bind(src map[string]any, dst any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return &InvalidBindError{Type: reflect.TypeOf(dst)}
	}
	rv = rv.Elem()
	if rv.Kind() != reflect.Struct {
		return fmt.Errorf("formbind: destination must be a struct, got %s", rv.Type())
	}
	return bindStruct(rv, src, "")
}

func bindStruct(v reflect.Value, src map[string]any, prefix string) error {
	for _, sf := range formdata.StructFields(v.Type()) {
		raw, ok := src[sf.Name]
		if !ok {
			continue
		}
		path := sf.Name
		if prefix != "" {
			path = prefix + "." + sf.Name
		}
		if err := assign(v.Field(sf.Index), raw, path); err != nil {
			var fe *FieldError
			if errors.As(err, &fe) {
				return err
			}
			return &FieldError{Path: path, Err: err}
		}
	}
	return nil
}

func assign(fv reflect.Value, raw any, path string) error {
	switch t := raw.(type) {
	case nil:
		return nil
	case string:
		return assignString(fv, t)
	case map[string]any:
		return assignSection(fv, t, path)
	case *multipart.FileHeader:
		return assignFile(fv, t)
	}

	rv := reflect.ValueOf(raw)
	if rv.Type().AssignableTo(fv.Type()) {
		fv.Set(rv)
		return nil
	}
	return assignString(fv, fmt.Sprint(raw))
}

func assignSection(fv reflect.Value, src map[string]any, path string) error {
	if fv.Kind() == reflect.Pointer {
		if fv.IsNil() {
			fv.Set(reflect.New(fv.Type().Elem()))
		}
		fv = fv.Elem()
	}

	switch {
	case fv.Kind() == reflect.Struct && !isTextUnmarshaler(fv):
		return bindStruct(fv, src, path)

	case fv.Kind() == reflect.Map && fv.Type().Key().Kind() == reflect.String:
		m := reflect.MakeMapWithSize(fv.Type(), len(src))
		for k, inner := range src {
			ev := reflect.New(fv.Type().Elem()).Elem()
			if err := assign(ev, inner, path+"."+k); err != nil {
				return err
			}
			m.SetMapIndex(reflect.ValueOf(k).Convert(fv.Type().Key()), ev)
		}
		fv.Set(m)
		return nil

	case fv.Kind() == reflect.Interface && fv.NumMethod() == 0:
		fv.Set(reflect.ValueOf(src))
		return nil
	}
	return errUnexpectedSection
}

func assignFile(fv reflect.Value, fh *multipart.FileHeader) error {
	switch {
	case fv.Type() == fileHeaderPtrType:
		fv.Set(reflect.ValueOf(fh))
	case fv.Kind() == reflect.Interface && fileHeaderPtrType.Implements(fv.Type()):
		fv.Set(reflect.ValueOf(fh))
	default:
		return errUnexpectedFile
	}
	return nil
}

func assignString(fv reflect.Value, s string) error {
	if fv.Kind() == reflect.Pointer {
		if strings.TrimSpace(s) == "" {
			fv.Set(reflect.Zero(fv.Type()))
			return nil
		}
		if fv.IsNil() {
			fv.Set(reflect.New(fv.Type().Elem()))
		}
		return assignString(fv.Elem(), s)
	}

	if fv.Type() == timeType {
		return setTime(fv, s)
	}
	if isTextUnmarshaler(fv) {
		if strings.TrimSpace(s) == "" {
			fv.Set(reflect.Zero(fv.Type()))
			return nil
		}
		return fv.Addr().Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(strings.TrimSpace(s)))
	}

	switch fv.Kind() {
	case reflect.Slice:
		if fv.Type().Elem().Kind() == reflect.Uint8 {
			fv.SetBytes([]byte(s))
			return nil
		}
		items := splitList(s)
		out := reflect.MakeSlice(fv.Type(), 0, len(items))
		for _, item := range items {
			ev := reflect.New(fv.Type().Elem()).Elem()
			if err := assignString(ev, item); err != nil {
				return err
			}
			out = reflect.Append(out, ev)
		}
		fv.Set(out)
		return nil
	case reflect.Interface:
		if fv.NumMethod() != 0 {
			return fmt.Errorf("unsupported type: %v", fv.Type())
		}
		fv.Set(reflect.ValueOf(s))
		return nil
	}
	return setScalar(fv, s)
}

func isTextUnmarshaler(fv reflect.Value) bool {
	return fv.CanAddr() && fv.Addr().Type().Implements(textUnmarshalerType)
}

// splitList reads a multi-value field posted as "a, b, c".
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func setTime(fv reflect.Value, s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		fv.Set(reflect.Zero(fv.Type()))
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			fv.Set(reflect.ValueOf(t))
			return nil
		}
	}
	return fmt.Errorf("invalid date %q", s)
}

func setScalar(v reflect.Value, s string) error {
	s = strings.TrimSpace(s)
	switch v.Kind() {
	case reflect.String:
		v.SetString(s)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if s == "" {
			v.SetInt(0)
			return nil
		}
		i, err := strconv.ParseInt(s, 10, v.Type().Bits())
		if err != nil {
			return fmt.Errorf("parseInt: %w", err)
		}
		v.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if s == "" {
			v.SetUint(0)
			return nil
		}
		u, err := strconv.ParseUint(s, 10, v.Type().Bits())
		if err != nil {
			return fmt.Errorf("parseUint: %w", err)
		}
		v.SetUint(u)
	case reflect.Float32, reflect.Float64:
		if s == "" {
			v.SetFloat(0)
			return nil
		}
		f, err := strconv.ParseFloat(s, v.Type().Bits())
		if err != nil {
			return fmt.Errorf("parseFloat: %w", err)
		}
		v.SetFloat(f)
	case reflect.Bool:
		b, err := parseBool(s)
		if err != nil {
			return err
		}
		v.SetBool(b)
	default:
		return fmt.Errorf("unsupported type: %v", v.Type())
	}
	return nil
}

// parseBool also accepts the values HTML checkboxes post.
func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "":
		return false, nil
	case "on", "yes":
		return true, nil
	case "off", "no":
		return false, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("parseBool: %w", err)
	}
	return b, nil
}
