package formdata

import (
	"errors"
	"mime/multipart"
	"sort"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// ErrUnsupportedContentType is returned by FormEntries for bodies that are
// neither multipart nor url-encoded.
var ErrUnsupportedContentType = errors.New("formdata: unsupported content type")

// ArgsVisitor is satisfied by fasthttp.Args (the parsed url-encoded body).
type ArgsVisitor interface {
	VisitAll(f func(key, value []byte))
}

// EntriesFromMultipart lists the fields of a parsed multipart form. Field
// names are sorted since multipart.Form keeps no order; repeated values keep
// their submission order, so the last one wins after ParseNestedEntries.
// Uploaded files come through as *multipart.FileHeader values.
func EntriesFromMultipart(form *multipart.Form) []Entry {
	if form == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(form.Value)+len(form.File))
	keys := make([]string, 0, len(form.Value)+len(form.File))
	for k := range form.Value {
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	for k := range form.File {
		if _, ok := seen[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	out := make([]Entry, 0, len(keys))
	for _, k := range keys {
		for _, v := range form.Value[k] {
			out = append(out, Entry{Path: k, Value: v})
		}
		for _, fh := range form.File[k] {
			if fh != nil && fh.Filename != "" {
				out = append(out, Entry{Path: k, Value: fh})
			}
		}
	}
	return out
}

// EntriesFromArgs lists url-encoded fields in submission order.
func EntriesFromArgs(args ArgsVisitor) []Entry {
	var out []Entry
	args.VisitAll(func(key, value []byte) {
		out = append(out, Entry{Path: string(key), Value: string(value)})
	})
	return out
}

// FormEntries reads the form fields of a fiber request, multipart or
// url-encoded.
func FormEntries(c *fiber.Ctx) ([]Entry, error) {
	ct := strings.ToLower(string(c.Request().Header.ContentType()))
	switch {
	case strings.HasPrefix(ct, fiber.MIMEMultipartForm):
		form, err := c.MultipartForm()
		if err != nil {
			return nil, err
		}
		return EntriesFromMultipart(form), nil
	case strings.HasPrefix(ct, fiber.MIMEApplicationForm):
		return EntriesFromArgs(c.Request().PostArgs()), nil
	default:
		return nil, ErrUnsupportedContentType
	}
}

// ParseForm is FormEntries followed by ParseNestedEntries.
func ParseForm(c *fiber.Ctx) (map[string]any, error) {
	entries, err := FormEntries(c)
	if err != nil {
		return nil, err
	}
	return ParseNestedEntries(entries), nil
}
