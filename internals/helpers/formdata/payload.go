package formdata

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"net/url"
	"strings"
)

// Part is one field of a multipart payload. File is set for binary parts,
// Value for everything else.
type Part struct {
	Name  string
	Value string
	File  Blob
}

// IsFile reports whether the part carries a blob.
func (p Part) IsFile() bool { return p.File != nil }

// Payload is an ordered list of form parts. Field order is kept when the
// payload is written out.
type Payload struct {
	parts []Part
}

// Append adds a text field.
func (p *Payload) Append(name, value string) {
	p.parts = append(p.parts, Part{Name: name, Value: value})
}

// AppendFile adds a file field.
func (p *Payload) AppendFile(name string, b Blob) {
	p.parts = append(p.parts, Part{Name: name, File: b})
}

// Len returns the number of parts.
func (p *Payload) Len() int { return len(p.parts) }

// Parts returns a copy of the parts in order.
func (p *Payload) Parts() []Part {
	out := make([]Part, len(p.parts))
	copy(out, p.parts)
	return out
}

// Names returns the part names in order, repeated names included.
func (p *Payload) Names() []string {
	out := make([]string, 0, len(p.parts))
	for _, part := range p.parts {
		out = append(out, part.Name)
	}
	return out
}

// Get returns the first part named name.
func (p *Payload) Get(name string) (Part, bool) {
	for _, part := range p.parts {
		if part.Name == name {
			return part, true
		}
	}
	return Part{}, false
}

// Values collects the text parts. Files are left out.
func (p *Payload) Values() url.Values {
	out := url.Values{}
	for _, part := range p.parts {
		if !part.IsFile() {
			out.Add(part.Name, part.Value)
		}
	}
	return out
}

// WriteMultipart writes every part to mw in order. It does not close mw.
func (p *Payload) WriteMultipart(mw *multipart.Writer) error {
	for _, part := range p.parts {
		if !part.IsFile() {
			if err := mw.WriteField(part.Name, part.Value); err != nil {
				return fmt.Errorf("formdata: write field %q: %w", part.Name, err)
			}
			continue
		}
		if err := writeFile(mw, part); err != nil {
			return err
		}
	}
	return nil
}

// Bytes renders the payload as a multipart/form-data body and returns it with
// the matching Content-Type header value.
func (p *Payload) Bytes() ([]byte, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := p.WriteMultipart(mw); err != nil {
		return nil, "", err
	}
	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("formdata: close writer: %w", err)
	}
	return buf.Bytes(), mw.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func writeFile(mw *multipart.Writer, part Part) error {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(part.Name), quoteEscaper.Replace(part.File.Filename())))
	h.Set("Content-Type", part.File.ContentType())

	w, err := mw.CreatePart(h)
	if err != nil {
		return fmt.Errorf("formdata: create part %q: %w", part.Name, err)
	}
	r, err := part.File.Open()
	if err != nil {
		return fmt.Errorf("formdata: open %q: %w", part.Name, err)
	}
	defer r.Close()
	if _, err := io.Copy(w, r); err != nil {
		return fmt.Errorf("formdata: copy %q: %w", part.Name, err)
	}
	return nil
}
