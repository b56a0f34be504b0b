package formdata

import (
	"bytes"
	"io"
	"mime/multipart"
)

// Field is one key of an Object.
type Field struct {
	Key   string
	Value any
}

// Object is a value-tree node that keeps its keys in insertion order.
// Plain Go maps are flattened in sorted key order instead.
type Object []Field

// Set replaces the value of key, or appends it when the key is new.
func (o Object) Set(key string, value any) Object {
	for i := range o {
		if o[i].Key == key {
			o[i].Value = value
			return o
		}
	}
	return append(o, Field{Key: key, Value: value})
}

// Get returns the value stored under key.
func (o Object) Get(key string) (any, bool) {
	for _, f := range o {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Keys returns the keys in insertion order.
func (o Object) Keys() []string {
	keys := make([]string, 0, len(o))
	for _, f := range o {
		keys = append(keys, f.Key)
	}
	return keys
}

// Blob is an opaque file-like value. Blobs are leaves of the value tree and
// are copied into the multipart payload untouched.
type Blob interface {
	Filename() string
	ContentType() string
	Open() (io.ReadCloser, error)
}

const defaultContentType = "application/octet-stream"

// File is an in-memory Blob.
type File struct {
	Name string
	Type string
	Data []byte
}

func (f File) Filename() string { return f.Name }

func (f File) ContentType() string {
	if f.Type == "" {
		return defaultContentType
	}
	return f.Type
}

func (f File) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(f.Data)), nil
}

// headerBlob adapts an uploaded file so it can be forwarded as a Blob.
type headerBlob struct {
	fh *multipart.FileHeader
}

// FromFileHeader wraps a received upload as a Blob.
func FromFileHeader(fh *multipart.FileHeader) Blob {
	return headerBlob{fh: fh}
}

func (h headerBlob) Filename() string { return h.fh.Filename }

func (h headerBlob) ContentType() string {
	if ct := h.fh.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return defaultContentType
}

func (h headerBlob) Open() (io.ReadCloser, error) {
	return h.fh.Open()
}
