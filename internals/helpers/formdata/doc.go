// Package formdata turns nested form values into ordered multipart payloads
// and rebuilds dotted field names posted by a form back into nested maps.
//
// The outbound direction is two steps: Flatten walks a value tree into
// (dotted.path, leaf) entries, and Encode turns those entries into a Payload
// ready to be written as multipart/form-data. The inbound direction is
// ParseNestedEntries, which understands a single level of nesting
// ("prefix.field") and nothing deeper.
//
// Keys are never escaped: a top-level key literally named "a.b" cannot be told
// apart from key "b" nested under "a", in either direction.
package formdata
