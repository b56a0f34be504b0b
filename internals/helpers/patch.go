package helper

import "encoding/json"

// PatchField is tri-state: absent (Present=false), null (Value=nil) or a value.
type PatchField[T any] struct {
	Present bool
	Value   *T
}

func (p *PatchField[T]) UnmarshalJSON(b []byte) error {
	p.Present = true
	if string(b) == "null" {
		p.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	p.Value = &v
	return nil
}

func (p PatchField[T]) Get() (*T, bool) { return p.Value, p.Present }

// ApplyTo copies a present non-null value into dst.
func (p PatchField[T]) ApplyTo(dst *T) {
	if p.Present && p.Value != nil {
		*dst = *p.Value
	}
}

// ApplyPtr copies a present value into a nullable dst; null clears it.
func (p PatchField[T]) ApplyPtr(dst **T) {
	if !p.Present {
		return
	}
	if p.Value == nil {
		*dst = nil
		return
	}
	v := *p.Value
	*dst = &v
}
