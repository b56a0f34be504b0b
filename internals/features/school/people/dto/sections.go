package dto

import (
	"mime/multipart"
	"strings"
	"time"
)

// PersonalSection is the "personal.*" step shared by students and teachers.
type PersonalSection struct {
	FirstName   string                `json:"first_name" form:"first_name" validate:"required,min=1,max=50"`
	LastName    *string               `json:"last_name" form:"last_name" validate:"omitempty,max=50"`
	Gender      *string               `json:"gender" form:"gender" validate:"omitempty,oneof=male female"`
	BirthDate   *time.Time            `json:"birth_date" form:"birth_date" validate:"omitempty,past"`
	Photo       *multipart.FileHeader `json:"-" form:"photo" validate:"-"`
	RemovePhoto bool                  `json:"remove_photo" form:"remove_photo"`
}

func (s *PersonalSection) Normalize() {
	s.FirstName = strings.TrimSpace(s.FirstName)
	trimPtr(&s.LastName, false)
	trimPtr(&s.Gender, true)
}

// ParentPersonalSection is the parent variant of the personal step.
type ParentPersonalSection struct {
	FirstName   string                `json:"first_name" form:"first_name" validate:"required,min=1,max=50"`
	LastName    *string               `json:"last_name" form:"last_name" validate:"omitempty,max=50"`
	Photo       *multipart.FileHeader `json:"-" form:"photo" validate:"-"`
	RemovePhoto bool                  `json:"remove_photo" form:"remove_photo"`
}

func (s *ParentPersonalSection) Normalize() {
	s.FirstName = strings.TrimSpace(s.FirstName)
	trimPtr(&s.LastName, false)
}

type ContactSection struct {
	Email   *string `json:"email" form:"email" validate:"omitempty,email,max=255"`
	Phone   *string `json:"phone" form:"phone" validate:"omitempty,min=6,max=20"`
	Address *string `json:"address" form:"address" validate:"omitempty,max=500"`
}

func (s *ContactSection) Normalize() {
	trimPtr(&s.Email, true)
	trimPtr(&s.Phone, false)
	trimPtr(&s.Address, false)
}

// ParentContactSection requires a way to reach the parent.
type ParentContactSection struct {
	Email   *string `json:"email" form:"email" validate:"required_without=Phone,omitempty,email,max=255"`
	Phone   *string `json:"phone" form:"phone" validate:"required_without=Email,omitempty,min=6,max=20"`
	Address *string `json:"address" form:"address" validate:"omitempty,max=500"`
}

func (s *ParentContactSection) Normalize() {
	trimPtr(&s.Email, true)
	trimPtr(&s.Phone, false)
	trimPtr(&s.Address, false)
}

func trimPtr(p **string, lower bool) {
	if *p == nil {
		return
	}
	v := strings.TrimSpace(**p)
	if v == "" {
		*p = nil
		return
	}
	if lower {
		v = strings.ToLower(v)
	}
	*p = &v
}

func trimList(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		key := strings.ToLower(s)
		if s == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}
