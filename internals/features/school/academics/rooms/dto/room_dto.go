package dto

import (
	"strings"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	model "schoolku_backend/internals/features/school/academics/rooms/model"
)

// RoomForm is accepted as JSON ({"room":{...},"location":{...}}) or as a
// form with room.* and location.* keys.
type RoomForm struct {
	Room     RoomSection     `json:"room" form:"room"`
	Location LocationSection `json:"location" form:"location"`
	Features []string        `json:"features" form:"features" validate:"omitempty,max=30,dive,min=1,max=50"`
}

type RoomSection struct {
	Name      string  `json:"name" form:"name" validate:"required,min=2,max=100"`
	Code      *string `json:"code" form:"code" validate:"omitempty,max=50"`
	Capacity  *int    `json:"capacity" form:"capacity" validate:"omitempty,min=0,max=100000"`
	IsVirtual bool    `json:"is_virtual" form:"is_virtual"`
	IsActive  *bool   `json:"is_active" form:"is_active"`
}

type LocationSection struct {
	Building *string `json:"building" form:"building" validate:"omitempty,max=100"`
	Floor    *int    `json:"floor" form:"floor" validate:"omitempty,min=-10,max=200"`
}

func (f *RoomForm) Section(name string) (any, bool) {
	switch name {
	case "room":
		return &f.Room, true
	case "location":
		return &f.Location, true
	}
	return nil, false
}

func trimPtr(p **string) {
	if *p == nil {
		return
	}
	v := strings.TrimSpace(**p)
	if v == "" {
		*p = nil
		return
	}
	*p = &v
}

func (f *RoomForm) Normalize() {
	f.Room.Name = strings.TrimSpace(f.Room.Name)
	trimPtr(&f.Room.Code)
	trimPtr(&f.Location.Building)
	features := make([]string, 0, len(f.Features))
	seen := map[string]bool{}
	for _, s := range f.Features {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		features = append(features, s)
	}
	f.Features = features
}

// Apply writes the form into m. Virtual rooms carry no physical location.
func (f RoomForm) Apply(m *model.RoomModel) {
	m.Name = f.Room.Name
	m.Code = f.Room.Code
	m.Capacity = f.Room.Capacity
	m.IsVirtual = f.Room.IsVirtual
	if f.Room.IsActive != nil {
		m.IsActive = *f.Room.IsActive
	}
	m.Building = f.Location.Building
	m.Floor = f.Location.Floor
	if m.IsVirtual {
		m.Building, m.Floor = nil, nil
	}
	features := f.Features
	if features == nil {
		features = []string{}
	}
	raw, _ := sonic.Marshal(features)
	m.Features = datatypes.JSON(raw)
}

func (f RoomForm) ToModel(schoolID uuid.UUID) model.RoomModel {
	m := model.RoomModel{SchoolID: schoolID, IsActive: true}
	f.Apply(&m)
	return m
}

// FromRoom pre-fills a form from a stored row. Binding a partial body on top
// of it leaves absent fields unchanged.
func FromRoom(m model.RoomModel) RoomForm {
	active := m.IsActive
	f := RoomForm{
		Room: RoomSection{
			Name:      m.Name,
			Code:      m.Code,
			Capacity:  m.Capacity,
			IsVirtual: m.IsVirtual,
			IsActive:  &active,
		},
		Location: LocationSection{Building: m.Building, Floor: m.Floor},
	}
	if len(m.Features) > 0 {
		_ = sonic.Unmarshal(m.Features, &f.Features)
	}
	return f
}
