package dto

import (
	"strings"

	"github.com/google/uuid"

	"schoolku_backend/internals/features/school/people/model"
)

type RelationSection struct {
	Relationship string      `json:"relationship" form:"relationship" validate:"required,oneof=father mother guardian other"`
	Occupation   *string     `json:"occupation" form:"occupation" validate:"omitempty,max=100"`
	StudentIDs   []uuid.UUID `json:"student_ids" form:"student_ids" validate:"omitempty,max=20,unique"`
}

// ParentForm is the multi-step parent form: personal.*, contact.* and
// relation.*.
type ParentForm struct {
	Personal ParentPersonalSection `json:"personal" form:"personal"`
	Contact  ParentContactSection  `json:"contact" form:"contact"`
	Relation RelationSection       `json:"relation" form:"relation"`
}

func (f *ParentForm) Section(name string) (any, bool) {
	switch name {
	case "personal":
		return &f.Personal, true
	case "contact":
		return &f.Contact, true
	case "relation":
		return &f.Relation, true
	}
	return nil, false
}

func (f *ParentForm) Normalize() {
	f.Personal.Normalize()
	f.Contact.Normalize()
	f.Relation.Relationship = strings.ToLower(strings.TrimSpace(f.Relation.Relationship))
	trimPtr(&f.Relation.Occupation, false)
}

func (f ParentForm) Apply(m *model.ParentModel) {
	m.FirstName = f.Personal.FirstName
	m.LastName = f.Personal.LastName
	m.Email = f.Contact.Email
	m.Phone = f.Contact.Phone
	m.Address = f.Contact.Address
	m.Relationship = f.Relation.Relationship
	m.Occupation = f.Relation.Occupation
	if f.Personal.RemovePhoto {
		m.PhotoURL = nil
	}
}

func (f ParentForm) ToModel(schoolID uuid.UUID) model.ParentModel {
	m := model.ParentModel{SchoolID: schoolID}
	f.Apply(&m)
	return m
}

func FromParent(m model.ParentModel, studentIDs []uuid.UUID) ParentForm {
	return ParentForm{
		Personal: ParentPersonalSection{FirstName: m.FirstName, LastName: m.LastName},
		Contact:  ParentContactSection{Email: m.Email, Phone: m.Phone, Address: m.Address},
		Relation: RelationSection{
			Relationship: m.Relationship,
			Occupation:   m.Occupation,
			StudentIDs:   studentIDs,
		},
	}
}

type ParentResponse struct {
	model.ParentModel
	StudentIDs []uuid.UUID `json:"student_ids"`
}
