package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"schoolku_backend/internals/features/school/people/model"
)

type EmploymentSection struct {
	EmployeeNumber string     `json:"employee_number" form:"employee_number" validate:"required,max=30"`
	DepartmentID   *uuid.UUID `json:"department_id" form:"department_id"`
	HireDate       *time.Time `json:"hire_date" form:"hire_date"`
	Qualification  *string    `json:"qualification" form:"qualification" validate:"omitempty,max=100"`
	Subjects       []string   `json:"subjects" form:"subjects" validate:"omitempty,max=20,dive,max=60"`
}

// TeacherForm is the multi-step teacher form: personal.*, contact.* and
// employment.*.
type TeacherForm struct {
	Personal   PersonalSection   `json:"personal" form:"personal"`
	Contact    ContactSection    `json:"contact" form:"contact"`
	Employment EmploymentSection `json:"employment" form:"employment"`
}

func (f *TeacherForm) Section(name string) (any, bool) {
	switch name {
	case "personal":
		return &f.Personal, true
	case "contact":
		return &f.Contact, true
	case "employment":
		return &f.Employment, true
	}
	return nil, false
}

func (f *TeacherForm) Normalize() {
	f.Personal.Normalize()
	f.Contact.Normalize()
	f.Employment.EmployeeNumber = strings.ToUpper(strings.TrimSpace(f.Employment.EmployeeNumber))
	trimPtr(&f.Employment.Qualification, false)
	f.Employment.Subjects = trimList(f.Employment.Subjects)
}

func (f TeacherForm) Apply(m *model.TeacherModel) {
	m.FirstName = f.Personal.FirstName
	m.LastName = f.Personal.LastName
	m.Gender = f.Personal.Gender
	m.BirthDate = f.Personal.BirthDate
	m.Email = f.Contact.Email
	m.Phone = f.Contact.Phone
	m.Address = f.Contact.Address
	m.EmployeeNumber = f.Employment.EmployeeNumber
	m.DepartmentID = f.Employment.DepartmentID
	m.HireDate = f.Employment.HireDate
	m.Qualification = f.Employment.Qualification
	m.Subjects = f.Employment.Subjects
	if m.Subjects == nil {
		m.Subjects = []string{}
	}
	if f.Personal.RemovePhoto {
		m.PhotoURL = nil
	}
}

func (f TeacherForm) ToModel(schoolID uuid.UUID) model.TeacherModel {
	m := model.TeacherModel{SchoolID: schoolID, IsActive: true}
	f.Apply(&m)
	return m
}

func FromTeacher(m model.TeacherModel) TeacherForm {
	return TeacherForm{
		Personal: PersonalSection{
			FirstName: m.FirstName,
			LastName:  m.LastName,
			Gender:    m.Gender,
			BirthDate: m.BirthDate,
		},
		Contact: ContactSection{Email: m.Email, Phone: m.Phone, Address: m.Address},
		Employment: EmploymentSection{
			EmployeeNumber: m.EmployeeNumber,
			DepartmentID:   m.DepartmentID,
			HireDate:       m.HireDate,
			Qualification:  m.Qualification,
			Subjects:       m.Subjects,
		},
	}
}
