package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"schoolku_backend/internals/features/school/people/model"
)

type AcademicSection struct {
	StudentNumber  string     `json:"student_number" form:"student_number" validate:"required,max=30"`
	GradeLevel     int        `json:"grade_level" form:"grade_level" validate:"required,min=1,max=12"`
	DepartmentID   *uuid.UUID `json:"department_id" form:"department_id"`
	EnrollmentDate *time.Time `json:"enrollment_date" form:"enrollment_date"`
}

// StudentForm is the multi-step student form: personal.*, contact.*,
// academic.* and a comma separated parent_ids list.
type StudentForm struct {
	Personal  PersonalSection `json:"personal" form:"personal"`
	Contact   ContactSection  `json:"contact" form:"contact"`
	Academic  AcademicSection `json:"academic" form:"academic"`
	ParentIDs []uuid.UUID     `json:"parent_ids" form:"parent_ids" validate:"omitempty,max=4,unique"`
}

func (f *StudentForm) Section(name string) (any, bool) {
	switch name {
	case "personal":
		return &f.Personal, true
	case "contact":
		return &f.Contact, true
	case "academic":
		return &f.Academic, true
	}
	return nil, false
}

func (f *StudentForm) Normalize() {
	f.Personal.Normalize()
	f.Contact.Normalize()
	f.Academic.StudentNumber = strings.ToUpper(strings.TrimSpace(f.Academic.StudentNumber))
}

func (f StudentForm) Apply(m *model.StudentModel) {
	m.FirstName = f.Personal.FirstName
	m.LastName = f.Personal.LastName
	m.Gender = f.Personal.Gender
	m.BirthDate = f.Personal.BirthDate
	m.Email = f.Contact.Email
	m.Phone = f.Contact.Phone
	m.Address = f.Contact.Address
	m.StudentNumber = f.Academic.StudentNumber
	m.GradeLevel = f.Academic.GradeLevel
	m.DepartmentID = f.Academic.DepartmentID
	m.EnrollmentDate = f.Academic.EnrollmentDate
	if f.Personal.RemovePhoto {
		m.PhotoURL = nil
	}
}

func (f StudentForm) ToModel(schoolID uuid.UUID) model.StudentModel {
	m := model.StudentModel{SchoolID: schoolID, IsActive: true}
	f.Apply(&m)
	if m.EnrollmentDate == nil {
		today := time.Now().UTC().Truncate(24 * time.Hour)
		m.EnrollmentDate = &today
	}
	return m
}

// FromStudent pre-fills the form from a stored row for partial updates.
func FromStudent(m model.StudentModel, parentIDs []uuid.UUID) StudentForm {
	return StudentForm{
		Personal: PersonalSection{
			FirstName: m.FirstName,
			LastName:  m.LastName,
			Gender:    m.Gender,
			BirthDate: m.BirthDate,
		},
		Contact: ContactSection{Email: m.Email, Phone: m.Phone, Address: m.Address},
		Academic: AcademicSection{
			StudentNumber:  m.StudentNumber,
			GradeLevel:     m.GradeLevel,
			DepartmentID:   m.DepartmentID,
			EnrollmentDate: m.EnrollmentDate,
		},
		ParentIDs: parentIDs,
	}
}

type StudentResponse struct {
	model.StudentModel
	ParentIDs []uuid.UUID `json:"parent_ids"`
}
