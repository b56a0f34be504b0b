package dto

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolku_backend/internals/features/school/people/model"
	"schoolku_backend/internals/helpers/formbind"
)

func str(s string) *string { return &s }

func TestStudentFormBind(t *testing.T) {
	p1, p2 := uuid.New(), uuid.New()
	var f StudentForm
	require.NoError(t, formbind.Bind(map[string]any{
		"personal":   map[string]any{"first_name": " Aisha ", "gender": "FEMALE", "birth_date": "2012-04-01", "last_name": ""},
		"contact":    map[string]any{"email": " Aisha@Example.com "},
		"academic":   map[string]any{"student_number": " s-01 ", "grade_level": "6"},
		"parent_ids": p1.String() + ", " + p2.String(),
	}, &f))
	f.Normalize()

	school := uuid.New()
	m := f.ToModel(school)
	birth := time.Date(2012, 4, 1, 0, 0, 0, 0, time.UTC)
	want := model.StudentModel{
		SchoolID:      school,
		FirstName:     "Aisha",
		Gender:        str("female"),
		BirthDate:     &birth,
		Email:         str("aisha@example.com"),
		StudentNumber: "S-01",
		GradeLevel:    6,
		IsActive:      true,
	}
	require.NotNil(t, m.EnrollmentDate)
	m.EnrollmentDate = nil
	if diff := cmp.Diff(want, m); diff != "" {
		t.Errorf("ToModel mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []uuid.UUID{p1, p2}, f.ParentIDs)
}

func TestStudentPartialUpdate(t *testing.T) {
	parent := uuid.New()
	stored := model.StudentModel{
		FirstName:     "Aisha",
		PhotoURL:      str("https://cdn.test/a.webp"),
		Phone:         str("0812345678"),
		StudentNumber: "S-01",
		GradeLevel:    6,
	}

	f := FromStudent(stored, []uuid.UUID{parent})
	require.NoError(t, formbind.Bind(map[string]any{
		"academic": map[string]any{"grade_level": "7"},
		"contact":  map[string]any{"phone": ""},
	}, &f))
	f.Normalize()
	f.Apply(&stored)

	assert.Equal(t, 7, stored.GradeLevel)
	assert.Equal(t, "Aisha", stored.FirstName)
	assert.Nil(t, stored.Phone)
	assert.NotNil(t, stored.PhotoURL)
	assert.Equal(t, []uuid.UUID{parent}, f.ParentIDs)

	f.Personal.RemovePhoto = true
	f.Apply(&stored)
	assert.Nil(t, stored.PhotoURL)
}

func TestTeacherSubjects(t *testing.T) {
	var f TeacherForm
	require.NoError(t, formbind.Bind(map[string]any{
		"employment": map[string]any{"employee_number": "t-9", "subjects": "Math, physics,math,,Art"},
	}, &f))
	f.Normalize()
	m := f.ToModel(uuid.New())
	assert.Equal(t, []string{"Math", "physics", "Art"}, []string(m.Subjects))
	assert.Equal(t, "T-9", m.EmployeeNumber)

	empty := TeacherForm{}
	assert.NotNil(t, empty.ToModel(uuid.New()).Subjects)
}

func TestSections(t *testing.T) {
	forms := map[string]struct {
		form  interface{ Section(string) (any, bool) }
		steps []string
	}{
		"student": {&StudentForm{}, []string{"personal", "contact", "academic"}},
		"teacher": {&TeacherForm{}, []string{"personal", "contact", "employment"}},
		"parent":  {&ParentForm{}, []string{"personal", "contact", "relation"}},
	}
	for name, tc := range forms {
		for _, step := range tc.steps {
			s, ok := tc.form.Section(step)
			assert.True(t, ok, "%s/%s", name, step)
			assert.NotNil(t, s)
		}
		_, ok := tc.form.Section("billing")
		assert.False(t, ok, name)
	}
}
