package controller

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"schoolku_backend/internals/features/school/people/model"
)

// refError reports ids that do not exist in the current school.
type refError struct {
	Field string
}

func (e *refError) Error() string { return fmt.Sprintf("%s: unknown id", e.Field) }

var errDuplicateNumber = errors.New("number already used in this school")

type tableRef struct {
	Table, ID, School, DeletedAt string
}

var (
	studentsRef    = tableRef{"students", "student_id", "student_school_id", "student_deleted_at"}
	teachersRef    = tableRef{"teachers", "teacher_id", "teacher_school_id", "teacher_deleted_at"}
	parentsRef     = tableRef{"parents", "parent_id", "parent_school_id", "parent_deleted_at"}
	departmentsRef = tableRef{"departments", "department_id", "department_school_id", "department_deleted_at"}
)

// live selects the rows of schoolID that are not soft-deleted.
func (r tableRef) live(tx *gorm.DB, schoolID uuid.UUID) *gorm.DB {
	return tx.Table(r.Table).Where(r.School+" = ? AND "+r.DeletedAt+" IS NULL", schoolID)
}

// ensureIDs checks that every id names a live row of ref in schoolID.
func ensureIDs(tx *gorm.DB, ref tableRef, schoolID uuid.UUID, ids []uuid.UUID, field string) error {
	if len(ids) == 0 {
		return nil
	}
	var n int64
	err := ref.live(tx, schoolID).
		Where(ref.ID+" IN ?", ids).
		Count(&n).Error
	if err != nil {
		return err
	}
	if int(n) != len(ids) {
		return &refError{Field: field}
	}
	return nil
}

func parentIDsOf(tx *gorm.DB, studentID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := tx.Model(&model.StudentParentModel{}).
		Where("student_parent_student_id = ?", studentID).
		Order("student_parent_created_at").
		Pluck("student_parent_parent_id", &ids).Error
	return ids, err
}

func studentIDsOf(tx *gorm.DB, parentID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := tx.Model(&model.StudentParentModel{}).
		Where("student_parent_parent_id = ?", parentID).
		Order("student_parent_created_at").
		Pluck("student_parent_student_id", &ids).Error
	return ids, err
}

func linkRows(schoolID uuid.UUID, studentIDs, parentIDs []uuid.UUID) []model.StudentParentModel {
	rows := make([]model.StudentParentModel, 0, len(studentIDs)*len(parentIDs))
	for _, s := range studentIDs {
		for _, p := range parentIDs {
			rows = append(rows, model.StudentParentModel{StudentID: s, ParentID: p, SchoolID: schoolID})
		}
	}
	return rows
}

// setStudentParents replaces the parents linked to studentID.
func setStudentParents(tx *gorm.DB, schoolID, studentID uuid.UUID, parentIDs []uuid.UUID) error {
	if err := tx.Where("student_parent_student_id = ?", studentID).
		Delete(&model.StudentParentModel{}).Error; err != nil {
		return err
	}
	rows := linkRows(schoolID, []uuid.UUID{studentID}, parentIDs)
	if len(rows) == 0 {
		return nil
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

// setParentStudents replaces the students linked to parentID.
func setParentStudents(tx *gorm.DB, schoolID, parentID uuid.UUID, studentIDs []uuid.UUID) error {
	if err := tx.Where("student_parent_parent_id = ?", parentID).
		Delete(&model.StudentParentModel{}).Error; err != nil {
		return err
	}
	rows := linkRows(schoolID, studentIDs, []uuid.UUID{parentID})
	if len(rows) == 0 {
		return nil
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

// ensureUniqueNumber rejects a student or employee number already held by
// another live row of the school.
func ensureUniqueNumber(tx *gorm.DB, ref tableRef, col string, schoolID uuid.UUID, number string, self *uuid.UUID) error {
	q := ref.live(tx, schoolID).Where("LOWER("+col+") = LOWER(?)", number)
	if self != nil {
		q = q.Where(ref.ID+" <> ?", *self)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return errDuplicateNumber
	}
	return nil
}
