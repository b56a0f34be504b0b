package constants

import "fmt"

const (
	RoleOwner   = "owner"
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
	RoleParent  = "parent"
	RoleStudent = "student"
	RoleUser    = "user"
)

const (
	ErrOnlyAdminsCanAccess = "Only school admins or owners can manage %s"
	ErrOnlyOwnersCanAccess = "Only the school owner can manage %s"
)

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

func RoleErrorOwner(feature string) string {
	return fmt.Sprintf(ErrOnlyOwnersCanAccess, feature)
}

var (
	// SchoolManagers may use the /api/a surface.
	SchoolManagers = []string{
		RoleOwner,
		RoleAdmin,
	}

	// RegistrationRoles are granted to the account that registers a school.
	RegistrationRoles = []string{
		RoleOwner,
		RoleAdmin,
	}
)
