// Package rbac holds the static role→permission table. The table is fixed at
// compile time; there are no per-user grants and nothing mutates it at
// runtime, so lookups need no locking.
package rbac

import "github.com/iliyamo/student-registry/internal/model"

type Permission string

const (
	PermViewStudents      Permission = "view_students"
	PermManageStudents    Permission = "manage_students"
	PermViewCourses       Permission = "view_courses"
	PermManageCourses     Permission = "manage_courses"
	PermViewEnrollments   Permission = "view_enrollments"
	PermManageEnrollments Permission = "manage_enrollments"
	PermManageUsers       Permission = "manage_users"
)

var rolePerms = map[model.Role]map[Permission]struct{}{
	model.RoleAdmin: permSet(
		PermViewStudents, PermManageStudents,
		PermViewCourses, PermManageCourses,
		PermViewEnrollments, PermManageEnrollments,
		PermManageUsers,
	),
	model.RoleStudent: permSet(
		PermViewStudents,
		PermViewCourses,
		PermViewEnrollments,
	),
}

func permSet(perms ...Permission) map[Permission]struct{} {
	s := make(map[Permission]struct{}, len(perms))
	for _, p := range perms {
		s[p] = struct{}{}
	}
	return s
}

// Has reports whether the role carries the permission. A role outside the
// table (which ParseRole prevents from ever being constructed) yields false.
func Has(role model.Role, p Permission) bool {
	perms, ok := rolePerms[role]
	if !ok {
		return false
	}
	_, ok = perms[p]
	return ok
}
