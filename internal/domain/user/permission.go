package user

import "context"

type Permission string

const (
	// Attendance
	PermissionAttendanceOwn       Permission = "attendance.own"
	PermissionAttendanceManageAll Permission = "attendance.manage_all"

	// Attendance types (kanban lanes)
	PermissionAttendanceTypeView   Permission = "attendance_type.view"
	PermissionAttendanceTypeManage Permission = "attendance_type.manage"

	// Employees
	PermissionEmployeeView   Permission = "employee.view"
	PermissionEmployeeManage Permission = "employee.manage"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleManager: {
		PermissionAttendanceOwn,
		PermissionAttendanceManageAll,
		PermissionAttendanceTypeView,
		PermissionAttendanceTypeManage,
		PermissionEmployeeView,
		PermissionEmployeeManage,
	},
	RoleOfficer: {
		PermissionAttendanceOwn,
		PermissionAttendanceManageAll,
		PermissionAttendanceTypeView,
		PermissionEmployeeView,
	},
	RoleEmployee: {
		PermissionAttendanceOwn,
		PermissionAttendanceTypeView,
		PermissionEmployeeView,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}

// RequirePermission returns the actor stored on ctx when its role grants
// permission.
func RequirePermission(ctx context.Context, permission Permission) (Actor, error) {
	actor, err := ActorFromContext(ctx)
	if err != nil {
		return Actor{}, err
	}
	if HasPermission(actor.Role, permission) {
		return actor, nil
	}

	switch permission {
	case PermissionAttendanceManageAll:
		return Actor{}, ErrOfficerAccessRequired
	case PermissionAttendanceTypeManage, PermissionEmployeeManage:
		return Actor{}, ErrManagerAccessRequired
	}
	return Actor{}, ErrPermissionDenied
}
