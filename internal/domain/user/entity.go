package user

import (
	"context"
	"time"
)

type Role string

const (
	RoleEmployee Role = "employee" // Manages own attendance only
	RoleOfficer  Role = "officer"  // Attendance officer - manages everyone's attendance
	RoleManager  Role = "manager"  // Officer + attendance types and employees
)

// ValidRoles lists the accepted role values.
var ValidRoles = []string{string(RoleEmployee), string(RoleOfficer), string(RoleManager)}

type User struct {
	ID           string
	Email        string
	PasswordHash *string
	Role         Role
	EmployeeID   *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsOfficer checks if user is an attendance officer or manager
func (u *User) IsOfficer() bool {
	return u.Role == RoleOfficer || u.Role == RoleManager
}

// Actor is the authenticated caller of a service operation.
type Actor struct {
	UserID     string
	Email      string
	EmployeeID *string
	Role       Role
}

// CanManageAttendanceOf reports whether the actor may change attendances of
// the given employee. Officers may act on everyone, other users only on the
// employee linked to their account.
func (a Actor) CanManageAttendanceOf(employeeID string) bool {
	if HasPermission(a.Role, PermissionAttendanceManageAll) {
		return true
	}
	return a.EmployeeID != nil && *a.EmployeeID == employeeID
}

type actorKey struct{}

// WithActor stores the actor on the context.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext returns the actor stored by WithActor.
func ActorFromContext(ctx context.Context) (Actor, error) {
	actor, ok := ctx.Value(actorKey{}).(Actor)
	if !ok || actor.UserID == "" {
		return Actor{}, ErrActorMissing
	}
	return actor, nil
}
