package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasPermission(t *testing.T) {
	assert.True(t, HasPermission(RoleManager, PermissionAttendanceTypeManage))
	assert.False(t, HasPermission(RoleOfficer, PermissionAttendanceTypeManage))
	assert.True(t, HasPermission(RoleOfficer, PermissionAttendanceManageAll))
	assert.False(t, HasPermission(RoleEmployee, PermissionAttendanceManageAll))
	assert.False(t, HasPermission(Role("ghost"), PermissionAttendanceOwn))
}

func TestActor_CanManageAttendanceOf(t *testing.T) {
	own := "emp-1"

	employee := Actor{UserID: "u1", Role: RoleEmployee, EmployeeID: &own}
	assert.True(t, employee.CanManageAttendanceOf("emp-1"))
	assert.False(t, employee.CanManageAttendanceOf("emp-2"))

	noEmployee := Actor{UserID: "u2", Role: RoleEmployee}
	assert.False(t, noEmployee.CanManageAttendanceOf("emp-1"))

	officer := Actor{UserID: "u3", Role: RoleOfficer}
	assert.True(t, officer.CanManageAttendanceOf("emp-2"))
}

func TestActorFromContext(t *testing.T) {
	_, err := ActorFromContext(context.Background())
	assert.ErrorIs(t, err, ErrActorMissing)

	ctx := WithActor(context.Background(), Actor{UserID: "u1", Role: RoleManager})
	actor, err := ActorFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "u1", actor.UserID)
	assert.Equal(t, RoleManager, actor.Role)
}

func TestRequirePermission(t *testing.T) {
	_, err := RequirePermission(context.Background(), PermissionEmployeeView)
	assert.ErrorIs(t, err, ErrActorMissing)

	employeeCtx := WithActor(context.Background(), Actor{UserID: "u1", Role: RoleEmployee})
	_, err = RequirePermission(employeeCtx, PermissionAttendanceManageAll)
	assert.ErrorIs(t, err, ErrOfficerAccessRequired)

	officerCtx := WithActor(context.Background(), Actor{UserID: "u2", Role: RoleOfficer})
	actor, err := RequirePermission(officerCtx, PermissionAttendanceManageAll)
	require.NoError(t, err)
	assert.Equal(t, "u2", actor.UserID)

	_, err = RequirePermission(officerCtx, PermissionAttendanceTypeManage)
	assert.ErrorIs(t, err, ErrManagerAccessRequired)
}
