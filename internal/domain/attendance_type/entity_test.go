package attendance_type

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanAbsentRepair(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.False(t, PlanAbsentRepair(nil).Needed())
	})

	t.Run("exactly one absent", func(t *testing.T) {
		types := []AttendanceType{{ID: "a", Absent: true}, {ID: "b"}}
		assert.False(t, PlanAbsentRepair(types).Needed())
	})

	t.Run("none absent marks first", func(t *testing.T) {
		types := []AttendanceType{{ID: "a"}, {ID: "b"}}
		repair := PlanAbsentRepair(types)
		require.NotNil(t, repair.Set)
		assert.Equal(t, "a", repair.Set.ID)
		assert.Empty(t, repair.Clear)
	})

	t.Run("several absent keeps first", func(t *testing.T) {
		types := []AttendanceType{{ID: "a"}, {ID: "b", Absent: true}, {ID: "c", Absent: true}, {ID: "d", Absent: true}}
		repair := PlanAbsentRepair(types)
		assert.Nil(t, repair.Set)
		require.Len(t, repair.Clear, 2)
		assert.Equal(t, "c", repair.Clear[0].ID)
		assert.Equal(t, "d", repair.Clear[1].ID)
	})
}

func TestCreateAttendanceTypeRequest_Validate(t *testing.T) {
	req := CreateAttendanceTypeRequest{Name: "  "}
	assert.Error(t, req.Validate())

	req = CreateAttendanceTypeRequest{Name: "Office"}
	assert.NoError(t, req.Validate())
}
