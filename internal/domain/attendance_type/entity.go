package attendance_type

import "time"

// AttendanceType is a lane of the attendance kanban board. Exactly one type
// carries Absent and represents employees that are not checked in.
type AttendanceType struct {
	ID        string
	Name      string
	Sequence  int
	Absent    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Defaults are seeded when no attendance type exists yet.
var Defaults = []AttendanceType{
	{Name: "Absent", Sequence: 0, Absent: true},
	{Name: "Office", Sequence: 1},
	{Name: "Home", Sequence: 2},
}

// AbsentRepair describes the change needed to restore the single absent
// type invariant on an ordered list of types. Set holds the type that must
// carry the flag, Clear the types that must lose it.
type AbsentRepair struct {
	Set   *AttendanceType
	Clear []AttendanceType
}

// Needed reports whether the repair changes anything.
func (r AbsentRepair) Needed() bool {
	return r.Set != nil || len(r.Clear) > 0
}

// PlanAbsentRepair keeps the flag on the first absent type in order. When no
// type is absent the first type becomes absent. types must be ordered by
// sequence, id.
func PlanAbsentRepair(types []AttendanceType) AbsentRepair {
	var repair AbsentRepair
	if len(types) == 0 {
		return repair
	}

	kept := false
	for _, t := range types {
		if !t.Absent {
			continue
		}
		if !kept {
			kept = true
			continue
		}
		repair.Clear = append(repair.Clear, t)
	}

	if !kept {
		first := types[0]
		repair.Set = &first
	}
	return repair
}
