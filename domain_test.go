package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoomKindString(t *testing.T) {
	assert.Equal(t, "hall", RoomKindHall.String())
	assert.Equal(t, "lab", RoomKindLab.String())
}

func TestHallAndLabImplementRoom(t *testing.T) {
	var _ Room = (*Hall)(nil)
	var _ Room = (*Lab)(nil)

	h := &Hall{ID: 1, Name: "H1", Capacity: 30, Availability: []TimeSlot{{Day: Sunday, StartHour: 9, EndHour: 11}}}
	assert.Equal(t, RoomKindHall, h.Kind())
	assert.Equal(t, 30, h.RoomCapacity())

	l := &Lab{ID: 1, Name: "L407", Capacity: 20, LabType: LabTypeSpecialist}
	assert.Equal(t, RoomKindLab, l.Kind())
}

func TestRoomKeyDistinguishesHallAndLabWithSameID(t *testing.T) {
	h := &Hall{ID: 5, Name: "H5"}
	l := &Lab{ID: 5, Name: "L5"}
	assert.NotEqual(t, roomKeyOf(h), roomKeyOf(l))
}

func TestValidateDegreeLecturerRange(t *testing.T) {
	good := NewLecturer(1, "A", "CS", nil, AcademicDegree{ID: 2, Name: "PhD"}, true)
	require.NoError(t, ValidateDegree(good))

	bad := NewLecturer(1, "A", "CS", nil, AcademicDegree{ID: 5, Name: "Bad"}, true)
	err := ValidateDegree(bad)
	require.Error(t, err)
	var inputErr *InputError
	require.ErrorAs(t, err, &inputErr)
}

func TestValidateDegreeTARange(t *testing.T) {
	good := NewTeachingAssistant(1, "B", "CS", nil, AcademicDegree{ID: 4, Name: "MSc"}, false)
	require.NoError(t, ValidateDegree(good))

	bad := NewTeachingAssistant(1, "B", "CS", nil, AcademicDegree{ID: 1, Name: "PhD"}, false)
	require.Error(t, ValidateDegree(bad))
}

func TestStaffCommonAccessors(t *testing.T) {
	timing := []TimeSlot{{Day: Sunday, StartHour: 9, EndHour: 11}}
	lec := NewLecturer(7, "Dr. Smith", "Math", timing, AcademicDegree{ID: 1, Name: "Professor"}, true)
	assert.Equal(t, 7, lec.StaffID())
	assert.Equal(t, "Dr. Smith", lec.StaffName())
	assert.Equal(t, "Math", lec.StaffDepartment())
	assert.Equal(t, timing, lec.TimingPreferences())
	assert.True(t, lec.Permanent())
}
