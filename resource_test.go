package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCandidateRoomsPicksTightestCapacityFit is end-to-end scenario 5.
func TestCandidateRoomsPicksTightestCapacityFit(t *testing.T) {
	cfg := DefaultConfig()
	slot := TimeSlot{Day: Sunday, StartHour: 9, EndHour: 11}
	small := sampleHall(1, 30, []TimeSlot{slot})
	big := sampleHall(2, 100, []TimeSlot{slot})
	rm := NewResourceManager(cfg, []*Hall{small, big}, nil)

	b := &Block{RequiredRoomKind: RoomKindHall, StudentCount: 25}
	rooms := rm.CandidateRooms(b)
	require.NotEmpty(t, rooms)
	assert.Equal(t, 30, rooms[0].RoomCapacity(), "tightest-fit room must be chosen first")
}

// TestCandidateRoomsRespectsPreferredRooms is end-to-end scenario 4.
func TestCandidateRoomsRespectsPreferredRooms(t *testing.T) {
	cfg := DefaultConfig()
	l407 := &Lab{ID: 407, Name: "L407", Capacity: 20, LabType: LabTypeSpecialist, Availability: []TimeSlot{{Day: Monday, StartHour: 11, EndHour: 13}}}
	l401 := &Lab{ID: 401, Name: "L401", Capacity: 20, LabType: LabTypeGeneral, UsedInNonSpecialistCourses: true, Availability: []TimeSlot{{Day: Sunday, StartHour: 9, EndHour: 11}}}
	rm := NewResourceManager(cfg, nil, []*Lab{l401, l407})

	b := &Block{RequiredRoomKind: RoomKindLab, StudentCount: 15, PreferredRooms: []Room{l407}}
	rooms := rm.CandidateRooms(b)
	require.Len(t, rooms, 1)
	assert.Equal(t, 407, rooms[0].RoomID())

	slots := rm.CandidateSlots(b, rooms[0], map[string]*Assignment{})
	require.Len(t, slots, 1)
	assert.Equal(t, Monday, slots[0].Day)
	assert.Equal(t, 11, slots[0].StartHour)
}

func TestCandidateSlotsExcludesAlreadyBookedRoomSlots(t *testing.T) {
	cfg := DefaultConfig()
	slot := TimeSlot{Day: Sunday, StartHour: 9, EndHour: 11}
	room := sampleHall(1, 30, []TimeSlot{slot, {Day: Sunday, StartHour: 11, EndHour: 13}})
	rm := NewResourceManager(cfg, []*Hall{room}, nil)

	lec := NewLecturer(1, "A", "CS", []TimeSlot{slot, {Day: Sunday, StartHour: 11, EndHour: 13}}, AcademicDegree{ID: 1}, true)
	b := &Block{RequiredRoomKind: RoomKindHall, StudentCount: 20, Staff: lec}

	existing := &Block{ID: "other"}
	live := map[string]*Assignment{
		"other": {Block: existing, TimeSlot: slot, Room: room},
	}
	slots := rm.CandidateSlots(b, room, live)
	for _, s := range slots {
		assert.NotEqual(t, 9, s.StartHour, "already-booked room slot must not reappear as a candidate")
	}
}

func TestCandidateSlotsStrictlyIntersectsLecturerPreferences(t *testing.T) {
	cfg := DefaultConfig()
	avail := []TimeSlot{{Day: Sunday, StartHour: 9, EndHour: 11}, {Day: Sunday, StartHour: 11, EndHour: 13}}
	room := sampleHall(1, 30, avail)
	rm := NewResourceManager(cfg, []*Hall{room}, nil)

	lec := NewLecturer(1, "A", "CS", []TimeSlot{{Day: Sunday, StartHour: 9, EndHour: 11}}, AcademicDegree{ID: 1}, true)
	b := &Block{RequiredRoomKind: RoomKindHall, StudentCount: 20, Staff: lec}

	slots := rm.CandidateSlots(b, room, map[string]*Assignment{})
	require.Len(t, slots, 1)
	assert.Equal(t, 9, slots[0].StartHour)
}

func TestMinRoomsHintCountsDisjointPreferredRoomsSeparately(t *testing.T) {
	cfg := DefaultConfig()
	l1 := &Lab{ID: 1, Name: "L1", Capacity: 20, LabType: LabTypeSpecialist}
	l2 := &Lab{ID: 2, Name: "L2", Capacity: 20, LabType: LabTypeSpecialist}
	rm := NewResourceManager(cfg, nil, []*Lab{l1, l2})

	lec := NewLecturer(1, "A", "CS", nil, AcademicDegree{ID: 1}, true)
	ta := NewTeachingAssistant(2, "B", "CS", nil, AcademicDegree{ID: 4}, true)

	// staff 1's two blocks both accept either lab: one room suffices.
	shared1 := &Block{Staff: lec, RequiredRoomKind: RoomKindLab, StudentCount: 15, PreferredRooms: []Room{l1, l2}}
	shared2 := &Block{Staff: lec, RequiredRoomKind: RoomKindLab, StudentCount: 15, PreferredRooms: []Room{l1, l2}}

	// staff 2's two blocks have disjoint preferred rooms: two rooms are needed.
	disjoint1 := &Block{Staff: ta, RequiredRoomKind: RoomKindLab, StudentCount: 15, PreferredRooms: []Room{l1}}
	disjoint2 := &Block{Staff: ta, RequiredRoomKind: RoomKindLab, StudentCount: 15, PreferredRooms: []Room{l2}}

	hints := rm.MinRoomsHint([]*Block{shared1, shared2, disjoint1, disjoint2})
	assert.Equal(t, 1, hints[1])
	assert.Equal(t, 2, hints[2])
}

func TestCandidateSlotsSoftSortsTAPreferences(t *testing.T) {
	cfg := DefaultConfig()
	avail := []TimeSlot{{Day: Sunday, StartHour: 9, EndHour: 11}, {Day: Sunday, StartHour: 11, EndHour: 13}}
	room := sampleHall(1, 30, avail)
	rm := NewResourceManager(cfg, []*Hall{room}, nil)

	ta := NewTeachingAssistant(1, "T", "CS", []TimeSlot{{Day: Sunday, StartHour: 11, EndHour: 13}}, AcademicDegree{ID: 4}, false)
	b := &Block{RequiredRoomKind: RoomKindHall, StudentCount: 20, Staff: ta}

	slots := rm.CandidateSlots(b, room, map[string]*Assignment{})
	require.Len(t, slots, 2)
	assert.Equal(t, 11, slots[0].StartHour, "preferred slot should sort first but non-preferred slots are not dropped")
}
