package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildPlan(name, academicList string, level, expectedStudents int, cas ...CourseAssignment) StudyPlan {
	return StudyPlan{Name: name, AcademicList: academicList, AcademicLevel: level, ExpectedStudents: expectedStudents, CourseAssignments: cas}
}

// TestTrivialSingleCourse is end-to-end scenario 1.
func TestTrivialSingleCourse(t *testing.T) {
	cfg := DefaultConfig()
	slot := TimeSlot{Day: Sunday, StartHour: 9, EndHour: 11}
	lec := NewLecturer(1, "Dr. A", "CS", []TimeSlot{slot}, AcademicDegree{ID: 1}, true)
	hall := sampleHall(1, 30, []TimeSlot{slot})

	plan := buildPlan("Plan1", "SWE", 1, 20, CourseAssignment{
		Course:        Course{ID: 1, Code: "CS101"},
		LectureGroups: 1,
		Lecturers:     []StaffPortion{{Staff: lec, NumOfGroups: 1}},
	})

	rm := NewResourceManager(cfg, []*Hall{hall}, nil)
	cm := NewConstraintManager(cfg, nil)
	engine := NewSchedulingEngine(cfg, rm, cm, nil)

	result, err := engine.Run([]StudyPlan{plan})
	require.NoError(t, err)
	require.Len(t, result.Assignments, 1)

	for _, a := range result.Assignments {
		assert.Equal(t, Sunday, a.TimeSlot.Day)
		assert.Equal(t, 9, a.TimeSlot.StartHour)
		assert.Equal(t, 1, a.Room.RoomID())
	}
}

// TestParallelGroups is end-to-end scenario 2.
func TestParallelGroups(t *testing.T) {
	cfg := DefaultConfig()
	slot := TimeSlot{Day: Sunday, StartHour: 9, EndHour: 11}
	lec1 := NewLecturer(1, "A", "CS", []TimeSlot{slot}, AcademicDegree{ID: 1}, true)
	lec2 := NewLecturer(2, "B", "CS", []TimeSlot{slot}, AcademicDegree{ID: 1}, true)
	hall1 := sampleHall(1, 30, []TimeSlot{slot})
	hall2 := sampleHall(2, 30, []TimeSlot{slot})

	plan := buildPlan("Plan1", "SWE", 1, 40, CourseAssignment{
		Course:        Course{ID: 1, Code: "CS101"},
		LectureGroups: 2,
		Lecturers: []StaffPortion{
			{Staff: lec1, NumOfGroups: 1},
			{Staff: lec2, NumOfGroups: 1},
		},
	})

	rm := NewResourceManager(cfg, []*Hall{hall1, hall2}, nil)
	cm := NewConstraintManager(cfg, nil)
	engine := NewSchedulingEngine(cfg, rm, cm, nil)

	result, err := engine.Run([]StudyPlan{plan})
	require.NoError(t, err)
	require.Len(t, result.Assignments, 2)

	rooms := map[int]bool{}
	for _, a := range result.Assignments {
		assert.Equal(t, 9, a.TimeSlot.StartHour)
		rooms[a.Room.RoomID()] = true
	}
	assert.Len(t, rooms, 2, "both groups must land in different halls")
}

// TestMonday1300NeverScheduled is end-to-end scenario 6.
func TestMonday1300NeverScheduled(t *testing.T) {
	cfg := DefaultConfig()
	// Lecturer claims a (bogus, excluded) Monday 13:00 preference alongside a legitimate one.
	lec := NewLecturer(1, "A", "CS", []TimeSlot{{Day: Monday, StartHour: 13, EndHour: 15}, {Day: Sunday, StartHour: 9, EndHour: 11}}, AcademicDegree{ID: 1}, true)
	hall := sampleHall(1, 30, FullAvailability(cfg))

	plan := buildPlan("Plan1", "SWE", 1, 20, CourseAssignment{
		Course:        Course{ID: 1, Code: "CS101"},
		LectureGroups: 1,
		Lecturers:     []StaffPortion{{Staff: lec, NumOfGroups: 1}},
	})

	rm := NewResourceManager(cfg, []*Hall{hall}, nil)
	cm := NewConstraintManager(cfg, nil)
	engine := NewSchedulingEngine(cfg, rm, cm, nil)

	result, err := engine.Run([]StudyPlan{plan})
	require.NoError(t, err)
	for _, a := range result.Assignments {
		assert.False(t, a.TimeSlot.Day == Monday && a.TimeSlot.StartHour == 13, "Monday 13:00 must never be scheduled")
	}
}

func TestExpandBlocksGeneratesLectureAndLabBlocks(t *testing.T) {
	lec := NewLecturer(1, "A", "CS", nil, AcademicDegree{ID: 1}, true)
	ta := NewTeachingAssistant(2, "B", "CS", nil, AcademicDegree{ID: 4}, false)

	plan := buildPlan("Plan1", "SWE", 1, 40, CourseAssignment{
		Course:             Course{ID: 1, Code: "CS101"},
		LectureGroups:      1,
		Lecturers:          []StaffPortion{{Staff: lec, NumOfGroups: 1}},
		LabGroups:          1,
		TeachingAssistants: []StaffPortion{{Staff: ta, NumOfGroups: 1}},
		PracticalInLab:     true,
	})

	blocks := ExpandBlocks([]StudyPlan{plan})
	require.Len(t, blocks, 2)

	var lecture, lab *Block
	for _, b := range blocks {
		if b.Type == BlockLecture {
			lecture = b
		} else {
			lab = b
		}
	}
	require.NotNil(t, lecture)
	require.NotNil(t, lab)
	assert.Equal(t, RoomKindHall, lecture.RequiredRoomKind)
	assert.Equal(t, RoomKindLab, lab.RequiredRoomKind)
	assert.True(t, lecture.IsSingleGroupCourse)
}

func TestExpandBlocksNonLabPracticalUsesHall(t *testing.T) {
	ta := NewTeachingAssistant(2, "B", "CS", nil, AcademicDegree{ID: 4}, false)
	plan := buildPlan("Plan1", "SWE", 1, 40, CourseAssignment{
		Course:             Course{ID: 1, Code: "CS101"},
		LectureGroups:      0,
		LabGroups:          1,
		TeachingAssistants: []StaffPortion{{Staff: ta, NumOfGroups: 1}},
		PracticalInLab:     false,
	})

	blocks := ExpandBlocks([]StudyPlan{plan})
	require.Len(t, blocks, 1)
	assert.Equal(t, RoomKindHall, blocks[0].RequiredRoomKind)
}
